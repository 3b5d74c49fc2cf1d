package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/otk-tools/otk/internal/router"
)

// ReadyTool handles the otk_ready MCP tool. It flips a plan to ready
// status so the orchestrator promotes it to a spec.
type ReadyTool struct {
	deps *Deps
}

// NewReadyTool creates a ReadyTool over the shared dependencies.
func NewReadyTool(deps *Deps) *ReadyTool {
	return &ReadyTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *ReadyTool) Definition() mcp.Tool {
	return mcp.NewTool("otk_ready",
		mcp.WithDescription(
			"Mark a PLAN as ready. The orchestrator promotes ready plans "+
				"to SPECs on its next pass.",
		),
		mcp.WithString("plan",
			mcp.Required(),
			mcp.Description("PLAN ID or unique prefix to mark ready."),
		),
	)
}

// Handle processes the otk_ready tool call.
func (t *ReadyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planRef := strings.TrimSpace(req.GetString("plan", ""))
	if planRef == "" {
		return mcp.NewToolResultError("'plan' is required"), nil
	}
	planRef = router.NormalizeID(planRef, "PLAN")

	changed, err := t.deps.Store.MarkPlanReady(planRef)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("plan %q: %v", planRef, err)), nil
	}
	if !changed {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Plan `%s` is already ready. No change made.", planRef)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Plan `%s` marked ready. The orchestrator will promote it to a SPEC "+
			"on its next pass (or run `otk orchestrate` to promote now).", planRef)), nil
}
