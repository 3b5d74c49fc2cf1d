package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/otk-tools/otk/internal/artifact"
)

// PlanTool handles the otk_plan MCP tool. It scaffolds a PLAN file in
// draft status.
type PlanTool struct {
	deps *Deps
}

// NewPlanTool creates a PlanTool over the shared dependencies.
func NewPlanTool(deps *Deps) *PlanTool {
	return &PlanTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *PlanTool) Definition() mcp.Tool {
	return mcp.NewTool("otk_plan",
		mcp.WithDescription(
			"Create a PLAN artifact. Plans capture the what and why of a "+
				"piece of work and start in draft status. Mark a plan ready "+
				"(otk_ready) to have a SPEC generated for it.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Plan title. Used to generate the slug in the plan ID."),
		),
		mcp.WithString("owner",
			mcp.Description("Owner name. Defaults to the resolved owner (env, cache, git config)."),
		),
	)
}

// Handle processes the otk_plan tool call.
func (t *PlanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := strings.TrimSpace(req.GetString("title", ""))
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	who := t.deps.resolveOwner(req.GetString("owner", ""))

	plan, err := t.deps.Store.CreatePlan(title, who, artifact.PlanDraft)
	if err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	if t.deps.Hooks != nil {
		t.deps.Hooks.OnPlanCreated(plan.ID, plan.Title, who)
	}

	response := artifactSummary("Plan", plan) +
		"**Status:** draft\n\n" +
		"## Next Step\n\n" +
		"Fill in the plan body, then call `otk_ready` with the plan ID " +
		"to promote it to a SPEC."
	return mcp.NewToolResultText(response), nil
}
