package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/otk-tools/otk/internal/router"
)

// ExecTool handles the otk_exec MCP tool. It starts an execution log
// for a spec.
type ExecTool struct {
	deps *Deps
}

// NewExecTool creates an ExecTool over the shared dependencies.
func NewExecTool(deps *Deps) *ExecTool {
	return &ExecTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *ExecTool) Definition() mcp.Tool {
	return mcp.NewTool("otk_exec",
		mcp.WithDescription(
			"Start an execution log for a SPEC. Creates a timestamped "+
				"exec-log file and records the run in the execution journal.",
		),
		mcp.WithString("spec",
			mcp.Required(),
			mcp.Description("SPEC ID or unique prefix to execute."),
		),
		mcp.WithString("owner",
			mcp.Description("Owner name. Defaults to the resolved owner."),
		),
	)
}

// Handle processes the otk_exec tool call.
func (t *ExecTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specRef := strings.TrimSpace(req.GetString("spec", ""))
	if specRef == "" {
		return mcp.NewToolResultError("'spec' is required"), nil
	}
	specRef = router.NormalizeID(specRef, "SPEC")

	path, err := t.deps.Store.FindSpec(specRef)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("spec %q: %v", specRef, err)), nil
	}
	specID := specStem(path)
	who := t.deps.resolveOwner(req.GetString("owner", ""))

	execLog, err := t.deps.Store.CreateExecLog(specID, who)
	if err != nil {
		return nil, fmt.Errorf("creating exec log: %w", err)
	}

	response := fmt.Sprintf(
		"# Execution Started\n\n"+
			"**Spec:** `%s`\n"+
			"**Log:** `%s`\n"+
			"**Owner:** %s\n\n"+
			"Append progress notes to the log file as the run proceeds.",
		specID, execLog.Path, who,
	)
	return mcp.NewToolResultText(response), nil
}
