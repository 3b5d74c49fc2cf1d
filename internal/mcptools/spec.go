package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/otk-tools/otk/internal/router"
)

// SpecTool handles the otk_spec MCP tool. It scaffolds a SPEC file,
// optionally linked to an existing plan.
type SpecTool struct {
	deps *Deps
}

// NewSpecTool creates a SpecTool over the shared dependencies.
func NewSpecTool(deps *Deps) *SpecTool {
	return &SpecTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *SpecTool) Definition() mcp.Tool {
	return mcp.NewTool("otk_spec",
		mcp.WithDescription(
			"Create a SPEC artifact. Specs capture the how: objective, "+
				"approach, implementation steps, acceptance criteria. "+
				"Pass 'plan' to link the spec to an existing PLAN.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Spec title. Used to generate the slug in the spec ID."),
		),
		mcp.WithString("plan",
			mcp.Description("PLAN ID or unique prefix to link the spec to. Optional."),
		),
		mcp.WithString("owner",
			mcp.Description("Owner name. Defaults to the resolved owner."),
		),
	)
}

// Handle processes the otk_spec tool call.
func (t *SpecTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := strings.TrimSpace(req.GetString("title", ""))
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	who := t.deps.resolveOwner(req.GetString("owner", ""))

	planID := strings.TrimSpace(req.GetString("plan", ""))
	if planID != "" {
		planID = router.NormalizeID(planID, "PLAN")
		path, err := t.deps.Store.FindPlan(planID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("plan %q: %v", planID, err)), nil
		}
		planID = specStem(path)
	}

	spec, err := t.deps.Store.CreateSpec(title, who, planID)
	if err != nil {
		return nil, fmt.Errorf("creating spec: %w", err)
	}
	if t.deps.Hooks != nil {
		t.deps.Hooks.OnSpecCreated(spec.ID, planID, spec.Title)
	}

	response := artifactSummary("Spec", spec)
	if planID != "" {
		response += fmt.Sprintf("**Plan:** `%s`\n", planID)
	}
	response += "\n## Next Step\n\n" +
		"Fill in the spec sections, then call `otk_exec` with the spec ID " +
		"to start an execution log."
	return mcp.NewToolResultText(response), nil
}
