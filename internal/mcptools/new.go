package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/otk-tools/otk/internal/artifact"
	"github.com/otk-tools/otk/internal/router"
)

// NewTool handles the otk_new MCP tool. It routes free-form text to
// the matching workflow action, the same way `otk new` does.
type NewTool struct {
	deps *Deps
}

// NewNewTool creates a NewTool over the shared dependencies.
func NewNewTool(deps *Deps) *NewTool {
	return &NewTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *NewTool) Definition() mcp.Tool {
	return mcp.NewTool("otk_new",
		mcp.WithDescription(
			"Route free-form text to a workflow action. "+
				"'spec out caching for plan-7' creates a linked SPEC, "+
				"'ready PLAN-20260829-ABC123' marks a plan ready, "+
				"'exec spec-3' starts an execution log, and anything else "+
				"becomes a PLAN. Owner notations (owner:alex, @alex) are honored.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Free-form description of what to do."),
		),
	)
}

// Handle processes the otk_new tool call.
func (t *NewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := strings.TrimSpace(req.GetString("text", ""))
	if text == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	explicitOwner, text := router.ExtractOwner(text)
	who := t.deps.resolveOwner(explicitOwner)
	routed := router.Route(text)

	switch routed.Command {
	case router.CommandReady:
		changed, err := t.deps.Store.MarkPlanReady(routed.TargetID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("plan %q: %v", routed.TargetID, err)), nil
		}
		if !changed {
			return mcp.NewToolResultText(fmt.Sprintf("Plan `%s` is already ready.", routed.TargetID)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Plan `%s` marked ready.", routed.TargetID)), nil

	case router.CommandSpec:
		title := routed.Title
		if title == "" {
			title = "Specification"
		}
		planID := routed.TargetID
		if planID != "" {
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
		return mcp.NewToolResultText(artifactSummary("Spec", spec)), nil

	case router.CommandExecute:
		if routed.TargetID == "" {
			return mcp.NewToolResultError(
				"execution needs a spec reference, e.g. 'exec SPEC-20250101-ABC123'"), nil
		}
		path, err := t.deps.Store.FindSpec(routed.TargetID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("spec %q: %v", routed.TargetID, err)), nil
		}
		specID := specStem(path)
		execLog, err := t.deps.Store.CreateExecLog(specID, who)
		if err != nil {
			return nil, fmt.Errorf("creating exec log: %w", err)
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Execution log started for `%s`: `%s`", specID, execLog.Path)), nil

	default:
		plan, err := t.deps.Store.CreatePlan(routed.Title, who, artifact.PlanDraft)
		if err != nil {
			return nil, fmt.Errorf("creating plan: %w", err)
		}
		if t.deps.Hooks != nil {
			t.deps.Hooks.OnPlanCreated(plan.ID, plan.Title, who)
		}
		return mcp.NewToolResultText(artifactSummary("Plan", plan)), nil
	}
}
