// Package prompts implements MCP prompt handlers for the artifact
// workflow.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// WorkflowPrompt handles the otk-workflow MCP prompt. It guides the AI
// through the plan, ready, spec, execute sequence for one piece of
// work.
type WorkflowPrompt struct{}

// NewWorkflowPrompt creates a WorkflowPrompt.
func NewWorkflowPrompt() *WorkflowPrompt {
	return &WorkflowPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *WorkflowPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("otk-workflow",
		mcp.WithPromptDescription(
			"Drive a piece of work through the plan, ready, spec, execute "+
				"workflow. Creates the plan, waits for review, then promotes "+
				"it step by step.",
		),
		mcp.WithArgument("title",
			mcp.ArgumentDescription("Title of the work to plan"),
		),
		mcp.WithArgument("owner",
			mcp.ArgumentDescription("Owner name. Defaults to the resolved owner."),
		),
	)
}

// Handle processes the otk-workflow prompt request.
func (p *WorkflowPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	title := "the work"
	ownerClause := ""
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["title"]; ok && v != "" {
			title = v
		}
		if v, ok := args["owner"]; ok && v != "" {
			ownerClause = fmt.Sprintf(" with owner=%q", v)
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Workflow for: %s", title),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to take '%s' through the full workflow.\n\n"+
						"Please:\n"+
						"1. Run `otk_plan` with title='%s'%s\n"+
						"2. Draft the plan body (context, goal, approach) in the created file\n"+
						"3. Ask me to review the plan; when I approve, run `otk_ready` with the plan ID\n"+
						"4. Run `otk_spec` linked to the plan and fill in objective, "+
						"implementation steps, and acceptance criteria\n"+
						"5. When I confirm the spec, run `otk_exec` to start the execution log\n"+
						"6. Keep the exec log updated as you work",
					title, title, ownerClause,
				)),
			},
		},
	}, nil
}
