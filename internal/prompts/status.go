package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the otk-status MCP prompt. It instructs the AI
// to read and present the current workflow state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("otk-status",
		mcp.WithPromptDescription(
			"Check the current state of the artifact workflow. Shows plans, "+
				"specs, their statuses, and what to do next.",
		),
	)
}

// Handle processes the otk-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Workflow Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `otk_status` to check the workflow state.\n\n" +
						"Then:\n" +
						"1. Show the plans and specs in a clear, visual format\n" +
						"2. Point out draft plans that look ready to promote\n" +
						"3. Point out in-progress specs without a recent execution log\n" +
						"4. Tell me exactly what I should do next",
				),
			},
		},
	}, nil
}
