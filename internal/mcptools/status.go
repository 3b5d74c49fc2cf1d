package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/otk-tools/otk/internal/artifact"
)

// StatusTool handles the otk_status MCP tool. It lists plans and specs
// with their current statuses.
type StatusTool struct {
	deps *Deps
}

// NewStatusTool creates a StatusTool over the shared dependencies.
func NewStatusTool(deps *Deps) *StatusTool {
	return &StatusTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("otk_status",
		mcp.WithDescription(
			"List workflow artifacts with their statuses. Shows all plans "+
				"and specs unless 'type' narrows it to one kind.",
		),
		mcp.WithString("type",
			mcp.Description("Narrow the listing to one artifact kind."),
			mcp.Enum("plan", "spec"),
		),
	)
}

// Handle processes the otk_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := req.GetString("type", "")

	var b strings.Builder
	b.WriteString("# Workflow Status\n\n")

	if kind == "" || kind == "plan" {
		plans, err := t.deps.Store.ListPlans()
		if err != nil {
			return nil, fmt.Errorf("listing plans: %w", err)
		}
		writeSummaryTable(&b, "Plans", plans)
	}
	if kind == "" || kind == "spec" {
		specs, err := t.deps.Store.ListSpecs()
		if err != nil {
			return nil, fmt.Errorf("listing specs: %w", err)
		}
		writeSummaryTable(&b, "Specs", specs)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func writeSummaryTable(b *strings.Builder, heading string, items []artifact.Summary) {
	fmt.Fprintf(b, "## %s (%d)\n\n", heading, len(items))
	if len(items) == 0 {
		b.WriteString("None.\n\n")
		return
	}
	b.WriteString("| ID | Title | Status | Owner |\n")
	b.WriteString("|----|-------|--------|-------|\n")
	for _, item := range items {
		owner := item.Owner
		if owner == "" {
			owner = "—"
		}
		fmt.Fprintf(b, "| `%s` | %s | %s | %s |\n", item.ID, item.Title, item.Status, owner)
	}
	b.WriteString("\n")
}
