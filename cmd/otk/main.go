// otk: local artifact workflow tool.
//
// otk scaffolds Markdown PLAN/SPEC/TASK artifacts with YAML front
// matter and sortable IDs, routes free-form text to the right action,
// keeps a JSONL index, and mirrors lifecycle events to optional
// external systems.
//
// Usage:
//
//	otk new "payment retries"     # route free text to an action
//	otk ready PLAN-…              # promote a plan
//	otk orchestrate --watch       # scaffold plans and promote ready ones
//	otk mcp                       # serve the same operations over MCP stdio
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/otk-tools/otk/internal/server"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "otk",
	Short: "Scaffold and track PLAN/SPEC/TASK workflow artifacts",
	Long: `otk keeps a lightweight development workflow in plain Markdown files:
plans (the what and why), specs (the how), tasks, and execution logs,
all under one artifact root with YAML front matter and sortable IDs.`,
	Version:      server.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(specCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(readyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(scoutCmd)
	rootCmd.AddCommand(orchestrateCmd)
	rootCmd.AddCommand(ownerCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(updateCmd)
}
