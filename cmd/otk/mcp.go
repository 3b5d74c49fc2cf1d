package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	otkserver "github.com/otk-tools/otk/internal/server"
	"github.com/otk-tools/otk/internal/updater"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the workflow tools over MCP stdio",
	Long: `Start an MCP server on stdio exposing the workflow as tools,
resources, and prompts, so AI coding tools can drive the same
operations the CLI does.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "otk": {
        "command": "otk",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cleanup, err := otkserver.New()
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}
		defer cleanup()

		// Version notice goes to stderr so it doesn't interfere with
		// the stdio transport on stdout.
		go checkForUpdates()

		return server.ServeStdio(s)
	},
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. Best-effort; network failures
// are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(otkserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: otk update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}
