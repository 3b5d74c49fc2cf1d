package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log <event> [key=value ...]",
	Short: "Append a structured event line to the run log",
	Long: `Append a manual event to run_log.md alongside the automatic hook
outcomes, e.g.:

  otk log deploy_started env=staging sha=abc123`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		event := args[0]
		pairs := args[1:]
		for _, p := range pairs {
			if !strings.Contains(p, "=") {
				return fmt.Errorf("malformed pair %q: want key=value", p)
			}
		}

		a.hooks.Record(event, pairs)
		fmt.Printf("Logged %s with %d field(s).\n", event, len(pairs))
		return nil
	},
}
