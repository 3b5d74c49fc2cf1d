package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otk-tools/otk/internal/router"
	"github.com/otk-tools/otk/internal/scout"
)

var scoutCmd = &cobra.Command{
	Use:   "scout <spec>",
	Short: "Derive an implementation checklist from a spec",
	Long: `Parse a spec's sections, extract and categorize its checkbox items,
infer tasks from the technical design, and write a grouped checklist to
the scout_reports directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		specRef := router.NormalizeID(args[0], "SPEC")
		report, err := scout.Run(a.cfg, a.store, specRef, a.log)
		if err != nil {
			return err
		}

		fmt.Printf("🔍 Scout report for %s\n   %s\n", report.SpecID, report.Path)
		for _, line := range report.Counts() {
			fmt.Printf("   %s\n", line)
		}
		return nil
	},
}
