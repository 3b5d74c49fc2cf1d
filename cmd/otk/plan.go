package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/otk-tools/otk/internal/artifact"
)

var (
	planOwner string
	planReady bool
)

var planCmd = &cobra.Command{
	Use:   "plan <title>",
	Short: "Create a PLAN artifact",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		status := artifact.PlanDraft
		if planReady {
			status = artifact.PlanReady
		}
		return createPlan(a, strings.Join(args, " "), a.resolveOwner(planOwner), status)
	},
}

func init() {
	planCmd.Flags().StringVar(&planOwner, "owner", "", "owner name (defaults to the resolved owner)")
	planCmd.Flags().BoolVar(&planReady, "ready", false, "create the plan already marked ready")
}
