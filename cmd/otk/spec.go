package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/otk-tools/otk/internal/router"
)

var (
	specOwner string
	specPlan  string
)

var specCmd = &cobra.Command{
	Use:   "spec <title>",
	Short: "Create a SPEC artifact, optionally linked to a plan",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		planRef := specPlan
		if planRef != "" {
			planRef = router.NormalizeID(planRef, "PLAN")
		}
		return createSpec(a, strings.Join(args, " "), a.resolveOwner(specOwner), planRef)
	},
}

func init() {
	specCmd.Flags().StringVar(&specPlan, "plan", "", "PLAN ID or unique prefix to link the spec to")
	specCmd.Flags().StringVar(&specOwner, "owner", "", "owner name (defaults to the resolved owner)")
}
