package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otk-tools/otk/internal/artifact"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List plans and specs with their statuses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		plans, err := a.store.ListPlans()
		if err != nil {
			return fmt.Errorf("listing plans: %w", err)
		}
		specs, err := a.store.ListSpecs()
		if err != nil {
			return fmt.Errorf("listing specs: %w", err)
		}

		printSummaries("PLANS", plans)
		printSummaries("SPECS", specs)
		return nil
	},
}

func init() {
	statusCmd.AddCommand(statusSetCmd)
}

var statusSetCmd = &cobra.Command{
	Use:   "set <ID> <STATUS>",
	Short: "Change a plan or spec status and fire transition hooks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		ref := strings.ToUpper(strings.TrimSpace(args[0]))
		status := strings.ToLower(strings.TrimSpace(args[1]))

		var kind, path string
		switch {
		case strings.HasPrefix(ref, "SPEC-"):
			if err := artifact.ValidateSpecStatus(artifact.SpecStatus(status)); err != nil {
				return err
			}
			kind = "spec"
			path, err = a.store.FindSpec(ref)
		case strings.HasPrefix(ref, "PLAN-") || strings.HasPrefix(ref, "P-"):
			if err := artifact.ValidatePlanStatus(artifact.PlanStatus(status)); err != nil {
				return err
			}
			kind = "plan"
			path, err = a.store.FindPlan(ref)
		default:
			return fmt.Errorf("cannot tell plan from spec in %q: use a PLAN- or SPEC- reference", args[0])
		}
		if err != nil {
			return err
		}

		prev, err := a.store.SetStatus(path, status)
		if err != nil {
			return err
		}
		a.hooks.Fire(kind, ref, prev, status)

		fmt.Printf("🔄 %s: %s → %s\n", ref, prev, status)
		return nil
	},
}

func printSummaries(heading string, items []artifact.Summary) {
	fmt.Printf("%s (%d)\n", heading, len(items))
	if len(items) == 0 {
		fmt.Println("  none")
		fmt.Println()
		return
	}
	for _, item := range items {
		owner := item.Owner
		if owner == "" {
			owner = "-"
		}
		fmt.Printf("  %-14s %-44s %s (%s)\n", item.Status, item.ID, item.Title, owner)
	}
	fmt.Println()
}
