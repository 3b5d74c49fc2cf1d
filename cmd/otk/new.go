package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otk-tools/otk/internal/artifact"
	"github.com/otk-tools/otk/internal/router"
)

var newCmd = &cobra.Command{
	Use:   "new <free text>",
	Short: "Route free-form text to the right workflow action",
	Long: `Interpret free-form text and run the matching action.

Examples:
  otk new "payment retries"                  # becomes a PLAN
  otk new spec out caching for plan-7        # SPEC linked to the plan
  otk new ready PLAN-20250101-ABC123         # mark the plan ready
  otk new exec spec-3                        # start an execution log

Owner notations (owner:alex, --owner alex inside the text, @alex) are
honored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	explicitOwner, text := router.ExtractOwner(text)
	who := a.resolveOwner(explicitOwner)
	routed := router.Route(text)

	switch routed.Command {
	case router.CommandReady:
		return markReady(a, routed.TargetID)

	case router.CommandSpec:
		title := routed.Title
		if title == "" {
			title = "Specification"
		}
		return createSpec(a, title, who, routed.TargetID)

	case router.CommandExecute:
		if routed.TargetID == "" {
			return fmt.Errorf("execution needs a spec reference, e.g. 'otk new exec SPEC-20250101-ABC123'")
		}
		return startExec(a, routed.TargetID, who)

	default:
		return createPlan(a, routed.Title, who, artifact.PlanDraft)
	}
}

// createPlan scaffolds a plan and fires the creation hook.
func createPlan(a *app, title, who string, status artifact.PlanStatus) error {
	plan, err := a.store.CreatePlan(title, who, status)
	if err != nil {
		return fmt.Errorf("creating plan: %w", err)
	}
	a.hooks.OnPlanCreated(plan.ID, plan.Title, who)
	fmt.Printf("📋 PLAN created: %s\n   %s\n", plan.ID, plan.Path)
	return nil
}

// createSpec scaffolds a spec, resolving the plan reference if given.
func createSpec(a *app, title, who, planRef string) error {
	planID := planRef
	if planID != "" {
		path, err := a.store.FindPlan(planID)
		if err != nil {
			return err
		}
		planID = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	spec, err := a.store.CreateSpec(title, who, planID)
	if err != nil {
		return fmt.Errorf("creating spec: %w", err)
	}
	a.hooks.OnSpecCreated(spec.ID, planID, spec.Title)
	fmt.Printf("📐 SPEC created: %s\n   %s\n", spec.ID, spec.Path)
	return nil
}

// startExec resolves the spec and opens an execution log for it.
func startExec(a *app, specRef, who string) error {
	path, err := a.store.FindSpec(specRef)
	if err != nil {
		return err
	}
	specID := strings.TrimSuffix(filepath.Base(path), ".md")
	execLog, err := a.store.CreateExecLog(specID, who)
	if err != nil {
		return fmt.Errorf("creating exec log: %w", err)
	}
	fmt.Printf("▶️  Execution log started for %s\n   %s\n", specID, execLog.Path)
	return nil
}

// markReady flips a plan to ready status.
func markReady(a *app, planRef string) error {
	changed, err := a.store.MarkPlanReady(planRef)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Printf("Plan %s is already ready.\n", planRef)
		return nil
	}
	fmt.Printf("✅ Plan %s marked ready. Run 'otk orchestrate' to promote it.\n", planRef)
	return nil
}
