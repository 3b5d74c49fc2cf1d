package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/otk-tools/otk/internal/orchestrator"
)

var orchestrateWatch bool

var orchestrateCmd = &cobra.Command{
	Use:   "orchestrate",
	Short: "Scaffold plans for assigned tasks and promote ready plans",
	Long: `Run one orchestration pass: every assigned task without a plan gets
one scaffolded, and every ready plan is promoted to a spec.

With --watch, keep running: react to file changes in the tasks and
plans directories and rescan periodically until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		orch := orchestrator.New(a.cfg, a.store, a.hooks, a.log)

		if orchestrateWatch {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			fmt.Println("👀 Watching for task and plan changes (Ctrl-C to stop)…")
			return orch.Watch(ctx)
		}

		result, err := orch.Once()
		if err != nil {
			return err
		}
		fmt.Printf("Orchestration pass: %d plan(s) scaffolded, %d spec(s) created.\n",
			result.PlansCreated, result.SpecsCreated)
		return nil
	},
}

func init() {
	orchestrateCmd.Flags().BoolVar(&orchestrateWatch, "watch", false, "keep watching for changes")
}
