package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Maintain the JSONL artifact index",
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from the task and plan directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		if a.idx == nil {
			return fmt.Errorf("index unavailable")
		}

		tasks, plans, err := a.idx.Rebuild(a.cfg.TasksDir, a.cfg.PlansDir)
		if err != nil {
			return fmt.Errorf("rebuilding index: %w", err)
		}
		fmt.Printf("Index rebuilt: %d task(s), %d plan(s).\n", tasks, plans)
		return nil
	},
}

var indexValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the index for missing files and slug collisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		if a.idx == nil {
			return fmt.Errorf("index unavailable")
		}
		if err := a.idx.Refresh(); err != nil {
			return fmt.Errorf("reading index: %w", err)
		}

		problems := a.idx.Check()
		if len(problems) == 0 {
			fmt.Println("✅ Index is consistent.")
			return nil
		}
		for _, p := range problems {
			fmt.Printf("  ⚠️  %s\n", p)
		}
		return fmt.Errorf("%d index problem(s) found", len(problems))
	},
}

func init() {
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexValidateCmd)
}
