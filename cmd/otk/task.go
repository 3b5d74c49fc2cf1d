package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otk-tools/otk/internal/artifact"
)

var (
	taskOwner  string
	taskStatus string
)

var taskCmd = &cobra.Command{
	Use:   "task <title>",
	Short: "Create a TASK artifact with a numeric ID",
	Long: `Create a task file named T-NNNN--<slug>.md in the tasks directory.
Tasks are the orchestrator's input: assigned tasks get a PLAN scaffolded
on the next orchestrator pass.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		status := artifact.TaskStatus(taskStatus)
		if err := artifact.ValidateTaskStatus(status); err != nil {
			return err
		}

		task, err := a.store.CreateTask(strings.Join(args, " "), a.resolveOwner(taskOwner), status)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}
		fmt.Printf("📝 TASK created: %s\n   %s\n", task.ID, task.Path)
		return nil
	},
}

func init() {
	taskCmd.Flags().StringVar(&taskOwner, "owner", "", "owner name (defaults to the resolved owner)")
	taskCmd.Flags().StringVar(&taskStatus, "status", "assigned", "initial status (new, assigned, in-progress, blocked, done)")
}
