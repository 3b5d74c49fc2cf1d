package main

import (
	"github.com/spf13/cobra"

	"github.com/otk-tools/otk/internal/router"
)

var readyCmd = &cobra.Command{
	Use:   "ready <plan>",
	Short: "Mark a plan as ready for promotion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return markReady(a, router.NormalizeID(args[0], "PLAN"))
	},
}
