package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ownerCmd = &cobra.Command{
	Use:   "owner",
	Short: "Show or set the resolved artifact owner",
}

var ownerWhoCmd = &cobra.Command{
	Use:   "who",
	Short: "Show the resolved owner and where it came from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		fmt.Printf("%s (source: %s)\n", a.owner.Resolve(), a.owner.Source())
		return nil
	},
}

var ownerSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Persist the owner to the local cache file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		if err := a.owner.Set(args[0]); err != nil {
			return fmt.Errorf("saving owner: %w", err)
		}
		fmt.Printf("Owner set to %s\n", args[0])
		return nil
	},
}

func init() {
	ownerCmd.AddCommand(ownerWhoCmd)
	ownerCmd.AddCommand(ownerSetCmd)
}
