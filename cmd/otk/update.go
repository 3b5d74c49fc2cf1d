package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	otkserver "github.com/otk-tools/otk/internal/server"
	"github.com/otk-tools/otk/internal/updater"
)

var updateCheckOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update otk to the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(os.Stderr, "🔍 Checking for updates...\n")

		result := updater.CheckVersion(otkserver.Version)
		if !result.UpdateAvailable {
			fmt.Fprintf(os.Stderr, "✅ Already at the latest version (v%s)\n", result.CurrentVersion)
			return nil
		}

		fmt.Fprintf(os.Stderr, "📦 New version available: v%s → v%s\n",
			result.CurrentVersion, result.LatestVersion)
		if updateCheckOnly {
			fmt.Fprintf(os.Stderr, "   Release: %s\n", result.ReleaseURL)
			return nil
		}

		fmt.Fprintf(os.Stderr, "⬇️  Downloading...\n")
		if err := updater.SelfUpdate(otkserver.Version); err != nil {
			fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
			return fmt.Errorf("update failed: %w", err)
		}

		fmt.Fprintf(os.Stderr, "✅ Updated to v%s!\n", result.LatestVersion)
		fmt.Fprintf(os.Stderr, "   Restart otk to use the new version.\n")
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "check for a new release without installing it")
}
