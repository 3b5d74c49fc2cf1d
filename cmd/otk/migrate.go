package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otk-tools/otk/internal/migrate"
)

var (
	migrateOld      string
	migrateNew      string
	migrateBackup   string
	migrateApply    bool
	migrateRollback bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move the artifact tree and rewrite references",
	Long: `Move the artifact root (e.g. .ai_docs to ai_docs) with a backup copy,
rewriting path references in docs and config files across the
repository. Defaults to a dry run; pass --apply to execute, or
--rollback to reverse a previously applied migration.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		oldPath := migrateOld
		if oldPath == "" {
			oldPath = a.cfg.Artifacts.Root
		}
		if migrateNew == "" {
			return fmt.Errorf("--new is required")
		}

		cfg := migrate.Config{
			OldPath:    oldPath,
			NewPath:    migrateNew,
			BackupPath: migrateBackup,
			DryRun:     !migrateApply && !migrateRollback,
		}
		m := migrate.New(a.cwd, a.log)

		var result *migrate.Result
		if migrateRollback {
			result, err = m.Rollback(cfg)
		} else {
			result, err = m.Apply(cfg)
		}
		if err != nil {
			return err
		}

		printMigrationResult(result)
		if !result.Success {
			return fmt.Errorf("migration finished with %d issue(s)", len(result.Issues))
		}
		return nil
	},
}

func printMigrationResult(result *migrate.Result) {
	mode := "applied"
	if result.DryRun {
		mode = "dry run"
	}
	fmt.Printf("Migration (%s): %d file(s), %d reference(s)\n",
		mode, result.FilesMoved, result.ReferencesUpdated)
	if result.BackupCreated {
		fmt.Printf("  backup: %s\n", result.BackupLocation)
	}
	for _, ref := range result.References {
		fmt.Printf("  %s: lines %v\n", ref.FilePath, ref.LineNumbers)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	for _, issue := range result.Issues {
		fmt.Printf("  ❌ %s\n", issue)
	}
}

func init() {
	migrateCmd.Flags().StringVar(&migrateOld, "old", "", "source directory (defaults to the artifact root)")
	migrateCmd.Flags().StringVar(&migrateNew, "new", "", "target directory")
	migrateCmd.Flags().StringVar(&migrateBackup, "backup", "", "backup location (defaults to <old>.backup-<timestamp>)")
	migrateCmd.Flags().BoolVar(&migrateApply, "apply", false, "execute the migration instead of previewing it")
	migrateCmd.Flags().BoolVar(&migrateRollback, "rollback", false, "reverse a previously applied migration")
}
