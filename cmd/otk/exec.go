package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otk-tools/otk/internal/router"
)

var execOwner string

var execCmd = &cobra.Command{
	Use:   "exec [spec]",
	Short: "Start an execution log for a spec",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return execNeedsSpec(a)
		}
		specRef := router.NormalizeID(args[0], "SPEC")
		return startExec(a, specRef, a.resolveOwner(execOwner))
	},
}

// execNeedsSpec builds the missing-argument error, listing the specs
// that could be passed.
func execNeedsSpec(a *app) error {
	specs, err := a.store.ListSpecs()
	if err != nil || len(specs) == 0 {
		return fmt.Errorf("spec reference required, e.g. 'otk exec SPEC-20250101-ABC123'")
	}

	var b strings.Builder
	b.WriteString("spec reference required; available specs:\n")
	for _, s := range specs {
		fmt.Fprintf(&b, "  %s (%s) %s\n", s.ID, s.Status, s.Title)
	}
	return fmt.Errorf("%s", b.String())
}

func init() {
	execCmd.Flags().StringVar(&execOwner, "owner", "", "owner name (defaults to the resolved owner)")
}
