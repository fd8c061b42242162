package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/concilia-dev/concilia/internal/config"
)

func newInitCommand() *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default reconciliation ruleset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(absDir, company)
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "company name (required)")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func runInit(dir, company string) error {
	path := filepath.Join(dir, "concilia.yaml")
	rs := config.Default(company)
	if err := config.Save(path, rs); err != nil {
		return fmt.Errorf("writing ruleset: %w", err)
	}
	fmt.Printf("Wrote default ruleset for %s to %s\n", company, path)
	return nil
}
