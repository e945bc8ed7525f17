// Package cmd - validate command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pricing-guard/adapters/pricetable"
	"pricing-guard/core/output"
)

var validateFlags runFlags

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Report ordering violations without changing anything",
	Long: `Load a price table and list every broken ordering rule.

The command exits non-zero when at least one violation is found.

Examples:
  pricing-guard validate prices.json
  pricing-guard validate --format markdown prices.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	addRunFlags(validateCmd, &validateFlags, false)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := validateFlags.settings(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	prices, err := pricetable.Load(path)
	if err != nil {
		return err
	}

	violations, err := newEngine(cfg).Validate(prices)
	if err != nil {
		return err
	}

	report := &output.Report{Source: path, Original: prices, Violations: violations}
	if err := render(cmd, cfg, report); err != nil {
		return err
	}

	if len(violations) > 0 {
		return fmt.Errorf("%d violation(s) found", len(violations))
	}
	return nil
}
