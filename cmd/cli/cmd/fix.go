// Package cmd - fix command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pricing-guard/adapters/pricetable"
	"pricing-guard/core/output"
	"pricing-guard/core/types"
	"pricing-guard/internal/config"
	"pricing-guard/internal/logging"
)

var (
	fixFlags  runFlags
	fixOutput string
)

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix <file>",
	Short: "Correct a price table until every ordering rule holds",
	Long: `Load a price table, correct it and print a report.

The table format is chosen by extension: .json, .yaml/.yml or .hcl.
The command exits non-zero when the table does not converge.

Examples:
  pricing-guard fix prices.json
  pricing-guard fix prices.yaml --output fixed.yaml
  pricing-guard fix --no-anchor --max-iterations 20 prices.hcl`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	addRunFlags(fixCmd, &fixFlags, true)
	fixCmd.Flags().StringVarP(&fixOutput, "output", "o", "", "write the fixed table to this file")
}

func runFix(cmd *cobra.Command, args []string) error {
	cfg, err := fixFlags.settings(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	prices, err := pricetable.Load(path)
	if err != nil {
		return err
	}
	logging.Debug("loaded price table", zap.String("path", path), zap.Int("keys", len(prices)))

	return fixAndReport(cmd, cfg, path, prices, fixOutput)
}

// fixAndReport runs the engine, optionally saves the fixed table and renders
// the report. Non-convergence is reported after rendering.
func fixAndReport(cmd *cobra.Command, cfg *config.Config, source string, prices types.Prices, saveTo string) error {
	result, err := newEngine(cfg).ValidateAndFix(prices)
	if err != nil {
		return err
	}

	if saveTo != "" {
		if err := pricetable.Save(saveTo, result.FixedPrices); err != nil {
			return fmt.Errorf("failed to save fixed table: %w", err)
		}
		logging.Info("saved fixed price table", zap.String("path", saveTo))
	}

	report := &output.Report{Source: source, Original: prices, Result: result}
	if err := render(cmd, cfg, report); err != nil {
		return err
	}

	if !result.Converged {
		return fmt.Errorf("price table did not converge after %d iteration(s): %d violation(s) remain",
			result.Iterations, len(result.Report.ViolationsAfter))
	}
	return nil
}
