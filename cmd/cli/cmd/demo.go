// Package cmd - demo command
package cmd

import (
	"github.com/spf13/cobra"

	"pricing-guard/adapters/pricetable"
)

var (
	demoFlags  runFlags
	demoOutput string
)

// demoCmd runs the engine on the built-in sample table
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Fix the built-in sample price table",
	Long: `Run the validator and fixer on a built-in table that breaks every rule
family at least once, and print the report.

Examples:
  pricing-guard demo
  pricing-guard demo --format markdown
  pricing-guard demo --output sample-fixed.json`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	addRunFlags(demoCmd, &demoFlags, true)
	demoCmd.Flags().StringVarP(&demoOutput, "output", "o", "", "write the fixed table to this file")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := demoFlags.settings(cmd)
	if err != nil {
		return err
	}
	return fixAndReport(cmd, cfg, "built-in sample", pricetable.Sample(), demoOutput)
}
