// Package cmd provides the CLI commands for pricing-guard.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pricing-guard/internal/config"
	"pricing-guard/internal/logging"
)

// Version is set at build time with -ldflags "-X pricing-guard/cmd/cli/cmd.Version=..."
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pricing-guard",
	Short: "Validate and fix insurance price tables",
	Long: `pricing-guard checks an insurance price table against its ordering rules
and corrects it until every rule holds.

MTPL anchors the table. LIMITED_CASCO must sit between MTPL and CASCO,
higher deductibles must be cheaper and richer variants must cost more.

Examples:
  pricing-guard validate prices.json
  pricing-guard fix prices.yaml --output fixed.yaml
  pricing-guard fix --format json --tau 3 prices.hcl
  pricing-guard demo`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pricing-guard/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pricing-guard version %s\n", Version)
	},
}
