package cmd

import (
	"github.com/spf13/cobra"

	"pricing-guard/core/engine"
	"pricing-guard/core/fixer"
	"pricing-guard/core/output"
	"pricing-guard/internal/config"
	"pricing-guard/internal/logging"
)

// runFlags are the engine and output overrides shared by fix, validate and demo
type runFlags struct {
	format        string
	precision     int
	noLog         bool
	maxIterations int
	tau           float64
	noAnchor      bool
}

func addRunFlags(c *cobra.Command, f *runFlags, withEngine bool) {
	c.Flags().StringVarP(&f.format, "format", "f", "cli", "output format (cli, json, markdown)")
	c.Flags().IntVar(&f.precision, "precision", output.DefaultPrecision, "decimal places for prices")
	if !withEngine {
		return
	}
	c.Flags().BoolVar(&f.noLog, "no-log", false, "omit the fix log from the report")
	c.Flags().IntVar(&f.maxIterations, "max-iterations", engine.DefaultMaxIterations, "maximum validate/fix iterations")
	c.Flags().Float64Var(&f.tau, "tau", fixer.DefaultTauOutlier, "anchor outlier threshold")
	c.Flags().BoolVar(&f.noAnchor, "no-anchor", false, "disable the MTPL anchor correction")
}

// settings applies explicitly set flags on top of the loaded config
func (f *runFlags) settings(c *cobra.Command) (*config.Config, error) {
	cfg := *config.Get()

	flags := c.Flags()
	if flags.Changed("format") {
		cfg.Output.DefaultFormat = f.format
	}
	if flags.Changed("precision") {
		cfg.Output.Precision = f.precision
	}
	if flags.Changed("no-log") {
		cfg.Output.ShowLog = !f.noLog
	}
	if flags.Changed("max-iterations") {
		cfg.Engine.MaxIterations = f.maxIterations
	}
	if flags.Changed("tau") {
		cfg.Engine.TauOutlier = f.tau
	}
	if flags.Changed("no-anchor") {
		cfg.Engine.EnableAnchor = !f.noAnchor
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newEngine(cfg *config.Config) *engine.Engine {
	ec, opts := cfg.EngineOptions()
	opts = append(opts, fixer.WithLogger(logging.Named("fixer")))

	e := engine.NewDefaultEngine(ec, opts...)
	e.SetLogger(logging.Named("engine"))
	return e
}

func render(c *cobra.Command, cfg *config.Config, report *output.Report) error {
	format, err := output.ParseFormat(cfg.Output.DefaultFormat)
	if err != nil {
		return err
	}
	formatter, err := output.Get(format, cfg.OutputOptions())
	if err != nil {
		return err
	}
	return formatter.Render(c.OutOrStdout(), report)
}
