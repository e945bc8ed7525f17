// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"pricing-guard/core/engine"
	"pricing-guard/core/fixer"
	"pricing-guard/core/output"
	"pricing-guard/internal/errors"
	"pricing-guard/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Engine contains convergence engine settings
	Engine EngineConfig `json:"engine"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EngineConfig contains fix loop settings
type EngineConfig struct {
	// MaxIterations caps the validate/fix loop
	MaxIterations int `json:"max_iterations"`

	// TauOutlier is the anchor outlier threshold
	TauOutlier float64 `json:"tau_outlier"`

	// EnableAnchor turns the MTPL anchor correction on
	EnableAnchor bool `json:"enable_anchor"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// Precision is the number of decimal places for prices
	Precision int `json:"precision"`

	// ShowLog includes the fix log in reports
	ShowLog bool `json:"show_log"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Engine: EngineConfig{
			MaxIterations: engine.DefaultMaxIterations,
			TauOutlier:    fixer.DefaultTauOutlier,
			EnableAnchor:  true,
		},
		Output: OutputConfig{
			DefaultFormat: string(output.FormatCLI),
			Precision:     output.DefaultPrecision,
			ShowLog:       true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns ~/.pricing-guard/config.json
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pricing-guard", "config.json")
	}
	return filepath.Join(homeDir, ".pricing-guard", "config.json")
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.TypeConfig, "failed to read config", err).WithContext("path", path)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "invalid config file", err).WithContext("path", path)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Engine.MaxIterations < 1 {
		return errors.Newf(errors.TypeConfig, "engine.max_iterations must be at least 1, got %d", c.Engine.MaxIterations)
	}
	if c.Engine.TauOutlier <= 1 {
		return errors.Newf(errors.TypeConfig, "engine.tau_outlier must be greater than 1, got %g", c.Engine.TauOutlier)
	}
	if c.Output.Precision < 0 || c.Output.Precision > 12 {
		return errors.Newf(errors.TypeConfig, "output.precision must be between 0 and 12, got %d", c.Output.Precision)
	}
	if _, err := output.ParseFormat(c.Output.DefaultFormat); err != nil {
		return errors.Wrap(errors.TypeConfig, "invalid output.default_format", err)
	}
	return nil
}

// EngineOptions translates the engine section into engine and fixer settings
func (c *Config) EngineOptions() (engine.EngineConfig, []fixer.Option) {
	return engine.EngineConfig{MaxIterations: c.Engine.MaxIterations},
		[]fixer.Option{
			fixer.WithTauOutlier(c.Engine.TauOutlier),
			fixer.WithAnchor(c.Engine.EnableAnchor),
		}
}

// OutputOptions translates the output section into rendering options
func (c *Config) OutputOptions() output.Options {
	return output.Options{Precision: int32(c.Output.Precision), ShowLog: c.Output.ShowLog}
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
