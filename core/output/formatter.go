// Package output renders fix and validation reports.
// This package produces human and machine-readable outputs.
package output

import (
	"fmt"
	"io"
	"strings"

	"pricing-guard/core/determinism"
	"pricing-guard/core/types"
	"pricing-guard/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats
var Formats = []Format{FormatCLI, FormatJSON, FormatMarkdown}

// DefaultPrecision is the number of decimal places used for prices
const DefaultPrecision = 6

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report is what gets rendered. Result is nil for validate-only runs, in
// which case Violations holds the findings.
type Report struct {
	// Source names the input, usually a file path
	Source string

	// Original is the table as loaded
	Original types.Prices

	// Violations are the findings of a validate-only run
	Violations []types.Violation

	// Result is the engine output of a fix run
	Result *types.FixResult
}

// IsFix reports whether the report carries a fix result
func (r *Report) IsFix() bool {
	return r.Result != nil
}

// Options control rendering
type Options struct {
	// Precision is the number of decimal places for prices
	Precision int32

	// ShowLog includes the fix log
	ShowLog bool
}

// DefaultOptions returns the default rendering options
func DefaultOptions() Options {
	return Options{Precision: DefaultPrecision, ShowLog: true}
}

// ParseFormat resolves a format name
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cli", "table":
		return FormatCLI, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", errors.NotSupported(fmt.Sprintf("output format %q", name))
}

// Get returns the formatter for a format
func Get(format Format, opts Options) (Formatter, error) {
	if opts.Precision < 0 {
		opts.Precision = DefaultPrecision
	}
	switch format {
	case FormatCLI:
		return &CLIFormatter{opts: opts}, nil
	case FormatJSON:
		return &JSONFormatter{opts: opts}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{opts: opts}, nil
	}
	return nil, errors.NotSupported(fmt.Sprintf("output format %q", format))
}

func (o Options) price(v float64) string {
	return determinism.FormatPrice(v, o.Precision)
}

// status summarizes a fix result in one phrase
func status(r *types.FixResult) string {
	switch {
	case r.Converged:
		return fmt.Sprintf("converged after %d iteration(s)", r.Iterations)
	case r.Iterations >= r.Metadata.MaxIterations:
		return fmt.Sprintf("NOT converged (iteration cap %d reached)", r.Metadata.MaxIterations)
	default:
		return fmt.Sprintf("NOT converged (no progress after %d iteration(s))", r.Iterations)
	}
}
