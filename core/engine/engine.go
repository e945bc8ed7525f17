// Package engine provides the validate-and-fix convergence engine.
// CLI is a thin wrapper around this engine.
package engine

import (
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pricing-guard/core/determinism"
	"pricing-guard/core/fixer"
	"pricing-guard/core/guards"
	"pricing-guard/core/parser"
	"pricing-guard/core/types"
	"pricing-guard/core/validator"
	"pricing-guard/internal/errors"
)

// DefaultMaxIterations bounds the fix loop. It is a safety bound, not a
// proven minimum.
const DefaultMaxIterations = 10

// Engine orchestrates parse -> validate -> iterate(fix, validate) -> validate.
// It keeps no state between invocations and is safe for concurrent use as
// long as its collaborators are.
type Engine struct {
	// Required dependencies
	parser    parser.Parser
	validator validator.Validator
	fixer     fixer.Fixer

	// Configuration
	config EngineConfig

	logger *zap.Logger
}

// EngineConfig configures the convergence engine
type EngineConfig struct {
	// MaxIterations caps the number of validate/fix iterations
	MaxIterations int
}

// DefaultEngineConfig returns the default configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{MaxIterations: DefaultMaxIterations}
}

// NewEngine creates an engine from explicit collaborators
func NewEngine(p parser.Parser, v validator.Validator, f fixer.Fixer, config EngineConfig) *Engine {
	if config.MaxIterations < 1 {
		config.MaxIterations = DefaultMaxIterations
	}
	return &Engine{
		parser:    p,
		validator: v,
		fixer:     f,
		config:    config,
		logger:    zap.NewNop(),
	}
}

// NewDefaultEngine creates an engine with the default parser and validator
// and a default fixer built from opts
func NewDefaultEngine(config EngineConfig, opts ...fixer.Option) *Engine {
	return NewEngine(
		parser.NewDefaultParser(),
		validator.NewDefaultValidator(),
		fixer.NewDefaultFixer(opts...),
		config,
	)
}

// SetLogger sets the logger used for run diagnostics
func (e *Engine) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	e.logger = l
}

// Config returns the engine configuration
func (e *Engine) Config() EngineConfig {
	return e.config
}

// ValidateAndFix corrects a copy of prices until no rule is violated, no
// correction makes progress, or the iteration cap is hit. The input map is
// never modified.
func (e *Engine) ValidateAndFix(input types.Prices) (*types.FixResult, error) {
	prices := input.Clone()

	items, err := e.parser.ParseAll(prices)
	if err != nil {
		return nil, err
	}
	if err := checkAnchor(items); err != nil {
		return nil, err
	}
	if err := checkPrices(prices); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := e.logger.With(zap.String("run_id", runID))

	report := types.NewFixReport()
	before, err := e.validator.Validate(prices, items)
	if err != nil {
		return nil, err
	}
	report.ViolationsBefore = before

	converged := false
	iterations := 0
	stalled := false

	for iteration := 1; iteration <= e.config.MaxIterations; iteration++ {
		iterations = iteration

		// Re-validate every iteration: a pass may change prices without
		// clearing every violation.
		current, err := e.validator.Validate(prices, items)
		if err != nil {
			return nil, err
		}
		log.Debug("iteration", zap.Int("iteration", iteration), zap.Int("violations", len(current)))

		if len(current) == 0 {
			converged = true
			break
		}
		if !e.fixer.FixPass(prices, items, report) {
			stalled = true
			break
		}
	}

	after, err := e.validator.Validate(prices, items)
	if err != nil {
		return nil, err
	}
	report.ViolationsAfter = after

	switch {
	case converged:
	case stalled:
		log.Warn("fixer made no progress", zap.Int("iterations", iterations), zap.Int("violations", len(after)))
	default:
		log.Warn("iteration cap reached", zap.Int("max_iterations", e.config.MaxIterations), zap.Int("violations", len(after)))
	}
	log.Info("validate and fix finished",
		zap.Bool("converged", converged),
		zap.Int("iterations", iterations),
		zap.Int("violations_before", len(before)),
		zap.Int("violations_after", len(after)),
		zap.Int("corrections", len(report.FixLog)),
	)

	result := &types.FixResult{
		FixedPrices: prices,
		Converged:   converged,
		Iterations:  iterations,
		Report:      report,
		Metadata: types.Metadata{
			RunID:         runID,
			InputHash:     determinism.HashTable(input).Hex(),
			MaxIterations: e.config.MaxIterations,
		},
	}
	if err := guards.CheckResult(input, result); err != nil {
		return nil, errors.Internal("fix result failed post-conditions", err).WithContext("run_id", runID)
	}
	return result, nil
}

// Validate parses prices and reports violations without fixing anything
func (e *Engine) Validate(prices types.Prices) ([]types.Violation, error) {
	items, err := e.parser.ParseAll(prices)
	if err != nil {
		return nil, err
	}
	if err := checkAnchor(items); err != nil {
		return nil, err
	}
	if err := checkPrices(prices); err != nil {
		return nil, err
	}
	return e.validator.Validate(prices, items)
}

// checkAnchor requires exactly one MTPL item
func checkAnchor(items []types.PricingItem) error {
	first := ""
	for _, it := range items {
		if !it.IsAnchor() {
			continue
		}
		if first != "" {
			return errors.DuplicateAnchorKey(first, it.Key)
		}
		first = it.Key
	}
	if first == "" {
		return errors.MissingAnchorKey(types.ProductMTPL.String())
	}
	return nil
}

// checkPrices rejects prices the correction math is not defined for
func checkPrices(prices types.Prices) error {
	for _, k := range prices.Keys() {
		v := prices[k]
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return errors.InvalidPrice(k, v)
		}
	}
	return nil
}
