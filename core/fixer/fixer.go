// Package fixer applies targeted corrections that move a price table toward
// compliance with the ordering rules. Every correction first checks its own
// violation condition; already compliant values are never rewritten.
package fixer

import (
	"go.uber.org/zap"

	"pricing-guard/core/determinism"
	"pricing-guard/core/types"
)

// DefaultTauOutlier is the multiplicative deviation beyond which the MTPL
// anchor is considered corrupted
const DefaultTauOutlier = 5.0

// logPrecision is the number of decimals used in fix-log entries
const logPrecision = 6

// Fixer mutates prices in place and reports whether anything changed
type Fixer interface {
	FixPass(prices types.Prices, items []types.PricingItem, report *types.FixReport) bool
}

// DefaultFixer runs the anchor, product-minima, cross-product, deductible
// ladder and variant ladder corrections, in that order.
type DefaultFixer struct {
	tauOutlier   float64
	enableAnchor bool
	logger       *zap.Logger
}

// Option configures a DefaultFixer
type Option func(*DefaultFixer)

// WithTauOutlier sets the anchor outlier threshold
func WithTauOutlier(tau float64) Option {
	return func(f *DefaultFixer) { f.tauOutlier = tau }
}

// WithAnchor enables or disables the anchor correction
func WithAnchor(enabled bool) Option {
	return func(f *DefaultFixer) { f.enableAnchor = enabled }
}

// WithLogger sets the logger mutations are reported to
func WithLogger(l *zap.Logger) Option {
	return func(f *DefaultFixer) { f.logger = l }
}

// NewDefaultFixer creates the default fixer
func NewDefaultFixer(opts ...Option) *DefaultFixer {
	f := &DefaultFixer{
		tauOutlier:   DefaultTauOutlier,
		enableAnchor: true,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ Fixer = (*DefaultFixer)(nil)

// FixPass runs every correction once. All corrections run even when an
// earlier one changed something.
func (f *DefaultFixer) FixPass(prices types.Prices, items []types.PricingItem, report *types.FixReport) bool {
	changed := false
	if f.enableAnchor {
		changed = f.SetAnchor(prices, items, report) || changed
	}
	changed = f.EnforceProductMinima(prices, items, report) || changed
	changed = f.EnforceCrossProduct(prices, items, report) || changed
	changed = f.EnforceDeductibleLadder(prices, items, report) || changed
	changed = f.EnforceVariantLadder(prices, items, report) || changed
	return changed
}

// set writes a single corrected price and records it
func (f *DefaultFixer) set(prices types.Prices, report *types.FixReport, tag, key string, target float64, suffix string) {
	old := prices[key]
	prices[key] = target

	msg := "[" + tag + "] " + key + ": " + fmtPrice(old) + " -> " + fmtPrice(target)
	if suffix != "" {
		msg += " " + suffix
	}
	report.Log(msg)
	f.logger.Debug("price corrected",
		zap.String("correction", tag),
		zap.String("key", key),
		zap.Float64("old", old),
		zap.Float64("new", target),
	)
}

func fmtPrice(v float64) string {
	return determinism.FormatPrice(v, logPrecision)
}
