package fixer

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"pricing-guard/core/grouping"
	"pricing-guard/core/types"
)

// anchorNoopTolerance keeps the anchor from being rewritten with itself
const anchorNoopTolerance = 1e-12

// SetAnchor keeps MTPL as the reference price unless it is an outlier
// relative to the price level implied by the other products.
//
// Per-product scaling multipliers are
//
//	k_mtpl = mtpl / 400
//	k_lc   = mean(limited_casco) / 700
//	k_c    = mean(casco) / 900
//
// and k_ref is their median over the products present. When k_mtpl deviates
// from k_ref by more than tauOutlier multiplicatively, mtpl := 400 * k_ref.
func (f *DefaultFixer) SetAnchor(prices types.Prices, items []types.PricingItem, report *types.FixReport) bool {
	mtplKey, ok := types.AnchorKey(items)
	if !ok {
		return false
	}
	mtpl := prices[mtplKey]
	byProduct := grouping.KeysByProduct(items)

	kMTPL := mtpl / types.ReferenceAvgPrice[types.ProductMTPL]
	ks := []float64{kMTPL}
	for _, product := range []types.Product{types.ProductLimitedCasco, types.ProductCasco} {
		keys := byProduct[product]
		if len(keys) == 0 {
			continue
		}
		ks = append(ks, meanPrice(prices, keys)/types.ReferenceAvgPrice[product])
	}

	kRef := median(ks)
	ratio := math.Max(kMTPL/kRef, kRef/kMTPL)
	if !(ratio > f.tauOutlier) {
		return false
	}

	target := types.ReferenceAvgPrice[types.ProductMTPL] * kRef
	if math.Abs(target-mtpl) <= anchorNoopTolerance {
		return false
	}

	prices[mtplKey] = target
	report.Logf("[anchor] %s %s -> %s (ratio=%.3f)", mtplKey, fmtPrice(mtpl), fmtPrice(target), ratio)
	f.logger.Info("anchor replaced",
		zap.String("key", mtplKey),
		zap.Float64("old", mtpl),
		zap.Float64("new", target),
		zap.Float64("ratio", ratio),
		zap.Float64("tau", f.tauOutlier),
	)
	return true
}

func meanPrice(prices types.Prices, keys []string) float64 {
	sum := 0.0
	for _, k := range keys {
		sum += prices[k]
	}
	return sum / float64(len(keys))
}

// median of a non-empty slice; even-length input averages the middle pair
func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
