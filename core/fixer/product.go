package fixer

import (
	"go.uber.org/zap"

	"pricing-guard/core/grouping"
	"pricing-guard/core/types"
)

// EnforceProductMinima fixes mtpl < min(limited_casco) and mtpl < min(casco).
//
// When a group's minimum is at or below mtpl, the whole group is scaled by
// target_min / current_min with target_min = ratio * mtpl (1.75 for limited
// casco, 2.25 for casco). Relative differences inside the group are kept and
// the new minimum lands exactly on the target.
func (f *DefaultFixer) EnforceProductMinima(prices types.Prices, items []types.PricingItem, report *types.FixReport) bool {
	mtplKey, ok := types.AnchorKey(items)
	if !ok {
		return false
	}
	mtpl := prices[mtplKey]
	byProduct := grouping.KeysByProduct(items)

	changed := false
	for _, product := range []types.Product{types.ProductLimitedCasco, types.ProductCasco} {
		keys := byProduct[product]
		if len(keys) == 0 {
			continue
		}

		currentMin := grouping.MinPrice(prices, keys)
		if currentMin > mtpl {
			continue
		}

		targetMin := types.FloorRatio(product) * mtpl
		scale := targetMin / currentMin
		for _, k := range keys {
			prices[k] = prices[k] * scale
		}

		report.Logf("[product-min] scaled %s by %s (min %s -> %s)",
			product, fmtPrice(scale), fmtPrice(currentMin), fmtPrice(targetMin))
		f.logger.Debug("product group scaled",
			zap.String("product", product.String()),
			zap.Float64("scale", scale),
			zap.Int("keys", len(keys)),
		)
		changed = true
	}
	return changed
}

// EnforceCrossProduct fixes limited_casco(v,d) < casco(v,d). A violating
// casco cell is rebased to (900/700) * limited_casco(v,d); no other cell is
// touched.
func (f *DefaultFixer) EnforceCrossProduct(prices types.Prices, items []types.PricingItem, report *types.FixReport) bool {
	changed := false
	for _, g := range grouping.ByVariantDeductible(items) {
		lcKey, okLC := g.Keys[types.ProductLimitedCasco]
		cKey, okC := g.Keys[types.ProductCasco]
		if !okLC || !okC {
			continue
		}
		if prices[cKey] > prices[lcKey] {
			continue
		}

		target := types.RatioCascoOverLimitedCasco * prices[lcKey]
		f.set(prices, report, "product", cKey, target, "(rebase vs "+lcKey+")")
		changed = true
	}
	return changed
}
