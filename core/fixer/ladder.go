package fixer

import (
	"pricing-guard/core/grouping"
	"pricing-guard/core/types"
)

// EnforceDeductibleLadder fixes price(100) > price(200) > price(500) within
// each (product, variant). A violation anywhere in a ladder rebuilds every
// present non-100 tier from the 100 price:
//
//	price(200) := 0.90 * price(100)
//	price(500) := 0.80 * price(100)
//
// Ladders without a 100 tier are left alone; the 100 price is never altered.
func (f *DefaultFixer) EnforceDeductibleLadder(prices types.Prices, items []types.PricingItem, report *types.FixReport) bool {
	changed := false
	for _, g := range grouping.ByProductVariant(items) {
		k100, ok := g.Keys[types.Deductible100]
		if !ok {
			continue
		}
		p100 := prices[k100]
		k200, has200 := g.Keys[types.Deductible200]
		k500, has500 := g.Keys[types.Deductible500]

		violates := false
		if has200 && !(p100 > prices[k200]) {
			violates = true
		}
		if has200 && has500 && !(prices[k200] > prices[k500]) {
			violates = true
		}
		if !violates {
			continue
		}

		for _, d := range []types.Deductible{types.Deductible200, types.Deductible500} {
			key, ok := g.Keys[d]
			if !ok {
				continue
			}
			f.set(prices, report, "deductible", key, types.DeductibleFactor[d]*p100, "")
			changed = true
		}
	}
	return changed
}

// EnforceVariantLadder fixes base < comfort < premium within each (product,
// deductible), base being max(compact, basic). A violation rebuilds both
// higher tiers that are present:
//
//	comfort := 1.07 * base
//	premium := 1.14 * base
//
// The base tier is never altered.
func (f *DefaultFixer) EnforceVariantLadder(prices types.Prices, items []types.PricingItem, report *types.FixReport) bool {
	changed := false
	for _, g := range grouping.ByProductDeductible(items) {
		baseKeys := g.BaseKeys()
		if len(baseKeys) == 0 {
			continue
		}
		base := grouping.MaxPrice(prices, baseKeys)
		comfortKey, hasComfort := g.Keys[types.VariantComfort]
		premiumKey, hasPremium := g.Keys[types.VariantPremium]

		violates := false
		if hasComfort && prices[comfortKey] <= base {
			violates = true
		}
		if hasPremium {
			lower := base
			if hasComfort {
				lower = prices[comfortKey]
			}
			if prices[premiumKey] <= lower {
				violates = true
			}
		}
		if !violates {
			continue
		}

		if hasComfort {
			f.set(prices, report, "variant", comfortKey, types.VariantFactor[types.VariantComfort]*base, "")
			changed = true
		}
		if hasPremium {
			f.set(prices, report, "variant", premiumKey, types.VariantFactor[types.VariantPremium]*base, "")
			changed = true
		}
	}
	return changed
}
