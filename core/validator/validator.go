// Package validator detects broken ordering rules in a price table.
// Validation never modifies prices.
package validator

import (
	"fmt"

	"pricing-guard/core/grouping"
	"pricing-guard/core/types"
	"pricing-guard/internal/errors"
)

// Synthetic operand names used when a rule compares against a derived value
const (
	BaseOperand    = "base(compact/basic)"
	ComfortOperand = "comfort"
)

// Validator checks a price table against the ordering rules
type Validator interface {
	Validate(prices types.Prices, items []types.PricingItem) ([]types.Violation, error)
}

// DefaultValidator validates monotonicity by product, deductible and variant
type DefaultValidator struct{}

// NewDefaultValidator creates the default validator
func NewDefaultValidator() *DefaultValidator {
	return &DefaultValidator{}
}

var _ Validator = (*DefaultValidator)(nil)

// Validate returns every violation, in rule-category order: product floor,
// cross-product, deductible, variant. It fails only when the MTPL anchor is
// missing.
func (v *DefaultValidator) Validate(prices types.Prices, items []types.PricingItem) ([]types.Violation, error) {
	mtplKey, ok := types.AnchorKey(items)
	if !ok {
		return nil, errors.MissingAnchorKey(types.ProductMTPL.String())
	}
	mtpl, ok := prices[mtplKey]
	if !ok {
		return nil, errors.MissingAnchorKey(mtplKey)
	}

	violations := make([]types.Violation, 0)
	violations = append(violations, checkProductFloor(prices, items, mtplKey, mtpl)...)
	violations = append(violations, checkCrossProduct(prices, items)...)
	violations = append(violations, checkDeductibles(prices, items)...)
	violations = append(violations, checkVariants(prices, items)...)
	return violations, nil
}

// checkProductFloor requires mtpl < min(product) for every non-anchor product
func checkProductFloor(prices types.Prices, items []types.PricingItem, mtplKey string, mtpl float64) []types.Violation {
	var out []types.Violation
	byProduct := grouping.KeysByProduct(items)

	for _, product := range []types.Product{types.ProductLimitedCasco, types.ProductCasco} {
		keys := byProduct[product]
		if len(keys) == 0 {
			continue
		}
		groupMin := grouping.MinPrice(prices, keys)
		if mtpl < groupMin {
			continue
		}
		out = append(out, types.Violation{
			Category:   types.CategoryProduct,
			Rule:       fmt.Sprintf("%s < min(%s)", types.ProductMTPL, product),
			Message:    fmt.Sprintf("%s must be cheaper than the cheapest policy in %s.", types.ProductMTPL, product),
			LeftKey:    mtplKey,
			RightKey:   fmt.Sprintf("min(%s)", product),
			LeftValue:  mtpl,
			RightValue: groupMin,
		})
	}
	return out
}

// checkCrossProduct requires limited_casco(v,d) < casco(v,d)
func checkCrossProduct(prices types.Prices, items []types.PricingItem) []types.Violation {
	var out []types.Violation
	for _, g := range grouping.ByVariantDeductible(items) {
		lcKey, okLC := g.Keys[types.ProductLimitedCasco]
		cKey, okC := g.Keys[types.ProductCasco]
		if !okLC || !okC {
			continue
		}
		if prices[lcKey] < prices[cKey] {
			continue
		}
		out = append(out, types.Violation{
			Category:   types.CategoryProduct,
			Rule:       "limited_casco < casco",
			Message:    "Limited Casco must be cheaper than Casco for same variant & deductible.",
			LeftKey:    lcKey,
			RightKey:   cKey,
			LeftValue:  prices[lcKey],
			RightValue: prices[cKey],
		})
	}
	return out
}

// checkDeductibles requires price(100) > price(200) > price(500) within a
// (product, variant) ladder. Each adjacent pair is checked on its own.
func checkDeductibles(prices types.Prices, items []types.PricingItem) []types.Violation {
	var out []types.Violation
	pairs := [][2]types.Deductible{
		{types.Deductible100, types.Deductible200},
		{types.Deductible200, types.Deductible500},
	}

	for _, g := range grouping.ByProductVariant(items) {
		for _, pair := range pairs {
			hiKey, okHi := g.Keys[pair[0]]
			loKey, okLo := g.Keys[pair[1]]
			if !okHi || !okLo {
				continue
			}
			if prices[hiKey] > prices[loKey] {
				continue
			}
			out = append(out, types.Violation{
				Category:   types.CategoryDeductible,
				Rule:       fmt.Sprintf("%s > %s", pair[0], pair[1]),
				Message:    fmt.Sprintf("%s_%s: %s must be more expensive than %s.", g.Product, g.Variant, pair[0], pair[1]),
				LeftKey:    hiKey,
				RightKey:   loKey,
				LeftValue:  prices[hiKey],
				RightValue: prices[loKey],
			})
		}
	}
	return out
}

// checkVariants requires base < comfort < premium within a (product,
// deductible) ladder, where base = max(compact, basic). Ladders without a
// base tier are skipped.
func checkVariants(prices types.Prices, items []types.PricingItem) []types.Violation {
	var out []types.Violation

	for _, g := range grouping.ByProductDeductible(items) {
		baseKeys := g.BaseKeys()
		if len(baseKeys) == 0 {
			continue
		}
		base := grouping.MaxPrice(prices, baseKeys)

		comfortKey, hasComfort := g.Keys[types.VariantComfort]
		if hasComfort && !(base < prices[comfortKey]) {
			out = append(out, types.Violation{
				Category:   types.CategoryVariant,
				Rule:       "base < comfort",
				Message:    fmt.Sprintf("%s_%s: comfort must be above compact/basic base.", g.Product, g.Deductible),
				LeftKey:    BaseOperand,
				RightKey:   comfortKey,
				LeftValue:  base,
				RightValue: prices[comfortKey],
			})
		}

		premiumKey, hasPremium := g.Keys[types.VariantPremium]
		if !hasPremium {
			continue
		}
		lower, lowerName := base, BaseOperand
		if hasComfort {
			lower, lowerName = prices[comfortKey], ComfortOperand
		}
		if lower < prices[premiumKey] {
			continue
		}
		out = append(out, types.Violation{
			Category:   types.CategoryVariant,
			Rule:       "comfort/base < premium",
			Message:    fmt.Sprintf("%s_%s: premium must be above comfort/base.", g.Product, g.Deductible),
			LeftKey:    lowerName,
			RightKey:   premiumKey,
			LeftValue:  lower,
			RightValue: prices[premiumKey],
		})
	}
	return out
}
