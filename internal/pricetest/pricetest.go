// Package pricetest provides price-table fixtures for tests.
package pricetest

import (
	"fmt"
	"math"

	"pricing-guard/core/types"
)

// Tolerance is the absolute tolerance used by ApproxEqual
const Tolerance = 1e-9

// Consistent builds a complete table that satisfies every ordering rule:
// each (product, variant, deductible) cell is base * variant factor *
// deductible factor, with bases 700 and 900.
func Consistent(mtpl float64) types.Prices {
	prices := types.Prices{types.ProductMTPL.String(): mtpl}
	bases := map[types.Product]float64{
		types.ProductLimitedCasco: 700.0,
		types.ProductCasco:        900.0,
	}
	for _, product := range []types.Product{types.ProductLimitedCasco, types.ProductCasco} {
		for _, v := range types.Variants {
			for _, d := range types.Deductibles {
				prices[Key(product, v, d)] = bases[product] * types.VariantFactor[v] * types.DeductibleFactor[d]
			}
		}
	}
	return prices
}

// Key formats a structured price-table key
func Key(p types.Product, v types.Variant, d types.Deductible) string {
	return fmt.Sprintf("%s_%s_%d", p, v, d)
}

// ApproxEqual compares two prices with an absolute tolerance
func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}

// RelEqual compares two ratios with a relative tolerance
func RelEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= Tolerance*math.Max(math.Abs(a), math.Abs(b))
}
