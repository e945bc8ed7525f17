// Package guards - Post-condition checks on engine output.
// A failed guard means a bug in the fixer, never bad input.
package guards

import (
	"fmt"
	"math"

	"pricing-guard/core/types"
)

// KeyspacePreserved asserts fixed has exactly the keys of original
func KeyspacePreserved(original, fixed types.Prices) error {
	if len(original) != len(fixed) {
		return fmt.Errorf("keyspace changed: %d keys in, %d keys out", len(original), len(fixed))
	}
	for _, k := range original.Keys() {
		if _, ok := fixed[k]; !ok {
			return fmt.Errorf("keyspace changed: %q dropped", k)
		}
	}
	return nil
}

// PricesFinite asserts every price is finite and strictly positive
func PricesFinite(prices types.Prices) error {
	for _, k := range prices.Keys() {
		v := prices[k]
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("price of %q became %v", k, v)
		}
	}
	return nil
}

// ConvergedClean asserts a converged result carries no remaining violations
func ConvergedClean(r *types.FixResult) error {
	if r.Converged && len(r.Report.ViolationsAfter) > 0 {
		return fmt.Errorf("converged with %d violation(s) left", len(r.Report.ViolationsAfter))
	}
	return nil
}

// CheckResult runs every guard against a finished run
func CheckResult(original types.Prices, r *types.FixResult) error {
	if err := KeyspacePreserved(original, r.FixedPrices); err != nil {
		return err
	}
	if err := PricesFinite(r.FixedPrices); err != nil {
		return err
	}
	return ConvergedClean(r)
}
