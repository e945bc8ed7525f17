// Package types - Pricing table, violation and report types
package types

import (
	"fmt"
	"sort"
)

// Prices maps a price-table key to its price
type Prices map[string]float64

// Clone returns an independent copy of the table
func (p Prices) Clone() Prices {
	out := make(Prices, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Keys returns the table keys in sorted order
func (p Prices) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PricingItem is the parsed representation of a price-table key.
// MTPL items carry neither variant nor deductible; every other product
// carries both. Items are never mutated after parsing.
type PricingItem struct {
	// Key is the original, unnormalized table key
	Key string `json:"key"`

	// Product is the product line
	Product Product `json:"product"`

	// Variant is the coverage tier (empty for MTPL)
	Variant Variant `json:"variant,omitempty"`

	// Deductible is the deductible level (zero for MTPL)
	Deductible Deductible `json:"deductible,omitempty"`
}

// HasVariant reports whether the item carries a variant
func (i PricingItem) HasVariant() bool {
	return i.Variant != ""
}

// HasDeductible reports whether the item carries a deductible
func (i PricingItem) HasDeductible() bool {
	return i.Deductible != 0
}

// IsAnchor reports whether the item is the MTPL anchor
func (i PricingItem) IsAnchor() bool {
	return i.Product == ProductMTPL
}

// AnchorKey returns the key of the first MTPL item, if any
func AnchorKey(items []PricingItem) (string, bool) {
	for _, it := range items {
		if it.IsAnchor() {
			return it.Key, true
		}
	}
	return "", false
}

// Category groups violations by the rule family that produced them
type Category string

const (
	CategoryProduct    Category = "product"
	CategoryDeductible Category = "deductible"
	CategoryVariant    Category = "variant"
)

// Violation is a single broken ordering rule
type Violation struct {
	// Category is the rule family
	Category Category `json:"category"`

	// Rule is a short rule identifier
	Rule string `json:"rule"`

	// Message is human readable
	Message string `json:"message"`

	LeftKey    string  `json:"left_key"`
	RightKey   string  `json:"right_key"`
	LeftValue  float64 `json:"left_value"`
	RightValue float64 `json:"right_value"`
}

// String returns a one-line description of the violation
func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s (%s=%.2f, %s=%.2f)",
		v.Category, v.Rule, v.Message, v.LeftKey, v.LeftValue, v.RightKey, v.RightValue)
}

// FixReport accumulates what happened during one engine invocation
type FixReport struct {
	// ViolationsBefore are the violations of the input table
	ViolationsBefore []Violation `json:"violations_before"`

	// ViolationsAfter are the violations left after fixing
	ViolationsAfter []Violation `json:"violations_after"`

	// FixLog is the ordered list of corrections, one per mutation
	FixLog []string `json:"fix_log"`
}

// NewFixReport creates an empty report
func NewFixReport() *FixReport {
	return &FixReport{
		ViolationsBefore: []Violation{},
		ViolationsAfter:  []Violation{},
		FixLog:           []string{},
	}
}

// Log appends a correction entry
func (r *FixReport) Log(msg string) {
	r.FixLog = append(r.FixLog, msg)
}

// Logf appends a formatted correction entry
func (r *FixReport) Logf(format string, args ...interface{}) {
	r.Log(fmt.Sprintf(format, args...))
}

// Metadata identifies a single engine invocation
type Metadata struct {
	// RunID is unique per invocation
	RunID string `json:"run_id"`

	// InputHash fingerprints the input table
	InputHash string `json:"input_hash"`

	// MaxIterations is the cap the run was bounded by
	MaxIterations int `json:"max_iterations"`
}

// FixResult is the final snapshot returned to the caller
type FixResult struct {
	// FixedPrices is the corrected table, same keyspace as the input
	FixedPrices Prices `json:"fixed_prices"`

	// Converged is true when a validation pass found no violations
	Converged bool `json:"converged"`

	// Iterations is the number of loop iterations used
	Iterations int `json:"iterations"`

	// Report holds before/after violations and the fix log
	Report *FixReport `json:"report"`

	Metadata Metadata `json:"metadata"`
}

// ChangedKeys returns, in sorted order, the keys whose price differs from original
func (r *FixResult) ChangedKeys(original Prices) []string {
	var changed []string
	for _, k := range r.FixedPrices.Keys() {
		if old, ok := original[k]; !ok || old != r.FixedPrices[k] {
			changed = append(changed, k)
		}
	}
	return changed
}
