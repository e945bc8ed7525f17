// Package parser turns price-table keys into structured pricing items.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"pricing-guard/core/types"
	"pricing-guard/internal/errors"
)

// Parser converts price-table keys into pricing items
type Parser interface {
	// ParseKey parses a single key
	ParseKey(key string) (types.PricingItem, error)

	// ParseAll parses every key of the table
	ParseAll(prices types.Prices) ([]types.PricingItem, error)
}

// keyPattern matches "{limited_casco|casco}_{variant}_{deductible}" on the
// lower-cased, trimmed key. The whole key must match.
var keyPattern = regexp.MustCompile(`^(limited_casco|casco)_(compact|basic|comfort|premium)_(\d+)$`)

// DefaultParser parses "mtpl" and "{limited_casco|casco}_{variant}_{deductible}"
type DefaultParser struct{}

// NewDefaultParser creates the default key parser
func NewDefaultParser() *DefaultParser {
	return &DefaultParser{}
}

var _ Parser = (*DefaultParser)(nil)

// ParseKey parses a single key. Matching is case-insensitive and ignores
// surrounding whitespace; the returned item keeps the original key.
func (p *DefaultParser) ParseKey(key string) (types.PricingItem, error) {
	k := strings.ToLower(strings.TrimSpace(key))

	if k == types.ProductMTPL.String() {
		return types.PricingItem{Key: key, Product: types.ProductMTPL}, nil
	}

	m := keyPattern.FindStringSubmatch(k)
	if m == nil {
		return types.PricingItem{}, errors.InvalidKeyFormat(key, failingToken(k))
	}

	product := types.Product(m[1])
	variant := types.Variant(m[2])

	amount, err := strconv.Atoi(m[3])
	if err != nil {
		return types.PricingItem{}, errors.InvalidKeyFormat(key, m[3])
	}
	deductible := types.Deductible(amount)
	if !deductible.IsValid() {
		return types.PricingItem{}, errors.InvalidKeyFormat(key, m[3])
	}

	return types.PricingItem{
		Key:        key,
		Product:    product,
		Variant:    variant,
		Deductible: deductible,
	}, nil
}

// ParseAll parses every key of the table in sorted key order. The first
// unparseable key fails the whole call.
func (p *DefaultParser) ParseAll(prices types.Prices) ([]types.PricingItem, error) {
	items := make([]types.PricingItem, 0, len(prices))
	for _, key := range prices.Keys() {
		item, err := p.ParseKey(key)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// failingToken locates the first part of a normalized key that keeps it from
// matching keyPattern.
func failingToken(k string) string {
	var rest string
	switch {
	case strings.HasPrefix(k, types.ProductLimitedCasco.String()+"_"):
		rest = strings.TrimPrefix(k, types.ProductLimitedCasco.String()+"_")
	case strings.HasPrefix(k, types.ProductCasco.String()+"_"):
		rest = strings.TrimPrefix(k, types.ProductCasco.String()+"_")
	default:
		if i := strings.Index(k, "_"); i >= 0 {
			return k[:i]
		}
		return k
	}

	parts := strings.Split(rest, "_")
	if !types.Variant(parts[0]).IsValid() {
		return parts[0]
	}
	if len(parts) < 2 {
		return rest
	}
	return strings.Join(parts[1:], "_")
}
