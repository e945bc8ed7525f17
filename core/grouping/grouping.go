// Package grouping builds read-only lookup indices over parsed pricing items.
// Groups are returned in enum declaration order so that every consumer
// iterates them deterministically.
package grouping

import (
	"sort"

	"pricing-guard/core/types"
)

// KeysByProduct maps each product to its keys, in item order
func KeysByProduct(items []types.PricingItem) map[types.Product][]string {
	out := make(map[types.Product][]string)
	for _, it := range items {
		out[it.Product] = append(out[it.Product], it.Key)
	}
	return out
}

// ProductVariantGroup is a deductible ladder: (product, variant) -> {deductible -> key}
type ProductVariantGroup struct {
	Product types.Product
	Variant types.Variant
	Keys    map[types.Deductible]string
}

// ProductDeductibleGroup is a variant ladder: (product, deductible) -> {variant -> key}
type ProductDeductibleGroup struct {
	Product    types.Product
	Deductible types.Deductible
	Keys       map[types.Variant]string
}

// VariantDeductibleGroup is a cross-product cell: (variant, deductible) -> {product -> key}
type VariantDeductibleGroup struct {
	Variant    types.Variant
	Deductible types.Deductible
	Keys       map[types.Product]string
}

// ByProductVariant groups non-MTPL items by (product, variant)
func ByProductVariant(items []types.PricingItem) []ProductVariantGroup {
	type gk struct {
		p types.Product
		v types.Variant
	}
	idx := make(map[gk]int)
	var out []ProductVariantGroup

	for _, it := range items {
		if it.IsAnchor() {
			continue
		}
		k := gk{it.Product, it.Variant}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, ProductVariantGroup{
				Product: it.Product,
				Variant: it.Variant,
				Keys:    make(map[types.Deductible]string),
			})
		}
		out[i].Keys[it.Deductible] = it.Key
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Product != out[j].Product {
			return out[i].Product.Rank() < out[j].Product.Rank()
		}
		return out[i].Variant.Rank() < out[j].Variant.Rank()
	})
	return out
}

// ByProductDeductible groups non-MTPL items by (product, deductible)
func ByProductDeductible(items []types.PricingItem) []ProductDeductibleGroup {
	type gk struct {
		p types.Product
		d types.Deductible
	}
	idx := make(map[gk]int)
	var out []ProductDeductibleGroup

	for _, it := range items {
		if it.IsAnchor() {
			continue
		}
		k := gk{it.Product, it.Deductible}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, ProductDeductibleGroup{
				Product:    it.Product,
				Deductible: it.Deductible,
				Keys:       make(map[types.Variant]string),
			})
		}
		out[i].Keys[it.Variant] = it.Key
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Product != out[j].Product {
			return out[i].Product.Rank() < out[j].Product.Rank()
		}
		return out[i].Deductible.Rank() < out[j].Deductible.Rank()
	})
	return out
}

// ByVariantDeductible groups non-MTPL items by (variant, deductible)
func ByVariantDeductible(items []types.PricingItem) []VariantDeductibleGroup {
	type gk struct {
		v types.Variant
		d types.Deductible
	}
	idx := make(map[gk]int)
	var out []VariantDeductibleGroup

	for _, it := range items {
		if it.IsAnchor() {
			continue
		}
		k := gk{it.Variant, it.Deductible}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, VariantDeductibleGroup{
				Variant:    it.Variant,
				Deductible: it.Deductible,
				Keys:       make(map[types.Product]string),
			})
		}
		out[i].Keys[it.Product] = it.Key
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Variant != out[j].Variant {
			return out[i].Variant.Rank() < out[j].Variant.Rank()
		}
		return out[i].Deductible.Rank() < out[j].Deductible.Rank()
	})
	return out
}

// BaseKeys returns the compact/basic keys present in a variant ladder
func (g ProductDeductibleGroup) BaseKeys() []string {
	var keys []string
	for _, v := range types.BaseVariants {
		if k, ok := g.Keys[v]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// MinPrice returns the lowest price among keys; keys must be non-empty
func MinPrice(prices types.Prices, keys []string) float64 {
	m := prices[keys[0]]
	for _, k := range keys[1:] {
		if prices[k] < m {
			m = prices[k]
		}
	}
	return m
}

// MaxPrice returns the highest price among keys; keys must be non-empty
func MaxPrice(prices types.Prices, keys []string) float64 {
	m := prices[keys[0]]
	for _, k := range keys[1:] {
		if prices[k] > m {
			m = prices[k]
		}
	}
	return m
}
