// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions and the
// fixed pricing reference tables.
package types

import "strconv"

// Product represents an insurance product line
type Product string

const (
	// ProductMTPL is the mandatory third-party liability product (the anchor)
	ProductMTPL Product = "mtpl"

	// ProductLimitedCasco is the limited comprehensive coverage product
	ProductLimitedCasco Product = "limited_casco"

	// ProductCasco is the full comprehensive coverage product
	ProductCasco Product = "casco"
)

// Products lists every product in declaration order
var Products = []Product{ProductMTPL, ProductLimitedCasco, ProductCasco}

// String returns the canonical key token of the product
func (p Product) String() string {
	return string(p)
}

// IsValid checks if the product is a known product
func (p Product) IsValid() bool {
	switch p {
	case ProductMTPL, ProductLimitedCasco, ProductCasco:
		return true
	default:
		return false
	}
}

// Rank returns the declaration index, used for deterministic ordering
func (p Product) Rank() int {
	for i, v := range Products {
		if v == p {
			return i
		}
	}
	return len(Products)
}

// Variant represents a coverage tier within a product
type Variant string

const (
	VariantCompact Variant = "compact"
	VariantBasic   Variant = "basic"
	VariantComfort Variant = "comfort"
	VariantPremium Variant = "premium"
)

// Variants lists every variant in declaration order
var Variants = []Variant{VariantCompact, VariantBasic, VariantComfort, VariantPremium}

// BaseVariants are the equal-rank tiers the variant ladder starts from
var BaseVariants = []Variant{VariantCompact, VariantBasic}

// String returns the canonical key token of the variant
func (v Variant) String() string {
	return string(v)
}

// IsValid checks if the variant is a known variant
func (v Variant) IsValid() bool {
	switch v {
	case VariantCompact, VariantBasic, VariantComfort, VariantPremium:
		return true
	default:
		return false
	}
}

// IsBase reports whether the variant belongs to the compact/basic base tier
func (v Variant) IsBase() bool {
	return v == VariantCompact || v == VariantBasic
}

// Rank returns the declaration index, used for deterministic ordering
func (v Variant) Rank() int {
	for i, x := range Variants {
		if x == v {
			return i
		}
	}
	return len(Variants)
}

// Deductible is the out-of-pocket threshold of a policy
type Deductible int

const (
	Deductible100 Deductible = 100
	Deductible200 Deductible = 200
	Deductible500 Deductible = 500
)

// Deductibles lists every deductible in ascending order
var Deductibles = []Deductible{Deductible100, Deductible200, Deductible500}

// Amount returns the numeric deductible amount
func (d Deductible) Amount() int {
	return int(d)
}

// String returns the key token of the deductible
func (d Deductible) String() string {
	return strconv.Itoa(int(d))
}

// IsValid checks if the deductible is a supported level
func (d Deductible) IsValid() bool {
	switch d {
	case Deductible100, Deductible200, Deductible500:
		return true
	default:
		return false
	}
}

// Rank returns the declaration index, used for deterministic ordering
func (d Deductible) Rank() int {
	for i, x := range Deductibles {
		if x == d {
			return i
		}
	}
	return len(Deductibles)
}

// ReferenceAvgPrice holds the market reference average price per product.
// Ratios between products are derived from it and never mutated at runtime.
var ReferenceAvgPrice = map[Product]float64{
	ProductMTPL:         400.0,
	ProductLimitedCasco: 700.0,
	ProductCasco:        900.0,
}

var (
	// RatioLimitedCascoOverMTPL is 700/400 = 1.75
	RatioLimitedCascoOverMTPL = ReferenceAvgPrice[ProductLimitedCasco] / ReferenceAvgPrice[ProductMTPL]

	// RatioCascoOverMTPL is 900/400 = 2.25
	RatioCascoOverMTPL = ReferenceAvgPrice[ProductCasco] / ReferenceAvgPrice[ProductMTPL]

	// RatioCascoOverLimitedCasco is 900/700 ~ 1.2857
	RatioCascoOverLimitedCasco = ReferenceAvgPrice[ProductCasco] / ReferenceAvgPrice[ProductLimitedCasco]
)

// FloorRatio returns the minimum-price ratio of a product over MTPL
func FloorRatio(p Product) float64 {
	switch p {
	case ProductLimitedCasco:
		return RatioLimitedCascoOverMTPL
	case ProductCasco:
		return RatioCascoOverMTPL
	default:
		return 1.0
	}
}

// DeductibleFactor is the discount of each deductible relative to the 100 tier
var DeductibleFactor = map[Deductible]float64{
	Deductible100: 1.00,
	Deductible200: 0.90,
	Deductible500: 0.80,
}

// VariantFactor is the step of each variant relative to the compact/basic base
var VariantFactor = map[Variant]float64{
	VariantCompact: 1.00,
	VariantBasic:   1.00,
	VariantComfort: 1.07,
	VariantPremium: 1.14,
}
