// Package market defines aggregate statistics entities derived from grouped
// knowledge-base queries.
package market

import "github.com/shopspring/decimal"

// MarketStats holds per-category price statistics.
type MarketStats struct {
	Category     string
	MinPrice     decimal.Decimal
	MaxPrice     decimal.Decimal
	AvgPrice     decimal.Decimal
	ProductCount int
}

// PriceRange is the width of the category's price band.
func (s MarketStats) PriceRange() decimal.Decimal {
	return s.MaxPrice.Sub(s.MinPrice)
}

// VendorStats holds per-vendor price statistics.
type VendorStats struct {
	Vendor       string
	ProductCount int
	AvgPrice     decimal.Decimal
	MinPrice     decimal.Decimal
	MaxPrice     decimal.Decimal
}

// Competitive reports whether the vendor prices aggressively: the average
// lies within the lower 40% of the vendor's own [min,max] band. A zero-width
// band is always competitive.
func (s VendorStats) Competitive() bool {
	band := s.MaxPrice.Sub(s.MinPrice)
	if band.IsZero() {
		return true
	}
	position := s.AvgPrice.Sub(s.MinPrice).Div(band)
	return position.LessThanOrEqual(decimal.NewFromFloat(0.4))
}

// BrandStats holds per-brand statistics.
type BrandStats struct {
	Brand        string
	ProductCount int
	AvgPrice     decimal.Decimal
}
