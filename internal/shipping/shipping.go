// Package shipping resolves governorate-based shipping rates. The rate
// table is static configuration loaded at startup (built-in defaults, a
// local JSON document, or an S3 object) and injected behind RateTable
// so callers and tests never depend on the source.
package shipping

import "strings"

// Rate is the shipping tuple for one governorate.
type Rate struct {
	BaseRate              int64 `json:"baseRate"`
	FreeShippingThreshold int64 `json:"freeShippingThreshold"`
	EstimatedDeliveryDays int   `json:"estimatedDeliveryDays"`
}

// RateTable looks up the shipping rate for a governorate. Unknown
// governorates resolve to the default tuple.
type RateTable interface {
	Lookup(governorate string) Rate
}

// Cost returns the shipping cost for a subtotal under the given rate:
// zero at or above the free-shipping threshold, the base rate below it.
func Cost(rate Rate, subtotal int64) int64 {
	if subtotal >= rate.FreeShippingThreshold {
		return 0
	}
	return rate.BaseRate
}

// staticTable implements RateTable over an in-memory map with
// case-insensitive governorate keys.
type staticTable struct {
	rates    map[string]Rate
	fallback Rate
}

// NewTable creates a rate table from a governorate map and a default
// fallback tuple.
func NewTable(rates map[string]Rate, fallback Rate) RateTable {
	normalised := make(map[string]Rate, len(rates))
	for governorate, rate := range rates {
		normalised[normaliseKey(governorate)] = rate
	}
	return &staticTable{
		rates:    normalised,
		fallback: fallback,
	}
}

// Lookup returns the rate for a governorate, falling back to the
// default tuple for unlisted regions.
func (t *staticTable) Lookup(governorate string) Rate {
	if rate, ok := t.rates[normaliseKey(governorate)]; ok {
		return rate
	}
	return t.fallback
}

func normaliseKey(governorate string) string {
	return strings.ToLower(strings.TrimSpace(governorate))
}

// DefaultRates returns the built-in governorate table used when no
// rates document is configured.
func DefaultRates() map[string]Rate {
	return map[string]Rate{
		"Baghdad":      {BaseRate: 3_000, FreeShippingThreshold: 50_000, EstimatedDeliveryDays: 2},
		"Basra":        {BaseRate: 5_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 3},
		"Erbil":        {BaseRate: 5_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 3},
		"Sulaymaniyah": {BaseRate: 5_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 3},
		"Nineveh":      {BaseRate: 6_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 4},
		"Najaf":        {BaseRate: 4_000, FreeShippingThreshold: 60_000, EstimatedDeliveryDays: 3},
		"Karbala":      {BaseRate: 4_000, FreeShippingThreshold: 60_000, EstimatedDeliveryDays: 3},
		"Kirkuk":       {BaseRate: 5_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 4},
		"Anbar":        {BaseRate: 7_000, FreeShippingThreshold: 100_000, EstimatedDeliveryDays: 5},
		"Babylon":      {BaseRate: 4_000, FreeShippingThreshold: 60_000, EstimatedDeliveryDays: 3},
		"Diyala":       {BaseRate: 5_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 4},
		"Dhi Qar":      {BaseRate: 5_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 4},
		"Maysan":       {BaseRate: 6_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 5},
		"Muthanna":     {BaseRate: 6_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 5},
		"Qadisiyyah":   {BaseRate: 5_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 4},
		"Salah al-Din": {BaseRate: 6_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 4},
		"Wasit":        {BaseRate: 5_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 4},
		"Duhok":        {BaseRate: 6_000, FreeShippingThreshold: 75_000, EstimatedDeliveryDays: 4},
	}
}

// DefaultFallback returns the rate applied to unlisted governorates.
func DefaultFallback() Rate {
	return Rate{BaseRate: 7_000, FreeShippingThreshold: 100_000, EstimatedDeliveryDays: 6}
}
