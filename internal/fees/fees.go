// Package fees estimates shipping cost and marketplace fees for a sale.
// Estimates are suggestions used to pre-fill editable fields; they never fail.
package fees

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Tier charges Cost for sale prices at or above Min.
type Tier struct {
	Min  decimal.Decimal
	Cost decimal.Decimal
}

// Config configures an Estimator.
type Config struct {
	// Rates maps a lowercase platform identifier to its fee in percent.
	Rates map[string]decimal.Decimal
	// Tiers are shipping steps; order does not matter.
	Tiers []Tier
	// BaseShipping applies below the lowest tier.
	BaseShipping decimal.Decimal
}

// DefaultConfig returns the built-in fee schedule and shipping steps.
func DefaultConfig() Config {
	return Config{
		Rates: map[string]decimal.Decimal{
			"ebay":     decimal.RequireFromString("13.25"),
			"stockx":   decimal.RequireFromString("12"),
			"depop":    decimal.RequireFromString("12.5"),
			"facebook": decimal.RequireFromString("5"),
			"offerup":  decimal.RequireFromString("12.9"),
		},
		Tiers: []Tier{
			{Min: decimal.NewFromInt(300), Cost: decimal.NewFromInt(25)},
			{Min: decimal.NewFromInt(150), Cost: decimal.NewFromInt(15)},
			{Min: decimal.NewFromInt(75), Cost: decimal.NewFromInt(10)},
		},
		BaseShipping: decimal.NewFromInt(6),
	}
}

// Estimator maps a sale price and platform to suggested costs.
type Estimator struct {
	rates map[string]decimal.Decimal
	tiers []Tier
	base  decimal.Decimal
}

// New creates an Estimator from cfg.
func New(cfg Config) *Estimator {
	rates := make(map[string]decimal.Decimal, len(cfg.Rates))
	for k, v := range cfg.Rates {
		rates[strings.ToLower(strings.TrimSpace(k))] = v
	}

	tiers := append([]Tier(nil), cfg.Tiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Min.GreaterThan(tiers[j].Min) })

	return &Estimator{rates: rates, tiers: tiers, base: cfg.BaseShipping}
}

// Shipping returns the suggested shipping cost for a sale price.
func (e *Estimator) Shipping(salePrice decimal.Decimal) decimal.Decimal {
	for _, t := range e.tiers {
		if salePrice.GreaterThanOrEqual(t.Min) {
			return t.Cost
		}
	}
	return e.base
}

// Rate returns the fee percentage for a platform, zero when unknown.
func (e *Estimator) Rate(platform string) decimal.Decimal {
	rate, ok := e.rates[strings.ToLower(strings.TrimSpace(platform))]
	if !ok {
		return decimal.Zero
	}
	return rate
}

// PlatformFee returns the suggested platform fee, rounded to a whole unit.
func (e *Estimator) PlatformFee(platform string, salePrice decimal.Decimal) decimal.Decimal {
	if salePrice.IsNegative() {
		return decimal.Zero
	}
	return salePrice.Mul(e.Rate(platform)).Shift(-2).Round(0)
}

// WithRates returns a copy of e with the given platform rates added or
// replaced.
func (e *Estimator) WithRates(rates map[string]decimal.Decimal) *Estimator {
	merged := e.Schedule()
	for k, v := range rates {
		merged[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &Estimator{rates: merged, tiers: e.tiers, base: e.base}
}

// Schedule returns a copy of the fee rates.
func (e *Estimator) Schedule() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(e.rates))
	for k, v := range e.rates {
		out[k] = v
	}
	return out
}
