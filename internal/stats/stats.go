// Package stats reduces an owner's items into dashboard totals and display
// lists. Everything here is pure and safe to re-run on every snapshot.
package stats

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/prft/internal/model"
	"github.com/erazemk/prft/internal/profit"
)

// Filter selects which items a display list shows.
type Filter string

// Filters.
const (
	FilterAll    Filter = "all"
	FilterListed Filter = "listed"
	FilterSold   Filter = "sold"
)

// ParseFilter parses a filter; empty input means all.
func ParseFilter(s string) (Filter, bool) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, true
	case FilterListed:
		return FilterListed, true
	case FilterSold:
		return FilterSold, true
	}
	return "", false
}

// Summary holds the totals shown on the dashboard.
type Summary struct {
	SoldProfit      decimal.Decimal `json:"sold_profit"`
	SoldCount       int             `json:"sold_count"`
	ListedCount     int             `json:"listed_count"`
	ListedPotential decimal.Decimal `json:"listed_potential"`
	YourSoldProfit  decimal.Decimal `json:"your_sold_profit"`
}

// Aggregate totals the stored profit of items. Sold profit is realized,
// listed profit is potential. Totals always cover the whole collection.
func Aggregate(items []model.Item) Summary {
	s := Summary{
		SoldProfit:      decimal.Zero,
		ListedPotential: decimal.Zero,
		YourSoldProfit:  decimal.Zero,
	}
	for _, it := range items {
		if it.IsSold() {
			s.SoldCount++
			s.SoldProfit = s.SoldProfit.Add(it.Profit)
			s.YourSoldProfit = s.YourSoldProfit.Add(profit.YourCut(it))
			continue
		}
		s.ListedCount++
		s.ListedPotential = s.ListedPotential.Add(it.Profit)
	}
	return s
}

// Apply returns the items matching f, preserving order.
func Apply(items []model.Item, f Filter) []model.Item {
	if f == FilterAll || f == "" {
		return items
	}
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if string(it.Status) == string(f) {
			out = append(out, it)
		}
	}
	return out
}

// Recent returns at most n items from the front of items, which the store
// returns newest first.
func Recent(items []model.Item, n int) []model.Item {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

// Snapshot is a filtered item list with totals over the full collection.
type Snapshot struct {
	Filter  Filter       `json:"filter"`
	Items   []model.Item `json:"items"`
	Summary Summary      `json:"summary"`
}

// Build computes a snapshot of items for the given filter.
func Build(items []model.Item, f Filter) Snapshot {
	shown := Apply(items, f)
	if shown == nil {
		shown = []model.Item{}
	}
	return Snapshot{
		Filter:  f,
		Items:   shown,
		Summary: Aggregate(items),
	}
}
