package api

import (
	"github.com/shopspring/decimal"

	"github.com/erazemk/prft/internal/ledger"
	"github.com/erazemk/prft/internal/model"
	"github.com/erazemk/prft/internal/profit"
	"github.com/erazemk/prft/internal/stats"
)

// Whole-amount figures keep their own precision; shares use cents.
const (
	naturalPlaces = -1
	centPlaces    = 2
)

type itemView struct {
	model.Item
	YourCut    decimal.Decimal `json:"your_cut"`
	PartnerCut decimal.Decimal `json:"partner_cut"`
	Display    itemDisplay     `json:"display"`
}

type itemDisplay struct {
	Profit     profit.Display `json:"profit"`
	YourCut    profit.Display `json:"your_cut"`
	PartnerCut profit.Display `json:"partner_cut"`
}

func newItemView(it model.Item) itemView {
	yours, partner := profit.Split(it.Profit, it.YourSplitPct)
	return itemView{
		Item:       it,
		YourCut:    yours,
		PartnerCut: partner,
		Display: itemDisplay{
			Profit:     profit.Describe(it.Profit, naturalPlaces),
			YourCut:    profit.Describe(yours, centPlaces),
			PartnerCut: profit.Describe(partner, centPlaces),
		},
	}
}

func newItemViews(items []model.Item) []itemView {
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		views = append(views, newItemView(it))
	}
	return views
}

type summaryView struct {
	stats.Summary
	Display summaryDisplay `json:"display"`
}

type summaryDisplay struct {
	SoldProfit      profit.Display `json:"sold_profit"`
	YourSoldProfit  profit.Display `json:"your_sold_profit"`
	ListedPotential profit.Display `json:"listed_potential"`
}

func newSummaryView(s stats.Summary) summaryView {
	return summaryView{
		Summary: s,
		Display: summaryDisplay{
			SoldProfit:      profit.Describe(s.SoldProfit, naturalPlaces),
			YourSoldProfit:  profit.Describe(s.YourSoldProfit, centPlaces),
			ListedPotential: profit.Describe(s.ListedPotential, naturalPlaces),
		},
	}
}

type snapshotView struct {
	Type    string      `json:"type,omitempty"`
	Filter  string      `json:"filter"`
	Items   []itemView  `json:"items"`
	Summary summaryView `json:"summary"`
}

func newSnapshotView(s stats.Snapshot) snapshotView {
	return snapshotView{
		Filter:  string(s.Filter),
		Items:   newItemViews(s.Items),
		Summary: newSummaryView(s.Summary),
	}
}

type dashboardView struct {
	Summary summaryView `json:"summary"`
	Recent  []itemView  `json:"recent"`
}

func newDashboardView(d ledger.Dashboard) dashboardView {
	return dashboardView{Summary: newSummaryView(d.Summary), Recent: newItemViews(d.Recent)}
}
