package stats

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erazemk/prft/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(id string, status model.Status, profit string, split int) model.Item {
	it := model.NewItem(1)
	it.ID = id
	it.Status = status
	it.Profit = dec(profit)
	it.YourSplitPct = split
	return it
}

func TestAggregateScenario(t *testing.T) {
	s := Aggregate([]model.Item{
		item("a", model.StatusSold, "70", 100),
		item("b", model.StatusListed, "40", 100),
	})

	if !s.SoldProfit.Equal(dec("70")) {
		t.Errorf("expected sold profit 70, got %s", s.SoldProfit)
	}
	if !s.ListedPotential.Equal(dec("40")) {
		t.Errorf("expected listed potential 40, got %s", s.ListedPotential)
	}
	if s.SoldCount != 1 || s.ListedCount != 1 {
		t.Errorf("expected 1 sold and 1 listed, got %d and %d", s.SoldCount, s.ListedCount)
	}
}

func TestAggregateYourSoldProfit(t *testing.T) {
	s := Aggregate([]model.Item{
		item("a", model.StatusSold, "70", 70),
		item("b", model.StatusSold, "10", 100),
		item("c", model.StatusListed, "500", 50),
	})

	if !s.SoldProfit.Equal(dec("80")) {
		t.Errorf("expected sold profit 80, got %s", s.SoldProfit)
	}
	if !s.YourSoldProfit.Equal(dec("59")) {
		t.Errorf("expected your sold profit 59, got %s", s.YourSoldProfit)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if !s.SoldProfit.IsZero() || !s.ListedPotential.IsZero() || s.SoldCount != 0 || s.ListedCount != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	items := []model.Item{
		item("a", model.StatusSold, "70", 70),
		item("b", model.StatusListed, "-12.5", 100),
		item("c", model.StatusSold, "-3.25", 40),
		item("d", model.StatusListed, "19.99", 100),
		item("e", model.StatusSold, "1000", 33),
	}
	want := Aggregate(items)

	r := rand.New(rand.NewSource(1))
	for range 20 {
		shuffled := append([]model.Item(nil), items...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Aggregate(shuffled)
		if !got.SoldProfit.Equal(want.SoldProfit) ||
			!got.ListedPotential.Equal(want.ListedPotential) ||
			!got.YourSoldProfit.Equal(want.YourSoldProfit) ||
			got.SoldCount != want.SoldCount || got.ListedCount != want.ListedCount {
			t.Fatalf("aggregate changed under reordering: %+v vs %+v", got, want)
		}
	}

	if want.SoldCount+want.ListedCount != len(items) {
		t.Errorf("counts %d + %d do not cover %d items", want.SoldCount, want.ListedCount, len(items))
	}
}

func TestApply(t *testing.T) {
	items := []model.Item{
		item("a", model.StatusSold, "1", 100),
		item("b", model.StatusListed, "2", 100),
		item("c", model.StatusSold, "3", 100),
	}

	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"a", "b", "c"}},
		{FilterSold, []string{"a", "c"}},
		{FilterListed, []string{"b"}},
	}

	for _, tt := range tests {
		got := Apply(items, tt.filter)
		if len(got) != len(tt.want) {
			t.Fatalf("Apply(%s): expected %d items, got %d", tt.filter, len(tt.want), len(got))
		}
		for i, id := range tt.want {
			if got[i].ID != id {
				t.Errorf("Apply(%s)[%d] = %s, want %s", tt.filter, i, got[i].ID, id)
			}
		}
	}
}

func TestBuildTotalsIgnoreFilter(t *testing.T) {
	items := []model.Item{
		item("a", model.StatusSold, "70", 100),
		item("b", model.StatusListed, "40", 100),
	}

	snap := Build(items, FilterListed)
	if len(snap.Items) != 1 || snap.Items[0].ID != "b" {
		t.Fatalf("expected only the listed item, got %+v", snap.Items)
	}
	if !snap.Summary.SoldProfit.Equal(dec("70")) {
		t.Errorf("expected totals over all items, got sold profit %s", snap.Summary.SoldProfit)
	}

	empty := Build(nil, FilterSold)
	if empty.Items == nil {
		t.Error("expected non-nil empty item list")
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
		ok   bool
	}{
		{"", FilterAll, true},
		{"All", FilterAll, true},
		{"listed", FilterListed, true},
		{" SOLD ", FilterSold, true},
		{"archived", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFilter(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFilter(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRecent(t *testing.T) {
	items := make([]model.Item, 8)
	if got := Recent(items, 6); len(got) != 6 {
		t.Errorf("expected 6 recent items, got %d", len(got))
	}
	if got := Recent(items[:2], 6); len(got) != 2 {
		t.Errorf("expected 2 recent items, got %d", len(got))
	}
}
