package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNormalizeDefaults(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	item := Normalize(Record{
		ID:        "legacy-1",
		OwnerID:   sql.NullInt64{Int64: 7, Valid: true},
		Name:      sql.NullString{String: "  Jordan 4  ", Valid: true},
		BuyPrice:  decimal.NewNullDecimal(decimal.NewFromInt(100)),
		SellPrice: decimal.NewNullDecimal(decimal.NewFromInt(150)),
		CreatedAt: created,
	})

	if item.Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", item.Quantity)
	}
	for name, v := range map[string]decimal.Decimal{
		"shipping_cost": item.ShippingCost,
		"platform_fee":  item.PlatformFee,
		"extra_fees":    item.ExtraFees,
		"profit":        item.Profit,
	} {
		if !v.IsZero() {
			t.Errorf("expected %s 0, got %s", name, v)
		}
	}
	if item.Status != StatusListed {
		t.Errorf("expected status listed, got %q", item.Status)
	}
	if item.YourSplitPct != 100 {
		t.Errorf("expected split 100, got %d", item.YourSplitPct)
	}
	if item.Name != "Jordan 4" {
		t.Errorf("expected trimmed name, got %q", item.Name)
	}
	if !item.UpdatedAt.Equal(created) {
		t.Errorf("expected updated_at to fall back to created_at, got %v", item.UpdatedAt)
	}
}

func TestNormalizeKeepsStoredValues(t *testing.T) {
	item := Normalize(Record{
		ID:           "a",
		OwnerID:      sql.NullInt64{Int64: 1, Valid: true},
		Name:         sql.NullString{String: "Dunk Low", Valid: true},
		Quantity:     sql.NullInt64{Int64: 3, Valid: true},
		Status:       sql.NullString{String: "SOLD", Valid: true},
		Profit:       decimal.NewNullDecimal(decimal.RequireFromString("41.5")),
		YourSplitPct: sql.NullInt64{Int64: 150, Valid: true},
		Platform:     sql.NullString{String: " eBay ", Valid: true},
		ImageMime:    sql.NullString{String: "image/jpeg", Valid: true},
	})

	if item.Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", item.Quantity)
	}
	if item.Status != StatusSold {
		t.Errorf("expected status sold, got %q", item.Status)
	}
	if !item.Profit.Equal(decimal.RequireFromString("41.5")) {
		t.Errorf("expected stored profit 41.5, got %s", item.Profit)
	}
	if item.YourSplitPct != 100 {
		t.Errorf("expected split clamped to 100, got %d", item.YourSplitPct)
	}
	if item.Platform != "ebay" {
		t.Errorf("expected platform 'ebay', got %q", item.Platform)
	}
	if !item.HasImage {
		t.Error("expected has_image")
	}
}

func TestNormalizeOwnerless(t *testing.T) {
	item := Normalize(Record{ID: "old", Status: sql.NullString{String: "bogus", Valid: true}})
	if item.OwnerID != 0 {
		t.Errorf("expected owner 0, got %d", item.OwnerID)
	}
	if item.Status != StatusListed {
		t.Errorf("expected unknown status to default to listed, got %q", item.Status)
	}
}

func TestNewItem(t *testing.T) {
	item := NewItem(42)
	if item.OwnerID != 42 || item.Quantity != 1 || item.Status != StatusListed || item.YourSplitPct != 100 {
		t.Errorf("unexpected defaults: %+v", item)
	}
}

func TestStatusToggle(t *testing.T) {
	if StatusListed.Toggle() != StatusSold {
		t.Error("listed should toggle to sold")
	}
	if StatusSold.Toggle() != StatusListed {
		t.Error("sold should toggle to listed")
	}
}

func TestClampSplit(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, 0}, {0, 0}, {70, 70}, {100, 100}, {101, 100},
	}
	for _, tt := range tests {
		if got := ClampSplit(tt.in); got != tt.want {
			t.Errorf("ClampSplit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
