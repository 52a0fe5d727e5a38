package model

import (
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are rendered as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Status is the lifecycle state of an item.
type Status string

// Item statuses.
const (
	StatusListed Status = "listed"
	StatusSold   Status = "sold"
)

// Defaults applied to records that lack the corresponding field.
const (
	DefaultQuantity     = 1
	DefaultYourSplitPct = 100
	DefaultStatus       = StatusListed
)

// ParseStatus parses a status string. The empty string is not a valid status.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusListed:
		return StatusListed, true
	case StatusSold:
		return StatusSold, true
	}
	return "", false
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusSold {
		return StatusListed
	}
	return StatusSold
}

// Item is a fully populated flip record. Only PartnerName is optional.
type Item struct {
	ID           string          `json:"id"`
	OwnerID      int64           `json:"owner_id"`
	Name         string          `json:"name"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	Quantity     int             `json:"quantity"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	PlatformFee  decimal.Decimal `json:"platform_fee"`
	ExtraFees    decimal.Decimal `json:"extra_fees"`
	Platform     string          `json:"platform"`
	Status       Status          `json:"status"`
	Profit       decimal.Decimal `json:"profit"`
	YourSplitPct int             `json:"your_split_pct"`
	PartnerName  string          `json:"partner_name,omitempty"`
	HasImage     bool            `json:"has_image"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
}

// IsSold reports whether the item has been sold.
func (it Item) IsSold() bool {
	return it.Status == StatusSold
}

// Record is an item row as persisted. Every column except the id may be
// missing on rows written by older versions.
type Record struct {
	ID           string
	OwnerID      sql.NullInt64
	Name         sql.NullString
	BuyPrice     decimal.NullDecimal
	SellPrice    decimal.NullDecimal
	Quantity     sql.NullInt64
	ShippingCost decimal.NullDecimal
	PlatformFee  decimal.NullDecimal
	ExtraFees    decimal.NullDecimal
	Platform     sql.NullString
	Status       sql.NullString
	Profit       decimal.NullDecimal
	YourSplitPct sql.NullInt64
	PartnerName  sql.NullString
	ImageMime    sql.NullString
	CreatedAt    time.Time
	UpdatedAt    sql.NullTime
	DeletedAt    *time.Time
}

// Normalize turns a persisted record into an Item, applying the default for
// every absent field. A stored profit is trusted as is; a missing one is zero.
func Normalize(r Record) Item {
	item := Item{
		ID:           r.ID,
		Name:         strings.TrimSpace(r.Name.String),
		BuyPrice:     amountOrZero(r.BuyPrice),
		SellPrice:    amountOrZero(r.SellPrice),
		Quantity:     DefaultQuantity,
		ShippingCost: amountOrZero(r.ShippingCost),
		PlatformFee:  amountOrZero(r.PlatformFee),
		ExtraFees:    amountOrZero(r.ExtraFees),
		Platform:     NormalizePlatform(r.Platform.String),
		Status:       DefaultStatus,
		Profit:       amountOrZero(r.Profit),
		YourSplitPct: DefaultYourSplitPct,
		PartnerName:  strings.TrimSpace(r.PartnerName.String),
		HasImage:     r.ImageMime.Valid && r.ImageMime.String != "",
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.CreatedAt,
		DeletedAt:    r.DeletedAt,
	}

	if r.OwnerID.Valid {
		item.OwnerID = r.OwnerID.Int64
	}
	if r.Quantity.Valid && r.Quantity.Int64 > 0 {
		item.Quantity = int(r.Quantity.Int64)
	}
	if s, ok := ParseStatus(r.Status.String); ok {
		item.Status = s
	}
	if r.YourSplitPct.Valid {
		item.YourSplitPct = ClampSplit(int(r.YourSplitPct.Int64))
	}
	if r.UpdatedAt.Valid {
		item.UpdatedAt = r.UpdatedAt.Time
	}

	return item
}

// NewItem returns an empty item owned by ownerID with all defaults applied.
func NewItem(ownerID int64) Item {
	return Normalize(Record{OwnerID: sql.NullInt64{Int64: ownerID, Valid: true}})
}

// NormalizePlatform lowercases and trims a platform identifier.
func NormalizePlatform(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

// ClampSplit bounds a split percentage to [0, 100].
func ClampSplit(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func amountOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
