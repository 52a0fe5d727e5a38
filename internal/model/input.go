package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError reports a field that failed write validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Number holds the literal text of a numeric form field. It accepts both JSON
// numbers and JSON strings so that "12.50" and 12.5 decode the same way, and
// defers parsing to validation so errors can name the field.
type Number string

// UnmarshalJSON implements json.Unmarshaler.
// A JSON null leaves n unchanged.
func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	*n = Number(bytes.TrimSpace(b))
	return nil
}

// Bounds on accepted amounts: whole units below 10^12 and at most four
// decimal places.
const (
	maxAmountText   = 32
	maxWholeDigits  = 12
	maxDecimalPlace = 4
)

var (
	errAmountRange = errors.New("amount out of range")
	amountLimit    = decimal.New(1, maxWholeDigits)
)

// parseAmount parses s and rejects values outside the money range before
// any arithmetic touches them.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxAmountText {
		return decimal.Zero, errAmountRange
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if exp := d.Exponent(); exp < -maxAmountText || exp > maxWholeDigits {
		return decimal.Zero, errAmountRange
	}
	if d.Abs().GreaterThanOrEqual(amountLimit) || !d.Equal(d.Truncate(maxDecimalPlace)) {
		return decimal.Zero, errAmountRange
	}
	return d, nil
}

// Blank reports whether the field is missing or holds only whitespace.
// Blank optional fields are treated as not supplied.
func (n *Number) Blank() bool {
	return n == nil || strings.TrimSpace(string(*n)) == ""
}

// Decimal parses the number.
func (n Number) Decimal() (decimal.Decimal, error) {
	return parseAmount(string(n))
}

// Int parses the number as a whole integer.
func (n Number) Int() (int, error) {
	d, err := n.Decimal()
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%s is not a whole number", n)
	}
	v := d.IntPart()
	if v > math.MaxInt || v < math.MinInt {
		return 0, errAmountRange
	}
	return int(v), nil
}

// ParseAmount parses s, treating empty, malformed or out-of-range input as
// zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := parseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ItemInput is a create or edit request. Nil fields were not supplied.
type ItemInput struct {
	Name         *string `json:"name"`
	BuyPrice     *Number `json:"buy_price"`
	SellPrice    *Number `json:"sell_price"`
	Quantity     *Number `json:"quantity"`
	ShippingCost *Number `json:"shipping_cost"`
	PlatformFee  *Number `json:"platform_fee"`
	ExtraFees    *Number `json:"extra_fees"`
	Platform     *string `json:"platform"`
	Status       *string `json:"status"`
	YourSplitPct *Number `json:"your_split_pct"`
	PartnerName  *string `json:"partner_name"`
}

// RequireCreateFields checks the fields a new item cannot do without.
func (in ItemInput) RequireCreateFields() error {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if in.BuyPrice.Blank() {
		return &ValidationError{Field: "buy_price", Reason: "is required"}
	}
	if in.SellPrice.Blank() {
		return &ValidationError{Field: "sell_price", Reason: "is required"}
	}
	return nil
}

// Apply merges the supplied fields into item and validates the result.
// Fields left nil or blank keep their current value. Split percentages are clamped.
// Profit is not touched; callers recompute it after a successful Apply.
func (in ItemInput) Apply(item *Item) error {
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}

	amounts := []struct {
		field string
		src   *Number
		dst   *decimal.Decimal
	}{
		{"buy_price", in.BuyPrice, &item.BuyPrice},
		{"sell_price", in.SellPrice, &item.SellPrice},
		{"shipping_cost", in.ShippingCost, &item.ShippingCost},
		{"platform_fee", in.PlatformFee, &item.PlatformFee},
		{"extra_fees", in.ExtraFees, &item.ExtraFees},
	}
	for _, a := range amounts {
		if a.src.Blank() {
			continue
		}
		d, err := a.src.Decimal()
		if err != nil {
			return &ValidationError{Field: a.field, Reason: "must be a number"}
		}
		*a.dst = d
	}

	if !in.Quantity.Blank() {
		q, err := in.Quantity.Int()
		if err != nil {
			return &ValidationError{Field: "quantity", Reason: "must be a whole number"}
		}
		item.Quantity = q
	}
	if in.Platform != nil {
		item.Platform = NormalizePlatform(*in.Platform)
	}
	if in.Status != nil {
		s, ok := ParseStatus(*in.Status)
		if !ok {
			return &ValidationError{Field: "status", Reason: "must be listed or sold"}
		}
		item.Status = s
	}
	if !in.YourSplitPct.Blank() {
		pct, err := in.YourSplitPct.Int()
		if err != nil {
			return &ValidationError{Field: "your_split_pct", Reason: "must be a whole number"}
		}
		item.YourSplitPct = ClampSplit(pct)
	}
	if in.PartnerName != nil {
		item.PartnerName = strings.TrimSpace(*in.PartnerName)
	}

	return item.Validate()
}

// Validate checks the invariants every persisted item must satisfy.
func (it Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}

	nonNegative := []struct {
		field string
		v     decimal.Decimal
	}{
		{"buy_price", it.BuyPrice},
		{"sell_price", it.SellPrice},
		{"shipping_cost", it.ShippingCost},
		{"platform_fee", it.PlatformFee},
		{"extra_fees", it.ExtraFees},
	}
	for _, a := range nonNegative {
		if a.v.IsNegative() {
			return &ValidationError{Field: a.field, Reason: "must not be negative"}
		}
	}

	if it.Quantity < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if _, ok := ParseStatus(string(it.Status)); !ok {
		return &ValidationError{Field: "status", Reason: "must be listed or sold"}
	}
	if it.YourSplitPct < 0 || it.YourSplitPct > 100 {
		return &ValidationError{Field: "your_split_pct", Reason: "must be between 0 and 100"}
	}
	return nil
}
