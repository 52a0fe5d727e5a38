// Package profit derives net profit and partner splits from item amounts.
package profit

import (
	"github.com/shopspring/decimal"

	"github.com/erazemk/prft/internal/model"
)

// Inputs are the economic fields of an item.
type Inputs struct {
	BuyPrice     decimal.Decimal
	SellPrice    decimal.Decimal
	Quantity     int
	ShippingCost decimal.Decimal
	PlatformFee  decimal.Decimal
	ExtraFees    decimal.Decimal
}

// InputsOf extracts the economic fields of an item.
func InputsOf(it model.Item) Inputs {
	return Inputs{
		BuyPrice:     it.BuyPrice,
		SellPrice:    it.SellPrice,
		Quantity:     it.Quantity,
		ShippingCost: it.ShippingCost,
		PlatformFee:  it.PlatformFee,
		ExtraFees:    it.ExtraFees,
	}
}

// Compute returns (sell - buy) * quantity - shipping - platform fee - extra fees.
func Compute(in Inputs) decimal.Decimal {
	return in.SellPrice.Sub(in.BuyPrice).
		Mul(decimal.NewFromInt(int64(in.Quantity))).
		Sub(in.ShippingCost).
		Sub(in.PlatformFee).
		Sub(in.ExtraFees)
}

// ForItem computes the profit of an item from its current fields.
func ForItem(it model.Item) decimal.Decimal {
	return Compute(InputsOf(it))
}

// RawInputs are unparsed form values.
type RawInputs struct {
	BuyPrice     string
	SellPrice    string
	Quantity     string
	ShippingCost string
	PlatformFee  string
	ExtraFees    string
}

// ComputeRaw parses form values and computes profit. Malformed amounts count
// as zero; a missing or malformed quantity counts as one.
func ComputeRaw(raw RawInputs) decimal.Decimal {
	qty := model.DefaultQuantity
	if q := model.ParseAmount(raw.Quantity); q.IsInteger() && q.IsPositive() {
		qty = int(q.IntPart())
	}
	return Compute(Inputs{
		BuyPrice:     model.ParseAmount(raw.BuyPrice),
		SellPrice:    model.ParseAmount(raw.SellPrice),
		Quantity:     qty,
		ShippingCost: model.ParseAmount(raw.ShippingCost),
		PlatformFee:  model.ParseAmount(raw.PlatformFee),
		ExtraFees:    model.ParseAmount(raw.ExtraFees),
	})
}

// Split divides profit between the owner and a partner. pct is not clamped.
func Split(profit decimal.Decimal, pct int) (yours, partner decimal.Decimal) {
	yours = profit.Mul(decimal.NewFromInt(int64(pct))).Shift(-2)
	return yours, profit.Sub(yours)
}

// YourCut returns the owner's share of an item's profit.
func YourCut(it model.Item) decimal.Decimal {
	yours, _ := Split(it.Profit, it.YourSplitPct)
	return yours
}
