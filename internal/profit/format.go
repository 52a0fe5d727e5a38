package profit

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Positive reports whether an amount is shown as a gain. Zero counts as a gain.
func Positive(d decimal.Decimal) bool {
	return !d.IsNegative()
}

// Signed formats d with thousands separators and a leading "+" when it is
// not negative. places < 0 keeps the significant digits of d.
func Signed(d decimal.Decimal, places int32) string {
	var s string
	if places < 0 {
		s = group(d.String())
	} else {
		s = group(d.StringFixed(places))
	}
	if Positive(d) {
		return "+" + s
	}
	return s
}

// Display is the presentation form of an amount.
type Display struct {
	Text     string `json:"text"`
	Positive bool   `json:"positive"`
}

// Describe returns the display form of d.
func Describe(d decimal.Decimal, places int32) Display {
	return Display{Text: Signed(d, places), Positive: Positive(d)}
}

// group inserts thousands separators into the integer part of a plain
// decimal string.
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := decimal.RequireFromString(intPart)
	out := humanize.BigComma(n.BigInt())
	if hasFrac {
		out += "." + frac
	}
	return sign + out
}
