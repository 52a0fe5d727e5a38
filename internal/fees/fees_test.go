package fees

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestShipping(t *testing.T) {
	e := New(DefaultConfig())

	tests := []struct {
		price string
		want  string
	}{
		{"0", "6"},
		{"74.99", "6"},
		{"75", "10"},
		{"80", "10"},
		{"149.99", "10"},
		{"150", "15"},
		{"299", "15"},
		{"300", "25"},
		{"320", "25"},
		{"-10", "6"},
	}

	for _, tt := range tests {
		if got := e.Shipping(dec(tt.price)); !got.Equal(dec(tt.want)) {
			t.Errorf("Shipping(%s) = %s, want %s", tt.price, got, tt.want)
		}
	}
}

func TestShippingConfigurableThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tiers[2].Min = decimal.NewFromInt(80)
	e := New(cfg)

	if got := e.Shipping(dec("79")); !got.Equal(dec("6")) {
		t.Errorf("expected 6 below an 80 threshold, got %s", got)
	}
	if got := e.Shipping(dec("80")); !got.Equal(dec("10")) {
		t.Errorf("expected 10 at the 80 threshold, got %s", got)
	}
}

func TestPlatformFee(t *testing.T) {
	e := New(DefaultConfig())

	tests := []struct {
		name     string
		platform string
		price    string
		want     string
	}{
		{"ebay rounds half up", "ebay", "200", "27"},
		{"case insensitive", " eBay ", "200", "27"},
		{"facebook", "facebook", "100", "5"},
		{"offerup", "offerup", "100", "13"},
		{"unknown platform", "other", "500", "0"},
		{"empty platform", "", "500", "0"},
		{"zero price", "ebay", "0", "0"},
		{"negative price", "ebay", "-50", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.PlatformFee(tt.platform, dec(tt.price)); !got.Equal(dec(tt.want)) {
				t.Errorf("PlatformFee(%q, %s) = %s, want %s", tt.platform, tt.price, got, tt.want)
			}
		})
	}
}

func TestScheduleReturnsCopy(t *testing.T) {
	e := New(DefaultConfig())
	s := e.Schedule()
	s["ebay"] = decimal.Zero
	if e.Rate("ebay").IsZero() {
		t.Fatal("expected schedule copy mutation not to affect the estimator")
	}
}

func TestDraftFollowsEstimatesUntilTouched(t *testing.T) {
	d := New(DefaultConfig()).NewDraft("ebay")

	if !d.Shipping().Equal(dec("6")) || !d.PlatformFee().IsZero() {
		t.Fatalf("unexpected initial draft: ship=%s fee=%s", d.Shipping(), d.PlatformFee())
	}

	d.SetSellPrice(dec("200"))
	if !d.Shipping().Equal(dec("15")) {
		t.Errorf("expected shipping 15, got %s", d.Shipping())
	}
	if !d.PlatformFee().Equal(dec("27")) {
		t.Errorf("expected fee 27, got %s", d.PlatformFee())
	}

	d.SetShipping(dec("8"))
	d.SetSellPrice(dec("400"))
	if !d.Shipping().Equal(dec("8")) {
		t.Errorf("expected touched shipping to stay 8, got %s", d.Shipping())
	}
	if !d.PlatformFee().Equal(dec("53")) {
		t.Errorf("expected untouched fee to follow price, got %s", d.PlatformFee())
	}

	d.SetPlatformFee(dec("40"))
	d.SetPlatform("facebook")
	if !d.PlatformFee().Equal(dec("40")) {
		t.Errorf("expected touched fee to stay 40, got %s", d.PlatformFee())
	}
	if !d.ShippingTouched() || !d.PlatformFeeTouched() {
		t.Error("expected both fields touched")
	}
}

func TestWithRates(t *testing.T) {
	base := New(DefaultConfig())
	e := base.WithRates(map[string]decimal.Decimal{
		" eBay ": dec("10"),
		"etsy":   dec("6.5"),
	})

	if got := e.PlatformFee("ebay", dec("200")); !got.Equal(dec("20")) {
		t.Errorf("ebay fee = %s, want 20", got)
	}
	if got := e.Rate("etsy"); !got.Equal(dec("6.5")) {
		t.Errorf("etsy rate = %s, want 6.5", got)
	}
	if got := e.Rate("depop"); !got.Equal(dec("12.5")) {
		t.Errorf("depop rate = %s, want untouched 12.5", got)
	}
	if got := e.Shipping(dec("200")); !got.Equal(dec("15")) {
		t.Errorf("shipping = %s, want tiers kept", got)
	}

	// The receiver is not modified.
	if got := base.Rate("ebay"); !got.Equal(dec("13.25")) {
		t.Errorf("base ebay rate = %s, want 13.25", got)
	}
	if got := base.Rate("etsy"); !got.IsZero() {
		t.Errorf("base etsy rate = %s, want 0", got)
	}
}
