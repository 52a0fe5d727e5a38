package fees

import "github.com/shopspring/decimal"

// Draft is the fee state of an item being created. Shipping and platform
// fee follow the estimator until the user sets them; from then on they stay
// as set.
type Draft struct {
	est       *Estimator
	sellPrice decimal.Decimal
	platform  string

	shipping        decimal.Decimal
	platformFee     decimal.Decimal
	shippingTouched bool
	feeTouched      bool
}

// NewDraft starts a draft for platform with a zero sale price.
func (e *Estimator) NewDraft(platform string) *Draft {
	d := &Draft{est: e, platform: platform}
	d.reestimate()
	return d
}

// SetSellPrice updates the sale price and re-estimates untouched fields.
func (d *Draft) SetSellPrice(p decimal.Decimal) {
	d.sellPrice = p
	d.reestimate()
}

// SetPlatform updates the platform and re-estimates untouched fields.
func (d *Draft) SetPlatform(platform string) {
	d.platform = platform
	d.reestimate()
}

// SetShipping overrides the shipping estimate.
func (d *Draft) SetShipping(v decimal.Decimal) {
	d.shipping = v
	d.shippingTouched = true
}

// SetPlatformFee overrides the platform fee estimate.
func (d *Draft) SetPlatformFee(v decimal.Decimal) {
	d.platformFee = v
	d.feeTouched = true
}

// Shipping returns the current shipping cost.
func (d *Draft) Shipping() decimal.Decimal { return d.shipping }

// PlatformFee returns the current platform fee.
func (d *Draft) PlatformFee() decimal.Decimal { return d.platformFee }

// ShippingTouched reports whether shipping was set by hand.
func (d *Draft) ShippingTouched() bool { return d.shippingTouched }

// PlatformFeeTouched reports whether the platform fee was set by hand.
func (d *Draft) PlatformFeeTouched() bool { return d.feeTouched }

func (d *Draft) reestimate() {
	if !d.shippingTouched {
		d.shipping = d.est.Shipping(d.sellPrice)
	}
	if !d.feeTouched {
		d.platformFee = d.est.PlatformFee(d.platform, d.sellPrice)
	}
}
