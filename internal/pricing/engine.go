package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopsmarter/cart-engine/internal/adjustments"
	"github.com/shopsmarter/cart-engine/internal/cart"
	"github.com/shopsmarter/cart-engine/pkg/config"
)

// Breakdown is a fully derived quote for a cart snapshot. All values
// except Total keep full decimal precision; Total is rounded to cents.
type Breakdown struct {
	Subtotal         decimal.Decimal        `json:"subtotal"`
	Discounts        decimal.Decimal        `json:"discounts"`
	Tax              decimal.Decimal        `json:"tax"`
	Shipping         decimal.Decimal        `json:"shipping"`
	Savings          decimal.Decimal        `json:"savings"`
	Total            decimal.Decimal        `json:"total"`
	FreeShipping     bool                   `json:"free_shipping"`
	AppliedDiscounts []adjustments.Discount `json:"applied_discounts,omitempty"`
}

// Engine computes quotes from frozen line-item prices. It holds only
// parsed constants and is safe for concurrent use.
type Engine struct {
	taxRate               decimal.Decimal
	freeShippingThreshold decimal.Decimal
	flatShippingFee       decimal.Decimal
}

// NewEngine parses the configured pricing constants.
func NewEngine(cfg config.PricingConfig) (*Engine, error) {
	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("parsing tax rate %q: %w", cfg.TaxRate, err)
	}
	threshold, err := decimal.NewFromString(cfg.FreeShippingThreshold)
	if err != nil {
		return nil, fmt.Errorf("parsing free shipping threshold %q: %w", cfg.FreeShippingThreshold, err)
	}
	fee, err := decimal.NewFromString(cfg.FlatShippingFee)
	if err != nil {
		return nil, fmt.Errorf("parsing flat shipping fee %q: %w", cfg.FlatShippingFee, err)
	}
	return &Engine{
		taxRate:               taxRate,
		freeShippingThreshold: threshold,
		flatShippingFee:       fee,
	}, nil
}

// Subtotal sums unit price times quantity across the cart using the
// prices frozen at add time.
func (e *Engine) Subtotal(c cart.Cart) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// BaselineShipping applies the flat fee below the free-shipping
// threshold. Carts at or above the threshold ship free.
func (e *Engine) BaselineShipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(e.freeShippingThreshold) {
		return decimal.Zero
	}
	return e.flatShippingFee
}

// Tax is charged on the undiscounted subtotal.
func (e *Engine) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(e.taxRate)
}

// Quote derives the full breakdown for a cart, layering the optional
// adjustment set over the baseline rules. A nil set yields the
// baseline quote unchanged.
func (e *Engine) Quote(c cart.Cart, adj *adjustments.AdjustmentSet) Breakdown {
	subtotal := e.Subtotal(c)
	tax := e.Tax(subtotal)
	baselineShipping := e.BaselineShipping(subtotal)

	shipping := baselineShipping
	discounts := decimal.Zero
	var applied []adjustments.Discount
	freeShipping := baselineShipping.IsZero()

	if adj != nil {
		for _, d := range adj.Discounts {
			discounts = discounts.Add(d.Amount)
		}
		applied = adj.Discounts

		// A discount sum can neither go negative nor exceed what the
		// shopper would have paid.
		if discounts.IsNegative() {
			discounts = decimal.Zero
		}
		if discounts.GreaterThan(subtotal) {
			discounts = subtotal
		}

		if adj.Shipping != nil {
			shipping = *adj.Shipping
		}
		if adj.FreeShippingEligible {
			shipping = decimal.Zero
		}
		freeShipping = shipping.IsZero()
	}

	savings := discounts
	if delta := baselineShipping.Sub(shipping); delta.IsPositive() {
		savings = savings.Add(delta)
	}
	if savings.IsNegative() {
		savings = decimal.Zero
	}

	discounted := subtotal.Sub(discounts)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	total := discounted.Add(tax).Add(shipping)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Breakdown{
		Subtotal:         subtotal,
		Discounts:        discounts,
		Tax:              tax,
		Shipping:         shipping,
		Savings:          savings,
		Total:            total.Round(2),
		FreeShipping:     freeShipping,
		AppliedDiscounts: applied,
	}
}
