package adjustments

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Discount is a single adjustment proposed for the current cart.
type Discount struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Confidence  float64         `json:"confidence,omitempty"`
}

// AdjustmentSet carries the dynamic pricing inputs returned for a
// specific cart snapshot. A nil set means the baseline rules apply
// unchanged.
type AdjustmentSet struct {
	Discounts            []Discount       `json:"discounts"`
	Shipping             *decimal.Decimal `json:"shipping,omitempty"`
	FreeShippingEligible bool             `json:"free_shipping_eligible"`
	Savings              decimal.Decimal  `json:"savings"`
}

// Analysis is the full payload from the analysis backend. Only the
// pricing block feeds the quote; the remaining sections are passed
// through untouched for display surfaces.
type Analysis struct {
	Pricing        *AdjustmentSet  `json:"dynamic_pricing,omitempty"`
	Suggestions    json.RawMessage `json:"personalized_suggestions,omitempty"`
	SmartBehaviors json.RawMessage `json:"smart_behaviors,omitempty"`
	Predictions    json.RawMessage `json:"purchase_predictions,omitempty"`
}

type analyzeEnvelope struct {
	Analysis *Analysis `json:"analysis"`
}
