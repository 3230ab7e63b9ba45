package pricing

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

var promoTiers = []int{5, 10, 15, 20}

// Offer is the deterministic promotional presentation for a product.
// The same product id always maps to the same tier, so every surface
// renders an identical badge without coordination.
type Offer struct {
	Percent   int             `json:"percent"`
	Badge     string          `json:"badge"`
	CompareAt decimal.Decimal `json:"compare_at_price"`
}

// PromoTier returns the discount percent for a product id. The seed is
// the byte sum of the id's decimal string, folded onto the tier list.
func PromoTier(productID int64) int {
	seed := 0
	for _, b := range []byte(strconv.FormatInt(productID, 10)) {
		seed += int(b)
	}
	return promoTiers[seed%len(promoTiers)]
}

// PromoOffer derives the badge and crossed-out compare-at price for a
// product given its current selling price. Tiers of 10% or less read
// as "New Arrival" rather than a discount.
func PromoOffer(productID int64, price decimal.Decimal) Offer {
	pct := PromoTier(productID)

	badge := fmt.Sprintf("%d%% Off", pct)
	if pct <= 10 {
		badge = "New Arrival"
	}

	// Selling price is the tier percent off the compare-at price, so
	// compare-at = price / (1 - pct/100).
	factor := decimal.NewFromInt(100).Sub(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100))
	compareAt := price.Div(factor).Round(2)

	return Offer{Percent: pct, Badge: badge, CompareAt: compareAt}
}
