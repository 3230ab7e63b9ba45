package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPromoTier_Deterministic(t *testing.T) {
	for _, id := range []int64{1, 42, 1001, 987654} {
		first := PromoTier(id)
		require.Equal(t, first, PromoTier(id), "id %d", id)
		require.Contains(t, promoTiers, first)
	}
}

func TestPromoTier_SeedFolding(t *testing.T) {
	// "7" is byte 55; 55 % 4 = 3, the 20% tier.
	require.Equal(t, 20, PromoTier(7))
	// "10" is bytes 49+48 = 97; 97 % 4 = 1, the 10% tier.
	require.Equal(t, 10, PromoTier(10))
}

func TestPromoOffer_Badges(t *testing.T) {
	low := PromoOffer(10, decimal.RequireFromString("20.00"))
	require.Equal(t, "New Arrival", low.Badge)

	high := PromoOffer(7, decimal.RequireFromString("20.00"))
	require.Equal(t, "20% Off", high.Badge)
}

func TestPromoOffer_CompareAtPrice(t *testing.T) {
	// 20% tier on a $40 selling price: 40 / 0.8 = 50.
	got := PromoOffer(7, decimal.RequireFromString("40.00"))
	require.Equal(t, 20, got.Percent)
	require.True(t, got.CompareAt.Equal(decimal.RequireFromString("50.00")), "compare at %s", got.CompareAt)
}
