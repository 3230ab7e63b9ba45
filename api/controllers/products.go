package controllers

import (
	"net/http"

	"github.com/shopsmarter/cart-engine/api/responses"
	"github.com/shopsmarter/cart-engine/internal/catalog"
	"github.com/shopsmarter/cart-engine/internal/pricing"
	"github.com/shopsmarter/cart-engine/pkg/logger"
)

type productResponse struct {
	catalog.Product
	Offer pricing.Offer `json:"offer"`
}

// ProductGet returns the catalog detail for one product along with its
// deterministic promotional offer.
func ProductGet(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := repo.FindByID(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, productResponse{
			Product: *product,
			Offer:   pricing.PromoOffer(product.ID, product.Price),
		})
	}
}
