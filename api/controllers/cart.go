package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopsmarter/cart-engine/api/middleware"
	"github.com/shopsmarter/cart-engine/api/responses"
	"github.com/shopsmarter/cart-engine/api/validators"
	"github.com/shopsmarter/cart-engine/internal/adjustments"
	cartsvc "github.com/shopsmarter/cart-engine/internal/cart"
	"github.com/shopsmarter/cart-engine/internal/catalog"
	"github.com/shopsmarter/cart-engine/internal/pricing"
	pkgerrors "github.com/shopsmarter/cart-engine/pkg/errors"
	"github.com/shopsmarter/cart-engine/pkg/logger"
)

// Analyzer runs the dynamic pricing fetch for a cart snapshot.
type Analyzer interface {
	Fetch(ctx context.Context, userID string, snapshot cartsvc.Cart) (*adjustments.Analysis, error)
}

type cartResponse struct {
	Items         []cartsvc.LineItem `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
	Totals        pricing.Breakdown  `json:"totals"`
}

func newCartResponse(c cartsvc.Cart, totals pricing.Breakdown) cartResponse {
	items := c.Items
	if items == nil {
		items = []cartsvc.LineItem{}
	}
	return cartResponse{
		Items:         items,
		TotalQuantity: c.TotalQuantity(),
		Totals:        totals,
	}
}

// CartGet returns the shopper's cart with baseline totals.
func CartGet(svc cartsvc.Service, engine *pricing.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		current := svc.Get(r.Context(), userID)
		responses.WriteSuccess(w, newCartResponse(current, engine.Quote(current, nil)))
	}
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"min=0"`
}

// CartAddItem adds a catalog product to the cart, freezing its price
// into the line item snapshot.
func CartAddItem(svc cartsvc.Service, repo catalog.Repository, engine *pricing.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := repo.FindByID(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if err := svc.AddToCart(r.Context(), userID, product.CartProduct(), payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current := svc.Get(r.Context(), userID)
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(current, engine.Quote(current, nil)))
	}
}

type updateItemRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// CartUpdateItem applies a quantity delta to an existing line item.
func CartUpdateItem(svc cartsvc.Service, engine *pricing.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if err := svc.UpdateQuantity(r.Context(), userID, productID, payload.Delta); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current := svc.Get(r.Context(), userID)
		responses.WriteSuccess(w, newCartResponse(current, engine.Quote(current, nil)))
	}
}

// CartRemoveItem drops a line item regardless of quantity.
func CartRemoveItem(svc cartsvc.Service, engine *pricing.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if err := svc.RemoveFromCart(r.Context(), userID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current := svc.Get(r.Context(), userID)
		responses.WriteSuccess(w, newCartResponse(current, engine.Quote(current, nil)))
	}
}

type analyzeResponse struct {
	cartResponse
	Adjusted       bool `json:"adjusted"`
	Suggestions    any  `json:"personalized_suggestions,omitempty"`
	SmartBehaviors any  `json:"smart_behaviors,omitempty"`
	Predictions    any  `json:"purchase_predictions,omitempty"`
}

// CartAnalyze refreshes dynamic pricing for the current cart. The
// quote degrades to baseline when the analysis backend is unavailable
// or the response arrived stale.
func CartAnalyze(svc cartsvc.Service, analyzer Analyzer, engine *pricing.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		current := svc.Get(r.Context(), userID)

		analysis, err := analyzer.Fetch(r.Context(), userID, current)
		if err != nil || analysis == nil {
			responses.WriteSuccess(w, analyzeResponse{
				cartResponse: newCartResponse(current, engine.Quote(current, nil)),
			})
			return
		}

		resp := analyzeResponse{
			cartResponse: newCartResponse(current, engine.Quote(current, analysis.Pricing)),
			Adjusted:     analysis.Pricing != nil,
		}
		if len(analysis.Suggestions) > 0 {
			resp.Suggestions = analysis.Suggestions
		}
		if len(analysis.SmartBehaviors) > 0 {
			resp.SmartBehaviors = analysis.SmartBehaviors
		}
		if len(analysis.Predictions) > 0 {
			resp.Predictions = analysis.Predictions
		}
		responses.WriteSuccess(w, resp)
	}
}

func productIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return id, nil
}
