package controllers

import (
	"context"
	"net/http"

	"github.com/shopsmarter/cart-engine/api/middleware"
	"github.com/shopsmarter/cart-engine/api/responses"
	checkoutsvc "github.com/shopsmarter/cart-engine/internal/checkout"
	"github.com/shopsmarter/cart-engine/pkg/logger"
)

// SessionBuilder submits the shopper's cart for payment.
type SessionBuilder interface {
	Submit(ctx context.Context, userID string) (*checkoutsvc.Session, error)
	State(userID string) checkoutsvc.State
}

// CheckoutSubmit drives the one-shot checkout flow. Success clears the
// cart and hands back the redirect target; failure leaves the cart
// intact so the shopper can retry.
func CheckoutSubmit(builder SessionBuilder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		session, err := builder.Submit(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// CheckoutState reports where the shopper's checkout currently stands.
func CheckoutState(builder SessionBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		responses.WriteSuccess(w, map[string]string{"state": string(builder.State(userID))})
	}
}
