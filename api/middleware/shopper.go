package middleware

import (
	"net/http"

	"github.com/shopsmarter/cart-engine/pkg/logger"
)

const userIDHeader = "X-User-Id"

// defaultUserID keeps anonymous browsing working while a real identity
// layer is out of scope. Every surface without the header shares the
// demo shopper.
const defaultUserID = "1"

// ShopperID resolves the shopper identity from the request header and
// makes it available to handlers and log entries downstream.
func ShopperID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(userIDHeader)
			if userID == "" {
				userID = defaultUserID
			}

			ctx := WithUserID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
