package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestShopperID_HeaderWins(t *testing.T) {
	var got string
	handler := ShopperID(nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Id", "42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "42" {
		t.Fatalf("expected shopper 42, got %q", got)
	}
}

func TestShopperID_DefaultsWithoutHeader(t *testing.T) {
	var got string
	handler := ShopperID(nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = UserIDFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got != defaultUserID {
		t.Fatalf("expected default shopper, got %q", got)
	}
}
