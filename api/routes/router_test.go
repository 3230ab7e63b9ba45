package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/shopsmarter/cart-engine/internal/adjustments"
	cartsvc "github.com/shopsmarter/cart-engine/internal/cart"
	"github.com/shopsmarter/cart-engine/internal/catalog"
	checkoutsvc "github.com/shopsmarter/cart-engine/internal/checkout"
	"github.com/shopsmarter/cart-engine/internal/pricing"
	"github.com/shopsmarter/cart-engine/pkg/config"
	pkgerrors "github.com/shopsmarter/cart-engine/pkg/errors"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) Get(context.Context, string) cartsvc.Cart {
	return cartsvc.Cart{}
}

func (stubCartService) AddToCart(context.Context, string, cartsvc.Product, int) error {
	return nil
}

func (stubCartService) UpdateQuantity(context.Context, string, int64, int) error {
	return nil
}

func (stubCartService) RemoveFromCart(context.Context, string, int64) error {
	return nil
}

type stubCatalog struct{}

func (stubCatalog) FindByID(_ context.Context, id int64) (*catalog.Product, error) {
	if id == 7 {
		return &catalog.Product{ID: 7, Name: "Charger", Price: decimal.RequireFromString("19.99"), InStock: true}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (stubCatalog) FindByIDs(context.Context, []int64) ([]catalog.Product, error) {
	return nil, nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Fetch(context.Context, string, cartsvc.Cart) (*adjustments.Analysis, error) {
	return nil, nil
}

type stubBuilder struct{}

func (stubBuilder) Submit(context.Context, string) (*checkoutsvc.Session, error) {
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
}

func (stubBuilder) State(string) checkoutsvc.State {
	return checkoutsvc.StateIdle
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	engine, err := pricing.NewEngine(config.PricingConfig{TaxRate: "0.08", FreeShippingThreshold: "75", FlatShippingFee: "10"})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	return NewRouter(cfg, nil, stubPinger{}, stubPinger{}, stubCartService{}, stubCatalog{}, engine, stubAnalyzer{}, stubBuilder{}, prometheus.NewRegistry())
}

func TestRouter_Routes(t *testing.T) {
	router := testRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"health live", http.MethodGet, "/health/live", http.StatusOK},
		{"health ready", http.MethodGet, "/health/ready", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"cart fetch", http.MethodGet, "/api/v1/cart", http.StatusOK},
		{"cart analyze", http.MethodPost, "/api/v1/cart/analyze", http.StatusOK},
		{"checkout empty cart", http.MethodPost, "/api/v1/checkout", http.StatusBadRequest},
		{"checkout state", http.MethodGet, "/api/v1/checkout/state", http.StatusOK},
		{"product detail", http.MethodGet, "/api/v1/products/7", http.StatusOK},
		{"product missing", http.MethodGet, "/api/v1/products/99", http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/v1/nope", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestRouter_RequestIDHeaderSet(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header on every response")
	}
}
