package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopsmarter/cart-engine/api/controllers"
	"github.com/shopsmarter/cart-engine/api/middleware"
	cartsvc "github.com/shopsmarter/cart-engine/internal/cart"
	"github.com/shopsmarter/cart-engine/internal/catalog"
	"github.com/shopsmarter/cart-engine/internal/pricing"
	"github.com/shopsmarter/cart-engine/pkg/config"
	"github.com/shopsmarter/cart-engine/pkg/db"
	"github.com/shopsmarter/cart-engine/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP db.Pinger,
	cartService cartsvc.Service,
	catalogRepo catalog.Repository,
	engine *pricing.Engine,
	analyzer controllers.Analyzer,
	builder controllers.SessionBuilder,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ShopperID(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, engine, logg))
			r.Post("/analyze", controllers.CartAnalyze(cartService, analyzer, engine, logg))
			r.Route("/items", func(r chi.Router) {
				r.Post("/", controllers.CartAddItem(cartService, catalogRepo, engine, logg))
				r.Patch("/{productID}", controllers.CartUpdateItem(cartService, engine, logg))
				r.Delete("/{productID}", controllers.CartRemoveItem(cartService, engine, logg))
			})
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutSubmit(builder, logg))
			r.Get("/state", controllers.CheckoutState(builder))
		})

		r.Get("/products/{productID}", controllers.ProductGet(catalogRepo, logg))
	})

	return r
}
