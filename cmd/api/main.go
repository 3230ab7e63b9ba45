package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/shopsmarter/cart-engine/api/routes"
	"github.com/shopsmarter/cart-engine/internal/adjustments"
	cartsvc "github.com/shopsmarter/cart-engine/internal/cart"
	"github.com/shopsmarter/cart-engine/internal/catalog"
	"github.com/shopsmarter/cart-engine/internal/checkout"
	"github.com/shopsmarter/cart-engine/internal/pricing"
	"github.com/shopsmarter/cart-engine/pkg/config"
	"github.com/shopsmarter/cart-engine/pkg/db"
	"github.com/shopsmarter/cart-engine/pkg/logger"
	"github.com/shopsmarter/cart-engine/pkg/metrics"
	"github.com/shopsmarter/cart-engine/pkg/migrate"
	"github.com/shopsmarter/cart-engine/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient, &catalog.Product{}); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(registry)

	notifier := cartsvc.NewNotifier(redisClient, cfg.Cart.ChannelPrefix, logg)
	store := cartsvc.NewRedisStore(redisClient, notifier, cfg.Cart.KeyPrefix, logg)

	cartService, err := cartsvc.NewService(store, logg, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	catalogRepo, err := catalog.NewRepository(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog repository", err)
		os.Exit(1)
	}

	engine, err := pricing.NewEngine(cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing engine", err)
		os.Exit(1)
	}

	analyzer := adjustments.NewClient(cfg.Adjustments, logg, cartMetrics)

	builder, err := checkout.NewBuilder(cfg.Checkout, store, logg, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout builder", err)
		os.Exit(1)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Fan in cart changes from other instances; a change anywhere warms
	// the dynamic pricing for that shopper.
	unsubscribe := notifier.Subscribe(func(userID string) {
		go func() {
			ctx, cancel := context.WithTimeout(rootCtx, cfg.Adjustments.Timeout)
			defer cancel()
			_, _ = analyzer.Fetch(ctx, userID, store.Load(ctx, userID))
		}()
	})
	defer unsubscribe()

	go func() {
		if err := notifier.Listen(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(rootCtx, "cart change listener stopped", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg,
			dbClient, redisClient,
			cartService, catalogRepo, engine, analyzer, builder,
			registry,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-rootCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		err = multierr.Append(err, redisClient.Close())
		err = multierr.Append(err, dbClient.Close())
		if err != nil {
			logg.Error(ctx, "error during shutdown", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	}
}
