package migrate

import (
	"context"
	"fmt"

	"github.com/shopsmarter/cart-engine/pkg/config"
	"github.com/shopsmarter/cart-engine/pkg/db"
	"github.com/shopsmarter/cart-engine/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. The sqlite flag skips goose and lets GORM build the
// schema from the given models, since dev sqlite databases are throwaway.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client, devModels ...any) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.DB.UseSQLite {
		if logg != nil {
			logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "auto-migrating sqlite schema (dev)")
		}
		if err := client.DB().AutoMigrate(devModels...); err != nil {
			return fmt.Errorf("auto-migrating sqlite schema: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	if logg != nil {
		meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
		ctx = logg.WithFields(ctx, meta)
		logg.Info(ctx, "running Goose migrations (dev auto-run)")
	}

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "Goose migrations completed")
	}
	return nil
}
