package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/gamewishlist-backend/pkg/config"
	"github.com/angelmondragon/gamewishlist-backend/pkg/db"
	"github.com/angelmondragon/gamewishlist-backend/pkg/logger"
)

// RunOnStartup applies pending migrations when the auto-migrate flag is on,
// so a fresh database has its tables before the first request is served.
func RunOnStartup(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": client.Dialect()})
	logg.Info(ctx, "running goose migrations")

	if err := Up(ctx, sqlDB, client.Dialect()); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
