package migrate

import (
	"context"
	"fmt"

	"github.com/timerapp/timerapp-backend/pkg/config"
	"github.com/timerapp/timerapp-backend/pkg/db"
	"github.com/timerapp/timerapp-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations at startup when the app runs in
// dev mode with the auto-migrate flag, or whenever the SQLite driver is used.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.DB.IsSQLite() && (!cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate) {
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	dialect := client.Dialect()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": dialect})
	logg.Info(ctx, "running goose migrations (auto-run)")

	if err := Up(ctx, sqlDB, dialect); err != nil {
		return err
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
