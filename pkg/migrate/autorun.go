package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/kurvfo/pkg/config"
	"github.com/angelmondragon/kurvfo/pkg/db"
	"github.com/angelmondragon/kurvfo/pkg/enums"
	"github.com/angelmondragon/kurvfo/pkg/logger"
)

// MaybeRun applies the embedded migrations when the cart lives in sqlite and
// auto-migrate is enabled.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.Cart.AutoMigrate || enums.StorageBackend(cfg.Cart.Backend) != enums.StorageBackendSQLite {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "sqlite_path": cfg.Cart.SQLitePath}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (auto-run)")

	if err := Run(ctx, sqlDB, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
