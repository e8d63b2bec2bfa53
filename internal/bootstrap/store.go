package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/GameBoxBot_Go/internal/config"
	"github.com/osse101/GameBoxBot_Go/internal/database"
	"github.com/osse101/GameBoxBot_Go/internal/database/memory"
	"github.com/osse101/GameBoxBot_Go/internal/database/migrations"
	"github.com/osse101/GameBoxBot_Go/internal/database/postgres"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
)

// OpenStore returns the backend selected by cfg.Store. The Postgres
// backend is migrated to the latest schema before it is returned.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store {
	case config.StoreMemory, "":
		slog.Info(LogMsgStoreOpened, "backend", config.StoreMemory)
		return memory.NewStore(), nil
	case config.StorePostgres:
		pool, err := database.NewPool(ctx, database.PoolConfig{
			ConnString:      cfg.GetDBConnString(),
			MaxConns:        cfg.DBMaxConns,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		if err := migrations.Up(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedApplyMigration, err)
		}
		slog.Info(LogMsgMigrationsApplied)
		slog.Info(LogMsgStoreOpened, "backend", config.StorePostgres, "host", cfg.DBHost, "db", cfg.DBName)
		return postgres.NewStore(pool), nil
	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStore, cfg.Store)
	}
}
