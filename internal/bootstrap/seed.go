package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/GameBoxBot_Go/internal/catalog"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
)

// SyncEconomyConfig validates the YAML at path and stores it as the live
// configuration. An empty path keeps whatever is already stored.
func SyncEconomyConfig(ctx context.Context, svc settings.Service, path string) error {
	if path == "" {
		return nil
	}
	slog.Info(LogMsgSyncingEconomyConfig, "path", path)
	cfg, err := svc.LoadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSyncEconomyConfig, err)
	}
	slog.Info(LogMsgEconomyConfigSynced,
		"box_price", cfg.Box.Price,
		"tiers", len(cfg.RarityOdds))
	return nil
}

// SyncCatalog upserts every item of the seed file at path. Items are keyed
// by name, so re-running a seed updates rows in place and keeps drop counts.
func SyncCatalog(ctx context.Context, svc catalog.Service, path string) error {
	if path == "" {
		return nil
	}
	slog.Info(LogMsgSyncingCatalog, "path", path)
	n, err := svc.LoadSeedFile(ctx, path)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSyncCatalog, err)
	}
	slog.Info(LogMsgCatalogSynced, "items", n)
	return nil
}
