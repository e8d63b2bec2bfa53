// Command seed imports a catalog YAML file, and optionally an economy
// config, into the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/osse101/GameBoxBot_Go/internal/bootstrap"
	"github.com/osse101/GameBoxBot_Go/internal/config"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/reward"
)

func main() {
	catalogPath := flag.String("catalog", "", "path to the catalog seed YAML")
	economyPath := flag.String("economy", "", "path to an economy config YAML (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.InitLogger(logger.ForEnvironment(cfg.Environment, cfg.LogLevel, cfg.LogFormat, cfg.Version), os.Stdout)

	if *catalogPath == "" {
		*catalogPath = cfg.CatalogSeedPath
	}
	if *economyPath == "" {
		*economyPath = cfg.EconomyConfigPath
	}
	if *catalogPath == "" && *economyPath == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -catalog <file.yaml> [-economy <file.yaml>]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if cfg.Store == config.StoreMemory {
		slog.Warn("STORE is memory, the import is discarded on exit")
	}

	if err := run(context.Background(), cfg, *catalogPath, *economyPath); err != nil {
		slog.Error("Seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, catalogPath, economyPath string) error {
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Economy first so imported items are tiered with the new thresholds
	services := bootstrap.InitializeServices(store, event.NewMemoryBus(), reward.NewSelector())
	if err := bootstrap.SyncEconomyConfig(ctx, services.Settings, economyPath); err != nil {
		return err
	}
	return bootstrap.SyncCatalog(ctx, services.Catalog, catalogPath)
}
