package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/GameBoxBot_Go/internal/bootstrap"
	"github.com/osse101/GameBoxBot_Go/internal/chat"
	"github.com/osse101/GameBoxBot_Go/internal/config"
	"github.com/osse101/GameBoxBot_Go/internal/discord"
	"github.com/osse101/GameBoxBot_Go/internal/feed"
	"github.com/osse101/GameBoxBot_Go/internal/handler"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/reward"
	"github.com/osse101/GameBoxBot_Go/internal/server"
	"github.com/osse101/GameBoxBot_Go/internal/tracing"
	"github.com/osse101/GameBoxBot_Go/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Failed to setup logger", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := run(cfg); err != nil {
		slog.Error("Fatal error", "error", err)
		_ = logFile.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerShutdown, err := tracing.Init(tracing.Config{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.JaegerEndpoint,
		ServiceName: logger.DefaultServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	if err != nil {
		return err
	}

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		store.Close()
		return err
	}

	services := bootstrap.InitializeServices(store, events.Publisher, reward.NewSelector())
	if err := bootstrap.SyncEconomyConfig(ctx, services.Settings, cfg.EconomyConfigPath); err != nil {
		store.Close()
		return err
	}
	if err := bootstrap.SyncCatalog(ctx, services.Catalog, cfg.CatalogSeedPath); err != nil {
		store.Close()
		return err
	}

	var (
		bot   *discord.Bot
		sinks []chat.Sink
	)
	if cfg.DiscordEnabled() {
		bot, err = discord.New(discord.Config{Token: cfg.DiscordToken, ChannelID: cfg.DiscordChannelID}, services.Chat)
		if err != nil {
			store.Close()
			return err
		}
		sinks = append(sinks, bot)
	}

	hub := feed.NewHub()
	hub.Start()

	handlers := bootstrap.RegisterEventHandlers(ctx, bootstrap.EventHandlerDependencies{
		EventBus: events.Bus,
		FeedHub:  hub,
		Sinks:    sinks,
	})

	tradeWorker := worker.NewTradeExpiryWorker(services.Trades, cfg.TradeSweepInterval)
	tradeWorker.Start()
	incomeWorker := worker.NewPassiveIncomeWorker(services.Accounts, services.Settings)
	incomeWorker.Start()

	readiness := []handler.ReadinessCheck{{Name: "store", Check: store.Ping}}
	if bot != nil {
		readiness = append(readiness, handler.ReadinessCheck{
			Name:     "discord",
			Optional: true,
			Check: func(context.Context) error {
				if h := bot.Health(); h.Status != discord.StatusHealthy {
					return errors.New(h.Status)
				}
				return nil
			},
		})
	}

	srv := server.NewServer(server.Options{
		Port:               cfg.Port,
		Version:            cfg.Version,
		TrustedProxies:     cfg.TrustedProxies,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Feed:               hub,
		Readiness:          readiness,
	}, services.Server())

	components := bootstrap.ShutdownComponents{
		Server:              srv,
		Discord:             bot,
		TradeExpiryWorker:   tradeWorker,
		PassiveIncomeWorker: incomeWorker,
		FeedHub:             hub,
		AnnouncerPool:       handlers.AnnouncerPool,
		ResilientPublisher:  events.Publisher,
		TracerShutdown:      tracerShutdown,
		Store:               store,
	}

	if bot != nil {
		if err := bot.Start(); err != nil {
			slog.Warn("Discord bridge failed to start, continuing without it", "error", err)
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err = <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, components)
	return err
}
