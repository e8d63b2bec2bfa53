package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/GameBoxBot_Go/internal/discord"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/feed"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
	"github.com/osse101/GameBoxBot_Go/internal/server"
	"github.com/osse101/GameBoxBot_Go/internal/worker"
)

// ShutdownComponents holds everything GracefulShutdown stops. Nil fields
// are skipped.
type ShutdownComponents struct {
	Server              *server.Server
	Discord             *discord.Bot
	TradeExpiryWorker   *worker.TradeExpiryWorker
	PassiveIncomeWorker *worker.PassiveIncomeWorker
	FeedHub             *feed.Hub
	AnnouncerPool       *worker.Pool
	ResilientPublisher  *event.ResilientPublisher
	TracerShutdown      func(context.Context) error
	Store               repository.Store
}

// GracefulShutdown stops the application in dependency order:
//  1. HTTP server and Discord bridge (no new commands)
//  2. background workers (cancel pending timers)
//  3. feed hub and announcer pool (drain fan-out)
//  4. event publisher (flush pending retries)
//  5. tracer and store
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}
	if components.Discord != nil {
		components.Discord.Stop()
	}

	slog.Info(LogMsgShuttingDownWorkers)
	if components.TradeExpiryWorker != nil {
		shutdownWorker(ctx, WorkerNameTradeExpiry, components.TradeExpiryWorker)
	}
	if components.PassiveIncomeWorker != nil {
		shutdownWorker(ctx, WorkerNamePassiveIncome, components.PassiveIncomeWorker)
	}

	if components.FeedHub != nil {
		components.FeedHub.Stop()
	}
	if components.AnnouncerPool != nil {
		components.AnnouncerPool.Stop()
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.TracerShutdown != nil {
		if err := components.TracerShutdown(ctx); err != nil {
			slog.Error(LogMsgTracerShutdownFailed, "error", err)
		}
	}
	if components.Store != nil {
		components.Store.Close()
	}

	slog.Info(LogMsgServerStopped)
}

type shutdownableWorker interface {
	Shutdown(context.Context) error
}

func shutdownWorker(ctx context.Context, name string, w shutdownableWorker) {
	if err := w.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgWorkerShutdownFailed, "error", err)
	}
}
