package worker

import (
	"context"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
)

// PassivePayer is the part of the account service the worker needs
type PassivePayer interface {
	PassiveIncome(ctx context.Context) (int, error)
}

// PassiveIncomeWorker pays recently active chatters every passive interval.
// The interval is read from the live configuration before each wait, so an
// operator change applies from the next cycle.
type PassiveIncomeWorker struct {
	BaseWorker
	accounts PassivePayer
	settings settings.Provider

	intervalOf func(cfg *domain.EconomyConfig) time.Duration
	idle       time.Duration
}

// NewPassiveIncomeWorker creates a new PassiveIncomeWorker
func NewPassiveIncomeWorker(accounts PassivePayer, provider settings.Provider) *PassiveIncomeWorker {
	w := &PassiveIncomeWorker{
		accounts: accounts,
		settings: provider,
		intervalOf: func(cfg *domain.EconomyConfig) time.Duration {
			return cfg.Chat.PassiveInterval()
		},
		idle: IdleRecheckInterval,
	}
	w.init(NamePassiveIncome)
	return w
}

// Start schedules the first payout
func (w *PassiveIncomeWorker) Start() {
	logger.FromContext(context.Background()).Info(LogMsgWorkerStarted, "worker", w.name)
	w.scheduleNext(context.Background())
}

func (w *PassiveIncomeWorker) scheduleNext(ctx context.Context) {
	interval, enabled := w.nextInterval(ctx)
	w.schedule(interval, func(ctx context.Context) {
		if enabled {
			w.RunOnce(ctx)
		}
		w.scheduleNext(ctx)
	})
}

// nextInterval falls back to the idle recheck when passive income is off
// or the configuration cannot be read
func (w *PassiveIncomeWorker) nextInterval(ctx context.Context) (time.Duration, bool) {
	cfg, err := w.settings.Snapshot(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgPassiveConfigError, "error", err)
		return w.idle, false
	}
	interval := w.intervalOf(cfg)
	if interval <= 0 || cfg.Chat.PassiveAmount <= 0 {
		logger.FromContext(ctx).Debug(LogMsgPassiveDisabled, "recheck_in", w.idle)
		return w.idle, false
	}
	return interval, true
}

// RunOnce pays immediately and returns how many accounts were paid
func (w *PassiveIncomeWorker) RunOnce(ctx context.Context) int {
	paid, err := w.accounts.PassiveIncome(ctx)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgPassiveRunFailed, "error", err)
		return 0
	}
	return paid
}

// Shutdown cancels the pending payout and waits for a running one
func (w *PassiveIncomeWorker) Shutdown(ctx context.Context) error {
	return w.shutdownInternal(ctx)
}
