package worker

import (
	"context"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// TradeExpirer is the part of the trade service the sweep needs
type TradeExpirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// TradeExpiryWorker periodically marks pending trades past their expiry as
// expired. Accept and Reject also expire lazily; the sweep keeps history
// accurate for trades nobody touches again.
type TradeExpiryWorker struct {
	BaseWorker
	trades   TradeExpirer
	interval time.Duration
}

// NewTradeExpiryWorker creates a sweep running every interval.
// A non-positive interval uses DefaultTradeSweepInterval.
func NewTradeExpiryWorker(trades TradeExpirer, interval time.Duration) *TradeExpiryWorker {
	if interval <= 0 {
		interval = DefaultTradeSweepInterval
	}
	w := &TradeExpiryWorker{trades: trades, interval: interval}
	w.init(NameTradeExpiry)
	return w
}

// Start schedules the first sweep
func (w *TradeExpiryWorker) Start() {
	logger.FromContext(context.Background()).Info(LogMsgWorkerStarted, "worker", w.name, "interval", w.interval)
	w.scheduleNext()
}

func (w *TradeExpiryWorker) scheduleNext() {
	w.schedule(w.interval, func(ctx context.Context) {
		w.RunOnce(ctx)
		w.scheduleNext()
	})
}

// RunOnce sweeps immediately and returns how many trades expired
func (w *TradeExpiryWorker) RunOnce(ctx context.Context) int {
	n, err := w.trades.ExpireStale(ctx)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgTradeSweepFailed, "error", err)
		return 0
	}
	return n
}

// Shutdown cancels the pending sweep and waits for a running one
func (w *TradeExpiryWorker) Shutdown(ctx context.Context) error {
	return w.shutdownInternal(ctx)
}
