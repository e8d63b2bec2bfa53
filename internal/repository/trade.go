package repository

import (
	"context"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// TradeFilter narrows trade history queries. Empty Username means all trades.
type TradeFilter struct {
	Username string
	Limit    int
}

// Trade defines trade persistence outside of a unit of work
type Trade interface {
	// GetPendingTradeForTarget returns the newest pending trade addressed to target
	GetPendingTradeForTarget(ctx context.Context, target string) (*domain.Trade, error)
	ListTrades(ctx context.Context, filter TradeFilter) ([]domain.Trade, error)
	TradeStats(ctx context.Context) ([]domain.TradeStat, error)
	// ExpireTrades marks pending trades with expires_at at or before now as expired
	ExpireTrades(ctx context.Context, now time.Time) (int, error)
}
