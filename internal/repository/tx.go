package repository

import (
	"context"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// Tx defines the interface for transactional operations
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// EconomyTx is the unit of work for every balance, inventory and trade
// mutation. Account rows read through it stay locked until Commit or Rollback.
type EconomyTx interface {
	Tx

	// GetAccountForUpdate locks and returns one account
	GetAccountForUpdate(ctx context.Context, username string) (*domain.Account, error)
	// LockAccounts locks several accounts in username order and returns them in that order
	LockAccounts(ctx context.Context, usernames ...string) ([]*domain.Account, error)
	// AdjustCoins applies delta only if the balance stays non-negative and returns the new balance.
	// Positive deltas also count towards TotalCoinsEarned.
	AdjustCoins(ctx context.Context, accountID string, delta int) (int, error)
	// AdjustBoxes applies delta only if the box count stays non-negative and returns the new count
	AdjustBoxes(ctx context.Context, accountID string, delta int) (int, error)
	// SaveProgress writes XP, level, counters and cooldown markers
	SaveProgress(ctx context.Context, account *domain.Account) error
	// ResetAccount zeroes balances and empties the inventory, keeping identity
	ResetAccount(ctx context.Context, accountID string) error

	GetItemQuantity(ctx context.Context, accountID, itemID string) (int, error)
	AddItem(ctx context.Context, accountID, itemID string, quantity int) error
	// RemoveItem fails with domain.ErrInsufficientInventory if fewer than quantity are owned
	RemoveItem(ctx context.Context, accountID, itemID string, quantity int) error
	IncrementDropCount(ctx context.Context, itemID string, n int) error

	CreateTrade(ctx context.Context, trade *domain.Trade) error
	GetTradeForUpdate(ctx context.Context, tradeID string) (*domain.Trade, error)
	// ListPendingTrades returns pending trades where any of usernames is a party
	ListPendingTrades(ctx context.Context, usernames ...string) ([]domain.Trade, error)
	SetTradeStatus(ctx context.Context, tradeID string, status domain.TradeStatus, resolvedAt time.Time) error
}
