package repository

import (
	"context"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// Account defines account and inventory persistence
type Account interface {
	GetAccount(ctx context.Context, username string) (*domain.Account, error)
	FindOrCreateAccount(ctx context.Context, username, displayName string) (*domain.Account, error)
	GetInventory(ctx context.Context, accountID string) ([]domain.InventoryLine, error)
	TopAccounts(ctx context.Context, kind domain.LeaderboardKind, limit int) ([]domain.Account, error)
	// ActiveAccountsSince lists accounts with a rewarded message at or after since
	ActiveAccountsSince(ctx context.Context, since time.Time) ([]domain.Account, error)
	BeginTx(ctx context.Context) (EconomyTx, error)
}
