package repository

import (
	"context"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// Config persists the operator's economy configuration
type Config interface {
	// GetEconomyConfig returns domain.ErrNotFound when nothing was saved yet
	GetEconomyConfig(ctx context.Context) (*domain.EconomyConfig, error)
	SaveEconomyConfig(ctx context.Context, cfg *domain.EconomyConfig) error
}

// Store is everything a backend provides
type Store interface {
	Account
	Catalog
	Trade
	Config
	Command
	Ping(ctx context.Context) error
	Close()
}
