package repository

import (
	"context"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// Command persists operator-defined chat commands. Names and aliases share
// one namespace; writes that would reuse a taken key fail with
// domain.ErrCommandExists.
type Command interface {
	ListCommands(ctx context.Context) ([]domain.CustomCommand, error)
	// GetCommand matches the name or any alias
	GetCommand(ctx context.Context, name string) (*domain.CustomCommand, error)
	CreateCommand(ctx context.Context, cmd *domain.CustomCommand) error
	// UpdateCommand rewrites everything but ID, Name, UsageCount and CreatedAt
	UpdateCommand(ctx context.Context, cmd *domain.CustomCommand) error
	DeleteCommand(ctx context.Context, id string) error
	IncrementCommandUsage(ctx context.Context, id string) error
}
