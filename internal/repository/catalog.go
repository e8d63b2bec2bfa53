package repository

import (
	"context"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// Catalog defines catalog item persistence
type Catalog interface {
	GetItem(ctx context.Context, itemID string) (*domain.CatalogItem, error)
	// GetItemByName matches the whole name case-insensitively
	GetItemByName(ctx context.Context, name string) (*domain.CatalogItem, error)
	ListItems(ctx context.Context, filter domain.CatalogFilter) ([]domain.CatalogItem, error)
	// ListBoxCandidates returns enabled, box-obtainable items of one tier
	ListBoxCandidates(ctx context.Context, rarity domain.Rarity) ([]domain.CatalogItem, error)
	// UpsertItem inserts or updates by case-insensitive name. DropCount is never overwritten.
	UpsertItem(ctx context.Context, item *domain.CatalogItem) error
	// UpdateItemFlags writes rarity, custom rarity and eligibility flags
	UpdateItemFlags(ctx context.Context, item *domain.CatalogItem) error
	TopDropped(ctx context.Context, limit int) ([]domain.CatalogItem, error)
	RarityStats(ctx context.Context) ([]domain.RarityCount, error)
}
