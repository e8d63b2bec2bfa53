// Package catalog manages the collectible game catalog: rarity derivation,
// operator pins, availability flags and the box candidate lists.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
)

// Service defines the catalog operations
type Service interface {
	Get(ctx context.Context, itemID string) (*domain.CatalogItem, error)
	// Find resolves a user-typed name: exact match first, then the closest substring match
	Find(ctx context.Context, name string) (*domain.CatalogItem, error)
	List(ctx context.Context, filter domain.CatalogFilter) ([]domain.CatalogItem, error)
	TopDropped(ctx context.Context, limit int) ([]domain.CatalogItem, error)
	Stats(ctx context.Context) ([]domain.RarityCount, error)

	Upsert(ctx context.Context, item domain.CatalogItem) (*domain.CatalogItem, error)
	SetCustomRarity(ctx context.Context, itemID string, rarity domain.Rarity) (*domain.CatalogItem, error)
	ClearCustomRarity(ctx context.Context, itemID string) (*domain.CatalogItem, error)
	SetDisabled(ctx context.Context, itemID string, disabled bool) (*domain.CatalogItem, error)
	LoadSeedFile(ctx context.Context, path string) (int, error)

	// Candidates returns the enabled, box-obtainable items of one tier
	Candidates(ctx context.Context, rarity domain.Rarity) ([]domain.CatalogItem, error)
}

type service struct {
	repo     repository.Catalog
	settings settings.Provider
	cache    *candidateCache
	// mu serializes mutations so the ultra tier check and write happen together
	mu sync.Mutex
}

// NewService creates a new catalog service
func NewService(repo repository.Catalog, provider settings.Provider) Service {
	return &service{
		repo:     repo,
		settings: provider,
		cache:    newCandidateCache(CandidateCacheSize, CandidateCacheTTL),
	}
}

func (s *service) Get(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	return s.repo.GetItem(ctx, itemID)
}

func (s *service) Find(ctx context.Context, name string) (*domain.CatalogItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyName)
	}

	item, err := s.repo.GetItemByName(ctx, name)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up item %q: %w", name, err)
	}

	matches, err := s.repo.ListItems(ctx, domain.CatalogFilter{Query: name, IncludeDisabled: true})
	if err != nil {
		return nil, fmt.Errorf("failed to search items for %q: %w", name, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrItemNotFound, name)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if len(matches[i].Name) != len(matches[j].Name) {
			return len(matches[i].Name) < len(matches[j].Name)
		}
		return matches[i].Name < matches[j].Name
	})
	return &matches[0], nil
}

func (s *service) List(ctx context.Context, filter domain.CatalogFilter) ([]domain.CatalogItem, error) {
	filter.Limit = clampLimit(filter.Limit)
	if filter.Rarity != "" {
		filter.Rarity = domain.ParseRarity(string(filter.Rarity))
	}
	return s.repo.ListItems(ctx, filter)
}

func (s *service) TopDropped(ctx context.Context, limit int) ([]domain.CatalogItem, error) {
	return s.repo.TopDropped(ctx, clampLimit(limit))
}

func (s *service) Stats(ctx context.Context) ([]domain.RarityCount, error) {
	return s.repo.RarityStats(ctx)
}

// Upsert inserts or refreshes an item by name. A refresh re-derives the
// rarity from the score but keeps an operator pin, the disabled flag and the
// drop count.
func (s *service) Upsert(ctx context.Context, item domain.CatalogItem) (*domain.CatalogItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyName)
	}

	cfg, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.GetItemByName(ctx, item.Name)
	switch {
	case err == nil:
		item.Disabled = existing.Disabled
		item.CustomRarity = existing.CustomRarity
	case errors.Is(err, domain.ErrNotFound):
		item.CustomRarity = ""
	default:
		return nil, fmt.Errorf("failed to look up item %q: %w", item.Name, err)
	}

	applyRarity(cfg, &item)
	if err := s.repo.UpsertItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to upsert item %q: %w", item.Name, err)
	}
	s.cache.Clear()

	logger.FromContext(ctx).Debug(LogMsgItemUpserted, "item", item.Name, "rarity", item.Rarity)
	return &item, nil
}

func (s *service) SetCustomRarity(ctx context.Context, itemID string, rarity domain.Rarity) (*domain.CatalogItem, error) {
	cfg, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rarity = domain.ParseRarity(string(rarity))
	if !cfg.KnownTier(rarity) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRarity, rarity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if rarity == cfg.UltraTier {
		holders, err := s.repo.ListItems(ctx, domain.CatalogFilter{Rarity: rarity, IncludeDisabled: true})
		if err != nil {
			return nil, fmt.Errorf("failed to check ultra tier holders: %w", err)
		}
		for _, h := range holders {
			if h.ID != item.ID {
				return nil, fmt.Errorf("%w: held by %s", domain.ErrUltraTierTaken, h.Name)
			}
		}
	}

	item.CustomRarity = rarity
	applyRarity(cfg, item)
	if err := s.repo.UpdateItemFlags(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to pin rarity on %s: %w", item.Name, err)
	}
	s.cache.Clear()

	logger.FromContext(ctx).Info(LogMsgCustomRaritySet, "item", item.Name, "rarity", rarity)
	return item, nil
}

func (s *service) ClearCustomRarity(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	cfg, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CustomRarity == cfg.UltraTier {
		item.BoxObtainable = true
	}
	item.CustomRarity = ""
	applyRarity(cfg, item)
	if err := s.repo.UpdateItemFlags(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to clear rarity pin on %s: %w", item.Name, err)
	}
	s.cache.Clear()

	logger.FromContext(ctx).Info(LogMsgCustomRarityClear, "item", item.Name, "rarity", item.Rarity)
	return item, nil
}

func (s *service) SetDisabled(ctx context.Context, itemID string, disabled bool) (*domain.CatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item.Disabled = disabled
	if err := s.repo.UpdateItemFlags(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", item.Name, err)
	}
	s.cache.Clear()

	logger.FromContext(ctx).Info(LogMsgItemDisabledSet, "item", item.Name, "disabled", disabled)
	return item, nil
}

func (s *service) Candidates(ctx context.Context, rarity domain.Rarity) ([]domain.CatalogItem, error) {
	if items, ok := s.cache.Get(rarity); ok {
		return items, nil
	}
	logger.FromContext(ctx).Debug(LogMsgCandidateCacheMiss, "rarity", rarity)

	generation := s.cache.Generation()
	items, err := s.repo.ListBoxCandidates(ctx, rarity)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates for %s: %w", rarity, err)
	}
	if !s.cache.Set(rarity, items, generation) {
		logger.FromContext(ctx).Debug(LogMsgCandidatesStale, "rarity", rarity)
	}
	return items, nil
}

// SeedFile is the YAML catalog import format
type SeedFile struct {
	Items []SeedItem `yaml:"items"`
}

// SeedItem is one game in a seed file. Omitted flags default to true.
type SeedItem struct {
	Name          string  `yaml:"name"`
	Platform      string  `yaml:"platform"`
	ReleaseYear   int     `yaml:"release_year"`
	QualityScore  *int    `yaml:"quality_score"`
	Popularity    float64 `yaml:"popularity"`
	Tradeable     *bool   `yaml:"tradeable"`
	BoxObtainable *bool   `yaml:"box_obtainable"`
}

// ParseSeed decodes a YAML catalog document
func ParseSeed(data []byte) ([]domain.CatalogItem, error) {
	var doc SeedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseSeedFile, err)
	}
	items := make([]domain.CatalogItem, 0, len(doc.Items))
	for _, si := range doc.Items {
		items = append(items, domain.CatalogItem{
			Name:          si.Name,
			Platform:      si.Platform,
			ReleaseYear:   si.ReleaseYear,
			QualityScore:  si.QualityScore,
			Popularity:    si.Popularity,
			Tradeable:     boolOr(si.Tradeable, true),
			BoxObtainable: boolOr(si.BoxObtainable, true),
		})
	}
	return items, nil
}

func (s *service) LoadSeedFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", ErrMsgReadSeedFile, path, err)
	}
	items, err := ParseSeed(data)
	if err != nil {
		return 0, err
	}

	for i, item := range items {
		if _, err := s.Upsert(ctx, item); err != nil {
			return i, fmt.Errorf("failed to import item %d (%s): %w", i+1, item.Name, err)
		}
	}
	logger.FromContext(ctx).Info(LogMsgSeedLoaded, "path", path, "items", len(items))
	return len(items), nil
}

// applyRarity sets the effective tier: the pin when present, otherwise the
// score-derived tier. Ultra items never come out of boxes.
func applyRarity(cfg *domain.EconomyConfig, item *domain.CatalogItem) {
	if item.CustomRarity != "" {
		item.Rarity = item.CustomRarity
	} else {
		item.Rarity = cfg.RarityForScore(item.QualityScore)
	}
	if cfg.UltraTier != "" && item.Rarity == cfg.UltraTier {
		item.BoxObtainable = false
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
