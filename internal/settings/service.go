// Package settings provides the operator-tunable economy configuration.
package settings

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
	"github.com/osse101/GameBoxBot_Go/internal/validation"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Provider hands out one config snapshot per operation. Callers must not
// re-read the config halfway through an operation.
type Provider interface {
	Snapshot(ctx context.Context) (*domain.EconomyConfig, error)
}

// Service reads and updates the economy configuration
type Service interface {
	Provider
	Replace(ctx context.Context, cfg *domain.EconomyConfig) (*domain.EconomyConfig, error)
	UpdateRarityOdds(ctx context.Context, odds map[domain.Rarity]float64) (*domain.EconomyConfig, error)
	LoadFile(ctx context.Context, path string) (*domain.EconomyConfig, error)
}

type service struct {
	repo      repository.Config
	validator validation.SchemaValidator
	mu        sync.Mutex
	now       func() time.Time
}

// NewService creates a settings service backed by repo
func NewService(repo repository.Config) Service {
	return &service{
		repo:      repo,
		validator: validation.NewSchemaValidator(schemaFS),
		now:       time.Now,
	}
}

// Snapshot returns an independent copy of the current config
func (s *service) Snapshot(ctx context.Context) (*domain.EconomyConfig, error) {
	cfg, err := s.repo.GetEconomyConfig(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		logger.FromContext(ctx).Debug(LogMsgConfigDefaulted)
		return domain.DefaultEconomyConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load economy config: %w", err)
	}
	return cfg.Clone(), nil
}

func (s *service) Replace(ctx context.Context, cfg *domain.EconomyConfig) (*domain.EconomyConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, cfg.Clone(), LogMsgConfigUpdated)
}

func (s *service) UpdateRarityOdds(ctx context.Context, odds map[domain.Rarity]float64) (*domain.EconomyConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	cfg.RarityOdds = make(map[domain.Rarity]float64, len(odds))
	for tier, chance := range odds {
		cfg.RarityOdds[domain.ParseRarity(string(tier))] = chance
	}
	return s.save(ctx, cfg, LogMsgRarityOddsUpdated)
}

// LoadFile overlays a YAML document on the defaults, validates and stores it.
func (s *service) LoadFile(ctx context.Context, path string) (*domain.EconomyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgReadConfigFile, path, err)
	}

	cfg, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	saved, err := s.save(ctx, cfg, LogMsgConfigFileLoaded)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgConfigFileLoaded, "path", path)
	return saved, nil
}

// ParseYAML overlays a YAML document on the default config. Maps and lists
// present in the document replace the defaults instead of merging with them.
func ParseYAML(data []byte) (*domain.EconomyConfig, error) {
	var keys map[string]interface{}
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseConfigFile, err)
	}

	cfg := domain.DefaultEconomyConfig()
	if _, ok := keys["rarity_odds"]; ok {
		cfg.RarityOdds = nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseConfigFile, err)
	}
	return cfg, nil
}

func (s *service) save(ctx context.Context, cfg *domain.EconomyConfig, msg string) (*domain.EconomyConfig, error) {
	normalize(cfg)
	if err := s.validate(cfg); err != nil {
		logger.FromContext(ctx).Warn(LogMsgConfigRejected, "error", err)
		return nil, err
	}

	cfg.UpdatedAt = s.now()
	if err := s.repo.SaveEconomyConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save economy config: %w", err)
	}
	logger.FromContext(ctx).Info(msg)
	return cfg.Clone(), nil
}

func (s *service) validate(cfg *domain.EconomyConfig) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode economy config: %w", err)
	}
	if err := s.validator.ValidateBytes(doc, SchemaEconomyConfig); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if err := Validate(cfg); err != nil {
		return err
	}
	return nil
}

// normalize uppercases tier names so operator input like "sss" matches
func normalize(cfg *domain.EconomyConfig) {
	for i, t := range cfg.Tiers {
		cfg.Tiers[i] = domain.ParseRarity(string(t))
	}
	cfg.UltraTier = domain.ParseRarity(string(cfg.UltraTier))
	odds := make(map[domain.Rarity]float64, len(cfg.RarityOdds))
	for t, v := range cfg.RarityOdds {
		odds[domain.ParseRarity(string(t))] += v
	}
	cfg.RarityOdds = odds
	for i := range cfg.RarityThresholds {
		cfg.RarityThresholds[i].Rarity = domain.ParseRarity(string(cfg.RarityThresholds[i].Rarity))
	}
	for i, t := range cfg.Box.AnnounceTiers {
		cfg.Box.AnnounceTiers[i] = domain.ParseRarity(string(t))
	}
	for i, t := range cfg.Daily.CommonRarities {
		cfg.Daily.CommonRarities[i] = domain.ParseRarity(string(t))
	}
	cfg.Daily.RareRarity = domain.ParseRarity(string(cfg.Daily.RareRarity))
}

// Validate checks the cross-field rules a JSON schema cannot express.
func Validate(cfg *domain.EconomyConfig) error {
	if cfg.UltraTier != "" && domain.IndexOf(cfg.Tiers, cfg.UltraTier) >= 0 {
		return fmt.Errorf("%w: "+ErrMsgUltraInTiers, domain.ErrInvalidConfig, cfg.UltraTier)
	}

	sum := 0.0
	for tier, chance := range cfg.RarityOdds {
		if domain.IndexOf(cfg.Tiers, tier) < 0 {
			return fmt.Errorf("%w: "+ErrMsgOddsUnknownTier, domain.ErrInvalidConfig, tier)
		}
		sum += chance
	}
	if math.Abs(sum-100) > PercentEpsilon {
		return fmt.Errorf("%w: "+ErrMsgOddsSum, domain.ErrInvalidConfig, sum)
	}

	for _, t := range cfg.RarityThresholds {
		if !cfg.KnownTier(t.Rarity) {
			return fmt.Errorf("%w: "+ErrMsgUnknownTier, domain.ErrInvalidConfig, "rarity_thresholds", t.Rarity)
		}
	}
	for _, t := range cfg.Box.AnnounceTiers {
		if !cfg.KnownTier(t) {
			return fmt.Errorf("%w: "+ErrMsgUnknownTier, domain.ErrInvalidConfig, "box.announce_tiers", t)
		}
	}

	daily := cfg.Daily
	dailySum := daily.CoinsChance + daily.BoxChance + daily.CommonChance + daily.RareChance
	if math.Abs(dailySum-100) > PercentEpsilon {
		return fmt.Errorf("%w: "+ErrMsgDailySum, domain.ErrInvalidConfig, dailySum)
	}
	for _, t := range daily.CommonRarities {
		if domain.IndexOf(cfg.Tiers, t) < 0 {
			return fmt.Errorf("%w: "+ErrMsgUnknownTier, domain.ErrInvalidConfig, "daily.common_rarities", t)
		}
	}
	if daily.RareRarity != "" && domain.IndexOf(cfg.Tiers, daily.RareRarity) < 0 {
		return fmt.Errorf("%w: "+ErrMsgUnknownTier, domain.ErrInvalidConfig, "daily.rare_rarity", daily.RareRarity)
	}

	levels := append([]domain.LevelEntry(nil), cfg.Levels...)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Level < levels[j].Level })
	if len(levels) > 0 && levels[0].XP != 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, ErrMsgLevelsStart)
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].Level == levels[i-1].Level || levels[i].XP <= levels[i-1].XP {
			return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, ErrMsgLevelsOrder)
		}
	}
	return nil
}
