// Package daily hands out the once-per-cooldown daily reward.
package daily

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/osse101/GameBoxBot_Go/internal/box"
	"github.com/osse101/GameBoxBot_Go/internal/concurrency"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
	"github.com/osse101/GameBoxBot_Go/internal/reward"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
	"github.com/osse101/GameBoxBot_Go/internal/tracing"
)

// Service defines the daily reward operation
type Service interface {
	Claim(ctx context.Context, username string) (*domain.DailyResult, error)
}

type bucket int

const (
	bucketCoins bucket = iota
	bucketBox
	bucketCommon
	bucketRare
)

type service struct {
	repo       repository.Account
	candidates box.CandidateSource
	settings   settings.Provider
	selector   *reward.Selector
	bus        event.Bus
	locks      *concurrency.LockManager
	now        func() time.Time
}

// NewService creates a new daily reward service. bus may be nil.
func NewService(repo repository.Account, candidates box.CandidateSource, provider settings.Provider,
	selector *reward.Selector, bus event.Bus, locks *concurrency.LockManager) Service {
	return &service{
		repo:       repo,
		candidates: candidates,
		settings:   provider,
		selector:   selector,
		bus:        bus,
		locks:      locks,
		now:        time.Now,
	}
}

// Claim rolls the daily ladder coins, box, common item, rare item. An item
// bucket with nothing to give pays coins instead. A claim exactly one
// cooldown after the previous one succeeds.
func (s *service) Claim(ctx context.Context, username string) (result *domain.DailyResult, err error) {
	ctx, span := tracing.Start(ctx, SpanClaim, attribute.String("username", username))
	defer func() { tracing.End(span, err) }()

	cfg, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.Daily.Enabled {
		return nil, fmt.Errorf("%w: %s", domain.ErrFeatureDisabled, ErrMsgDailyDisabled)
	}

	acc, err := s.repo.FindOrCreateAccount(ctx, username, "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %s: %w", username, err)
	}

	unlock := s.locks.LockOrdered(acc.Username)
	defer unlock()

	now := s.now()
	current, err := s.repo.GetAccount(ctx, acc.Username)
	if err != nil {
		return nil, err
	}
	if err := checkCooldown(current, cfg.Daily.Cooldown(), now); err != nil {
		return nil, err
	}

	result, item, err := s.roll(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	locked, err := tx.GetAccountForUpdate(ctx, acc.Username)
	if err != nil {
		return nil, err
	}
	if err := checkCooldown(locked, cfg.Daily.Cooldown(), now); err != nil {
		return nil, err
	}

	switch result.Kind {
	case domain.DailyOutcomeCoins:
		if _, err := tx.AdjustCoins(ctx, locked.ID, result.Amount); err != nil {
			return nil, fmt.Errorf("failed to pay daily coins: %w", err)
		}
	case domain.DailyOutcomeBox:
		if _, err := tx.AdjustBoxes(ctx, locked.ID, result.Amount); err != nil {
			return nil, fmt.Errorf("failed to give daily box: %w", err)
		}
	case domain.DailyOutcomeItem:
		if err := tx.AddItem(ctx, locked.ID, item.ID, 1); err != nil {
			return nil, fmt.Errorf("failed to give %s: %w", item.Name, err)
		}
		if err := tx.IncrementDropCount(ctx, item.ID, 1); err != nil {
			return nil, fmt.Errorf("failed to count drop of %s: %w", item.Name, err)
		}
	}

	locked.LastDailyAt = &now
	if err := tx.SaveProgress(ctx, locked); err != nil {
		return nil, fmt.Errorf("failed to record claim: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit daily claim: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgDailyClaimed,
		"username", locked.Username, "kind", result.Kind, "amount", result.Amount)
	s.publishClaim(ctx, locked.Username, result)
	return result, nil
}

func checkCooldown(acc *domain.Account, cooldown time.Duration, now time.Time) error {
	if acc.LastDailyAt == nil {
		return nil
	}
	elapsed := now.Sub(*acc.LastDailyAt)
	if elapsed >= cooldown {
		return nil
	}
	return domain.NewCooldownError(CooldownAction, cooldown-elapsed)
}

// roll picks the bucket and, for item buckets, the item
func (s *service) roll(ctx context.Context, cfg *domain.EconomyConfig) (*domain.DailyResult, *domain.CatalogItem, error) {
	d := cfg.Daily
	picked := reward.Ladder(s.selector, []reward.Bucket[bucket]{
		{Value: bucketCoins, Chance: d.CoinsChance},
		{Value: bucketBox, Chance: d.BoxChance},
		{Value: bucketCommon, Chance: d.CommonChance},
		{Value: bucketRare, Chance: d.RareChance},
	})

	coins := &domain.DailyResult{Kind: domain.DailyOutcomeCoins, Amount: d.Coins}
	var tiers []domain.Rarity
	switch picked {
	case bucketCoins:
		return coins, nil, nil
	case bucketBox:
		return &domain.DailyResult{Kind: domain.DailyOutcomeBox, Amount: d.Boxes}, nil, nil
	case bucketCommon:
		tiers = d.CommonRarities
	case bucketRare:
		tiers = []domain.Rarity{d.RareRarity}
	}

	var pool []domain.CatalogItem
	for _, tier := range tiers {
		items, err := s.candidates.Candidates(ctx, tier)
		if err != nil {
			return nil, nil, err
		}
		pool = append(pool, items...)
	}
	item, ok := s.selector.PickWeighted(pool)
	if !ok {
		logger.FromContext(ctx).Warn(LogMsgDailyFallback, "tiers", tiers)
		coins.Fallback = true
		return coins, nil, nil
	}

	return &domain.DailyResult{
		Kind:   domain.DailyOutcomeItem,
		Amount: 1,
		Rare:   picked == bucketRare,
		Item: &domain.DroppedItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Rarity:   item.Rarity,
			Platform: item.Platform,
			Announce: cfg.Announces(item.Rarity),
		},
	}, &item, nil
}

func (s *service) publishClaim(ctx context.Context, username string, result *domain.DailyResult) {
	if s.bus == nil {
		return
	}
	events := []event.Event{event.New(event.DailyClaimed, event.DailyClaimedPayloadV1{
		Username: username,
		Result:   *result,
	})}
	if result.Item != nil && result.Item.Announce {
		events = append(events, event.New(event.BoxRareDrop, event.RareDropPayloadV1{
			Username: username,
			Item:     *result.Item,
			Source:   EventSourceDaily,
		}))
	}
	for _, evt := range events {
		if err := s.bus.Publish(ctx, evt); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
		}
	}
}
