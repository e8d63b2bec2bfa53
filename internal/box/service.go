// Package box sells and opens loot boxes.
package box

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/osse101/GameBoxBot_Go/internal/concurrency"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
	"github.com/osse101/GameBoxBot_Go/internal/reward"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
	"github.com/osse101/GameBoxBot_Go/internal/tracing"
)

// CandidateSource lists the box-eligible catalog items of one tier
type CandidateSource interface {
	Candidates(ctx context.Context, rarity domain.Rarity) ([]domain.CatalogItem, error)
}

// Service defines the box operations
type Service interface {
	PurchaseBoxes(ctx context.Context, username string, quantity int) (*domain.PurchaseResult, error)
	OpenBoxes(ctx context.Context, username string, quantity int) (*domain.OpenResult, error)
}

type service struct {
	repo       repository.Account
	candidates CandidateSource
	settings   settings.Provider
	selector   *reward.Selector
	bus        event.Bus
	locks      *concurrency.LockManager
}

// NewService creates a new box service. bus may be nil.
func NewService(repo repository.Account, candidates CandidateSource, provider settings.Provider,
	selector *reward.Selector, bus event.Bus, locks *concurrency.LockManager) Service {
	return &service{
		repo:       repo,
		candidates: candidates,
		settings:   provider,
		selector:   selector,
		bus:        bus,
		locks:      locks,
	}
}

// PurchaseBoxes converts coins into boxes. Nothing changes unless the whole
// price can be paid.
func (s *service) PurchaseBoxes(ctx context.Context, username string, quantity int) (result *domain.PurchaseResult, err error) {
	ctx, span := tracing.Start(ctx, SpanPurchase,
		attribute.String("username", username),
		attribute.Int("quantity", quantity))
	defer func() { tracing.End(span, err) }()

	cfg, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if quantity < 1 || quantity > cfg.Box.MaxPerPurchase {
		return nil, fmt.Errorf("%w: "+ErrMsgQuantityRange, domain.ErrOverLimit, cfg.Box.MaxPerPurchase)
	}

	acc, err := s.repo.FindOrCreateAccount(ctx, username, "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %s: %w", username, err)
	}

	unlock := s.locks.LockOrdered(acc.Username)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	locked, err := tx.GetAccountForUpdate(ctx, acc.Username)
	if err != nil {
		return nil, err
	}

	cost := quantity * cfg.Box.Price
	if locked.Coins < cost {
		return nil, &domain.InsufficientFundsError{Username: locked.Username, Required: cost, Available: locked.Coins}
	}
	remaining, err := tx.AdjustCoins(ctx, locked.ID, -cost)
	if err != nil {
		return nil, err
	}
	boxes, err := tx.AdjustBoxes(ctx, locked.ID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to credit boxes: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgBoxesPurchased,
		"username", locked.Username, "quantity", quantity, "cost", cost)
	s.publish(ctx, event.New(event.BoxPurchased, event.BoxPurchasedPayloadV1{
		Username:   locked.Username,
		Quantity:   quantity,
		CoinsSpent: cost,
	}))

	return &domain.PurchaseResult{
		BoxesPurchased: quantity,
		CoinsSpent:     cost,
		RemainingCoins: remaining,
		TotalBoxes:     boxes,
	}, nil
}

// OpenBoxes opens quantity boxes, one transaction per box. The only bound on
// quantity is the number of boxes owned. A failure after
// the first box keeps the boxes already opened and returns them.
func (s *service) OpenBoxes(ctx context.Context, username string, quantity int) (result *domain.OpenResult, err error) {
	ctx, span := tracing.Start(ctx, SpanOpen,
		attribute.String("username", username),
		attribute.Int("quantity", quantity))
	defer func() { tracing.End(span, err) }()

	cfg, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: %s", domain.ErrOverLimit, ErrMsgOpenQuantity)
	}

	acc, err := s.repo.FindOrCreateAccount(ctx, username, "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %s: %w", username, err)
	}

	unlock := s.locks.LockOrdered(acc.Username)
	defer unlock()

	current, err := s.repo.GetAccount(ctx, acc.Username)
	if err != nil {
		return nil, err
	}
	if current.Boxes < quantity {
		return nil, fmt.Errorf("%w: "+ErrMsgNotEnoughBox, domain.ErrInsufficientInventory, current.Username, current.Boxes, quantity)
	}

	result = &domain.OpenResult{Items: make([]domain.DroppedItem, 0, quantity), RemainingBoxes: current.Boxes}
	for i := 0; i < quantity; i++ {
		drop, depleted, remaining, err := s.openOne(ctx, cfg, acc.Username)
		if err != nil {
			if i == 0 {
				return nil, err
			}
			logger.FromContext(ctx).Warn(LogMsgOpenStopped,
				"username", acc.Username, "opened", i, "requested", quantity, "error", err)
			break
		}
		result.BoxesOpened++
		result.RemainingBoxes = remaining
		if drop != nil {
			result.Items = append(result.Items, *drop)
		} else {
			result.Depleted = append(result.Depleted, depleted)
		}
	}

	logger.FromContext(ctx).Info(LogMsgBoxesOpened,
		"username", acc.Username, "opened", result.BoxesOpened, "items", len(result.Items))
	s.publishOpen(ctx, acc.Username, result)
	return result, nil
}

// openOne rolls and settles a single box. It returns either the dropped item
// or the depleted tier, and the box count left after the unit.
func (s *service) openOne(ctx context.Context, cfg *domain.EconomyConfig, username string) (*domain.DroppedItem, domain.Rarity, int, error) {
	rarity := s.selector.SelectRarity(cfg.RarityOdds, cfg.Tiers)
	candidates, err := s.candidates.Candidates(ctx, rarity)
	if err != nil {
		return nil, "", 0, err
	}
	item, ok := s.selector.PickWeighted(candidates)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	acc, err := tx.GetAccountForUpdate(ctx, username)
	if err != nil {
		return nil, "", 0, err
	}

	var drop *domain.DroppedItem
	if ok {
		if err := tx.AddItem(ctx, acc.ID, item.ID, 1); err != nil {
			return nil, "", 0, fmt.Errorf("failed to credit %s: %w", item.Name, err)
		}
		if err := tx.IncrementDropCount(ctx, item.ID, 1); err != nil {
			return nil, "", 0, fmt.Errorf("failed to count drop of %s: %w", item.Name, err)
		}
		drop = &domain.DroppedItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Rarity:   item.Rarity,
			Platform: item.Platform,
			Announce: cfg.Announces(item.Rarity),
		}
	}

	remaining, err := tx.AdjustBoxes(ctx, acc.ID, -1)
	if err != nil {
		return nil, "", 0, err
	}
	acc.TotalBoxesOpened++
	if err := tx.SaveProgress(ctx, acc); err != nil {
		return nil, "", 0, fmt.Errorf("failed to save progress: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, "", 0, fmt.Errorf("failed to commit box open: %w", err)
	}

	if drop == nil {
		logger.FromContext(ctx).Warn(LogMsgRarityDepleted, "username", username, "rarity", rarity)
		return nil, rarity, remaining, nil
	}
	return drop, "", remaining, nil
}

func (s *service) publishOpen(ctx context.Context, username string, result *domain.OpenResult) {
	s.publish(ctx, event.New(event.BoxOpened, event.BoxOpenedPayloadV1{
		Username: username,
		Opened:   result.BoxesOpened,
		Items:    result.Items,
		Depleted: result.Depleted,
	}))
	for _, item := range result.Items {
		if !item.Announce {
			continue
		}
		s.publish(ctx, event.New(event.BoxRareDrop, event.RareDropPayloadV1{
			Username: username,
			Item:     item,
			Source:   EventSourceBox,
		}))
	}
	for _, rarity := range result.Depleted {
		s.publish(ctx, event.New(event.BoxDepleted, event.DepletedPayloadV1{
			Username: username,
			Rarity:   rarity,
		}))
	}
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
