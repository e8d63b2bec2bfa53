// Package trade coordinates two-party item swaps with a coin fee.
package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/osse101/GameBoxBot_Go/internal/concurrency"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
	"github.com/osse101/GameBoxBot_Go/internal/tracing"
)

// Repository is the storage a trade service needs
type Repository interface {
	repository.Account
	repository.Trade
}

// Service defines the trade operations
type Service interface {
	Propose(ctx context.Context, initiator, target, ownedItem, wantedItem string) (*domain.Trade, error)
	Accept(ctx context.Context, target string) (*domain.TradeResult, error)
	Reject(ctx context.Context, target string) error
	// ExpireStale marks every pending trade past its expiry as expired
	ExpireStale(ctx context.Context) (int, error)

	RecentTrades(ctx context.Context, limit int) ([]domain.Trade, error)
	UserTrades(ctx context.Context, username string, limit int) ([]domain.Trade, error)
	Stats(ctx context.Context) ([]domain.TradeStat, error)
}

type service struct {
	repo     Repository
	settings settings.Provider
	bus      event.Bus
	locks    *concurrency.LockManager
	now      func() time.Time
}

// NewService creates a new trade service. bus may be nil.
func NewService(repo Repository, provider settings.Provider, bus event.Bus, locks *concurrency.LockManager) Service {
	return &service{
		repo:     repo,
		settings: provider,
		bus:      bus,
		locks:    locks,
		now:      time.Now,
	}
}

// Propose records a pending swap of one ownedItem for one wantedItem.
// Balances and inventories are untouched until the target accepts.
func (s *service) Propose(ctx context.Context, initiator, target, ownedItem, wantedItem string) (trade *domain.Trade, err error) {
	ctx, span := tracing.Start(ctx, SpanPropose,
		attribute.String("initiator", initiator),
		attribute.String("target", target))
	defer func() { tracing.End(span, err) }()

	cfg, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.Trade.Enabled {
		return nil, fmt.Errorf("%w: %s", domain.ErrFeatureDisabled, ErrMsgTradingDisabled)
	}

	initiator = domain.NormalizeUsername(initiator)
	target = domain.NormalizeUsername(target)
	if initiator == target {
		return nil, domain.ErrSelfTrade
	}

	if _, err := s.repo.FindOrCreateAccount(ctx, initiator, ""); err != nil {
		return nil, fmt.Errorf("failed to resolve account %s: %w", initiator, err)
	}

	unlock := s.locks.LockOrdered(initiator, target)
	defer unlock()

	// Names resolve against each party's own inventory before the
	// transaction; their errors are reported after the party checks.
	offered, offeredErr := s.ownedLine(ctx, initiator, ownedItem)
	wanted, wantedErr := s.ownedLine(ctx, target, wantedItem)

	now := s.now()
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	pending, err := tx.ListPendingTrades(ctx, initiator, target)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending trades: %w", err)
	}
	expired, open, err := s.expireStale(ctx, tx, pending, now)
	if err != nil {
		return nil, err
	}
	if open {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit expired trades: %w", err)
		}
		s.publishAll(ctx, expired)
		return nil, domain.ErrAlreadyPending
	}

	parties, err := s.lockParties(ctx, tx, initiator, target)
	if err != nil {
		return nil, err
	}
	required := cfg.Trade.MinCoins
	if cfg.Trade.Fee > required {
		required = cfg.Trade.Fee
	}
	for _, name := range []string{initiator, target} {
		acc := parties[name]
		if acc.Coins < required {
			return nil, &domain.InsufficientFundsError{Username: acc.Username, Required: required, Available: acc.Coins}
		}
	}

	if offeredErr != nil {
		return nil, offeredErr
	}
	if wantedErr != nil {
		return nil, wantedErr
	}
	for _, side := range []struct {
		owner string
		item  *domain.InventoryLine
	}{{initiator, offered}, {target, wanted}} {
		if !side.item.Tradeable {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotTradeable, side.item.Name)
		}
		qty, err := tx.GetItemQuantity(ctx, parties[side.owner].ID, side.item.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to check inventory: %w", err)
		}
		if qty < 1 {
			return nil, fmt.Errorf("%w: "+ErrMsgNotOwned, domain.ErrInsufficientInventory, side.owner, side.item.Name)
		}
	}

	trade = &domain.Trade{
		ID:                uuid.NewString(),
		Initiator:         initiator,
		Target:            target,
		InitiatorItemID:   offered.ItemID,
		InitiatorItemName: offered.Name,
		TargetItemID:      wanted.ItemID,
		TargetItemName:    wanted.Name,
		Fee:               cfg.Trade.Fee,
		Status:            domain.TradeStatusPending,
		CreatedAt:         now,
		ExpiresAt:         now.Add(cfg.Trade.TTL()),
	}
	if err := tx.CreateTrade(ctx, trade); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit trade: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgTradeProposed,
		"trade_id", trade.ID, "initiator", initiator, "target", target,
		"offered", offered.Name, "wanted", wanted.Name)
	s.publishAll(ctx, append(expired, event.NewTradeEvent(event.TradeProposed, trade, "")))
	return trade, nil
}

// Accept executes the pending trade addressed to target. Funds and ownership
// are checked again; if either changed since the proposal the trade is
// rejected and the specific error returned.
func (s *service) Accept(ctx context.Context, target string) (result *domain.TradeResult, err error) {
	ctx, span := tracing.Start(ctx, SpanAccept, attribute.String("target", target))
	defer func() { tracing.End(span, err) }()

	pending, err := s.pendingFor(ctx, target)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.LockOrdered(pending.Initiator, pending.Target)
	defer unlock()

	now := s.now()
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	trade, err := s.openTrade(ctx, tx, pending.ID, now, ReasonExpiredOnAccept)
	if err != nil {
		return nil, err
	}

	parties, err := s.lockParties(ctx, tx, trade.Initiator, trade.Target)
	if err != nil {
		return nil, err
	}
	initiator, recipient := parties[trade.Initiator], parties[trade.Target]

	failure, err := s.revalidate(ctx, tx, trade, initiator, recipient)
	if err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, s.rejectWith(ctx, tx, trade, now, failure)
	}

	if trade.Fee > 0 {
		for _, acc := range []*domain.Account{initiator, recipient} {
			if _, err := tx.AdjustCoins(ctx, acc.ID, -trade.Fee); err != nil {
				return nil, err
			}
		}
	}
	if err := tx.RemoveItem(ctx, initiator.ID, trade.InitiatorItemID, 1); err != nil {
		return nil, err
	}
	if err := tx.RemoveItem(ctx, recipient.ID, trade.TargetItemID, 1); err != nil {
		return nil, err
	}
	if err := tx.AddItem(ctx, initiator.ID, trade.TargetItemID, 1); err != nil {
		return nil, fmt.Errorf("failed to deliver %s: %w", trade.TargetItemName, err)
	}
	if err := tx.AddItem(ctx, recipient.ID, trade.InitiatorItemID, 1); err != nil {
		return nil, fmt.Errorf("failed to deliver %s: %w", trade.InitiatorItemName, err)
	}
	if err := tx.SetTradeStatus(ctx, trade.ID, domain.TradeStatusCompleted, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit trade: %w", err)
	}

	trade.Status = domain.TradeStatusCompleted
	logger.FromContext(ctx).Info(LogMsgTradeCompleted, "trade_id", trade.ID,
		"initiator", trade.Initiator, "target", trade.Target)
	s.publishAll(ctx, []event.Event{event.NewTradeEvent(event.TradeCompleted, trade, "")})

	return &domain.TradeResult{
		TradeID:       trade.ID,
		Initiator:     trade.Initiator,
		Target:        trade.Target,
		InitiatorItem: domain.TradeItem{ID: trade.InitiatorItemID, Name: trade.InitiatorItemName},
		TargetItem:    domain.TradeItem{ID: trade.TargetItemID, Name: trade.TargetItemName},
		Fee:           trade.Fee,
	}, nil
}

// Reject declines the pending trade addressed to target
func (s *service) Reject(ctx context.Context, target string) (err error) {
	ctx, span := tracing.Start(ctx, SpanReject, attribute.String("target", target))
	defer func() { tracing.End(span, err) }()

	pending, err := s.pendingFor(ctx, target)
	if err != nil {
		return err
	}

	unlock := s.locks.LockOrdered(pending.Initiator, pending.Target)
	defer unlock()

	now := s.now()
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	trade, err := s.openTrade(ctx, tx, pending.ID, now, ReasonExpiredOnReject)
	if err != nil {
		return err
	}
	if err := tx.SetTradeStatus(ctx, trade.ID, domain.TradeStatusRejected, now); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rejection: %w", err)
	}

	trade.Status = domain.TradeStatusRejected
	logger.FromContext(ctx).Info(LogMsgTradeRejected, "trade_id", trade.ID, "reason", ReasonRejectedByTarget)
	s.publishAll(ctx, []event.Event{event.NewTradeEvent(event.TradeRejected, trade, ReasonRejectedByTarget)})
	return nil
}

func (s *service) ExpireStale(ctx context.Context) (int, error) {
	n, err := s.repo.ExpireTrades(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire trades: %w", err)
	}
	if n > 0 {
		logger.FromContext(ctx).Info(LogMsgTradesSwept, "count", n)
	}
	return n, nil
}

func (s *service) RecentTrades(ctx context.Context, limit int) ([]domain.Trade, error) {
	return s.repo.ListTrades(ctx, repository.TradeFilter{Limit: historyLimit(limit)})
}

func (s *service) UserTrades(ctx context.Context, username string, limit int) ([]domain.Trade, error) {
	return s.repo.ListTrades(ctx, repository.TradeFilter{
		Username: domain.NormalizeUsername(username),
		Limit:    historyLimit(limit),
	})
}

func (s *service) Stats(ctx context.Context) ([]domain.TradeStat, error) {
	return s.repo.TradeStats(ctx)
}

// pendingFor maps "nothing addressed to target" to ErrNoPendingTrade
func (s *service) pendingFor(ctx context.Context, target string) (*domain.Trade, error) {
	trade, err := s.repo.GetPendingTradeForTarget(ctx, domain.NormalizeUsername(target))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoPendingTrade
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending trade: %w", err)
	}
	return trade, nil
}

// openTrade re-reads the trade under lock. A trade that is no longer pending
// is ErrNoPendingTrade; one past its expiry is marked expired first.
func (s *service) openTrade(ctx context.Context, tx repository.EconomyTx, tradeID string, now time.Time, reason string) (*domain.Trade, error) {
	trade, err := tx.GetTradeForUpdate(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.Status != domain.TradeStatusPending {
		return nil, domain.ErrNoPendingTrade
	}
	if trade.Open(now) {
		return trade, nil
	}

	if err := tx.SetTradeStatus(ctx, trade.ID, domain.TradeStatusExpired, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit expiry: %w", err)
	}
	trade.Status = domain.TradeStatusExpired
	logger.FromContext(ctx).Info(LogMsgTradeExpired, "trade_id", trade.ID, "reason", reason)
	s.publishAll(ctx, []event.Event{event.NewTradeEvent(event.TradeExpired, trade, reason)})
	return nil, domain.ErrNoPendingTrade
}

// expireStale marks the stale trades in pending as expired and reports
// whether any of them is still open
func (s *service) expireStale(ctx context.Context, tx repository.EconomyTx, pending []domain.Trade, now time.Time) ([]event.Event, bool, error) {
	var events []event.Event
	open := false
	for i := range pending {
		t := &pending[i]
		if t.Open(now) {
			open = true
			continue
		}
		if err := tx.SetTradeStatus(ctx, t.ID, domain.TradeStatusExpired, now); err != nil {
			return nil, false, err
		}
		t.Status = domain.TradeStatusExpired
		events = append(events, event.NewTradeEvent(event.TradeExpired, t, ReasonExpiredOnNewTrade))
	}
	return events, open, nil
}

// ownedLine finds name in username's inventory: an exact case-insensitive
// match wins, otherwise the first line containing name
func (s *service) ownedLine(ctx context.Context, username, name string) (*domain.InventoryLine, error) {
	acc, err := s.repo.GetAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.GetInventory(ctx, acc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if line := MatchInventory(lines, name); line != nil {
		return line, nil
	}
	return nil, fmt.Errorf("%w: "+ErrMsgNotInInventory, domain.ErrItemNotFound, name, username)
}

// MatchInventory resolves a typed item name against owned lines, preferring
// an exact case-insensitive match over a substring match. Nil when neither hits.
func MatchInventory(lines []domain.InventoryLine, name string) *domain.InventoryLine {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for i := range lines {
		if strings.ToLower(lines[i].Name) == needle {
			return &lines[i]
		}
	}
	for i := range lines {
		if strings.Contains(strings.ToLower(lines[i].Name), needle) {
			return &lines[i]
		}
	}
	return nil
}

func (s *service) lockParties(ctx context.Context, tx repository.EconomyTx, a, b string) (map[string]*domain.Account, error) {
	accounts, err := tx.LockAccounts(ctx, a, b)
	if err != nil {
		return nil, err
	}
	parties := make(map[string]*domain.Account, len(accounts))
	for _, acc := range accounts {
		parties[acc.Username] = acc
	}
	return parties, nil
}

// revalidate returns the reason the trade can no longer execute, if any.
// err is reserved for storage faults.
func (s *service) revalidate(ctx context.Context, tx repository.EconomyTx, trade *domain.Trade, initiator, target *domain.Account) (failure error, err error) {
	for _, acc := range []*domain.Account{initiator, target} {
		if acc.Coins < trade.Fee {
			return &domain.InsufficientFundsError{Username: acc.Username, Required: trade.Fee, Available: acc.Coins}, nil
		}
	}
	sides := []struct {
		acc    *domain.Account
		itemID string
		name   string
	}{
		{initiator, trade.InitiatorItemID, trade.InitiatorItemName},
		{target, trade.TargetItemID, trade.TargetItemName},
	}
	for _, side := range sides {
		qty, err := tx.GetItemQuantity(ctx, side.acc.ID, side.itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to check inventory: %w", err)
		}
		if qty < 1 {
			return fmt.Errorf("%w: "+ErrMsgNotOwned, domain.ErrInsufficientInventory, side.acc.Username, side.name), nil
		}
	}
	return nil, nil
}

// rejectWith closes the trade as rejected and returns failure to the caller
func (s *service) rejectWith(ctx context.Context, tx repository.EconomyTx, trade *domain.Trade, now time.Time, failure error) error {
	if err := tx.SetTradeStatus(ctx, trade.ID, domain.TradeStatusRejected, now); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rejection: %w", err)
	}

	reason := ReasonOwnershipChanged
	if errors.Is(failure, domain.ErrInsufficientFunds) {
		reason = ReasonFundsChanged
	}
	trade.Status = domain.TradeStatusRejected
	logger.FromContext(ctx).Warn(LogMsgTradeRejected, "trade_id", trade.ID, "reason", reason, "error", failure)
	s.publishAll(ctx, []event.Event{event.NewTradeEvent(event.TradeRejected, trade, reason)})
	return failure
}

func (s *service) publishAll(ctx context.Context, events []event.Event) {
	if s.bus == nil {
		return
	}
	for _, evt := range events {
		if err := s.bus.Publish(ctx, evt); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
		}
	}
}

func historyLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
