// Package account owns viewer accounts: lazy creation, chat activity
// rewards, gifts, admin adjustments and leaderboards.
package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/concurrency"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
)

// Service defines account operations
type Service interface {
	FindOrCreate(ctx context.Context, username, displayName string) (*domain.Account, error)
	Get(ctx context.Context, username string) (*domain.Account, error)
	Profile(ctx context.Context, username string) (*domain.Profile, error)
	RecordMessage(ctx context.Context, username, displayName string) (*domain.MessageResult, error)
	GiftCoins(ctx context.Context, from, to string, amount int) (*domain.GiftResult, error)
	// AdminAdjustCoins adds or removes coins. Removal clamps at zero.
	AdminAdjustCoins(ctx context.Context, username string, delta int) (int, error)
	// AdminAdjustBoxes adds or removes boxes. Removal clamps at zero.
	AdminAdjustBoxes(ctx context.Context, username string, delta int) (int, error)
	Reset(ctx context.Context, username string) error
	Leaderboard(ctx context.Context, kind domain.LeaderboardKind, limit int) ([]domain.Account, error)
	// PassiveIncome pays every recently active account once per interval
	// and returns how many were paid.
	PassiveIncome(ctx context.Context) (int, error)
}

type service struct {
	repo     repository.Account
	settings settings.Provider
	bus      event.Bus
	locks    *concurrency.LockManager
	cache    *identityCache
	now      func() time.Time
}

// NewService creates a new account service. bus may be nil.
func NewService(repo repository.Account, provider settings.Provider, bus event.Bus, locks *concurrency.LockManager) Service {
	return &service{
		repo:     repo,
		settings: provider,
		bus:      bus,
		locks:    locks,
		cache:    newIdentityCache(IdentityCacheSize, IdentityCacheTTL),
		now:      time.Now,
	}
}

func (s *service) FindOrCreate(ctx context.Context, username, displayName string) (*domain.Account, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyUsername)
	}
	acc, err := s.repo.FindOrCreateAccount(ctx, username, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create account %s: %w", username, err)
	}
	s.cache.Set(acc)
	return acc, nil
}

func (s *service) Get(ctx context.Context, username string) (*domain.Account, error) {
	return s.repo.GetAccount(ctx, username)
}

func (s *service) ensure(ctx context.Context, username, displayName string) (identity, error) {
	if id, ok := s.cache.Get(username); ok {
		return id, nil
	}
	acc, err := s.FindOrCreate(ctx, username, displayName)
	if err != nil {
		return identity{}, err
	}
	return identity{ID: acc.ID, Username: acc.Username}, nil
}

func (s *service) Profile(ctx context.Context, username string) (*domain.Profile, error) {
	cfg, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	acc, err := s.FindOrCreate(ctx, username, "")
	if err != nil {
		return nil, err
	}
	inv, err := s.repo.GetInventory(ctx, acc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory for %s: %w", acc.Username, err)
	}

	current, next := cfg.LevelFor(acc.XP)
	profile := &domain.Profile{
		Account:    acc,
		LevelTitle: current.Title,
		Inventory:  inv,
	}
	if next != nil {
		profile.NextLevelXP = next.XP
	}
	return profile, nil
}

// RecordMessage rewards a chat message with coins and XP unless the previous
// rewarded message is younger than the message cooldown. A throttled message
// returns a zero result, not an error.
func (s *service) RecordMessage(ctx context.Context, username, displayName string) (*domain.MessageResult, error) {
	cfg, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	id, err := s.ensure(ctx, username, displayName)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.LockOrdered(id.Username)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	acc, err := tx.GetAccountForUpdate(ctx, id.Username)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if acc.LastMessageAt != nil && now.Sub(*acc.LastMessageAt) < cfg.Chat.MessageCooldown() {
		logger.FromContext(ctx).Debug(LogMsgMessageThrottled, "username", acc.Username)
		return &domain.MessageResult{Level: acc.Level}, nil
	}

	result := &domain.MessageResult{
		CoinsAwarded: cfg.Chat.CoinsPerMessage,
		XPAwarded:    cfg.Chat.XPPerMessage,
	}
	if result.CoinsAwarded > 0 {
		if _, err := tx.AdjustCoins(ctx, acc.ID, result.CoinsAwarded); err != nil {
			return nil, fmt.Errorf("failed to award message coins: %w", err)
		}
	}

	oldLevel := acc.Level
	acc.XP += result.XPAwarded
	level, _ := cfg.LevelFor(acc.XP)
	if level.Level > acc.Level {
		acc.Level = level.Level
		result.LeveledUp = true
	}
	acc.LastMessageAt = &now
	if err := tx.SaveProgress(ctx, acc); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit message reward: %w", err)
	}

	result.Level = acc.Level
	if result.LeveledUp {
		logger.FromContext(ctx).Info(LogMsgLevelUp, "username", acc.Username, "level", acc.Level)
		s.publish(ctx, event.New(event.AccountLevelUp, event.LevelUpPayloadV1{
			Username: acc.Username,
			OldLevel: oldLevel,
			NewLevel: acc.Level,
			Title:    level.Title,
		}))
	}
	return result, nil
}

func (s *service) GiftCoins(ctx context.Context, from, to string, amount int) (*domain.GiftResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgGiftAmount)
	}
	if domain.NormalizeUsername(from) == domain.NormalizeUsername(to) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgGiftSelf)
	}

	sender, err := s.ensure(ctx, from, "")
	if err != nil {
		return nil, err
	}
	recipient, err := s.repo.GetAccount(ctx, to)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.LockOrdered(sender.Username, recipient.Username)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := tx.LockAccounts(ctx, sender.Username, recipient.Username); err != nil {
		return nil, err
	}
	senderCoins, err := tx.AdjustCoins(ctx, sender.ID, -amount)
	if err != nil {
		return nil, err
	}
	recipientCoins, err := tx.AdjustCoins(ctx, recipient.ID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit %s: %w", recipient.Username, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit gift: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgCoinsGifted, "from", sender.Username, "to", recipient.Username, "amount", amount)
	s.publish(ctx, event.New(event.CoinsGifted, event.CoinsPayloadV1{
		From:   sender.Username,
		To:     recipient.Username,
		Amount: amount,
	}))
	return &domain.GiftResult{
		From:           sender.Username,
		To:             recipient.Username,
		Amount:         amount,
		SenderCoins:    senderCoins,
		RecipientCoins: recipientCoins,
	}, nil
}

func (s *service) AdminAdjustCoins(ctx context.Context, username string, delta int) (int, error) {
	return s.adminAdjust(ctx, username, delta, LogMsgCoinsAdjusted,
		func(acc *domain.Account) int { return acc.Coins },
		func(tx repository.EconomyTx, id string, d int) (int, error) { return tx.AdjustCoins(ctx, id, d) })
}

func (s *service) AdminAdjustBoxes(ctx context.Context, username string, delta int) (int, error) {
	return s.adminAdjust(ctx, username, delta, LogMsgBoxesAdjusted,
		func(acc *domain.Account) int { return acc.Boxes },
		func(tx repository.EconomyTx, id string, d int) (int, error) { return tx.AdjustBoxes(ctx, id, d) })
}

// adminAdjust applies delta to one balance, clamping removals at zero
func (s *service) adminAdjust(ctx context.Context, username string, delta int, logMsg string,
	current func(*domain.Account) int, apply func(repository.EconomyTx, string, int) (int, error)) (int, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgZeroAdjustment)
	}
	id, err := s.ensure(ctx, username, "")
	if err != nil {
		return 0, err
	}

	unlock := s.locks.LockOrdered(id.Username)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	acc, err := tx.GetAccountForUpdate(ctx, id.Username)
	if err != nil {
		return 0, err
	}
	balance := current(acc)
	if balance+delta < 0 {
		delta = -balance
	}
	if delta != 0 {
		if balance, err = apply(tx, acc.ID, delta); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit adjustment: %w", err)
	}

	logger.FromContext(ctx).Info(logMsg, "username", acc.Username, "delta", delta, "balance", balance)
	return balance, nil
}

func (s *service) Reset(ctx context.Context, username string) error {
	acc, err := s.repo.GetAccount(ctx, username)
	if err != nil {
		return err
	}

	unlock := s.locks.LockOrdered(acc.Username)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := tx.GetAccountForUpdate(ctx, acc.Username); err != nil {
		return err
	}
	if err := tx.ResetAccount(ctx, acc.ID); err != nil {
		return fmt.Errorf("failed to reset %s: %w", acc.Username, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgAccountReset, "username", acc.Username)
	s.publish(ctx, event.New(event.AccountReset, event.CoinsPayloadV1{To: acc.Username}))
	return nil
}

func (s *service) Leaderboard(ctx context.Context, kind domain.LeaderboardKind, limit int) ([]domain.Account, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown leaderboard %q", domain.ErrInvalidInput, kind)
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}
	return s.repo.TopAccounts(ctx, kind, limit)
}

func (s *service) PassiveIncome(ctx context.Context) (int, error) {
	cfg, err := s.settings.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	interval := cfg.Chat.PassiveInterval()
	amount := cfg.Chat.PassiveAmount
	if interval <= 0 || amount <= 0 {
		return 0, nil
	}

	now := s.now()
	active, err := s.repo.ActiveAccountsSince(ctx, now.Add(-interval))
	if err != nil {
		return 0, fmt.Errorf("failed to list active accounts: %w", err)
	}

	paid := 0
	for _, acc := range active {
		ok, err := s.payPassive(ctx, acc.Username, amount, interval, now)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgPassiveFailed, "username", acc.Username, "error", err)
			continue
		}
		if ok {
			paid++
		}
	}

	if paid > 0 {
		logger.FromContext(ctx).Info(LogMsgPassivePaid, "accounts", paid, "amount", amount)
		s.publish(ctx, event.New(event.PassiveIncome, event.CoinsPayloadV1{Amount: amount, Accounts: paid}))
	}
	return paid, nil
}

func (s *service) payPassive(ctx context.Context, username string, amount int, interval time.Duration, now time.Time) (bool, error) {
	unlock := s.locks.LockOrdered(username)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	defer repository.SafeRollback(ctx, tx)

	acc, err := tx.GetAccountForUpdate(ctx, username)
	if err != nil {
		return false, err
	}
	if acc.LastPassiveAt != nil && now.Sub(*acc.LastPassiveAt) < interval {
		return false, nil
	}
	if _, err := tx.AdjustCoins(ctx, acc.ID, amount); err != nil {
		return false, err
	}
	acc.LastPassiveAt = &now
	if err := tx.SaveProgress(ctx, acc); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
