package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
)

// economyTx holds the store semaphore for its whole lifetime
type economyTx struct {
	s    *Store
	undo []func()
	done bool
}

// BeginTx blocks until no other transaction is open or ctx is done
func (s *Store) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &economyTx{s: s}, nil
}

func (t *economyTx) Commit(ctx context.Context) error {
	if t.done {
		return repository.ErrTxClosed
	}
	t.done = true
	t.undo = nil
	t.s.release()
	return nil
}

func (t *economyTx) Rollback(ctx context.Context) error {
	if t.done {
		return repository.ErrTxClosed
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.done = true
	t.undo = nil
	t.s.release()
	return nil
}

func (t *economyTx) check() error {
	if t.done {
		return repository.ErrTxClosed
	}
	return nil
}

func (t *economyTx) account(accountID string) (*domain.Account, error) {
	name, ok := t.s.usernames[accountID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return t.s.accounts[name], nil
}

// snapshotAccount records the current state of acc so rollback can restore it
func (t *economyTx) snapshotAccount(acc *domain.Account) {
	before := acc.Clone()
	t.undo = append(t.undo, func() { *acc = *before })
}

func (t *economyTx) GetAccountForUpdate(ctx context.Context, username string) (*domain.Account, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	acc, ok := t.s.accounts[domain.NormalizeUsername(username)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return acc.Clone(), nil
}

func (t *economyTx) LockAccounts(ctx context.Context, usernames ...string) ([]*domain.Account, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(usernames))
	for _, u := range usernames {
		names = append(names, domain.NormalizeUsername(u))
	}
	sort.Strings(names)

	out := make([]*domain.Account, 0, len(names))
	for i, name := range names {
		if i > 0 && names[i-1] == name {
			continue
		}
		acc, ok := t.s.accounts[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, name)
		}
		out = append(out, acc.Clone())
	}
	return out, nil
}

func (t *economyTx) AdjustCoins(ctx context.Context, accountID string, delta int) (int, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	acc, err := t.account(accountID)
	if err != nil {
		return 0, err
	}
	if acc.Coins+delta < 0 {
		return acc.Coins, &domain.InsufficientFundsError{Username: acc.Username, Required: -delta, Available: acc.Coins}
	}
	t.snapshotAccount(acc)
	acc.Coins += delta
	if delta > 0 {
		acc.TotalCoinsEarned += delta
	}
	acc.UpdatedAt = t.s.now()
	return acc.Coins, nil
}

func (t *economyTx) AdjustBoxes(ctx context.Context, accountID string, delta int) (int, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	acc, err := t.account(accountID)
	if err != nil {
		return 0, err
	}
	if acc.Boxes+delta < 0 {
		return acc.Boxes, fmt.Errorf("%w: %s has %d boxes", domain.ErrInsufficientInventory, acc.Username, acc.Boxes)
	}
	t.snapshotAccount(acc)
	acc.Boxes += delta
	acc.UpdatedAt = t.s.now()
	return acc.Boxes, nil
}

func (t *economyTx) SaveProgress(ctx context.Context, account *domain.Account) error {
	if err := t.check(); err != nil {
		return err
	}
	acc, err := t.account(account.ID)
	if err != nil {
		return err
	}
	t.snapshotAccount(acc)
	acc.XP = account.XP
	acc.Level = account.Level
	acc.TotalBoxesOpened = account.TotalBoxesOpened
	acc.LastDailyAt = cloneTime(account.LastDailyAt)
	acc.LastMessageAt = cloneTime(account.LastMessageAt)
	acc.LastPassiveAt = cloneTime(account.LastPassiveAt)
	acc.UpdatedAt = t.s.now()
	return nil
}

func (t *economyTx) ResetAccount(ctx context.Context, accountID string) error {
	if err := t.check(); err != nil {
		return err
	}
	acc, err := t.account(accountID)
	if err != nil {
		return err
	}
	t.snapshotAccount(acc)
	inv := t.s.inventory[accountID]
	t.undo = append(t.undo, func() { t.s.inventory[accountID] = inv })

	acc.Coins = 0
	acc.Boxes = 0
	acc.XP = 0
	acc.Level = 1
	acc.TotalCoinsEarned = 0
	acc.TotalBoxesOpened = 0
	acc.LastDailyAt = nil
	acc.LastMessageAt = nil
	acc.LastPassiveAt = nil
	acc.UpdatedAt = t.s.now()
	delete(t.s.inventory, accountID)
	return nil
}

func (t *economyTx) GetItemQuantity(ctx context.Context, accountID, itemID string) (int, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	return t.s.inventory[accountID][itemID], nil
}

func (t *economyTx) setQuantity(accountID, itemID string, qty int) {
	lines, ok := t.s.inventory[accountID]
	if !ok {
		lines = make(map[string]int)
		t.s.inventory[accountID] = lines
	}
	before, had := lines[itemID]
	t.undo = append(t.undo, func() {
		if had {
			t.s.inventory[accountID][itemID] = before
		} else {
			delete(t.s.inventory[accountID], itemID)
		}
	})
	if qty <= 0 {
		delete(lines, itemID)
		return
	}
	lines[itemID] = qty
}

func (t *economyTx) AddItem(ctx context.Context, accountID, itemID string, quantity int) error {
	if err := t.check(); err != nil {
		return err
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	if _, err := t.account(accountID); err != nil {
		return err
	}
	if _, ok := t.s.items[itemID]; !ok {
		return domain.ErrItemNotFound
	}
	t.setQuantity(accountID, itemID, t.s.inventory[accountID][itemID]+quantity)
	return nil
}

func (t *economyTx) RemoveItem(ctx context.Context, accountID, itemID string, quantity int) error {
	if err := t.check(); err != nil {
		return err
	}
	have := t.s.inventory[accountID][itemID]
	if have < quantity {
		return fmt.Errorf("%w: has %d of %s, needs %d", domain.ErrInsufficientInventory, have, itemID, quantity)
	}
	t.setQuantity(accountID, itemID, have-quantity)
	return nil
}

func (t *economyTx) IncrementDropCount(ctx context.Context, itemID string, n int) error {
	if err := t.check(); err != nil {
		return err
	}
	item, ok := t.s.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.DropCount += n
	t.undo = append(t.undo, func() { item.DropCount -= n })
	return nil
}

func (t *economyTx) CreateTrade(ctx context.Context, trade *domain.Trade) error {
	if err := t.check(); err != nil {
		return err
	}
	for _, existing := range t.s.trades {
		if existing.Status != domain.TradeStatusPending {
			continue
		}
		if existing.Initiator == trade.Initiator || existing.Target == trade.Target {
			return domain.ErrAlreadyPending
		}
	}
	cp := *trade
	t.s.trades[trade.ID] = &cp
	t.s.tradeSeq = append(t.s.tradeSeq, trade.ID)
	t.undo = append(t.undo, func() {
		delete(t.s.trades, trade.ID)
		t.s.tradeSeq = t.s.tradeSeq[:len(t.s.tradeSeq)-1]
	})
	return nil
}

func (t *economyTx) GetTradeForUpdate(ctx context.Context, tradeID string) (*domain.Trade, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	tr, ok := t.s.trades[tradeID]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	cp := *tr
	return &cp, nil
}

func (t *economyTx) ListPendingTrades(ctx context.Context, usernames ...string) ([]domain.Trade, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	var out []domain.Trade
	for _, id := range t.s.tradeSeq {
		tr := t.s.trades[id]
		if tr.Status != domain.TradeStatusPending {
			continue
		}
		for _, u := range usernames {
			if tr.Involves(domain.NormalizeUsername(u)) {
				out = append(out, *tr)
				break
			}
		}
	}
	return out, nil
}

func (t *economyTx) SetTradeStatus(ctx context.Context, tradeID string, status domain.TradeStatus, resolvedAt time.Time) error {
	if err := t.check(); err != nil {
		return err
	}
	tr, ok := t.s.trades[tradeID]
	if !ok {
		return domain.ErrTradeNotFound
	}
	if tr.Status.Terminal() {
		return fmt.Errorf("%w: trade %s already %s", domain.ErrConcurrencyConflict, tradeID, tr.Status)
	}
	before := *tr
	t.undo = append(t.undo, func() { *tr = before })
	tr.Status = status
	resolved := resolvedAt
	tr.ResolvedAt = &resolved
	return nil
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
