// Package memory is a process-local repository.Store used in dev mode and tests.
// Transactions serialize behind a single semaphore and undo their writes on rollback.
package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
)

// Store keeps accounts, catalog, inventory, trades, config and chat commands in maps
type Store struct {
	sem chan struct{}
	now func() time.Time

	accounts  map[string]*domain.Account // by username
	usernames map[string]string          // account id -> username
	inventory map[string]map[string]int  // account id -> item id -> quantity
	items     map[string]*domain.CatalogItem
	trades    map[string]*domain.Trade
	tradeSeq  []string
	config    *domain.EconomyConfig
	commands  map[string]*domain.CustomCommand // by id
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		sem:       make(chan struct{}, 1),
		now:       time.Now,
		accounts:  make(map[string]*domain.Account),
		usernames: make(map[string]string),
		inventory: make(map[string]map[string]int),
		items:     make(map[string]*domain.CatalogItem),
		trades:    make(map[string]*domain.Trade),
		commands:  make(map[string]*domain.CustomCommand),
	}
}

// SetClock overrides the time source used for timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.sem
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (s *Store) Close() {}

// ---- Accounts ----

func (s *Store) GetAccount(ctx context.Context, username string) (*domain.Account, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	acc, ok := s.accounts[domain.NormalizeUsername(username)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return acc.Clone(), nil
}

func (s *Store) FindOrCreateAccount(ctx context.Context, username, displayName string) (*domain.Account, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	name := domain.NormalizeUsername(username)
	if acc, ok := s.accounts[name]; ok {
		return acc.Clone(), nil
	}
	if displayName == "" {
		displayName = username
	}
	now := s.now()
	acc := &domain.Account{
		ID:          uuid.NewString(),
		Username:    name,
		DisplayName: displayName,
		Level:       1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.accounts[name] = acc
	s.usernames[acc.ID] = name
	return acc.Clone(), nil
}

func (s *Store) GetInventory(ctx context.Context, accountID string) ([]domain.InventoryLine, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	lines := make([]domain.InventoryLine, 0, len(s.inventory[accountID]))
	for itemID, qty := range s.inventory[accountID] {
		item, ok := s.items[itemID]
		if !ok || qty <= 0 {
			continue
		}
		lines = append(lines, domain.InventoryLine{
			ItemID:    itemID,
			Name:      item.Name,
			Platform:  item.Platform,
			Rarity:    item.Rarity,
			Tradeable: item.Tradeable,
			Quantity:  qty,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines, nil
}

func (s *Store) TopAccounts(ctx context.Context, kind domain.LeaderboardKind, limit int) ([]domain.Account, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, *acc.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Coins, out[j].Coins
		if kind == domain.LeaderboardXP {
			a, b = out[i].XP, out[j].XP
		}
		if a != b {
			return a > b
		}
		return out[i].Username < out[j].Username
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ActiveAccountsSince(ctx context.Context, since time.Time) ([]domain.Account, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	var out []domain.Account
	for _, acc := range s.accounts {
		if acc.LastMessageAt != nil && !acc.LastMessageAt.Before(since) {
			out = append(out, *acc.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// ---- Catalog ----

func (s *Store) GetItem(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	item, ok := s.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *Store) GetItemByName(ctx context.Context, name string) (*domain.CatalogItem, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	if item := s.itemByNameLocked(name); item != nil {
		cp := *item
		return &cp, nil
	}
	return nil, domain.ErrItemNotFound
}

func (s *Store) itemByNameLocked(name string) *domain.CatalogItem {
	for _, item := range s.items {
		if strings.EqualFold(item.Name, strings.TrimSpace(name)) {
			return item
		}
	}
	return nil
}

func (s *Store) ListItems(ctx context.Context, filter domain.CatalogFilter) ([]domain.CatalogItem, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	var out []domain.CatalogItem
	for _, item := range s.items {
		if item.Disabled && !filter.IncludeDisabled {
			continue
		}
		if filter.Rarity != "" && item.Rarity != filter.Rarity {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) ListBoxCandidates(ctx context.Context, rarity domain.Rarity) ([]domain.CatalogItem, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	var out []domain.CatalogItem
	for _, item := range s.items {
		if item.Rarity == rarity && item.BoxEligible() {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpsertItem(ctx context.Context, item *domain.CatalogItem) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	now := s.now()
	if existing := s.itemByNameLocked(item.Name); existing != nil {
		item.ID = existing.ID
		item.DropCount = existing.DropCount
		item.CreatedAt = existing.CreatedAt
	} else {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.DropCount = 0
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *Store) UpdateItemFlags(ctx context.Context, item *domain.CatalogItem) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	existing, ok := s.items[item.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	existing.Rarity = item.Rarity
	existing.CustomRarity = item.CustomRarity
	existing.Disabled = item.Disabled
	existing.Tradeable = item.Tradeable
	existing.BoxObtainable = item.BoxObtainable
	existing.UpdatedAt = s.now()
	return nil
}

func (s *Store) TopDropped(ctx context.Context, limit int) ([]domain.CatalogItem, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	var out []domain.CatalogItem
	for _, item := range s.items {
		if item.DropCount > 0 {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DropCount != out[j].DropCount {
			return out[i].DropCount > out[j].DropCount
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) RarityStats(ctx context.Context) ([]domain.RarityCount, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	byRarity := make(map[domain.Rarity]*domain.RarityCount)
	for _, item := range s.items {
		if item.Disabled {
			continue
		}
		rc, ok := byRarity[item.Rarity]
		if !ok {
			rc = &domain.RarityCount{Rarity: item.Rarity}
			byRarity[item.Rarity] = rc
		}
		rc.Count++
		rc.Drops += item.DropCount
	}
	out := make([]domain.RarityCount, 0, len(byRarity))
	for _, rc := range byRarity {
		out = append(out, *rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rarity < out[j].Rarity })
	return out, nil
}

// ---- Trades ----

func (s *Store) GetPendingTradeForTarget(ctx context.Context, target string) (*domain.Trade, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	name := domain.NormalizeUsername(target)
	for i := len(s.tradeSeq) - 1; i >= 0; i-- {
		t := s.trades[s.tradeSeq[i]]
		if t.Target == name && t.Status == domain.TradeStatusPending {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTradeNotFound
}

func (s *Store) ListTrades(ctx context.Context, filter repository.TradeFilter) ([]domain.Trade, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	name := domain.NormalizeUsername(filter.Username)
	var out []domain.Trade
	for i := len(s.tradeSeq) - 1; i >= 0; i-- {
		t := s.trades[s.tradeSeq[i]]
		if name != "" && !t.Involves(name) {
			continue
		}
		out = append(out, *t)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) TradeStats(ctx context.Context) ([]domain.TradeStat, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	counts := make(map[domain.TradeStatus]int)
	for _, t := range s.trades {
		counts[t.Status]++
	}
	out := make([]domain.TradeStat, 0, len(counts))
	for status, n := range counts {
		out = append(out, domain.TradeStat{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (s *Store) ExpireTrades(ctx context.Context, now time.Time) (int, error) {
	if err := s.acquire(ctx); err != nil {
		return 0, err
	}
	defer s.release()

	n := 0
	for _, t := range s.trades {
		if t.Status == domain.TradeStatusPending && !now.Before(t.ExpiresAt) {
			t.Status = domain.TradeStatusExpired
			resolved := now
			t.ResolvedAt = &resolved
			n++
		}
	}
	return n, nil
}

// ---- Config ----

func (s *Store) GetEconomyConfig(ctx context.Context) (*domain.EconomyConfig, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	if s.config == nil {
		return nil, domain.ErrNotFound
	}
	return s.config.Clone(), nil
}

func (s *Store) SaveEconomyConfig(ctx context.Context, cfg *domain.EconomyConfig) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.config = cfg.Clone()
	return nil
}

var _ repository.Store = (*Store)(nil)
