package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
)

func seedItem(t *testing.T, s *Store, name string, rarity domain.Rarity) *domain.CatalogItem {
	t.Helper()
	item := &domain.CatalogItem{Name: name, Platform: "PC", Rarity: rarity, Tradeable: true, BoxObtainable: true, Popularity: 1}
	require.NoError(t, s.UpsertItem(context.Background(), item))
	return item
}

func TestFindOrCreateAccount_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first, err := s.FindOrCreateAccount(ctx, "Alice", "Alice")
	require.NoError(t, err)
	second, err := s.FindOrCreateAccount(ctx, "@ALICE", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "alice", second.Username)
	assert.Equal(t, 0, second.Coins)
	assert.Equal(t, 1, second.Level)
}

func TestTx_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	acc, _ := s.FindOrCreateAccount(ctx, "alice", "")
	item := seedItem(t, s, "TestGame", domain.RarityE)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.AdjustCoins(ctx, acc.ID, 500)
	require.NoError(t, err)
	require.NoError(t, tx.AddItem(ctx, acc.ID, item.ID, 2))
	require.NoError(t, tx.IncrementDropCount(ctx, item.ID, 2))
	require.NoError(t, tx.Rollback(ctx))

	got, err := s.GetAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Coins)
	assert.Equal(t, 0, got.TotalCoinsEarned)

	inv, err := s.GetInventory(ctx, acc.ID)
	require.NoError(t, err)
	assert.Empty(t, inv)

	stored, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.DropCount)
}

func TestTx_ClosedTxRejectsUse(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.ErrorIs(t, tx.Rollback(ctx), repository.ErrTxClosed)
	_, err = tx.GetAccountForUpdate(ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrTxClosed)
}

func TestTx_BeginHonorsContext(t *testing.T) {
	s := NewStore()
	tx, err := s.BeginTx(context.Background())
	require.NoError(t, err)
	defer repository.SafeRollback(context.Background(), tx)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.BeginTx(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestTx_ConditionalAdjustments(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	acc, _ := s.FindOrCreateAccount(ctx, "alice", "")

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	_, err = tx.AdjustCoins(ctx, acc.ID, 100)
	require.NoError(t, err)

	_, err = tx.AdjustCoins(ctx, acc.ID, -150)
	var funds *domain.InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, 50, funds.Shortfall())

	_, err = tx.AdjustBoxes(ctx, acc.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)

	err = tx.RemoveItem(ctx, acc.ID, "missing", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
}

func TestTx_ResetKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	acc, _ := s.FindOrCreateAccount(ctx, "alice", "")
	item := seedItem(t, s, "TestGame", domain.RarityE)

	tx, _ := s.BeginTx(ctx)
	_, _ = tx.AdjustCoins(ctx, acc.ID, 300)
	_, _ = tx.AdjustBoxes(ctx, acc.ID, 3)
	require.NoError(t, tx.AddItem(ctx, acc.ID, item.ID, 1))
	require.NoError(t, tx.Commit(ctx))

	tx, _ = s.BeginTx(ctx)
	require.NoError(t, tx.ResetAccount(ctx, acc.ID))
	require.NoError(t, tx.Commit(ctx))

	again, err := s.FindOrCreateAccount(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, again.ID)
	assert.Equal(t, 0, again.Coins)
	assert.Equal(t, 0, again.Boxes)
	inv, _ := s.GetInventory(ctx, acc.ID)
	assert.Empty(t, inv)
}

func TestListBoxCandidates_Filters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedItem(t, s, "Eligible", domain.RarityE)

	disabled := &domain.CatalogItem{Name: "Disabled", Rarity: domain.RarityE, Disabled: true, BoxObtainable: true}
	require.NoError(t, s.UpsertItem(ctx, disabled))
	locked := &domain.CatalogItem{Name: "Not From Boxes", Rarity: domain.RarityE, BoxObtainable: false}
	require.NoError(t, s.UpsertItem(ctx, locked))
	untradeable := &domain.CatalogItem{Name: "Untradeable", Rarity: domain.RarityE, BoxObtainable: true, Tradeable: false}
	require.NoError(t, s.UpsertItem(ctx, untradeable))

	got, err := s.ListBoxCandidates(ctx, domain.RarityE)
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Eligible", "Untradeable"}, names)
}

func TestUpsertItem_PreservesDropCount(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	item := seedItem(t, s, "TestGame", domain.RarityE)

	tx, _ := s.BeginTx(ctx)
	require.NoError(t, tx.IncrementDropCount(ctx, item.ID, 4))
	require.NoError(t, tx.Commit(ctx))

	refresh := &domain.CatalogItem{Name: "testgame", Rarity: domain.RarityD, BoxObtainable: true}
	require.NoError(t, s.UpsertItem(ctx, refresh))

	assert.Equal(t, item.ID, refresh.ID)
	assert.Equal(t, 4, refresh.DropCount)
}

func TestTrades_PendingUniquenessAndExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tx, _ := s.BeginTx(ctx)
	first := &domain.Trade{ID: "t1", Initiator: "alice", Target: "bob", Status: domain.TradeStatusPending, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	require.NoError(t, tx.CreateTrade(ctx, first))
	dup := &domain.Trade{ID: "t2", Initiator: "alice", Target: "carol", Status: domain.TradeStatusPending, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	assert.ErrorIs(t, tx.CreateTrade(ctx, dup), domain.ErrAlreadyPending)
	require.NoError(t, tx.Commit(ctx))

	pending, err := s.GetPendingTradeForTarget(ctx, "BOB")
	require.NoError(t, err)
	assert.Equal(t, "t1", pending.ID)

	n, err := s.ExpireTrades(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.GetPendingTradeForTarget(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stats, err := s.TradeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TradeStat{{Status: domain.TradeStatusExpired, Count: 1}}, stats)
}
