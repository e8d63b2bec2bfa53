package account

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameBoxBot_Go/internal/concurrency"
	"github.com/osse101/GameBoxBot_Go/internal/database/memory"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) handle(_ context.Context, evt event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) ofType(t event.Type) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	svc    Service
	store  *memory.Store
	clock  *clock
	events *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clk := &clock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	store.SetClock(clk.Now)

	bus := event.NewMemoryBus()
	rec := &recorder{}
	event.SubscribeAll(bus, rec.handle, event.AccountLevelUp, event.CoinsGifted, event.PassiveIncome, event.AccountReset)

	svc := NewService(store, settings.NewService(store), bus, concurrency.NewLockManager())
	svc.(*service).now = clk.Now
	return &fixture{svc: svc, store: store, clock: clk, events: rec}
}

func (f *fixture) fund(t *testing.T, username string, coins int) *domain.Account {
	t.Helper()
	_, err := f.svc.AdminAdjustCoins(context.Background(), username, coins)
	require.NoError(t, err)
	acc, err := f.svc.Get(context.Background(), username)
	require.NoError(t, err)
	return acc
}

func TestFindOrCreate_CaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.FindOrCreate(ctx, "@Alice", "Alice")
	require.NoError(t, err)
	second, err := f.svc.FindOrCreate(ctx, "ALICE", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "alice", second.Username)
	assert.Zero(t, second.Coins)
	assert.Zero(t, second.Boxes)

	_, err = f.svc.FindOrCreate(ctx, "  ", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordMessage_CooldownAndLevelUp(t *testing.T) {
	// ARRANGE
	f := newFixture(t)
	ctx := context.Background()

	// ACT
	results := make([]*domain.MessageResult, 0, 12)
	for i := 0; i < 10; i++ {
		res, err := f.svc.RecordMessage(ctx, "bob", "Bob")
		require.NoError(t, err)
		results = append(results, res)

		throttled, err := f.svc.RecordMessage(ctx, "bob", "Bob")
		require.NoError(t, err)
		results = append(results, throttled)

		f.clock.Advance(60 * time.Second)
	}

	// ASSERT
	acc, err := f.svc.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 50, acc.Coins)
	assert.Equal(t, 100, acc.XP)
	assert.Equal(t, 2, acc.Level)

	assert.Equal(t, 5, results[0].CoinsAwarded)
	assert.Zero(t, results[1].CoinsAwarded)
	assert.Zero(t, results[1].XPAwarded)
	assert.True(t, results[18].LeveledUp)

	levelUps := f.events.ofType(event.AccountLevelUp)
	require.Len(t, levelUps, 1)
	payload := levelUps[0].Payload.(event.LevelUpPayloadV1)
	assert.Equal(t, 2, payload.NewLevel)
	assert.Equal(t, "casual gamer", payload.Title)
}

func TestRecordMessage_CooldownBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RecordMessage(ctx, "carol", "")
	require.NoError(t, err)

	f.clock.Advance(59 * time.Second)
	early, err := f.svc.RecordMessage(ctx, "carol", "")
	require.NoError(t, err)
	assert.Zero(t, early.CoinsAwarded)

	f.clock.Advance(time.Second)
	onTime, err := f.svc.RecordMessage(ctx, "carol", "")
	require.NoError(t, err)
	assert.Equal(t, 5, onTime.CoinsAwarded)
}

func TestGiftCoins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(t, "alice", 100)
	_, err := f.svc.FindOrCreate(ctx, "bob", "")
	require.NoError(t, err)

	t.Run("moves coins", func(t *testing.T) {
		res, err := f.svc.GiftCoins(ctx, "alice", "@Bob", 40)

		require.NoError(t, err)
		assert.Equal(t, 60, res.SenderCoins)
		assert.Equal(t, 40, res.RecipientCoins)
		assert.Len(t, f.events.ofType(event.CoinsGifted), 1)
	})

	t.Run("insufficient funds changes nothing", func(t *testing.T) {
		_, err := f.svc.GiftCoins(ctx, "alice", "bob", 61)

		var funds *domain.InsufficientFundsError
		require.ErrorAs(t, err, &funds)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Equal(t, 1, funds.Shortfall())

		alice, _ := f.svc.Get(ctx, "alice")
		bob, _ := f.svc.Get(ctx, "bob")
		assert.Equal(t, 60, alice.Coins)
		assert.Equal(t, 40, bob.Coins)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := f.svc.GiftCoins(ctx, "alice", "nobody", 1)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := f.svc.GiftCoins(ctx, "alice", "ALICE", 1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = f.svc.GiftCoins(ctx, "alice", "bob", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAdminAdjustCoins_RemovalClampsAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(t, "dave", 30)

	balance, err := f.svc.AdminAdjustCoins(ctx, "dave", -100)

	require.NoError(t, err)
	assert.Zero(t, balance)

	_, err = f.svc.AdminAdjustCoins(ctx, "dave", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdminAdjustBoxes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	boxes, err := f.svc.AdminAdjustBoxes(ctx, "@Erin", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, boxes)

	boxes, err = f.svc.AdminAdjustBoxes(ctx, "erin", -10)
	require.NoError(t, err)
	assert.Zero(t, boxes)

	acc, err := f.svc.Get(ctx, "erin")
	require.NoError(t, err)
	assert.Zero(t, acc.Boxes)
	assert.Zero(t, acc.Coins)

	_, err = f.svc.AdminAdjustBoxes(ctx, "erin", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReset_KeepsIdentity(t *testing.T) {
	// ARRANGE
	f := newFixture(t)
	ctx := context.Background()
	before := f.fund(t, "erin", 500)
	_, err := f.svc.RecordMessage(ctx, "erin", "")
	require.NoError(t, err)

	// ACT
	err = f.svc.Reset(ctx, "Erin")

	// ASSERT
	require.NoError(t, err)
	after, err := f.svc.Get(ctx, "erin")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "erin", after.Username)
	assert.Zero(t, after.Coins)
	assert.Zero(t, after.XP)
	assert.Equal(t, 1, after.Level)

	profile, err := f.svc.Profile(ctx, "erin")
	require.NoError(t, err)
	assert.Empty(t, profile.Inventory)
	assert.Equal(t, "newbie", profile.LevelTitle)
	assert.Equal(t, 100, profile.NextLevelXP)

	assert.ErrorIs(t, f.svc.Reset(ctx, "ghost"), domain.ErrUserNotFound)
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fund(t, "a", 10)
	f.fund(t, "b", 30)
	f.fund(t, "c", 20)

	top, err := f.svc.Leaderboard(ctx, domain.LeaderboardCoins, 2)

	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Username)
	assert.Equal(t, "c", top[1].Username)

	_, err = f.svc.Leaderboard(ctx, "gold", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPassiveIncome_PaysActiveAccountsOncePerInterval(t *testing.T) {
	// ARRANGE
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.RecordMessage(ctx, "idle", "")
	require.NoError(t, err)
	f.clock.Advance(11 * time.Minute)
	_, err = f.svc.RecordMessage(ctx, "active", "")
	require.NoError(t, err)

	// ACT
	paid, err := f.svc.PassiveIncome(ctx)
	require.NoError(t, err)
	again, err := f.svc.PassiveIncome(ctx)
	require.NoError(t, err)

	// ASSERT
	assert.Equal(t, 1, paid)
	assert.Zero(t, again)

	active, _ := f.svc.Get(ctx, "active")
	idle, _ := f.svc.Get(ctx, "idle")
	assert.Equal(t, 5+50, active.Coins)
	assert.Equal(t, 5, idle.Coins)

	events := f.events.ofType(event.PassiveIncome)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].Payload.(event.CoinsPayloadV1).Accounts)
}
