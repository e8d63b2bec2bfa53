package daily

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameBoxBot_Go/internal/catalog"
	"github.com/osse101/GameBoxBot_Go/internal/concurrency"
	"github.com/osse101/GameBoxBot_Go/internal/database/memory"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/reward"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
)

type fixture struct {
	store    *memory.Store
	settings settings.Service
	catalog  catalog.Service
	bus      *event.MemoryBus
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	cfg := settings.NewService(store)
	return &fixture{
		store:    store,
		settings: cfg,
		catalog:  catalog.NewService(store, cfg),
		bus:      event.NewMemoryBus(),
		now:      time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

// service draws from draws in order, repeating the last one
func (f *fixture) service(draws ...float64) Service {
	i := 0
	rnd := func() float64 {
		v := draws[len(draws)-1]
		if i < len(draws) {
			v = draws[i]
		}
		i++
		return v
	}
	svc := NewService(f.store, f.catalog, f.settings, reward.NewSelectorWithRand(rnd), f.bus, concurrency.NewLockManager())
	svc.(*service).now = func() time.Time { return f.now }
	return svc
}

func (f *fixture) account(t *testing.T, username string) *domain.Account {
	t.Helper()
	acc, err := f.store.GetAccount(context.Background(), username)
	require.NoError(t, err)
	return acc
}

func TestClaim_Disabled(t *testing.T) {
	f := newFixture(t)
	cfg := domain.DefaultEconomyConfig()
	cfg.Daily.Enabled = false
	_, err := f.settings.Replace(context.Background(), cfg)
	require.NoError(t, err)

	res, err := f.service(0).Claim(context.Background(), "alice")

	assert.ErrorIs(t, err, domain.ErrFeatureDisabled)
	assert.Nil(t, res)
}

func TestClaim_CoinsBucket(t *testing.T) {
	f := newFixture(t)

	res, err := f.service(0).Claim(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, domain.DailyOutcomeCoins, res.Kind)
	assert.Equal(t, 200, res.Amount)
	assert.Nil(t, res.Item)

	acc := f.account(t, "alice")
	assert.Equal(t, 200, acc.Coins)
	require.NotNil(t, acc.LastDailyAt)
	assert.True(t, acc.LastDailyAt.Equal(f.now))
}

func TestClaim_CooldownBoundary(t *testing.T) {
	// ARRANGE
	f := newFixture(t)
	ctx := context.Background()
	svc := f.service(0)
	_, err := svc.Claim(ctx, "bob")
	require.NoError(t, err)

	// ACT + ASSERT: one second early
	f.now = f.now.Add(24*time.Hour - time.Second)
	_, err = svc.Claim(ctx, "bob")

	var cooldown *domain.CooldownError
	require.ErrorAs(t, err, &cooldown)
	assert.ErrorIs(t, err, domain.ErrCooldownActive)
	assert.Equal(t, time.Second, cooldown.Remaining)
	assert.GreaterOrEqual(t, cooldown.Remaining, time.Duration(0))

	// exactly one cooldown later
	f.now = f.now.Add(time.Second)
	res, err := svc.Claim(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.DailyOutcomeCoins, res.Kind)
	assert.Equal(t, 400, f.account(t, "bob").Coins)
}

func TestClaim_BoxBucket(t *testing.T) {
	f := newFixture(t)

	res, err := f.service(0.92).Claim(context.Background(), "carol")

	require.NoError(t, err)
	assert.Equal(t, domain.DailyOutcomeBox, res.Kind)
	assert.Equal(t, 1, res.Amount)
	assert.Equal(t, 1, f.account(t, "carol").Boxes)
}

func TestClaim_CommonItemBucket(t *testing.T) {
	// ARRANGE
	f := newFixture(t)
	ctx := context.Background()
	game, err := f.catalog.Upsert(ctx, domain.CatalogItem{Name: "Tetris", Platform: "GB", BoxObtainable: true})
	require.NoError(t, err)

	// ACT
	res, err := f.service(0.96, 0.5).Claim(ctx, "dave")

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, domain.DailyOutcomeItem, res.Kind)
	assert.False(t, res.Rare)
	require.NotNil(t, res.Item)
	assert.Equal(t, "Tetris", res.Item.Name)

	inv, err := f.store.GetInventory(ctx, f.account(t, "dave").ID)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, 1, inv[0].Quantity)

	stored, err := f.store.GetItem(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.DropCount)
}

func TestClaim_EmptyRareBucketFallsBackToCoins(t *testing.T) {
	f := newFixture(t)
	_, err := f.catalog.Upsert(context.Background(), domain.CatalogItem{Name: "Tetris", BoxObtainable: true})
	require.NoError(t, err)

	res, err := f.service(0.995).Claim(context.Background(), "erin")

	require.NoError(t, err)
	assert.Equal(t, domain.DailyOutcomeCoins, res.Kind)
	assert.True(t, res.Fallback)
	assert.Equal(t, 200, res.Amount)

	acc := f.account(t, "erin")
	assert.Equal(t, 200, acc.Coins)
	assert.NotNil(t, acc.LastDailyAt)
}

func TestClaim_RareItemIsAnnounced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var drops []event.RareDropPayloadV1
	f.bus.Subscribe(event.BoxRareDrop, func(_ context.Context, evt event.Event) error {
		drops = append(drops, evt.Payload.(event.RareDropPayloadV1))
		return nil
	})

	cfg := domain.DefaultEconomyConfig()
	cfg.Daily.RareRarity = domain.RarityS
	_, err := f.settings.Replace(ctx, cfg)
	require.NoError(t, err)
	score := 88
	_, err = f.catalog.Upsert(ctx, domain.CatalogItem{Name: "Chrono Trigger", QualityScore: &score, BoxObtainable: true})
	require.NoError(t, err)

	res, err := f.service(0.995, 0.1).Claim(ctx, "frank")

	require.NoError(t, err)
	assert.True(t, res.Rare)
	require.NotNil(t, res.Item)
	assert.Equal(t, domain.RarityS, res.Item.Rarity)
	require.Len(t, drops, 1)
	assert.Equal(t, EventSourceDaily, drops[0].Source)
}
