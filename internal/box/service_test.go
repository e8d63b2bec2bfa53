package box

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameBoxBot_Go/internal/catalog"
	"github.com/osse101/GameBoxBot_Go/internal/concurrency"
	"github.com/osse101/GameBoxBot_Go/internal/database/memory"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/reward"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
)

type mockCandidates struct {
	mock.Mock
}

func (m *mockCandidates) Candidates(ctx context.Context, rarity domain.Rarity) ([]domain.CatalogItem, error) {
	args := m.Called(ctx, rarity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogItem), args.Error(1)
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

func (r *recorder) count(t event.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type fixture struct {
	store    *memory.Store
	settings settings.Service
	catalog  catalog.Service
	bus      *event.MemoryBus
	events   *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	cfg := settings.NewService(store)
	bus := event.NewMemoryBus()
	rec := &recorder{}
	event.SubscribeAll(bus, rec.handle, event.BoxPurchased, event.BoxOpened, event.BoxRareDrop, event.BoxDepleted)
	return &fixture{
		store:    store,
		settings: cfg,
		catalog:  catalog.NewService(store, cfg),
		bus:      bus,
		events:   rec,
	}
}

func (f *fixture) service(rnd func() float64) Service {
	return f.serviceWith(f.catalog, rnd)
}

func (f *fixture) serviceWith(candidates CandidateSource, rnd func() float64) Service {
	return NewService(f.store, candidates, f.settings, reward.NewSelectorWithRand(rnd), f.bus, concurrency.NewLockManager())
}

func (f *fixture) account(t *testing.T, username string, coins, boxes int) *domain.Account {
	t.Helper()
	ctx := context.Background()
	acc, err := f.store.FindOrCreateAccount(ctx, username, "")
	require.NoError(t, err)

	tx, err := f.store.BeginTx(ctx)
	require.NoError(t, err)
	if coins > 0 {
		_, err = tx.AdjustCoins(ctx, acc.ID, coins)
		require.NoError(t, err)
	}
	if boxes > 0 {
		_, err = tx.AdjustBoxes(ctx, acc.ID, boxes)
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit(ctx))
	return acc
}

func (f *fixture) item(t *testing.T, item domain.CatalogItem) *domain.CatalogItem {
	t.Helper()
	created, err := f.catalog.Upsert(context.Background(), item)
	require.NoError(t, err)
	return created
}

func (f *fixture) odds(t *testing.T, odds map[domain.Rarity]float64) {
	t.Helper()
	_, err := f.settings.UpdateRarityOdds(context.Background(), odds)
	require.NoError(t, err)
}

func fixed(v float64) func() float64 { return func() float64 { return v } }

func intPtr(v int) *int { return &v }

func TestPurchaseBoxes(t *testing.T) {
	tests := []struct {
		name        string
		balance     int
		quantity    int
		wantErr     error
		wantCoins   int
		wantBoxes   int
		wantSpent   int
		wantBalance int
	}{
		{name: "single box", balance: 100, quantity: 1, wantCoins: 0, wantBoxes: 1, wantSpent: 100, wantBalance: 0},
		{name: "max boxes", balance: 1500, quantity: 10, wantCoins: 500, wantBoxes: 10, wantSpent: 1000, wantBalance: 500},
		{name: "over limit", balance: 5000, quantity: 11, wantErr: domain.ErrOverLimit, wantBalance: 5000},
		{name: "zero quantity", balance: 5000, quantity: 0, wantErr: domain.ErrOverLimit, wantBalance: 5000},
		{name: "short by one", balance: 199, quantity: 2, wantErr: domain.ErrInsufficientFunds, wantBalance: 199},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			f := newFixture(t)
			f.account(t, "alice", tt.balance, 0)
			svc := f.service(fixed(0))

			// ACT
			res, err := svc.PurchaseBoxes(context.Background(), "Alice", tt.quantity)

			// ASSERT
			acc, getErr := f.store.GetAccount(context.Background(), "alice")
			require.NoError(t, getErr)
			assert.Equal(t, tt.wantBalance, acc.Coins)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				assert.Zero(t, acc.Boxes)
				assert.Zero(t, f.events.count(event.BoxPurchased))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.quantity, res.BoxesPurchased)
			assert.Equal(t, tt.wantSpent, res.CoinsSpent)
			assert.Equal(t, tt.wantCoins, res.RemainingCoins)
			assert.Equal(t, tt.wantBoxes, res.TotalBoxes)
			assert.Equal(t, tt.wantBoxes, acc.Boxes)
			assert.Equal(t, 1, f.events.count(event.BoxPurchased))
		})
	}
}

func TestPurchaseBoxes_InsufficientFundsCarriesShortfall(t *testing.T) {
	f := newFixture(t)
	f.account(t, "bob", 250, 0)

	_, err := f.service(fixed(0)).PurchaseBoxes(context.Background(), "bob", 3)

	var funds *domain.InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, 300, funds.Required)
	assert.Equal(t, 250, funds.Available)
	assert.Equal(t, 50, funds.Shortfall())
}

func TestBuyAndOpen_ConcreteScenario(t *testing.T) {
	// ARRANGE
	f := newFixture(t)
	ctx := context.Background()
	f.account(t, "viewer", 250, 0)
	f.odds(t, map[domain.Rarity]float64{domain.RarityE: 100})
	game := f.item(t, domain.CatalogItem{Name: "TestGame", Platform: "PC", BoxObtainable: true, Tradeable: true})
	svc := f.service(fixed(0.5))

	// ACT
	purchase, err := svc.PurchaseBoxes(ctx, "viewer", 2)
	require.NoError(t, err)
	opened, err := svc.OpenBoxes(ctx, "viewer", 2)
	require.NoError(t, err)

	// ASSERT
	assert.Equal(t, 50, purchase.RemainingCoins)
	assert.Equal(t, 2, purchase.BoxesPurchased)

	assert.Equal(t, 2, opened.BoxesOpened)
	assert.Zero(t, opened.RemainingBoxes)
	require.Len(t, opened.Items, 2)
	for _, item := range opened.Items {
		assert.Equal(t, "TestGame", item.Name)
		assert.Equal(t, domain.RarityE, item.Rarity)
		assert.False(t, item.Announce)
	}
	assert.Empty(t, opened.Depleted)

	acc, err := f.store.GetAccount(ctx, "viewer")
	require.NoError(t, err)
	inv, err := f.store.GetInventory(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, 2, inv[0].Quantity)
	assert.Equal(t, 2, acc.TotalBoxesOpened)

	stored, err := f.store.GetItem(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.DropCount)
	assert.Equal(t, 1, f.events.count(event.BoxOpened))
	assert.Zero(t, f.events.count(event.BoxRareDrop))
}

func TestOpenBoxes_QuantityBoundedOnlyByBoxesOwned(t *testing.T) {
	// ARRANGE
	f := newFixture(t)
	ctx := context.Background()
	f.account(t, "ivy", 0, 25)
	f.odds(t, map[domain.Rarity]float64{domain.RarityE: 100})
	f.item(t, domain.CatalogItem{Name: "TestGame", BoxObtainable: true})
	svc := f.service(fixed(0.5))

	// ACT
	res, err := svc.OpenBoxes(ctx, "ivy", 25)
	_, zeroErr := svc.OpenBoxes(ctx, "ivy", 0)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, 25, res.BoxesOpened)
	assert.Len(t, res.Items, 25)
	assert.Zero(t, res.RemainingBoxes)
	assert.ErrorIs(t, zeroErr, domain.ErrOverLimit)
}

func TestOpenBoxes_InsufficientBoxes(t *testing.T) {
	f := newFixture(t)
	f.account(t, "carol", 0, 1)

	res, err := f.service(fixed(0)).OpenBoxes(context.Background(), "carol", 2)

	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	assert.Nil(t, res)
	acc, _ := f.store.GetAccount(context.Background(), "carol")
	assert.Equal(t, 1, acc.Boxes)
}

func TestOpenBoxes_DepletedTierConsumesBox(t *testing.T) {
	// ARRANGE
	f := newFixture(t)
	f.account(t, "dave", 0, 1)
	f.item(t, domain.CatalogItem{Name: "Common Game", BoxObtainable: true})

	// 0.99 lands in SS with the default odds, which has no items
	svc := f.service(fixed(0.99))

	// ACT
	res, err := svc.OpenBoxes(context.Background(), "dave", 1)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, 1, res.BoxesOpened)
	assert.Empty(t, res.Items)
	assert.Equal(t, []domain.Rarity{domain.RaritySS}, res.Depleted)
	assert.Zero(t, res.RemainingBoxes)
	assert.Equal(t, 1, f.events.count(event.BoxDepleted))
}

func TestOpenBoxes_NeverAwardsIneligibleItems(t *testing.T) {
	// ARRANGE
	f := newFixture(t)
	ctx := context.Background()
	f.account(t, "erin", 0, 10)
	f.odds(t, map[domain.Rarity]float64{domain.RarityE: 100})
	eligible := f.item(t, domain.CatalogItem{Name: "Eligible", BoxObtainable: true, Popularity: 1})
	f.item(t, domain.CatalogItem{Name: "Shop Only", BoxObtainable: false, Popularity: 1000})
	off := f.item(t, domain.CatalogItem{Name: "Retired", BoxObtainable: true, Popularity: 1000})
	_, err := f.catalog.SetDisabled(ctx, off.ID, true)
	require.NoError(t, err)

	draws := []float64{0.1, 0.9, 0.3, 0.7, 0.5, 0.2, 0.8, 0.4, 0.6, 0.0}
	i := 0
	rnd := func() float64 {
		v := draws[i%len(draws)]
		i++
		return v
	}

	// ACT
	res, err := f.service(rnd).OpenBoxes(ctx, "erin", 10)

	// ASSERT
	require.NoError(t, err)
	require.Len(t, res.Items, 10)
	for _, item := range res.Items {
		assert.Equal(t, eligible.ID, item.ItemID)
	}
}

func TestOpenBoxes_AnnouncesRareDrops(t *testing.T) {
	f := newFixture(t)
	f.account(t, "frank", 0, 1)
	f.odds(t, map[domain.Rarity]float64{domain.RarityS: 100})
	f.item(t, domain.CatalogItem{Name: "Chrono Trigger", QualityScore: intPtr(86), BoxObtainable: true})

	res, err := f.service(fixed(0.3)).OpenBoxes(context.Background(), "frank", 1)

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].Announce)
	assert.Equal(t, 1, f.events.count(event.BoxRareDrop))
}

func TestOpenBoxes_LaterFailureKeepsEarlierUnits(t *testing.T) {
	// ARRANGE
	f := newFixture(t)
	ctx := context.Background()
	f.account(t, "gina", 0, 3)
	f.odds(t, map[domain.Rarity]float64{domain.RarityE: 100})
	game := f.item(t, domain.CatalogItem{Name: "Tetris", BoxObtainable: true})

	candidates := new(mockCandidates)
	candidates.On("Candidates", mock.Anything, domain.RarityE).
		Return([]domain.CatalogItem{*game}, nil).Once()
	candidates.On("Candidates", mock.Anything, domain.RarityE).
		Return(nil, errors.New("catalog offline")).Once()

	// ACT
	res, err := f.serviceWith(candidates, fixed(0.5)).OpenBoxes(ctx, "gina", 3)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, 1, res.BoxesOpened)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.RemainingBoxes)
	candidates.AssertExpectations(t)

	acc, _ := f.store.GetAccount(ctx, "gina")
	assert.Equal(t, 2, acc.Boxes)
}

func TestOpenBoxes_FirstUnitFailureReturnsError(t *testing.T) {
	f := newFixture(t)
	f.account(t, "hank", 0, 1)
	candidates := new(mockCandidates)
	candidates.On("Candidates", mock.Anything, mock.Anything).Return(nil, errors.New("catalog offline"))

	res, err := f.serviceWith(candidates, fixed(0)).OpenBoxes(context.Background(), "hank", 1)

	assert.Error(t, err)
	assert.Nil(t, res)
	acc, _ := f.store.GetAccount(context.Background(), "hank")
	assert.Equal(t, 1, acc.Boxes)
}
