package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameBoxBot_Go/internal/account"
	"github.com/osse101/GameBoxBot_Go/internal/box"
	"github.com/osse101/GameBoxBot_Go/internal/catalog"
	"github.com/osse101/GameBoxBot_Go/internal/command"
	"github.com/osse101/GameBoxBot_Go/internal/concurrency"
	"github.com/osse101/GameBoxBot_Go/internal/daily"
	"github.com/osse101/GameBoxBot_Go/internal/database/memory"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/event"
	"github.com/osse101/GameBoxBot_Go/internal/metrics"
	"github.com/osse101/GameBoxBot_Go/internal/reward"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
	"github.com/osse101/GameBoxBot_Go/internal/trade"
)

type fixture struct {
	router   *Router
	store    *memory.Store
	settings settings.Service
	svc      Services
	bus      *event.MemoryBus
}

// newFixture wires real services over the memory store. Rolls always land
// on the first bucket: tier E for boxes, coins for the daily.
func newFixture(t *testing.T, tweak func(cfg *domain.EconomyConfig)) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	cfgSvc := settings.NewService(store)

	cfg := domain.DefaultEconomyConfig()
	cfg.Chat.CommandCooldownSeconds = 0
	cfg.Chat.AdminUsers = []string{"streamer"}
	cfg.Chat.BannedUsers = []string{"spambot"}
	if tweak != nil {
		tweak(cfg)
	}
	_, err := cfgSvc.Replace(ctx, cfg)
	require.NoError(t, err)

	bus := event.NewMemoryBus()
	locks := concurrency.NewLockManager()
	selector := reward.NewSelectorWithRand(func() float64 { return 0 })
	cat := catalog.NewService(store, cfgSvc)
	svc := Services{
		Accounts: account.NewService(store, cfgSvc, bus, locks),
		Boxes:    box.NewService(store, cat, cfgSvc, selector, bus, locks),
		Daily:    daily.NewService(store, cat, cfgSvc, selector, bus, locks),
		Trades:   trade.NewService(store, cfgSvc, bus, locks),
		Catalog:  cat,
		Commands: command.NewService(store, BuiltinNames()...),
	}
	return &fixture{
		router:   NewRouter(svc, cfgSvc),
		store:    store,
		settings: cfgSvc,
		svc:      svc,
		bus:      bus,
	}
}

func (f *fixture) say(user, text string) []string {
	return f.router.Handle(context.Background(), Message{Username: user, Text: text})
}

// fund creates username with coins
func (f *fixture) fund(t *testing.T, username string, coins int) {
	t.Helper()
	_, err := f.svc.Accounts.AdminAdjustCoins(context.Background(), username, coins)
	require.NoError(t, err)
}

func (f *fixture) give(t *testing.T, username string, item *domain.CatalogItem) {
	t.Helper()
	ctx := context.Background()
	acc, err := f.store.FindOrCreateAccount(ctx, username, "")
	require.NoError(t, err)
	tx, err := f.store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.AddItem(ctx, acc.ID, item.ID, 1))
	require.NoError(t, tx.Commit(ctx))
}

func (f *fixture) game(t *testing.T, name string) *domain.CatalogItem {
	t.Helper()
	item, err := f.svc.Catalog.Upsert(context.Background(), domain.CatalogItem{Name: name, Tradeable: true, BoxObtainable: true})
	require.NoError(t, err)
	return item
}

func (f *fixture) coins(t *testing.T, username string) int {
	t.Helper()
	acc, err := f.store.GetAccount(context.Background(), username)
	require.NoError(t, err)
	return acc.Coins
}

func TestHandle_PlainMessageEarnsActivityReward(t *testing.T) {
	f := newFixture(t, nil)

	replies := f.say("Alice", "hello chat")

	assert.Empty(t, replies)
	assert.Equal(t, 5, f.coins(t, "alice"))
}

func TestHandle_IgnoredLines(t *testing.T) {
	tests := []struct {
		name string
		user string
		text string
	}{
		{"banned user", "SpamBot", "!help"},
		{"unknown command", "alice", "!dance"},
		{"bare prefix", "alice", "!"},
		{"disabled command", "alice", "!topxp"},
		{"admin command from viewer", "alice", "!addcoins @alice 1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(cfg *domain.EconomyConfig) {
				cfg.Chat.DisabledCommands = []string{"topxp"}
			})

			assert.Empty(t, f.say(tt.user, tt.text))
		})
	}
}

func TestHandle_BannedUserEarnsNothing(t *testing.T) {
	f := newFixture(t, nil)

	f.say("spambot", "buy followers")

	_, err := f.store.GetAccount(context.Background(), "spambot")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestHandle_CommandCooldown(t *testing.T) {
	// ARRANGE
	f := newFixture(t, func(cfg *domain.EconomyConfig) {
		cfg.Chat.CommandCooldownSeconds = 3
	})
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f.router.now = func() time.Time { return now }

	// ACT + ASSERT
	require.Len(t, f.say("alice", "!coins"), 1)
	assert.Empty(t, f.say("alice", "!profile"), "alias shares the cooldown")
	assert.Len(t, f.say("bob", "!coins"), 1, "cooldowns are per user")

	now = now.Add(3 * time.Second)
	assert.Len(t, f.say("alice", "!coins"), 1)
}

func TestHandle_AcceptIgnoresCooldown(t *testing.T) {
	f := newFixture(t, func(cfg *domain.EconomyConfig) {
		cfg.Chat.CommandCooldownSeconds = 60
	})

	assert.Len(t, f.say("bob", "!accept"), 1)
	assert.Len(t, f.say("bob", "!sim"), 1)
}

func TestBuyBox(t *testing.T) {
	tests := []struct {
		name  string
		coins int
		text  string
		want  string
	}{
		{"buys the requested amount", 250, "!buybox 2", "@alice bought 2 box(es) for 200 Coins. Balance: 50 Coins, boxes: 2."},
		{"defaults to one", 100, "!buy", "@alice bought 1 box(es) for 100 Coins. Balance: 0 Coins, boxes: 1."},
		{"reports the shortfall", 30, "!buybox", "@alice you need 70 Coins more."},
		{"rejects garbage", 500, "!buybox lots", "@alice that's not a valid amount."},
		{"rejects zero", 500, "!buybox 0", "@alice that's not a valid amount."},
		{"rejects over the limit", 5000, "!buybox 11", "@alice you can buy between 1 and 10 boxes at a time."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.fund(t, "alice", tt.coins)

			assert.Equal(t, []string{tt.want}, f.say("alice", tt.text))
		})
	}
}

func TestOpenBox(t *testing.T) {
	// ARRANGE
	f := newFixture(t, nil)
	f.game(t, "Tetris")
	f.fund(t, "alice", 1200)

	// ACT + ASSERT
	assert.Equal(t, []string{"@alice you don't have enough boxes."}, f.say("alice", "!openbox"))

	f.say("alice", "!buybox 2")
	assert.Equal(t, []string{"@alice opened 2 box(es): Tetris [E], Tetris [E]. Boxes left: 0."}, f.say("alice", "!open 2"))

	inv := f.say("alice", "!inv")
	assert.Equal(t, []string{"@alice has 2 game(s): E: 2"}, inv)
}

func TestOpenBox_EmptyTier(t *testing.T) {
	f := newFixture(t, nil)
	f.fund(t, "alice", 100)
	f.say("alice", "!buybox")

	assert.Equal(t, []string{"@alice opened 1 box(es) but every rolled tier was empty. Boxes left: 0."}, f.say("alice", "!openbox"))
}

func TestProfileAndInventory(t *testing.T) {
	f := newFixture(t, nil)
	f.fund(t, "alice", 1250)

	assert.Equal(t, []string{"@alice: 1,250 Coins • 0 box(es) • 0 game(s) • Level 1 Newbie (0 XP)"}, f.say("alice", "!profile"))
	assert.Equal(t, []string{"@alice, your inventory is empty."}, f.say("alice", "!inventory"))
}

func TestDaily(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, []string{"@alice claimed the daily reward: 200 Coins!"}, f.say("alice", "!daily"))
	assert.Equal(t, []string{"@alice !daily again in 24h."}, f.say("alice", "!daily"))
	assert.Equal(t, 200, f.coins(t, "alice"))
}

func TestTradeFlow(t *testing.T) {
	// ARRANGE
	f := newFixture(t, nil)
	zelda := f.game(t, "Zelda")
	mario := f.game(t, "Mario")
	f.fund(t, "alice", 300)
	f.fund(t, "bob", 300)
	f.give(t, "alice", zelda)
	f.give(t, "bob", mario)

	// ACT
	proposed := f.say("alice", "!trade @Bob zelda | mario")
	accepted := f.say("bob", "!sim")

	// ASSERT
	assert.Equal(t, []string{"@bob, @alice offers Zelda for your Mario. Type !accept or !reject within 1m."}, proposed)
	assert.Equal(t, []string{"Trade done! @alice got Mario and @bob got Zelda (fee 50 Coins each)."}, accepted)
	assert.Equal(t, 250, f.coins(t, "alice"))
	assert.Equal(t, 250, f.coins(t, "bob"))
	assert.Equal(t, []string{"@bob you have no pending trade."}, f.say("bob", "!nao"))
}

func TestTradeReplies(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"missing separator", "!trade @bob zelda mario", "@alice usage: !trade @user <your game> | <their game>"},
		{"missing target item", "!trade @bob zelda |", "@alice usage: !trade @user <your game> | <their game>"},
		{"no arguments", "!trade", "@alice usage: !trade @user <your game> | <their game>"},
		{"self trade", "!trade @alice zelda | mario", "@alice you can't trade with yourself."},
		{"unknown game", "!trade @bob pong | mario", "@alice game not found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			zelda := f.game(t, "Zelda")
			mario := f.game(t, "Mario")
			f.fund(t, "alice", 300)
			f.fund(t, "bob", 300)
			f.give(t, "alice", zelda)
			f.give(t, "bob", mario)

			assert.Equal(t, []string{tt.want}, f.say("alice", tt.text))
		})
	}
}

func TestRejectCommand(t *testing.T) {
	f := newFixture(t, nil)
	zelda := f.game(t, "Zelda")
	mario := f.game(t, "Mario")
	f.fund(t, "alice", 300)
	f.fund(t, "bob", 300)
	f.give(t, "alice", zelda)
	f.give(t, "bob", mario)
	f.say("alice", "!trade @bob zelda | mario")

	assert.Equal(t, []string{"@bob rejected the trade."}, f.say("bob", "!reject"))
	assert.Equal(t, 300, f.coins(t, "bob"))
}

func TestGift(t *testing.T) {
	f := newFixture(t, nil)
	f.fund(t, "alice", 100)
	f.fund(t, "bob", 1)

	assert.Equal(t, []string{"@alice gifted 40 Coins to @bob!"}, f.say("alice", "!gift @bob 40"))
	assert.Equal(t, []string{"@alice usage: !gift @user <amount>"}, f.say("alice", "!gift @bob"))
	assert.Equal(t, []string{"@alice user not found."}, f.say("alice", "!gift @nobody 5"))
	assert.Equal(t, []string{"@alice you need 940 Coins more."}, f.say("alice", "!giftcoins @bob 1000"))
	assert.Equal(t, 60, f.coins(t, "alice"))
	assert.Equal(t, 41, f.coins(t, "bob"))
}

func TestAdminCommands(t *testing.T) {
	f := newFixture(t, nil)
	f.fund(t, "bob", 10)

	assert.Equal(t, []string{"@bob now has 1,010 Coins."}, f.say("streamer", "!addcoins @bob 1000"))
	assert.Equal(t, []string{"@bob now has 0 Coins."}, f.say("streamer", "!removecoins @bob 5000"))
	assert.Equal(t, []string{"@streamer usage: !removecoins @user <amount>"}, f.say("streamer", "!removecoins"))
	assert.Equal(t, []string{"@streamer user not found."}, f.say("streamer", "!addcoins @ghost 5"))
	assert.Equal(t, []string{"@bob was reset."}, f.say("streamer", "!reset @bob"))
	assert.Equal(t, []string{"@streamer usage: !reset @user"}, f.say("streamer", "!reset"))
}

func TestAdminBoxAndInfoCommands(t *testing.T) {
	// ARRANGE
	f := newFixture(t, nil)
	f.fund(t, "bob", 1250)
	f.give(t, "bob", f.game(t, "Tetris"))

	// ACT + ASSERT
	assert.Equal(t, []string{"@bob now has 3 box(es)."}, f.say("streamer", "!givebox @bob 3"))
	assert.Equal(t, []string{"@streamer usage: !givebox @user <amount>"}, f.say("streamer", "!givebox @bob"))
	assert.Equal(t, []string{"@streamer user not found."}, f.say("streamer", "!givebox @ghost 1"))
	assert.Empty(t, f.say("alice", "!givebox @alice 50"), "viewers cannot give boxes")

	assert.Equal(t, []string{"bob: 1,250 Coins • 3 box(es) • 1 game(s) • Level 1 (0 XP) • 0 opened • 1,250 Coins earned"},
		f.say("streamer", "!userinfo @Bob"))
	assert.Equal(t, []string{"@streamer usage: !userinfo @user"}, f.say("streamer", "!userinfo"))
	assert.Equal(t, []string{"@streamer user not found."}, f.say("streamer", "!userinfo ghost"))
	assert.Empty(t, f.say("alice", "!userinfo bob"))
}

func TestRarities(t *testing.T) {
	tests := []struct {
		name string
		odds map[domain.Rarity]float64
		want string
	}{
		{"highest tier first", map[domain.Rarity]float64{domain.RarityE: 75, domain.RarityA: 20, domain.RaritySSS: 5}, "Box odds: SSS 5% | A 20% | E 75%"},
		{"fractions and zero tiers", map[domain.Rarity]float64{domain.RarityE: 99.5, domain.RarityD: 0, domain.RaritySSS: 0.5}, "Box odds: SSS 0.5% | E 99.5%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(cfg *domain.EconomyConfig) {
				cfg.RarityOdds = tt.odds
			})

			assert.Equal(t, []string{tt.want}, f.say("alice", "!odds"))
		})
	}
}

func TestLeaderboards(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, []string{ReplyTopEmpty}, f.say("viewer", "!topgames"))

	f.fund(t, "alice", 1500)
	f.fund(t, "bob", 300)

	replies := f.say("viewer", "!topcoins")

	require.Len(t, replies, 1)
	assert.Equal(t, "Richest: 1. alice (1,500) | 2. bob (300)", replies[0])
}

func TestHelpHidesAdminAndDisabled(t *testing.T) {
	f := newFixture(t, func(cfg *domain.EconomyConfig) {
		cfg.Chat.DisabledCommands = []string{"gift"}
	})

	replies := f.say("alice", "!help")

	require.Len(t, replies, 1)
	assert.Equal(t, "Commands: !buybox, !daily, !help, !inventory, !openbox, !profile, !rarities, !topcoins, !topgames, !topxp, !trade", replies[0])
}

func TestHandle_CountsOutcomes(t *testing.T) {
	f := newFixture(t, nil)
	ok := testutil.ToFloat64(metrics.ChatCommands.WithLabelValues(CmdProfile, metrics.OutcomeOK))
	rejected := testutil.ToFloat64(metrics.ChatCommands.WithLabelValues(CmdBuyBox, metrics.OutcomeRejected))

	f.say("alice", "!profile")
	f.say("alice", "!buybox")

	assert.Equal(t, ok+1, testutil.ToFloat64(metrics.ChatCommands.WithLabelValues(CmdProfile, metrics.OutcomeOK)))
	assert.Equal(t, rejected+1, testutil.ToFloat64(metrics.ChatCommands.WithLabelValues(CmdBuyBox, metrics.OutcomeRejected)))
}

func TestHandle_ConcurrentUsers(t *testing.T) {
	f := newFixture(t, nil)
	f.game(t, "Tetris")
	users := []string{"a", "b", "c", "d", "e"}
	for _, u := range users {
		f.fund(t, u, 500)
	}

	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			f.say(u, "!buybox 3")
			f.say(u, "!openbox 3")
		}(u)
	}
	wg.Wait()

	for _, u := range users {
		assert.Equal(t, 200, f.coins(t, u))
	}
	top, err := f.svc.Catalog.TopDropped(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 15, top[0].DropCount)
}
