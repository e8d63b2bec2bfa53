package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameBoxBot_Go/internal/chat"
	"github.com/osse101/GameBoxBot_Go/internal/command"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

// MockBoxService is a testify double for box.Service
type MockBoxService struct{ mock.Mock }

func (m *MockBoxService) PurchaseBoxes(ctx context.Context, username string, quantity int) (*domain.PurchaseResult, error) {
	args := m.Called(ctx, username, quantity)
	res, _ := args.Get(0).(*domain.PurchaseResult)
	return res, args.Error(1)
}

func (m *MockBoxService) OpenBoxes(ctx context.Context, username string, quantity int) (*domain.OpenResult, error) {
	args := m.Called(ctx, username, quantity)
	res, _ := args.Get(0).(*domain.OpenResult)
	return res, args.Error(1)
}

// MockDailyService is a testify double for daily.Service
type MockDailyService struct{ mock.Mock }

func (m *MockDailyService) Claim(ctx context.Context, username string) (*domain.DailyResult, error) {
	args := m.Called(ctx, username)
	res, _ := args.Get(0).(*domain.DailyResult)
	return res, args.Error(1)
}

// MockTradeService is a testify double for trade.Service
type MockTradeService struct{ mock.Mock }

func (m *MockTradeService) Propose(ctx context.Context, initiator, target, ownedItem, wantedItem string) (*domain.Trade, error) {
	args := m.Called(ctx, initiator, target, ownedItem, wantedItem)
	res, _ := args.Get(0).(*domain.Trade)
	return res, args.Error(1)
}

func (m *MockTradeService) Accept(ctx context.Context, target string) (*domain.TradeResult, error) {
	args := m.Called(ctx, target)
	res, _ := args.Get(0).(*domain.TradeResult)
	return res, args.Error(1)
}

func (m *MockTradeService) Reject(ctx context.Context, target string) error {
	return m.Called(ctx, target).Error(0)
}

func (m *MockTradeService) ExpireStale(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTradeService) RecentTrades(ctx context.Context, limit int) ([]domain.Trade, error) {
	args := m.Called(ctx, limit)
	res, _ := args.Get(0).([]domain.Trade)
	return res, args.Error(1)
}

func (m *MockTradeService) UserTrades(ctx context.Context, username string, limit int) ([]domain.Trade, error) {
	args := m.Called(ctx, username, limit)
	res, _ := args.Get(0).([]domain.Trade)
	return res, args.Error(1)
}

func (m *MockTradeService) Stats(ctx context.Context) ([]domain.TradeStat, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.TradeStat)
	return res, args.Error(1)
}

// MockAccountService is a testify double for account.Service
type MockAccountService struct{ mock.Mock }

func (m *MockAccountService) FindOrCreate(ctx context.Context, username, displayName string) (*domain.Account, error) {
	args := m.Called(ctx, username, displayName)
	res, _ := args.Get(0).(*domain.Account)
	return res, args.Error(1)
}

func (m *MockAccountService) Get(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	res, _ := args.Get(0).(*domain.Account)
	return res, args.Error(1)
}

func (m *MockAccountService) Profile(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	res, _ := args.Get(0).(*domain.Profile)
	return res, args.Error(1)
}

func (m *MockAccountService) RecordMessage(ctx context.Context, username, displayName string) (*domain.MessageResult, error) {
	args := m.Called(ctx, username, displayName)
	res, _ := args.Get(0).(*domain.MessageResult)
	return res, args.Error(1)
}

func (m *MockAccountService) GiftCoins(ctx context.Context, from, to string, amount int) (*domain.GiftResult, error) {
	args := m.Called(ctx, from, to, amount)
	res, _ := args.Get(0).(*domain.GiftResult)
	return res, args.Error(1)
}

func (m *MockAccountService) AdminAdjustCoins(ctx context.Context, username string, delta int) (int, error) {
	args := m.Called(ctx, username, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountService) AdminAdjustBoxes(ctx context.Context, username string, delta int) (int, error) {
	args := m.Called(ctx, username, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountService) Reset(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *MockAccountService) Leaderboard(ctx context.Context, kind domain.LeaderboardKind, limit int) ([]domain.Account, error) {
	args := m.Called(ctx, kind, limit)
	res, _ := args.Get(0).([]domain.Account)
	return res, args.Error(1)
}

func (m *MockAccountService) PassiveIncome(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockCatalogService is a testify double for catalog.Service
type MockCatalogService struct{ mock.Mock }

func (m *MockCatalogService) item(args mock.Arguments) (*domain.CatalogItem, error) {
	res, _ := args.Get(0).(*domain.CatalogItem)
	return res, args.Error(1)
}

func (m *MockCatalogService) items(args mock.Arguments) ([]domain.CatalogItem, error) {
	res, _ := args.Get(0).([]domain.CatalogItem)
	return res, args.Error(1)
}

func (m *MockCatalogService) Get(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, itemID))
}

func (m *MockCatalogService) Find(ctx context.Context, name string) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, name))
}

func (m *MockCatalogService) List(ctx context.Context, filter domain.CatalogFilter) ([]domain.CatalogItem, error) {
	return m.items(m.Called(ctx, filter))
}

func (m *MockCatalogService) TopDropped(ctx context.Context, limit int) ([]domain.CatalogItem, error) {
	return m.items(m.Called(ctx, limit))
}

func (m *MockCatalogService) Stats(ctx context.Context) ([]domain.RarityCount, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.RarityCount)
	return res, args.Error(1)
}

func (m *MockCatalogService) Upsert(ctx context.Context, item domain.CatalogItem) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, item))
}

func (m *MockCatalogService) SetCustomRarity(ctx context.Context, itemID string, rarity domain.Rarity) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, itemID, rarity))
}

func (m *MockCatalogService) ClearCustomRarity(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, itemID))
}

func (m *MockCatalogService) SetDisabled(ctx context.Context, itemID string, disabled bool) (*domain.CatalogItem, error) {
	return m.item(m.Called(ctx, itemID, disabled))
}

func (m *MockCatalogService) LoadSeedFile(ctx context.Context, path string) (int, error) {
	args := m.Called(ctx, path)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalogService) Candidates(ctx context.Context, rarity domain.Rarity) ([]domain.CatalogItem, error) {
	return m.items(m.Called(ctx, rarity))
}

// MockSettingsService is a testify double for settings.Service
type MockSettingsService struct{ mock.Mock }

func (m *MockSettingsService) config(args mock.Arguments) (*domain.EconomyConfig, error) {
	res, _ := args.Get(0).(*domain.EconomyConfig)
	return res, args.Error(1)
}

func (m *MockSettingsService) Snapshot(ctx context.Context) (*domain.EconomyConfig, error) {
	return m.config(m.Called(ctx))
}

func (m *MockSettingsService) Replace(ctx context.Context, cfg *domain.EconomyConfig) (*domain.EconomyConfig, error) {
	return m.config(m.Called(ctx, cfg))
}

func (m *MockSettingsService) UpdateRarityOdds(ctx context.Context, odds map[domain.Rarity]float64) (*domain.EconomyConfig, error) {
	return m.config(m.Called(ctx, odds))
}

func (m *MockSettingsService) LoadFile(ctx context.Context, path string) (*domain.EconomyConfig, error) {
	return m.config(m.Called(ctx, path))
}

// MockCommandService is a testify double for command.Service
type MockCommandService struct{ mock.Mock }

func (m *MockCommandService) cmd(args mock.Arguments) (*domain.CustomCommand, error) {
	res, _ := args.Get(0).(*domain.CustomCommand)
	return res, args.Error(1)
}

func (m *MockCommandService) List(ctx context.Context) ([]domain.CustomCommand, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.CustomCommand)
	return res, args.Error(1)
}

func (m *MockCommandService) Get(ctx context.Context, name string) (*domain.CustomCommand, error) {
	return m.cmd(m.Called(ctx, name))
}

func (m *MockCommandService) Create(ctx context.Context, cmd domain.CustomCommand) (*domain.CustomCommand, error) {
	return m.cmd(m.Called(ctx, cmd))
}

func (m *MockCommandService) Update(ctx context.Context, name string, patch command.Patch) (*domain.CustomCommand, error) {
	return m.cmd(m.Called(ctx, name, patch))
}

func (m *MockCommandService) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockCommandService) RecordUse(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockChatRouter is a testify double for ChatRouter
type MockChatRouter struct{ mock.Mock }

func (m *MockChatRouter) Handle(ctx context.Context, msg chat.Message) []string {
	res, _ := m.Called(ctx, msg).Get(0).([]string)
	return res
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParams attaches chi route parameters given as key, value pairs
func withURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func httptestGet(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}
