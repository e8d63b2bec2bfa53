package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

func TestHandleGetProfile(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		// ARRANGE
		svc := &MockAccountService{}
		svc.On("Profile", mock.Anything, "alice").Return(&domain.Profile{
			Account:    &domain.Account{Username: "alice", Coins: 250, Level: 2},
			LevelTitle: "Casual",
			Inventory:  []domain.InventoryLine{{Name: "TestGame", Quantity: 2}},
		}, nil)
		req := withURLParams(httptestGet("/api/v1/accounts/alice"), ParamUsername, "alice")

		// ACT
		rec := serve(HandleGetProfile(svc), req)

		// ASSERT
		require.Equal(t, http.StatusOK, rec.Code)
		profile := decodeJSON[domain.Profile](t, rec)
		assert.Equal(t, 250, profile.Account.Coins)
		assert.Equal(t, "Casual", profile.LevelTitle)
		require.Len(t, profile.Inventory, 1)
		assert.Equal(t, 2, profile.Inventory[0].Quantity)
	})

	t.Run("Unknown user", func(t *testing.T) {
		svc := &MockAccountService{}
		svc.On("Profile", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

		rec := serve(HandleGetProfile(svc), withURLParams(httptestGet("/api/v1/accounts/ghost"), ParamUsername, "ghost"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgUserNotFound)
	})

	t.Run("Missing path parameter", func(t *testing.T) {
		svc := &MockAccountService{}

		rec := serve(HandleGetProfile(svc), withURLParams(httptestGet("/api/v1/accounts/")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Profile", mock.Anything, mock.Anything)
	})
}

func TestHandleResetAccount(t *testing.T) {
	svc := &MockAccountService{}
	svc.On("Reset", mock.Anything, "alice").Return(nil)

	req := withURLParams(jsonRequest(http.MethodPost, "/api/v1/accounts/alice/reset", ""), ParamUsername, "alice")
	rec := serve(HandleResetAccount(svc), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgAccountReset)
	svc.AssertExpectations(t)
}

func TestHandleAdjustCoins(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockAccountService)
		expectedStatus int
		expectedCoins  int
	}{
		{
			name: "Add",
			body: `{"delta":500}`,
			setupMock: func(m *MockAccountService) {
				m.On("AdminAdjustCoins", mock.Anything, "@Alice", 500).Return(750, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCoins:  750,
		},
		{
			name: "Remove clamps at zero",
			body: `{"delta":-1000}`,
			setupMock: func(m *MockAccountService) {
				m.On("AdminAdjustCoins", mock.Anything, "@Alice", -1000).Return(0, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCoins:  0,
		},
		{
			name:           "Zero delta",
			body:           `{"delta":0}`,
			setupMock:      func(m *MockAccountService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Delta too large",
			body:           `{"delta":5000000}`,
			setupMock:      func(m *MockAccountService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			svc := &MockAccountService{}
			tt.setupMock(svc)
			req := withURLParams(jsonRequest(http.MethodPost, "/api/v1/accounts/@Alice/coins", tt.body), ParamUsername, "@Alice")

			// ACT
			rec := serve(HandleAdjustCoins(svc), req)

			// ASSERT
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if rec.Code == http.StatusOK {
				res := decodeJSON[AdjustCoinsResponse](t, rec)
				assert.Equal(t, "alice", res.Username)
				assert.Equal(t, tt.expectedCoins, res.Coins)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleLeaderboard(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		kind           domain.LeaderboardKind
		limit          int
		expectedStatus int
	}{
		{"Default coins", "/api/v1/leaderboard", domain.LeaderboardCoins, DefaultListLimit, http.StatusOK},
		{"XP upper case", "/api/v1/leaderboard?kind=XP&limit=3", domain.LeaderboardXP, 3, http.StatusOK},
		{"Unknown kind", "/api/v1/leaderboard?kind=boxes", "", 0, http.StatusBadRequest},
		{"Negative limit", "/api/v1/leaderboard?limit=-2", "", 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockAccountService{}
			if tt.expectedStatus == http.StatusOK {
				svc.On("Leaderboard", mock.Anything, tt.kind, tt.limit).
					Return([]domain.Account{{Username: "alice", Coins: 900}}, nil)
			}

			rec := serve(HandleLeaderboard(svc), httptestGet(tt.target))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleAdjustBoxes(t *testing.T) {
	svc := &MockAccountService{}
	svc.On("AdminAdjustBoxes", mock.Anything, "@Alice", 3).Return(5, nil)
	req := withURLParams(jsonRequest(http.MethodPost, "/api/v1/accounts/@Alice/boxes", `{"delta":3}`), ParamUsername, "@Alice")

	rec := serve(HandleAdjustBoxes(svc), req)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeJSON[AdjustBoxesResponse](t, rec)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, 5, res.Boxes)

	rec = serve(HandleAdjustBoxes(svc), withURLParams(jsonRequest(http.MethodPost, "/", `{"delta":0}`), ParamUsername, "@Alice"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
