package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

func TestHandleClaimDaily(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		result         *domain.DailyResult
		expectedStatus int
		retryAfter     string
		bodyContains   string
	}{
		{
			name:           "Coins",
			result:         &domain.DailyResult{Kind: domain.DailyOutcomeCoins, Amount: 200},
			expectedStatus: http.StatusOK,
			bodyContains:   `"kind":"coins"`,
		},
		{
			name:           "Cooldown",
			err:            domain.NewCooldownError("daily", 90*time.Minute+200*time.Millisecond),
			expectedStatus: http.StatusTooManyRequests,
			retryAfter:     "5401",
			bodyContains:   `"remaining_seconds":5401`,
		},
		{
			name:           "Disabled",
			err:            domain.ErrFeatureDisabled,
			expectedStatus: http.StatusForbidden,
			bodyContains:   ErrMsgFeatureDisabled,
		},
		{
			name:           "Storage failure is not leaked",
			err:            errors.New("pq: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			bodyContains:   ErrMsgGenericServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			svc := &MockDailyService{}
			svc.On("Claim", mock.Anything, "carol").Return(tt.result, tt.err)

			// ACT
			rec := serve(HandleClaimDaily(svc), jsonRequest(http.MethodPost, "/api/v1/daily/claim", `{"username":"carol"}`))

			// ASSERT
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.bodyContains)
			assert.Equal(t, tt.retryAfter, rec.Header().Get("Retry-After"))
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}
