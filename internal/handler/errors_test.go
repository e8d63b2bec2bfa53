package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"nil", nil, http.StatusInternalServerError, ErrMsgUnknownError},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, ErrMsgUserNotFound},
		{"wrapped item not found", fmt.Errorf("lookup: %w", domain.ErrItemNotFound), http.StatusNotFound, ErrMsgItemNotFound},
		{"trade not found", domain.ErrTradeNotFound, http.StatusNotFound, ErrMsgTradeNotFound},
		{"command not found", domain.ErrCommandNotFound, http.StatusNotFound, ErrMsgCommandNotFound},
		{"command exists", fmt.Errorf("%w: \"buy\"", domain.ErrCommandExists), http.StatusConflict, ErrMsgCommandExists},
		{"generic not found", domain.ErrNotFound, http.StatusNotFound, ErrMsgResourceNotFound},
		{"no pending trade", domain.ErrNoPendingTrade, http.StatusNotFound, ErrMsgNoPendingTrade},
		{"typed funds", &domain.InsufficientFundsError{Required: 100, Available: 40}, http.StatusBadRequest, "Not enough coins: need 100, have 40"},
		{"sentinel funds", domain.ErrInsufficientFunds, http.StatusBadRequest, ErrMsgNotEnoughCoins},
		{"inventory", domain.ErrInsufficientInventory, http.StatusBadRequest, ErrMsgInsufficientInventory},
		{"over limit", domain.ErrOverLimit, http.StatusBadRequest, ErrMsgOverLimit},
		{"self trade", domain.ErrSelfTrade, http.StatusBadRequest, ErrMsgSelfTrade},
		{"not tradeable", domain.ErrNotTradeable, http.StatusBadRequest, ErrMsgNotTradeable},
		{"unknown rarity", domain.ErrUnknownRarity, http.StatusBadRequest, ErrMsgUnknownRarity},
		{"invalid config", domain.ErrInvalidConfig, http.StatusBadRequest, ErrMsgInvalidConfig},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidRequestSummary},
		{"cooldown", domain.NewCooldownError("daily", time.Hour), http.StatusTooManyRequests, ErrMsgOnCooldown},
		{"disabled", domain.ErrFeatureDisabled, http.StatusForbidden, ErrMsgFeatureDisabled},
		{"already pending", domain.ErrAlreadyPending, http.StatusConflict, ErrMsgAlreadyPending},
		{"ultra taken", domain.ErrUltraTierTaken, http.StatusConflict, ErrMsgUltraTierTaken},
		{"conflict", domain.ErrConcurrencyConflict, http.StatusConflict, ErrMsgConflict},
		{"depleted", domain.ErrDepleted, http.StatusConflict, ErrMsgDepleted},
		{"storage", errors.New("dial tcp 10.0.0.1:5432: i/o timeout"), http.StatusInternalServerError, ErrMsgGenericServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapServiceError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
