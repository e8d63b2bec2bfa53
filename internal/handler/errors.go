package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// mapServiceError converts a service error into a status code and a message
// the caller can act on. Order matters: specific sentinels wrap the generic
// ErrNotFound and ErrInvalidInput, so they are checked first.
func mapServiceError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	var funds *domain.InsufficientFundsError
	if errors.As(err, &funds) {
		return http.StatusBadRequest, fmt.Sprintf(ErrMsgNotEnoughCoinsFormat, funds.Required, funds.Available)
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFound
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFound
	case errors.Is(err, domain.ErrTradeNotFound):
		return http.StatusNotFound, ErrMsgTradeNotFound
	case errors.Is(err, domain.ErrCommandNotFound):
		return http.StatusNotFound, ErrMsgCommandNotFound
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrMsgResourceNotFound
	case errors.Is(err, domain.ErrNoPendingTrade):
		return http.StatusNotFound, ErrMsgNoPendingTrade

	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughCoins
	case errors.Is(err, domain.ErrInsufficientInventory):
		return http.StatusBadRequest, ErrMsgInsufficientInventory
	case errors.Is(err, domain.ErrOverLimit):
		return http.StatusBadRequest, ErrMsgOverLimit

	case errors.Is(err, domain.ErrSelfTrade):
		return http.StatusBadRequest, ErrMsgSelfTrade
	case errors.Is(err, domain.ErrNotTradeable):
		return http.StatusBadRequest, ErrMsgNotTradeable
	case errors.Is(err, domain.ErrUnknownRarity):
		return http.StatusBadRequest, ErrMsgUnknownRarity
	case errors.Is(err, domain.ErrInvalidConfig):
		return http.StatusBadRequest, ErrMsgInvalidConfig
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestSummary

	case errors.Is(err, domain.ErrCooldownActive):
		return http.StatusTooManyRequests, ErrMsgOnCooldown
	case errors.Is(err, domain.ErrFeatureDisabled):
		return http.StatusForbidden, ErrMsgFeatureDisabled

	case errors.Is(err, domain.ErrCommandExists):
		return http.StatusConflict, ErrMsgCommandExists
	case errors.Is(err, domain.ErrAlreadyPending):
		return http.StatusConflict, ErrMsgAlreadyPending
	case errors.Is(err, domain.ErrUltraTierTaken):
		return http.StatusConflict, ErrMsgUltraTierTaken
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return http.StatusConflict, ErrMsgConflict
	case errors.Is(err, domain.ErrDepleted):
		return http.StatusConflict, ErrMsgDepleted
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs err and writes the mapped response. Cooldowns also
// carry a Retry-After header and the remaining seconds.
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceError(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "operation", op, "error", err)
	} else {
		log.Warn(LogMsgServiceError, "operation", op, "error", err, "status", status)
	}

	var cooldown *domain.CooldownError
	if errors.As(err, &cooldown) {
		secs := int(math.Ceil(cooldown.Remaining.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		respondJSON(w, status, CooldownResponse{Error: msg, RemainingSeconds: secs})
		return
	}
	respondError(w, status, msg)
}
