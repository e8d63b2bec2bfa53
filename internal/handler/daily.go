package handler

import (
	"net/http"

	"github.com/osse101/GameBoxBot_Go/internal/daily"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// UsernameRequest identifies the acting account
type UsernameRequest struct {
	Username string `json:"username" validate:"required,max=64,username"`
}

// HandleClaimDaily claims the daily reward
// @Summary Claim daily reward
// @Tags daily
// @Accept json
// @Produce json
// @Param request body UsernameRequest true "Claimant"
// @Success 200 {object} domain.DailyResult
// @Failure 403 {object} ErrorResponse
// @Failure 429 {object} CooldownResponse
// @Router /api/v1/daily/claim [post]
func HandleClaimDaily(svc daily.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UsernameRequest
		if !decodeAndValidate(w, r, &req, "claim daily") {
			return
		}

		res, err := svc.Claim(r.Context(), req.Username)
		if err != nil {
			respondServiceError(w, r, "claim daily", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgDailyClaimed, "username", req.Username, "kind", res.Kind)
		respondJSON(w, http.StatusOK, res)
	}
}
