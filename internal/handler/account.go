package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/GameBoxBot_Go/internal/account"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// AdjustCoinsRequest adds (positive) or removes (negative) coins
type AdjustCoinsRequest struct {
	Delta int `json:"delta" validate:"required,min=-1000000,max=1000000"`
}

// AdjustCoinsResponse reports the balance after an adjustment
type AdjustCoinsResponse struct {
	Username string `json:"username"`
	Coins    int    `json:"coins"`
}

// HandleGetProfile returns balances, level and inventory for an account
// @Summary Account profile
// @Tags accounts
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} domain.Profile
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/accounts/{username} [get]
func HandleGetProfile(svc account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := pathParam(w, r, ParamUsername)
		if !ok {
			return
		}
		profile, err := svc.Profile(r.Context(), username)
		if err != nil {
			respondServiceError(w, r, "get profile", err)
			return
		}
		respondJSON(w, http.StatusOK, profile)
	}
}

// HandleResetAccount zeroes an account and empties its inventory
// @Summary Reset account
// @Tags accounts
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/accounts/{username}/reset [post]
func HandleResetAccount(svc account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := pathParam(w, r, ParamUsername)
		if !ok {
			return
		}
		if err := svc.Reset(r.Context(), username); err != nil {
			respondServiceError(w, r, "reset account", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgAccountReset, "username", username)
		respondJSON(w, http.StatusOK, MessageResponse{Message: MsgAccountReset})
	}
}

// HandleAdjustCoins applies an operator coin adjustment
// @Summary Adjust coins
// @Description Positive delta adds coins, negative removes them (clamped at zero)
// @Tags accounts
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param request body AdjustCoinsRequest true "Adjustment"
// @Success 200 {object} AdjustCoinsResponse
// @Router /api/v1/accounts/{username}/coins [post]
func HandleAdjustCoins(svc account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := pathParam(w, r, ParamUsername)
		if !ok {
			return
		}
		var req AdjustCoinsRequest
		if !decodeAndValidate(w, r, &req, "adjust coins") {
			return
		}

		coins, err := svc.AdminAdjustCoins(r.Context(), username, req.Delta)
		if err != nil {
			respondServiceError(w, r, "adjust coins", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgCoinsAdjusted, "username", username, "delta", req.Delta, "coins", coins)
		respondJSON(w, http.StatusOK, AdjustCoinsResponse{Username: domain.NormalizeUsername(username), Coins: coins})
	}
}

// AdjustBoxesRequest adds (positive) or removes (negative) boxes
type AdjustBoxesRequest struct {
	Delta int `json:"delta" validate:"required,min=-10000,max=10000"`
}

// AdjustBoxesResponse reports the box count after an adjustment
type AdjustBoxesResponse struct {
	Username string `json:"username"`
	Boxes    int    `json:"boxes"`
}

// HandleAdjustBoxes applies an operator box adjustment
// @Summary Adjust boxes
// @Description Positive delta grants boxes, negative removes them (clamped at zero)
// @Tags accounts
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param request body AdjustBoxesRequest true "Adjustment"
// @Success 200 {object} AdjustBoxesResponse
// @Router /api/v1/accounts/{username}/boxes [post]
func HandleAdjustBoxes(svc account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := pathParam(w, r, ParamUsername)
		if !ok {
			return
		}
		var req AdjustBoxesRequest
		if !decodeAndValidate(w, r, &req, "adjust boxes") {
			return
		}

		boxes, err := svc.AdminAdjustBoxes(r.Context(), username, req.Delta)
		if err != nil {
			respondServiceError(w, r, "adjust boxes", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgBoxesAdjusted, "username", username, "delta", req.Delta, "boxes", boxes)
		respondJSON(w, http.StatusOK, AdjustBoxesResponse{Username: domain.NormalizeUsername(username), Boxes: boxes})
	}
}

// HandleLeaderboard ranks accounts by coins or XP
// @Summary Leaderboard
// @Tags accounts
// @Produce json
// @Param kind query string false "coins (default) or xp"
// @Param limit query int false "Maximum rows (default 10, max 100)"
// @Success 200 {array} domain.Account
// @Router /api/v1/leaderboard [get]
func HandleLeaderboard(svc account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := domain.LeaderboardKind(strings.ToLower(r.URL.Query().Get(QueryKind)))
		if kind == "" {
			kind = domain.LeaderboardCoins
		}
		if !kind.Valid() {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidKind)
			return
		}
		limit, ok := parseLimit(w, r)
		if !ok {
			return
		}

		rows, err := svc.Leaderboard(r.Context(), kind, limit)
		if err != nil {
			respondServiceError(w, r, "leaderboard", err)
			return
		}
		if rows == nil {
			rows = []domain.Account{}
		}
		respondJSON(w, http.StatusOK, rows)
	}
}
