package handler

import (
	"net/http"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/trade"
)

// ProposeTradeRequest offers one owned item for one of the target's items
type ProposeTradeRequest struct {
	Initiator string `json:"initiator" validate:"required,max=64,username"`
	Target    string `json:"target" validate:"required,max=64,username"`
	Offered   string `json:"offered" validate:"required,max=200"`
	Wanted    string `json:"wanted" validate:"required,max=200"`
}

// HandleProposeTrade creates a pending trade
// @Summary Propose a trade
// @Tags trades
// @Accept json
// @Produce json
// @Param request body ProposeTradeRequest true "Trade offer"
// @Success 201 {object} domain.Trade
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/trades [post]
func HandleProposeTrade(svc trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProposeTradeRequest
		if !decodeAndValidate(w, r, &req, "propose trade") {
			return
		}

		t, err := svc.Propose(r.Context(), req.Initiator, req.Target, req.Offered, req.Wanted)
		if err != nil {
			respondServiceError(w, r, "propose trade", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgTradeProposed,
			"trade_id", t.ID, "initiator", t.Initiator, "target", t.Target)
		respondJSON(w, http.StatusCreated, t)
	}
}

// HandleAcceptTrade completes the target's pending trade
// @Summary Accept the pending trade
// @Tags trades
// @Accept json
// @Produce json
// @Param request body UsernameRequest true "Trade target"
// @Success 200 {object} domain.TradeResult
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/trades/accept [post]
func HandleAcceptTrade(svc trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UsernameRequest
		if !decodeAndValidate(w, r, &req, "accept trade") {
			return
		}

		res, err := svc.Accept(r.Context(), req.Username)
		if err != nil {
			respondServiceError(w, r, "accept trade", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgTradeAccepted, "target", req.Username)
		respondJSON(w, http.StatusOK, res)
	}
}

// HandleRejectTrade rejects the target's pending trade
// @Summary Reject the pending trade
// @Tags trades
// @Accept json
// @Produce json
// @Param request body UsernameRequest true "Trade target"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/trades/reject [post]
func HandleRejectTrade(svc trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UsernameRequest
		if !decodeAndValidate(w, r, &req, "reject trade") {
			return
		}

		if err := svc.Reject(r.Context(), req.Username); err != nil {
			respondServiceError(w, r, "reject trade", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgTradeRejected, "target", req.Username)
		respondJSON(w, http.StatusOK, MessageResponse{Message: MsgTradeRejected})
	}
}

// HandleListTrades returns recent trades, optionally for one user
// @Summary List trades
// @Tags trades
// @Produce json
// @Param username query string false "Only trades involving this user"
// @Param limit query int false "Maximum rows (default 10, max 100)"
// @Success 200 {array} domain.Trade
// @Router /api/v1/trades [get]
func HandleListTrades(svc trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(w, r)
		if !ok {
			return
		}

		var (
			trades []domain.Trade
			err    error
		)
		if username := r.URL.Query().Get(QueryUsername); username != "" {
			trades, err = svc.UserTrades(r.Context(), username, limit)
		} else {
			trades, err = svc.RecentTrades(r.Context(), limit)
		}
		if err != nil {
			respondServiceError(w, r, "list trades", err)
			return
		}
		if trades == nil {
			trades = []domain.Trade{}
		}
		respondJSON(w, http.StatusOK, trades)
	}
}

// HandleTradeStats returns trade counts per status
// @Summary Trade statistics
// @Tags trades
// @Produce json
// @Success 200 {array} domain.TradeStat
// @Router /api/v1/trades/stats [get]
func HandleTradeStats(svc trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			respondServiceError(w, r, "trade stats", err)
			return
		}
		if stats == nil {
			stats = []domain.TradeStat{}
		}
		respondJSON(w, http.StatusOK, stats)
	}
}
