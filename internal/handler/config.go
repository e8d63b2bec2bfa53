package handler

import (
	"net/http"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
)

// RarityOddsRequest replaces the rarity odds table
type RarityOddsRequest struct {
	Odds map[domain.Rarity]float64 `json:"odds" validate:"required,min=1,dive,gte=0"`
}

// HandleGetConfig returns the current economy configuration
// @Summary Economy configuration
// @Tags config
// @Produce json
// @Success 200 {object} domain.EconomyConfig
// @Router /api/v1/config [get]
func HandleGetConfig(svc settings.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.Snapshot(r.Context())
		if err != nil {
			respondServiceError(w, r, "get config", err)
			return
		}
		respondJSON(w, http.StatusOK, cfg)
	}
}

// HandleReplaceConfig validates and stores a full economy configuration
// @Summary Replace economy configuration
// @Tags config
// @Accept json
// @Produce json
// @Param request body domain.EconomyConfig true "Configuration"
// @Success 200 {object} domain.EconomyConfig
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/config [put]
func HandleReplaceConfig(svc settings.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg domain.EconomyConfig
		if !decodeAndValidate(w, r, &cfg, "replace config") {
			return
		}
		saved, err := svc.Replace(r.Context(), &cfg)
		if err != nil {
			respondServiceError(w, r, "replace config", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgConfigReplaced)
		respondJSON(w, http.StatusOK, saved)
	}
}

// HandleUpdateRarityOdds replaces the odds table; the odds must sum to 100
// @Summary Update rarity odds
// @Tags config
// @Accept json
// @Produce json
// @Param request body RarityOddsRequest true "Odds per tier"
// @Success 200 {object} domain.EconomyConfig
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/config/rarity-odds [put]
func HandleUpdateRarityOdds(svc settings.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RarityOddsRequest
		if !decodeAndValidate(w, r, &req, "update rarity odds") {
			return
		}
		saved, err := svc.UpdateRarityOdds(r.Context(), req.Odds)
		if err != nil {
			respondServiceError(w, r, "update rarity odds", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgOddsUpdated, "tiers", len(req.Odds))
		respondJSON(w, http.StatusOK, saved)
	}
}
