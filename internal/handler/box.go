package handler

import (
	"net/http"

	"github.com/osse101/GameBoxBot_Go/internal/box"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// BoxRequest names the account and how many boxes to act on. Zero means one.
type BoxRequest struct {
	Username string `json:"username" validate:"required,max=64,username"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// HandlePurchaseBoxes buys boxes with the account's coins
// @Summary Purchase boxes
// @Description Debits quantity × box price and credits the boxes atomically
// @Tags boxes
// @Accept json
// @Produce json
// @Param request body BoxRequest true "Purchase details"
// @Success 200 {object} domain.PurchaseResult
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/boxes/purchase [post]
func HandlePurchaseBoxes(svc box.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BoxRequest
		if !decodeAndValidate(w, r, &req, "purchase boxes") {
			return
		}

		res, err := svc.PurchaseBoxes(r.Context(), req.Username, quantityOrOne(req.Quantity))
		if err != nil {
			respondServiceError(w, r, "purchase boxes", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgBoxesPurchased,
			"username", req.Username, "quantity", res.BoxesPurchased, "spent", res.CoinsSpent)
		respondJSON(w, http.StatusOK, res)
	}
}

// HandleOpenBoxes opens boxes and returns the items won
// @Summary Open boxes
// @Description Opens boxes one at a time; tiers with no eligible items are reported as depleted
// @Tags boxes
// @Accept json
// @Produce json
// @Param request body BoxRequest true "Open details"
// @Success 200 {object} domain.OpenResult
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/boxes/open [post]
func HandleOpenBoxes(svc box.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BoxRequest
		if !decodeAndValidate(w, r, &req, "open boxes") {
			return
		}

		res, err := svc.OpenBoxes(r.Context(), req.Username, quantityOrOne(req.Quantity))
		if err != nil {
			respondServiceError(w, r, "open boxes", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgBoxesOpened,
			"username", req.Username, "opened", res.BoxesOpened, "items", len(res.Items), "depleted", len(res.Depleted))
		respondJSON(w, http.StatusOK, res)
	}
}
