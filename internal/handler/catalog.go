package handler

import (
	"net/http"

	"github.com/osse101/GameBoxBot_Go/internal/catalog"
	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// UpsertItemRequest creates or refreshes a catalog item by name. Rarity is
// derived from the quality score unless the item carries a custom pin.
type UpsertItemRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Platform      string  `json:"platform" validate:"max=64"`
	ReleaseYear   int     `json:"release_year" validate:"omitempty,min=1950,max=2100"`
	QualityScore  *int    `json:"quality_score" validate:"omitempty,min=0,max=100"`
	Popularity    float64 `json:"popularity" validate:"gte=0"`
	Tradeable     *bool   `json:"tradeable"`
	BoxObtainable *bool   `json:"box_obtainable"`
}

func (req UpsertItemRequest) item() domain.CatalogItem {
	return domain.CatalogItem{
		Name:          req.Name,
		Platform:      req.Platform,
		ReleaseYear:   req.ReleaseYear,
		QualityScore:  req.QualityScore,
		Popularity:    req.Popularity,
		Tradeable:     req.Tradeable == nil || *req.Tradeable,
		BoxObtainable: req.BoxObtainable == nil || *req.BoxObtainable,
	}
}

// SetRarityRequest pins an item to a tier
type SetRarityRequest struct {
	Rarity string `json:"rarity" validate:"required,max=8,rarity"`
}

// SetDisabledRequest toggles an item out of (or back into) every draw
type SetDisabledRequest struct {
	Disabled *bool `json:"disabled" validate:"required"`
}

// HandleListCatalog lists catalog items
// @Summary List catalog
// @Tags catalog
// @Produce json
// @Param rarity query string false "Only this tier"
// @Param q query string false "Name substring"
// @Param include_disabled query bool false "Include disabled items"
// @Param limit query int false "Maximum rows (default 10, max 100)"
// @Success 200 {array} domain.CatalogItem
// @Router /api/v1/catalog [get]
func HandleListCatalog(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(w, r)
		if !ok {
			return
		}
		includeDisabled, ok := parseBoolQuery(w, r, QueryIncludeDisabled)
		if !ok {
			return
		}
		filter := domain.CatalogFilter{
			Rarity:          domain.ParseRarity(r.URL.Query().Get(QueryRarity)),
			Query:           r.URL.Query().Get(QuerySearch),
			IncludeDisabled: includeDisabled,
			Limit:           limit,
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			respondServiceError(w, r, "list catalog", err)
			return
		}
		respondJSON(w, http.StatusOK, nonNilItems(items))
	}
}

// HandleUpsertCatalogItem creates or refreshes a catalog item
// @Summary Upsert catalog item
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body UpsertItemRequest true "Item"
// @Success 200 {object} domain.CatalogItem
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/v1/catalog [post]
func HandleUpsertCatalogItem(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpsertItemRequest
		if !decodeAndValidate(w, r, &req, "upsert catalog item") {
			return
		}
		item, err := svc.Upsert(r.Context(), req.item())
		if err != nil {
			respondServiceError(w, r, "upsert catalog item", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgCatalogUpserted, "item_id", item.ID, "name", item.Name, "rarity", item.Rarity)
		respondJSON(w, http.StatusOK, item)
	}
}

// HandleTopDropped lists the most dropped items
// @Summary Most dropped items
// @Tags catalog
// @Produce json
// @Param limit query int false "Maximum rows (default 10, max 100)"
// @Success 200 {array} domain.CatalogItem
// @Router /api/v1/catalog/top [get]
func HandleTopDropped(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(w, r)
		if !ok {
			return
		}
		items, err := svc.TopDropped(r.Context(), limit)
		if err != nil {
			respondServiceError(w, r, "top dropped", err)
			return
		}
		respondJSON(w, http.StatusOK, nonNilItems(items))
	}
}

// HandleCatalogStats returns item and drop counts per tier
// @Summary Catalog statistics
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.RarityCount
// @Router /api/v1/catalog/stats [get]
func HandleCatalogStats(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			respondServiceError(w, r, "catalog stats", err)
			return
		}
		if stats == nil {
			stats = []domain.RarityCount{}
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

// HandleSetCustomRarity pins an item to a tier
// @Summary Pin rarity
// @Description Pinning to the ultra tier fails when another item holds it and makes the item unobtainable from boxes
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body SetRarityRequest true "Tier"
// @Success 200 {object} domain.CatalogItem
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/catalog/{id}/rarity [put]
func HandleSetCustomRarity(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathParam(w, r, ParamItemID)
		if !ok {
			return
		}
		var req SetRarityRequest
		if !decodeAndValidate(w, r, &req, "set custom rarity") {
			return
		}
		item, err := svc.SetCustomRarity(r.Context(), id, domain.ParseRarity(req.Rarity))
		if err != nil {
			respondServiceError(w, r, "set custom rarity", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgCatalogUpdated, "item_id", id, "custom_rarity", item.CustomRarity)
		respondJSON(w, http.StatusOK, item)
	}
}

// HandleClearCustomRarity removes a rarity pin
// @Summary Clear pinned rarity
// @Tags catalog
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} domain.CatalogItem
// @Router /api/v1/catalog/{id}/rarity [delete]
func HandleClearCustomRarity(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathParam(w, r, ParamItemID)
		if !ok {
			return
		}
		item, err := svc.ClearCustomRarity(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "clear custom rarity", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgCatalogUpdated, "item_id", id, "rarity", item.Rarity)
		respondJSON(w, http.StatusOK, item)
	}
}

// HandleSetDisabled enables or disables an item
// @Summary Enable or disable an item
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body SetDisabledRequest true "Flag"
// @Success 200 {object} domain.CatalogItem
// @Router /api/v1/catalog/{id}/disabled [put]
func HandleSetDisabled(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathParam(w, r, ParamItemID)
		if !ok {
			return
		}
		var req SetDisabledRequest
		if !decodeAndValidate(w, r, &req, "set disabled") {
			return
		}
		item, err := svc.SetDisabled(r.Context(), id, *req.Disabled)
		if err != nil {
			respondServiceError(w, r, "set disabled", err)
			return
		}
		logger.FromContext(r.Context()).Info(LogMsgCatalogUpdated, "item_id", id, "disabled", item.Disabled)
		respondJSON(w, http.StatusOK, item)
	}
}

func nonNilItems(items []domain.CatalogItem) []domain.CatalogItem {
	if items == nil {
		return []domain.CatalogItem{}
	}
	return items
}
