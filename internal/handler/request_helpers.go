package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// maxBodyBytes caps JSON bodies read by decodeAndValidate
const maxBodyBytes = 1 << 20

// decodeAndValidate decodes a JSON body into req and validates it. On failure
// the response is already written and the handler should return.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}, op string) bool {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		log.Warn(LogMsgDecodeFailed, "operation", op, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return false
	}
	log.Debug(LogMsgRequestDecoded, "operation", op)

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return false
	}
	return true
}

// parseLimit reads ?limit=, defaulting to DefaultListLimit and capping at
// MaxListLimit. A non-numeric or negative value writes a 400.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get(QueryLimit)
	if raw == "" {
		return DefaultListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return 0, false
	}
	if limit == 0 {
		return DefaultListLimit, true
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit, true
}

// parseBoolQuery reads an optional boolean query parameter
func parseBoolQuery(w http.ResponseWriter, r *http.Request, name string) (bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidBool, name))
		return false, false
	}
	return v, true
}

// pathParam reads a chi URL parameter and writes a 400 when it is blank
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingPathParam, name))
		return "", false
	}
	return v, true
}

func quantityOrOne(q int) int {
	if q == 0 {
		return 1
	}
	return q
}
