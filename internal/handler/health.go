package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// HealthResponse is returned by the health endpoints
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ReadinessCheck is one dependency checked by /readyz. A failing optional
// check degrades the status without failing readiness.
type ReadinessCheck struct {
	Name     string
	Optional bool
	Check    func(ctx context.Context) error
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: MsgStatusOK})
	}
}

// HandleReadyz runs every check and reports 503 when a required one fails
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: MsgStatusOK, Checks: make(map[string]string, len(checks))}
		status := http.StatusOK

		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeoutSeconds*time.Second)
			err := c.Check(ctx)
			cancel()
			if err == nil {
				resp.Checks[c.Name] = MsgStatusOK
				continue
			}

			logger.FromContext(r.Context()).Warn(LogMsgReadinessFailed, "check", c.Name, "error", err)
			resp.Checks[c.Name] = MsgStatusDown
			if c.Optional {
				if resp.Status == MsgStatusOK {
					resp.Status = MsgStatusDegraded
				}
				continue
			}
			resp.Status = MsgStatusDown
			status = http.StatusServiceUnavailable
		}

		respondJSON(w, status, resp)
	}
}
