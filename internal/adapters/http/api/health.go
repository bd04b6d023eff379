// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/seedline/internal/app"
	"github.com/okian/seedline/pkg/metrics"
)

// CycleReporter exposes the latest refresh attempt.
type CycleReporter interface {
	LastCycle() service.CycleInfo
}

// HealthHandler handles liveness and metrics requests.
type HealthHandler struct {
	cycles  CycleReporter
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cycles CycleReporter) *HealthHandler {
	return &HealthHandler{
		cycles:  cycles,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type healthResponse struct {
	Status      string `json:"status"`
	LastCycle   string `json:"lastCycle,omitempty"`
	LastOutcome string `json:"lastOutcome,omitempty"`
}

// HandleHealth handles GET /healthz. The process is healthy while it
// serves; a failed last cycle is reported as "degraded".
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	last := h.cycles.LastCycle()
	resp := healthResponse{Status: "ok", LastCycle: last.ID, LastOutcome: last.Outcome}
	if last.Error != "" {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleMetrics handles GET /metrics from the service registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
