// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/seedline/internal/domain/model"
)

// StatsProvider exposes the refresh loop's counters.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider    StatsProvider
	defaultMode model.Mode
}

// NewStatsHandler creates a stats handler that also reports which mode
// GET /bracket serves when none is asked for.
func NewStatsHandler(p StatsProvider, defaultMode model.Mode) *StatsHandler {
	return &StatsHandler{provider: p, defaultMode: defaultMode}
}

// HandleStats writes the provider's stats plus the default mode.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	stats := make(map[string]interface{})
	for k, v := range h.provider.GetStats() {
		stats[k] = v
	}
	stats["defaultMode"] = h.defaultMode.String()
	writeJSON(w, http.StatusOK, stats)
}
