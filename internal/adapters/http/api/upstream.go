// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/seedline/internal/adapters/upstream"
	service "github.com/okian/seedline/internal/app"
	"github.com/okian/seedline/internal/domain/model"
)

// UpstreamDependencies exposes what the last cycle fetched.
type UpstreamDependencies interface {
	Inputs() model.Inputs
	LastCycle() service.CycleInfo
}

// UpstreamHandler proxies the merged upstream data to clients.
type UpstreamHandler struct {
	deps UpstreamDependencies
}

// NewUpstreamHandler creates a new upstream handler.
func NewUpstreamHandler(deps UpstreamDependencies) *UpstreamHandler {
	return &UpstreamHandler{deps: deps}
}

type upstreamResponse struct {
	Cycle  string          `json:"cycle,omitempty"`
	Report upstream.Report `json:"report"`
	Inputs model.Inputs    `json:"inputs"`
}

// HandleUpstream handles GET /upstream.
func (h *UpstreamHandler) HandleUpstream(w http.ResponseWriter, _ *http.Request) {
	last := h.deps.LastCycle()
	writeJSON(w, http.StatusOK, upstreamResponse{
		Cycle:  last.ID,
		Report: last.Report,
		Inputs: h.deps.Inputs(),
	})
}
