// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/seedline/internal/adapters/repository"
	service "github.com/okian/seedline/internal/app"
	"github.com/okian/seedline/internal/domain/model"
)

// BracketDependencies defines the interface for bracket operations.
type BracketDependencies interface {
	Bracket(ctx context.Context, mode model.Mode) (repository.Snapshot, error)
	Refresh(ctx context.Context) (service.CycleInfo, error)
}

// BracketHandler serves published brackets and on-demand refreshes.
type BracketHandler struct {
	deps        BracketDependencies
	defaultMode model.Mode
}

// NewBracketHandler creates a new bracket handler.
func NewBracketHandler(deps BracketDependencies, defaultMode model.Mode) *BracketHandler {
	return &BracketHandler{deps: deps, defaultMode: defaultMode}
}

// HandleGetBracket handles GET /bracket?mode= and GET /bracket/{mode}.
func (h *BracketHandler) HandleGetBracket(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "mode")
	if raw == "" {
		raw = r.URL.Query().Get("mode")
	}
	mode := h.defaultMode
	if strings.TrimSpace(raw) != "" {
		m, err := model.ParseMode(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_mode", err)
			return
		}
		mode = m
	}

	snap, err := h.deps.Bracket(r.Context(), mode)
	switch {
	case errors.Is(err, service.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	default:
		writeJSON(w, http.StatusOK, snap)
	}
}

// HandleRefresh handles POST /refresh. The cycle is bound to the request:
// a client that goes away abandons it.
func (h *BracketHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	info, err := h.deps.Refresh(r.Context())
	switch {
	case errors.Is(err, service.ErrSuperseded):
		writeError(w, http.StatusConflict, "superseded", err)
	case errors.Is(err, service.ErrAbandoned):
		writeError(w, http.StatusServiceUnavailable, "abandoned", err)
	case errors.Is(err, service.ErrNoRankings):
		writeError(w, http.StatusBadGateway, "upstream_unavailable", err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "refresh_failed", err)
	default:
		writeJSON(w, http.StatusOK, info)
	}
}
