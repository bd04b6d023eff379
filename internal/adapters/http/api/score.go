// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	service "github.com/okian/seedline/internal/app"
	"github.com/okian/seedline/internal/domain/model"
)

const maxScoreBody = 64 << 10

// ScoreDependencies defines the interface for ad-hoc scoring.
type ScoreDependencies interface {
	Score(t model.Team) service.ScoreResult
}

// ScoreHandler scores a single posted team.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandleScore handles POST /score with a team body.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var t model.Team
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScoreBody))
	if err := dec.Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(t.ID) == "" && strings.TrimSpace(t.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrEmptyTeam)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Score(t))
}
