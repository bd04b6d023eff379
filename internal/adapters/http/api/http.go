// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/seedline/internal/adapters/repository"
	service "github.com/okian/seedline/internal/app"
	"github.com/okian/seedline/internal/domain/model"
	"github.com/okian/seedline/pkg/logger"
)

const defaultRequestTimeout = 30 * time.Second

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	// Bracket returns the published snapshot for a mode.
	Bracket(ctx context.Context, mode model.Mode) (repository.Snapshot, error)
	// Refresh runs one cycle now, superseding any cycle in flight.
	Refresh(ctx context.Context) (service.CycleInfo, error)
	// LastCycle describes the latest refresh attempt.
	LastCycle() service.CycleInfo
	// Inputs returns the merged upstream inputs of the last published cycle.
	Inputs() model.Inputs
	// Score evaluates one team outside any bracket.
	Score(t model.Team) service.ScoreResult
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	bracketHandler  *BracketHandler
	scoreHandler    *ScoreHandler
	upstreamHandler *UpstreamHandler

	defaultMode    model.Mode
	corsOrigins    []string
	requestTimeout time.Duration
	logger         logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithDefaultMode sets the mode served when a request names none.
func WithDefaultMode(m model.Mode) Option {
	return func(s *Server) { s.defaultMode = m }
}

// WithCORSOrigins sets the allowed browser origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// WithRequestTimeout bounds each request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		defaultMode:    model.ModeFair,
		corsOrigins:    []string{"*"},
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(deps, s.defaultMode)
	s.bracketHandler = NewBracketHandler(deps, s.defaultMode)
	s.scoreHandler = NewScoreHandler(deps)
	s.upstreamHandler = NewUpstreamHandler(deps)
	return s
}

// Router builds the chi router with middleware and every API route.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(s.requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/bracket", MetricsMiddleware(s.bracketHandler.HandleGetBracket, "bracket"))
	r.Get("/bracket/{mode}", MetricsMiddleware(s.bracketHandler.HandleGetBracket, "bracket"))
	r.Post("/refresh", MetricsMiddleware(s.bracketHandler.HandleRefresh, "refresh"))
	r.Post("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	r.Get("/upstream", MetricsMiddleware(s.upstreamHandler.HandleUpstream, "upstream"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
