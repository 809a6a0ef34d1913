// Package api exposes matches to render, input and HUD collaborators over
// HTTP and WebSocket.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/neonstrike/internal/adapters/repository"
	service "github.com/okian/neonstrike/internal/app"
	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/internal/domain/types"
)

const defaultStreamInterval = 33 * time.Millisecond

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the session service.
type Dependencies interface {
	CreateMatch(ctx context.Context, mode model.GameMode) (model.Snapshot, error)
	Snapshot(ctx context.Context, id string) (model.Snapshot, error)
	ListMatches(ctx context.Context) []types.MatchSummary
	DeleteMatch(ctx context.Context, id string) error
	Apply(ctx context.Context, id string, cmd service.Command) (service.Result, error)
	HighScoreProvider
}

// Server wires HTTP routes for the match API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	matchesHandler *MatchesHandler
	streamHandler  *StreamHandler
	scoresHandler  *HighScoresHandler
}

// ServerOption configures the Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	streamInterval time.Duration
}

// WithStreamInterval sets how often the stream pushes a snapshot.
func WithStreamInterval(d time.Duration) ServerOption {
	return func(c *serverConfig) {
		if d > 0 {
			c.streamInterval = d
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{streamInterval: defaultStreamInterval}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		matchesHandler: NewMatchesHandler(deps),
		streamHandler:  NewStreamHandler(deps, cfg.streamInterval),
		scoresHandler:  NewHighScoresHandler(deps, maxHighScoreLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /matches", MetricsMiddleware(s.matchesHandler.HandleCreate, "matches"))
	mux.HandleFunc("GET /matches", MetricsMiddleware(s.matchesHandler.HandleList, "matches"))
	mux.HandleFunc("GET /matches/{id}", MetricsMiddleware(s.matchesHandler.HandleGet, "match"))
	mux.HandleFunc("DELETE /matches/{id}", MetricsMiddleware(s.matchesHandler.HandleDelete, "match"))
	mux.HandleFunc("POST /matches/{id}/commands", MetricsMiddleware(s.matchesHandler.HandleCommand, "commands"))
	mux.HandleFunc("GET /matches/{id}/stream", MetricsMiddleware(s.streamHandler.HandleStream, "stream"))

	mux.HandleFunc("GET /highscores", MetricsMiddleware(s.scoresHandler.HandleTop, "highscores"))
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

// classify maps service errors onto API kinds, status codes and codes.
func classify(err error) (kind error, status int, code string) {
	switch {
	case errors.Is(err, service.ErrMatchNotFound):
		return ErrNotFound, http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrTooManyMatches):
		return ErrCapacity, http.StatusTooManyRequests, "capacity"
	case errors.Is(err, service.ErrUnknownCommand), errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, repository.ErrInvalidLimit):
		return ErrBadRequest, http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNotStarted):
		return ErrUnavailable, http.StatusServiceUnavailable, "unavailable"
	}
	return nil, http.StatusInternalServerError, "internal_error"
}

// fail writes err with the status its kind maps to.
func fail(w http.ResponseWriter, op string, err error) {
	kind, status, code := classify(err)
	if kind == nil {
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeError(w, status, code, WrapKind(op, kind, err))
}
