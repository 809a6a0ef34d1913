package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/neonstrike/internal/adapters/repository"
)

const (
	defaultHighScoreLimit = 10
	maxHighScoreLimit     = 100
)

// HighScoreProvider reads the high score board.
type HighScoreProvider interface {
	HighScores(ctx context.Context, n int) ([]repository.Entry, error)
}

// HighScoresHandler handles high score requests.
type HighScoresHandler struct {
	deps     HighScoreProvider
	maxLimit int
}

// NewHighScoresHandler creates a new high score handler.
func NewHighScoresHandler(deps HighScoreProvider, maxLimit int) *HighScoresHandler {
	return &HighScoresHandler{deps: deps, maxLimit: maxLimit}
}

// HandleTop handles GET /highscores?limit=N requests. Without a limit the
// best ten are returned.
func (h *HighScoresHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.high_scores"

	n := defaultHighScoreLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	entries, err := h.deps.HighScores(r.Context(), n)
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
