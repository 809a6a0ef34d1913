package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/neonstrike/internal/app"
	"github.com/okian/neonstrike/internal/domain/model"
)

const maxBodyBytes = 1 << 16

// MatchesHandler serves match lifecycle and command routes.
type MatchesHandler struct {
	deps Dependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

type createRequest struct {
	Mode model.GameMode `json:"mode"`
}

// HandleCreate handles POST /matches.
func (h *MatchesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_match"

	var req createRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	snap, err := h.deps.CreateMatch(r.Context(), req.Mode)
	if err != nil {
		fail(w, op, err)
		return
	}
	w.Header().Set("Location", "/matches/"+snap.MatchID)
	writeJSON(w, http.StatusCreated, snap)
}

// HandleList handles GET /matches.
func (h *MatchesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.ListMatches(r.Context()))
}

// HandleGet handles GET /matches/{id}.
func (h *MatchesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, "api.get_match", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleDelete handles DELETE /matches/{id}.
func (h *MatchesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteMatch(r.Context(), r.PathValue("id")); err != nil {
		fail(w, "api.delete_match", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCommand handles POST /matches/{id}/commands.
func (h *MatchesHandler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_command"

	var cmd service.Command
	if err := decodeBody(r, &cmd); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if cmd.Kind == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing kind")))
		return
	}
	res, err := h.deps.Apply(r.Context(), r.PathValue("id"), cmd)
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
