package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/ebladvance/internal/domain/model"
	"github.com/okian/ebladvance/internal/domain/types"
)

// MatchesHandler manages tournament matches and serves meet results.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

type addMatchResponse struct {
	Success bool              `json:"success"`
	Match   types.MatchRecord `json:"match"`
}

// HandleAddMatch handles POST /api/matches requests.
func (h *MatchesHandler) HandleAddMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_match"
	var req types.MatchRecord
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rec, err := h.deps.AddMatch(r.Context(), req)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, addMatchResponse{Success: true, Match: rec})
}

// HandleListMatches handles GET /api/matches/{category} requests.
func (h *MatchesHandler) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_matches"
	rows, err := h.deps.Matches(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleDeleteMatch handles DELETE /api/matches/{id} requests.
func (h *MatchesHandler) HandleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_match"
	if err := h.deps.DeleteMatch(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// HandleGetMeet handles GET /api/meets/{meet} requests.
func (h *MatchesHandler) HandleGetMeet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_meet"
	ms, err := h.deps.MeetMatches(r.Context(), chi.URLParam(r, "meet"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if ms == nil {
		ms = []model.MeetMatch{}
	}
	writeJSON(w, http.StatusOK, ms)
}

// HandleReset handles POST /api/reset requests.
func (h *MatchesHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset"
	if err := h.deps.Reset(r.Context()); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
