package api

import (
	"net/http"

	"github.com/okian/ebladvance/internal/domain/types"
)

// RankingsHandler serves league and hypothetical rankings.
type RankingsHandler struct {
	deps RankingDependencies
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingDependencies) *RankingsHandler {
	return &RankingsHandler{deps: deps}
}

// HandleGetTeams handles GET /api/teams requests.
func (h *RankingsHandler) HandleGetTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_teams"
	rows, err := h.deps.Rankings(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type hypotheticalRequest struct {
	Matches []types.MatchRecord `json:"matches"`
}

// HandleHypothetical handles POST /api/rankings/hypothetical requests.
// The proposals are previewed and never recorded.
func (h *RankingsHandler) HandleHypothetical(w http.ResponseWriter, r *http.Request) {
	const op = "api.hypothetical"
	var req hypotheticalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rows, err := h.deps.Hypothetical(r.Context(), req.Matches)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
