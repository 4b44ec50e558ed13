package api

import (
	"net/http"
	"strings"

	"github.com/okian/ebladvance/internal/domain/model"
)

// ActionAdd is the only advancement action.
const ActionAdd = "add"

// AdvancementHandler manages advancement inputs and serves the table.
type AdvancementHandler struct {
	deps AdvancementDependencies
}

// NewAdvancementHandler creates a new advancement handler.
func NewAdvancementHandler(deps AdvancementDependencies) *AdvancementHandler {
	return &AdvancementHandler{deps: deps}
}

// HandleAdvancementCalc handles GET /api/advancement_calc requests.
func (h *AdvancementHandler) HandleAdvancementCalc(w http.ResponseWriter, r *http.Request) {
	const op = "api.advancement_calc"
	rows, err := h.deps.Advancement(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type advancementRequest struct {
	Action    string `json:"action"`
	Team      string `json:"team"`
	Selection string `json:"selection"`
}

type advancementResponse struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
	Points  int    `json:"points"`
}

// HandleAdvancement handles POST /api/advancement requests.
func (h *AdvancementHandler) HandleAdvancement(w http.ResponseWriter, r *http.Request) {
	const op = "api.advancement"
	var req advancementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Action) != ActionAdd {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	sel, err := h.deps.ApplySelection(r.Context(), req.Team, req.Selection)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, advancementResponse{Success: true, Kind: sel.Kind.String(), Points: sel.Points})
}

// HandleGetAllianceBoard handles GET /api/alliance_selection requests.
func (h *AdvancementHandler) HandleGetAllianceBoard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_alliance_board"
	board, err := h.deps.AllianceBoard(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleSetAllianceBoard handles POST /api/alliance_selection requests.
// The board is display state and does not change advancement points.
func (h *AdvancementHandler) HandleSetAllianceBoard(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_alliance_board"
	var board model.AllianceBoard
	if err := decodeJSON(r, &board); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SetAllianceBoard(r.Context(), board); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
