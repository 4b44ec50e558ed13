package api

import "net/http"

// RefreshHandler triggers background league pulls.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Status string `json:"status"`
}

// HandleRefresh handles POST /api/refresh requests.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	queued, err := h.deps.TriggerRefresh()
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	st := "queued"
	if !queued {
		st = "pending"
	}
	writeJSON(w, http.StatusAccepted, refreshResponse{Status: st})
}
