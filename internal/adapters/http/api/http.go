// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/ebladvance/internal/domain/advancement"
	"github.com/okian/ebladvance/internal/domain/model"
	"github.com/okian/ebladvance/internal/domain/types"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RankingDependencies
	MatchDependencies
	AdvancementDependencies
	ExportDependencies
	RefreshDependencies
	StatsProvider
}

// RankingDependencies serve league and hypothetical rankings.
type RankingDependencies interface {
	Rankings(ctx context.Context) ([]types.Standing, error)
	Hypothetical(ctx context.Context, proposals []types.MatchRecord) ([]types.ProjectedStanding, error)
}

// MatchDependencies manage tournament and meet matches.
type MatchDependencies interface {
	AddMatch(ctx context.Context, rec types.MatchRecord) (types.MatchRecord, error)
	DeleteMatch(ctx context.Context, id string) error
	Matches(ctx context.Context, category string) ([]types.MatchRow, error)
	MeetMatches(ctx context.Context, key string) ([]model.MeetMatch, error)
	Reset(ctx context.Context) error
}

// AdvancementDependencies manage advancement inputs and results.
type AdvancementDependencies interface {
	Advancement(ctx context.Context) ([]types.AdvancementRow, error)
	AllianceBoard(ctx context.Context) (model.AllianceBoard, error)
	SetAllianceBoard(ctx context.Context, board model.AllianceBoard) error
	ApplySelection(ctx context.Context, team, label string) (advancement.Selection, error)
}

// ExportDependencies write the workbook export.
type ExportDependencies interface {
	ExportWorkbook(ctx context.Context, w io.Writer) error
}

// RefreshDependencies trigger a background league pull.
type RefreshDependencies interface {
	TriggerRefresh() (bool, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	rankingsHandler    *RankingsHandler
	matchesHandler     *MatchesHandler
	advancementHandler *AdvancementHandler
	exportHandler      *ExportHandler
	refreshHandler     *RefreshHandler

	limiter *IPRateLimiter
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		rankingsHandler:    NewRankingsHandler(deps),
		matchesHandler:     NewMatchesHandler(deps),
		advancementHandler: NewAdvancementHandler(deps),
		exportHandler:      NewExportHandler(deps),
		refreshHandler:     NewRefreshHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns a chi router with every route attached.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	s.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/teams", MetricsMiddleware(s.rankingsHandler.HandleGetTeams, "teams"))
		r.Get("/matches/{category}", MetricsMiddleware(s.matchesHandler.HandleListMatches, "matches"))
		r.Delete("/matches/{id}", MetricsMiddleware(s.matchesHandler.HandleDeleteMatch, "matches"))
		r.Get("/meets/{meet}", MetricsMiddleware(s.matchesHandler.HandleGetMeet, "meets"))
		r.Get("/alliance_selection", MetricsMiddleware(s.advancementHandler.HandleGetAllianceBoard, "alliance_selection"))
		r.Get("/advancement_calc", MetricsMiddleware(s.advancementHandler.HandleAdvancementCalc, "advancement_calc"))
		r.Get("/export.xlsx", MetricsMiddleware(s.exportHandler.HandleExport, "export"))

		r.Group(func(r chi.Router) {
			if s.limiter != nil {
				r.Use(RateLimitMiddleware(s.limiter))
			}
			r.Post("/matches", MetricsMiddleware(s.matchesHandler.HandleAddMatch, "matches"))
			r.Post("/reset", MetricsMiddleware(s.matchesHandler.HandleReset, "reset"))
			r.Post("/alliance_selection", MetricsMiddleware(s.advancementHandler.HandleSetAllianceBoard, "alliance_selection"))
			r.Post("/advancement", MetricsMiddleware(s.advancementHandler.HandleAdvancement, "advancement"))
			r.Post("/rankings/hypothetical", MetricsMiddleware(s.rankingsHandler.HandleHypothetical, "hypothetical"))
			r.Post("/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
		})
	})
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code, name := status(err)
	msg := http.StatusText(code)
	if err != nil && code != http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, code, errorResponse{Code: name, Message: msg})
}
