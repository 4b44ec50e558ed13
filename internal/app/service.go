// Package service composes the store, the refresher, and the ranking engines
// into the operations served by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/ebladvance/internal/adapters/export"
	"github.com/okian/ebladvance/internal/adapters/mq/worker"
	"github.com/okian/ebladvance/internal/adapters/repository"
	"github.com/okian/ebladvance/internal/config"
	"github.com/okian/ebladvance/internal/domain/advancement"
	"github.com/okian/ebladvance/internal/domain/model"
	"github.com/okian/ebladvance/internal/domain/projection"
	"github.com/okian/ebladvance/internal/domain/ranking"
	"github.com/okian/ebladvance/internal/domain/types"
	"github.com/okian/ebladvance/pkg/logger"
	"github.com/okian/ebladvance/pkg/metrics"
)

// Match categories accepted by Matches in addition to meet keys.
const (
	CategoryAll        = "all"
	CategoryTournament = "tournament"
)

const defaultAdvanceSlots = 2

// Refresher triggers league pulls.
type Refresher interface {
	RefreshNow(ctx context.Context) error
	Trigger() bool
	Status() worker.Status
}

// Service implements the API dependencies for league standings.
type Service struct {
	store        repository.Store
	refresher    Refresher
	roster       []model.TeamInfo
	rostered     map[string]struct{}
	meets        []config.Meet
	advanceSlots int

	logger logger.Logger
}

// New constructs a Service over store for the given roster. The roster
// order is the input order of every ranking, so it resolves final ties.
func New(store repository.Store, roster []model.TeamInfo, opts ...Option) *Service {
	s := &Service{
		store:        store,
		roster:       roster,
		rostered:     make(map[string]struct{}, len(roster)),
		meets:        config.DefaultMeets(),
		advanceSlots: defaultAdvanceSlots,
	}
	for _, t := range roster {
		s.rostered[t.Number] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	metrics.UpdateTrackedTeams(len(roster))
	return s
}

// snapshot builds fresh teams in roster order from stored league records and
// recorded tournament matches. Every call returns independent values.
func (s *Service) snapshot(ctx context.Context) ([]model.Team, model.PointSources, error) {
	league, err := s.store.League(ctx)
	if err != nil {
		return nil, model.PointSources{}, fmt.Errorf("load league: %w", err)
	}
	matches, err := s.store.Matches(ctx)
	if err != nil {
		return nil, model.PointSources{}, fmt.Errorf("load matches: %w", err)
	}
	src, err := s.store.PointSources(ctx)
	if err != nil {
		return nil, model.PointSources{}, fmt.Errorf("load point sources: %w", err)
	}

	teams := make([]model.Team, len(s.roster))
	for i, info := range s.roster {
		teams[i] = model.NewTeam(info)
		for _, p := range league.Performances[info.Number] {
			p.IsTournament = false
			teams[i].AddPerformance(p)
		}
	}
	return projection.Apply(teams, matches), src, nil
}

// Rankings returns the league ranking.
func (s *Service) Rankings(ctx context.Context) ([]types.Standing, error) {
	start := time.Now()
	teams, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := types.Standings(ranking.Rank(teams))
	metrics.RecordRankingComputed(float64(time.Since(start).Microseconds()) / 1000)
	return out, nil
}

// Advancement returns teams ordered by advancement points.
func (s *Service) Advancement(ctx context.Context) ([]types.AdvancementRow, error) {
	start := time.Now()
	teams, src, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := types.AdvancementRows(advancement.Advance(ranking.Rank(teams), src), s.advanceSlots)
	metrics.RecordRankingComputed(float64(time.Since(start).Microseconds()) / 1000)
	return out, nil
}

// Hypothetical previews standings with proposals applied as tournament
// matches. Nothing is recorded.
func (s *Service) Hypothetical(ctx context.Context, proposals []types.MatchRecord) ([]types.ProjectedStanding, error) {
	start := time.Now()
	teams, src, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]model.Match, len(proposals))
	for i, p := range proposals {
		matches[i] = p.ToMatch(model.MatchTypeTournament)
	}
	out := types.ProjectedStandings(projection.Project(teams, matches, src))
	metrics.RecordProjectionComputed(float64(time.Since(start).Microseconds()) / 1000)
	return out, nil
}

// AddMatch validates and records a tournament match. An empty id is replaced
// with a generated one. The stored record is returned.
func (s *Service) AddMatch(ctx context.Context, rec types.MatchRecord) (types.MatchRecord, error) {
	rec.MatchID = strings.TrimSpace(rec.MatchID)
	if rec.MatchID == "" {
		rec.MatchID = "T-" + uuid.NewString()[:8]
	}
	m := rec.ToMatch(model.MatchTypeTournament)
	if err := validateMatch(m); err != nil {
		return types.MatchRecord{}, err
	}
	if err := s.store.AddMatch(ctx, m); err != nil {
		return types.MatchRecord{}, fmt.Errorf("add match %s: %w", m.ID, err)
	}
	s.logger.Info(ctx, "tournament match recorded", logger.String("match", m.ID))
	s.updateMatchGauge(ctx)
	return types.NewMatchRecord(m), nil
}

func validateMatch(m model.Match) error {
	if len(m.Teams()) == 0 {
		return fmt.Errorf("%w: %s names no teams", ErrInvalidMatch, m.ID)
	}
	for _, v := range []int{m.RedScore, m.BlueScore, m.RedRP, m.BlueRP} {
		if v < 0 {
			return fmt.Errorf("%w: %s has a negative score or ranking point value", ErrInvalidMatch, m.ID)
		}
	}
	return nil
}

// DeleteMatch removes a recorded tournament match.
func (s *Service) DeleteMatch(ctx context.Context, id string) error {
	if err := s.store.DeleteMatch(ctx, id); err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	s.logger.Info(ctx, "tournament match deleted", logger.String("match", id))
	s.updateMatchGauge(ctx)
	return nil
}

// Matches lists matches by category: all, tournament, or a meet key.
// A meet category includes that meet's league matches and any tournament
// match whose id carries the meet prefix.
func (s *Service) Matches(ctx context.Context, category string) ([]types.MatchRow, error) {
	tournament, err := s.store.Matches(ctx)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}

	out := []types.MatchRow{}
	switch category {
	case CategoryTournament:
	case CategoryAll:
		for _, m := range s.meets {
			rows, err := s.meetRows(ctx, m)
			if err != nil {
				return nil, err
			}
			out = append(out, rows...)
		}
	default:
		meet, ok := s.meetByKey(category)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
		}
		rows, err := s.meetRows(ctx, meet)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
		for _, m := range tournament {
			if strings.HasPrefix(m.ID, meet.Prefix+"-") {
				out = append(out, types.NewMatchRow(m))
			}
		}
		return out, nil
	}

	for _, m := range tournament {
		out = append(out, types.NewMatchRow(m))
	}
	return out, nil
}

func (s *Service) meetRows(ctx context.Context, meet config.Meet) ([]types.MatchRow, error) {
	ms, err := s.store.MeetMatches(ctx, meet.Key)
	if err != nil {
		return nil, fmt.Errorf("load meet %s: %w", meet.Key, err)
	}
	rows := make([]types.MatchRow, len(ms))
	for i, m := range ms {
		rows[i] = types.MeetMatchRow(meet.Prefix, m)
	}
	return rows, nil
}

func (s *Service) meetByKey(key string) (config.Meet, bool) {
	for _, m := range s.meets {
		if m.Key == key {
			return m, true
		}
	}
	return config.Meet{}, false
}

// MeetMatches returns the structured matches of a configured meet.
func (s *Service) MeetMatches(ctx context.Context, key string) ([]model.MeetMatch, error) {
	if _, ok := s.meetByKey(key); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMeet, key)
	}
	return s.store.MeetMatches(ctx, key)
}

// Reset clears tournament matches, advancement inputs, and the alliance board.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.ClearMatches(ctx); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}
	if err := s.store.ResetAdvancement(ctx); err != nil {
		return fmt.Errorf("reset advancement: %w", err)
	}
	s.logger.Info(ctx, "scenario reset")
	s.updateMatchGauge(ctx)
	return nil
}

// AllianceBoard returns the display-only alliance board.
func (s *Service) AllianceBoard(ctx context.Context) (model.AllianceBoard, error) {
	return s.store.AllianceBoard(ctx)
}

// SetAllianceBoard replaces the alliance board. It never changes points.
func (s *Service) SetAllianceBoard(ctx context.Context, board model.AllianceBoard) error {
	valid := make(map[string]struct{}, model.AllianceCount)
	for _, k := range model.AllianceKeys() {
		valid[k] = struct{}{}
	}
	for k := range board {
		if _, ok := valid[k]; !ok {
			return fmt.Errorf("%w: unknown alliance %q", ErrInvalidBoard, k)
		}
	}
	return s.store.SetAllianceBoard(ctx, board)
}

// ApplySelection records an advancement entry such as "Inspire 1st (60)"
// or "Alliance 2 Captain (19)" for a rostered team.
func (s *Service) ApplySelection(ctx context.Context, team, label string) (advancement.Selection, error) {
	team = strings.TrimSpace(team)
	if _, ok := s.rostered[team]; !ok {
		return advancement.Selection{}, fmt.Errorf("%w: %s", ErrUnknownTeam, team)
	}
	sel, err := advancement.ParseSelection(label)
	if err != nil {
		return advancement.Selection{}, err
	}

	switch sel.Kind {
	case advancement.SelectionAlliance:
		err = s.store.SetAllianceSelection(ctx, team, sel.Slot)
	case advancement.SelectionPlayoff:
		err = s.store.SetPlayoffResult(ctx, team, sel.Points)
	default:
		err = s.store.AddAward(ctx, team, sel.Points)
	}
	if err != nil {
		return advancement.Selection{}, fmt.Errorf("apply %s selection: %w", sel.Kind, err)
	}

	metrics.RecordSelectionApplied(sel.Kind.String())
	s.logger.Info(ctx, "advancement selection applied",
		logger.String("team", team),
		logger.String("kind", sel.Kind.String()),
		logger.Int("points", sel.Points),
	)
	return sel, nil
}

// Refresh pulls league data synchronously.
func (s *Service) Refresh(ctx context.Context) error {
	if s.refresher == nil {
		return ErrNoRefresher
	}
	return s.refresher.RefreshNow(ctx)
}

// TriggerRefresh asks the background loop for a pull. Returns false when a
// pull was already pending.
func (s *Service) TriggerRefresh() (bool, error) {
	if s.refresher == nil {
		return false, ErrNoRefresher
	}
	return s.refresher.Trigger(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	stats := map[string]interface{}{
		"teams":         len(s.roster),
		"meets":         len(s.meets),
		"advance_slots": s.advanceSlots,
	}

	counts, err := s.store.Counts(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "store_counts")
		s.logger.Warn(ctx, "store counts unavailable", logger.Error(err))
	} else {
		stats["store"] = counts
		metrics.UpdateTournamentMatches(counts.TournamentMatches)
	}
	if s.refresher != nil {
		stats["refresh"] = s.refresher.Status()
	}
	return stats
}

// ExportWorkbook writes the current rankings and advancement as xlsx.
func (s *Service) ExportWorkbook(ctx context.Context, w io.Writer) error {
	standings, err := s.Rankings(ctx)
	if err != nil {
		return err
	}
	rows, err := s.Advancement(ctx)
	if err != nil {
		return err
	}
	return export.Write(w, standings, rows)
}

func (s *Service) updateMatchGauge(ctx context.Context) {
	c, err := s.store.Counts(ctx)
	if err != nil {
		return
	}
	metrics.UpdateTournamentMatches(c.TournamentMatches)
}
