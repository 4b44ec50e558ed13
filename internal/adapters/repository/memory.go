package repository

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/okian/ebladvance/internal/domain/model"
)

// MemoryStore keeps all state in process memory.
type MemoryStore struct {
	mu sync.RWMutex

	league  model.LeagueData
	matches []model.Match
	sources model.PointSources
	board   model.AllianceBoard
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		league:  model.NewLeagueData(),
		sources: model.NewPointSources(),
		board:   model.NewAllianceBoard(),
	}
}

var _ Store = (*MemoryStore)(nil)

// ReplaceLeague stores a copy of data.
func (s *MemoryStore) ReplaceLeague(_ context.Context, data model.LeagueData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.league = cloneLeague(data)
	for _, ms := range s.league.Meets {
		slices.SortStableFunc(ms, func(a, b model.MeetMatch) int { return cmp.Compare(a.MatchNum, b.MatchNum) })
	}
	return nil
}

// League returns a copy of the league data.
func (s *MemoryStore) League(_ context.Context) (model.LeagueData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLeague(s.league), nil
}

// MeetMatches returns a copy of one meet's matches.
func (s *MemoryStore) MeetMatches(_ context.Context, key string) ([]model.MeetMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMeet(s.league.Meets[key]), nil
}

// AddMatch appends a tournament match unless its id is taken.
func (s *MemoryStore) AddMatch(_ context.Context, m model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.matches, func(x model.Match) bool { return x.ID == m.ID }) {
		return ErrDuplicateMatch
	}
	s.matches = append(s.matches, m)
	return nil
}

// DeleteMatch removes the match with id.
func (s *MemoryStore) DeleteMatch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.matches, func(x model.Match) bool { return x.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	s.matches = slices.Delete(s.matches, i, i+1)
	return nil
}

// Matches returns tournament matches in insertion order.
func (s *MemoryStore) Matches(_ context.Context) ([]model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Clone(s.matches)
	if out == nil {
		out = []model.Match{}
	}
	return out, nil
}

// ClearMatches drops all tournament matches.
func (s *MemoryStore) ClearMatches(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = nil
	return nil
}

// SetAllianceSelection sets a team's alliance slot.
func (s *MemoryStore) SetAllianceSelection(_ context.Context, team string, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources.AllianceSelections[team] = slot
	return nil
}

// AddAward accumulates award points.
func (s *MemoryStore) AddAward(_ context.Context, team string, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources.Awards[team] += points
	return nil
}

// SetPlayoffResult sets a team's playoff points.
func (s *MemoryStore) SetPlayoffResult(_ context.Context, team string, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources.PlayoffResults[team] = points
	return nil
}

// PointSources returns a copy of the point sources.
func (s *MemoryStore) PointSources(_ context.Context) (model.PointSources, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.PointSources{
		AllianceSelections: maps.Clone(s.sources.AllianceSelections),
		Awards:             maps.Clone(s.sources.Awards),
		PlayoffResults:     maps.Clone(s.sources.PlayoffResults),
	}, nil
}

// ResetAdvancement empties point sources and the board.
func (s *MemoryStore) ResetAdvancement(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = model.NewPointSources()
	s.board = model.NewAllianceBoard()
	return nil
}

// AllianceBoard returns a copy of the board.
func (s *MemoryStore) AllianceBoard(_ context.Context) (model.AllianceBoard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.Normalize(), nil
}

// SetAllianceBoard replaces the board.
func (s *MemoryStore) SetAllianceBoard(_ context.Context, board model.AllianceBoard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = board.Normalize()
	return nil
}

// Counts reports how much state is held.
func (s *MemoryStore) Counts(_ context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := Counts{
		LeagueTeams:       len(s.league.Performances),
		TournamentMatches: len(s.matches),
		LastRefresh:       s.league.FetchedAt,
	}
	for _, p := range s.league.Performances {
		c.LeaguePerformances += len(p)
	}
	for _, m := range s.league.Meets {
		c.MeetMatches += len(m)
	}
	return c, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func cloneLeague(d model.LeagueData) model.LeagueData {
	out := model.NewLeagueData()
	out.FetchedAt = d.FetchedAt
	for team, perfs := range d.Performances {
		out.Performances[team] = slices.Clone(perfs)
	}
	for key, ms := range d.Meets {
		out.Meets[key] = cloneMeet(ms)
	}
	return out
}

func cloneMeet(ms []model.MeetMatch) []model.MeetMatch {
	out := make([]model.MeetMatch, len(ms))
	for i, m := range ms {
		m.Red = slices.Clone(m.Red)
		m.Blue = slices.Clone(m.Blue)
		out[i] = m
	}
	return out
}
