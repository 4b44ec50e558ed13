// Package repository persists league data, tournament matches, and
// advancement inputs.
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/okian/ebladvance/internal/domain/model"
)

// MemoryPath selects the in-process store.
const MemoryPath = ":memory:"

// Counts summarizes what the store holds.
type Counts struct {
	LeagueTeams        int       `json:"league_teams"`
	LeaguePerformances int       `json:"league_performances"`
	MeetMatches        int       `json:"meet_matches"`
	TournamentMatches  int       `json:"tournament_matches"`
	LastRefresh        time.Time `json:"last_refresh"`
}

// Store provides read/write access to persisted state.
type Store interface {
	// ReplaceLeague swaps in a complete league pull.
	ReplaceLeague(ctx context.Context, data model.LeagueData) error
	// League returns the last stored league pull.
	League(ctx context.Context) (model.LeagueData, error)
	// MeetMatches returns the structured matches of one meet ordered by match number.
	MeetMatches(ctx context.Context, key string) ([]model.MeetMatch, error)

	// AddMatch records a tournament match. Returns ErrDuplicateMatch when the id exists.
	AddMatch(ctx context.Context, m model.Match) error
	// DeleteMatch removes a tournament match. Returns ErrNotFound when the id is unknown.
	DeleteMatch(ctx context.Context, id string) error
	// Matches returns tournament matches in insertion order.
	Matches(ctx context.Context) ([]model.Match, error)
	ClearMatches(ctx context.Context) error

	SetAllianceSelection(ctx context.Context, team string, slot int) error
	// AddAward accumulates award points for a team.
	AddAward(ctx context.Context, team string, points int) error
	SetPlayoffResult(ctx context.Context, team string, points int) error
	PointSources(ctx context.Context) (model.PointSources, error)
	// ResetAdvancement clears point sources and the alliance board.
	ResetAdvancement(ctx context.Context) error

	AllianceBoard(ctx context.Context) (model.AllianceBoard, error)
	SetAllianceBoard(ctx context.Context, board model.AllianceBoard) error

	Counts(ctx context.Context) (Counts, error)
	Close() error
}

// Open returns a MemoryStore for MemoryPath and a SQLiteStore otherwise.
func Open(ctx context.Context, path string, opts ...Option) (Store, error) {
	if strings.TrimSpace(path) == MemoryPath {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(ctx, path, opts...)
}
