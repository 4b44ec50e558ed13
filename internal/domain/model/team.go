// Package model contains domain models passed between layers.
package model

import "slices"

// Performance is one team's result in one match. Values are never mutated
// once recorded; copies are cheap and safe to share.
type Performance struct {
	MatchID       string `json:"match_id"`
	RankingPoints int    `json:"rp"`
	Score         int    `json:"score"`
	IsSurrogate   bool   `json:"is_surrogate"`
	IsTournament  bool   `json:"is_tournament"`
}

// BreakdownEntry is a performance annotated with whether it contributed to
// the team's ranking point total.
type BreakdownEntry struct {
	Performance
	IsCounted bool `json:"is_counted"`
}

// AdvancementBreakdown holds advancement points by source.
type AdvancementBreakdown struct {
	Qualification     int `json:"qual_pts"`
	AllianceSelection int `json:"alliance_pts"`
	Awards            int `json:"award_pts"`
	Playoff           int `json:"playoff_pts"`
	Total             int `json:"total_ap"`
}

// TeamInfo identifies a rostered team.
type TeamInfo struct {
	Number   string `koanf:"number" json:"number"`
	Name     string `koanf:"name" json:"name"`
	Location string `koanf:"location" json:"location"`
}

// Team carries a team's recorded performances and the fields derived from
// them by the ranking and advancement engines.
type Team struct {
	TeamInfo
	Performances []Performance

	// Derived by ranking.Rank.
	TotalRankingPoints int
	AverageScore       float64
	MatchesPlayed      int
	LeagueRank         int
	Breakdown          []BreakdownEntry

	// Derived by advancement.Advance.
	Advancement AdvancementBreakdown
}

// NewTeam returns a team with no performances.
func NewTeam(info TeamInfo) Team {
	return Team{TeamInfo: info}
}

// Clone returns an independent copy. Appending performances to the clone
// never reaches the receiver's backing array.
func (t Team) Clone() Team {
	c := t
	c.Performances = slices.Clone(t.Performances)
	c.Breakdown = slices.Clone(t.Breakdown)
	return c
}

// AddPerformance appends p to the team's records.
func (t *Team) AddPerformance(p Performance) {
	t.Performances = append(t.Performances, p)
}

// PointSources are the externally maintained advancement inputs, keyed by
// team number. They are read, never written, by the engines.
type PointSources struct {
	AllianceSelections map[string]int `json:"alliance_selections"`
	Awards             map[string]int `json:"awards"`
	PlayoffResults     map[string]int `json:"playoff_results"`
}

// NewPointSources returns empty, non-nil maps.
func NewPointSources() PointSources {
	return PointSources{
		AllianceSelections: make(map[string]int),
		Awards:             make(map[string]int),
		PlayoffResults:     make(map[string]int),
	}
}
