package model

import "time"

// LeagueData is one complete pull of league meet results.
type LeagueData struct {
	// Performances holds league records keyed by team number.
	Performances map[string][]Performance
	// Meets holds structured matches keyed by meet key, sorted by match number.
	Meets     map[string][]MeetMatch
	FetchedAt time.Time
}

// NewLeagueData returns empty league data.
func NewLeagueData() LeagueData {
	return LeagueData{
		Performances: make(map[string][]Performance),
		Meets:        make(map[string][]MeetMatch),
	}
}
