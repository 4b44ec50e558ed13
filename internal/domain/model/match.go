package model

import "strings"

// MatchType distinguishes league meet matches from tournament matches.
type MatchType string

// Match types.
const (
	MatchTypeMeet       MatchType = "MEET"
	MatchTypeTournament MatchType = "TOURNAMENT"
)

// Match is a two-versus-two match with per-alliance score and ranking points.
type Match struct {
	ID        string
	Red       [2]string
	Blue      [2]string
	RedScore  int
	BlueScore int
	RedRP     int
	BlueRP    int
	Type      MatchType
}

// Teams returns the distinct team numbers named by the match, red first.
func (m Match) Teams() []string {
	out := make([]string, 0, len(m.Red)+len(m.Blue))
	seen := make(map[string]struct{}, len(m.Red)+len(m.Blue))
	for _, t := range append(m.Red[:], m.Blue[:]...) {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// PerformanceFor derives the named team's record for this match. A team on
// both alliances takes the red side. Returns false if the team did not play.
func (m Match) PerformanceFor(team string) (Performance, bool) {
	p := Performance{
		MatchID:      m.ID,
		IsTournament: m.Type == MatchTypeTournament,
	}
	switch {
	case seated(m.Red, team):
		p.RankingPoints, p.Score = m.RedRP, m.RedScore
	case seated(m.Blue, team):
		p.RankingPoints, p.Score = m.BlueRP, m.BlueScore
	default:
		return Performance{}, false
	}
	return p, true
}

func seated(side [2]string, team string) bool {
	team = strings.TrimSpace(team)
	return team != "" && (strings.TrimSpace(side[0]) == team || strings.TrimSpace(side[1]) == team)
}

// MeetMatch is a structured qualification match from a league meet, kept
// for display.
type MeetMatch struct {
	MatchNum  int      `json:"match_num"`
	Red       []string `json:"red"`
	Blue      []string `json:"blue"`
	RedScore  int      `json:"red_score"`
	BlueScore int      `json:"blue_score"`
	RedRP     int      `json:"red_rp"`
	BlueRP    int      `json:"blue_rp"`
}

// AllianceSlots are the picks of one playoff alliance. Empty means unset.
type AllianceSlots struct {
	Captain string `json:"captain"`
	Pick1   string `json:"pick1"`
	Pick2   string `json:"pick2"`
}

// AllianceBoard maps an alliance key (alliance1..alliance4) to its picks.
// It is display state only and never feeds advancement points.
type AllianceBoard map[string]AllianceSlots

// AllianceCount is the number of playoff alliances on the board.
const AllianceCount = 4

// NewAllianceBoard returns a board with every alliance present and empty.
func NewAllianceBoard() AllianceBoard {
	b := make(AllianceBoard, AllianceCount)
	for _, k := range AllianceKeys() {
		b[k] = AllianceSlots{}
	}
	return b
}

// AllianceKeys returns alliance1..allianceN in order.
func AllianceKeys() []string {
	keys := make([]string, AllianceCount)
	for i := range keys {
		keys[i] = "alliance" + string(rune('1'+i))
	}
	return keys
}

// Normalize fills in any missing alliance with empty slots.
func (b AllianceBoard) Normalize() AllianceBoard {
	out := NewAllianceBoard()
	for k, v := range b {
		out[k] = v
	}
	return out
}
