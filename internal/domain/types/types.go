// Package types contains the read shapes returned to API and CLI callers.
package types

import (
	"fmt"
	"math"

	"github.com/okian/ebladvance/internal/domain/model"
)

// Standing is a league ranking row.
type Standing struct {
	Rank          int                    `json:"rank"`
	Number        string                 `json:"number"`
	Name          string                 `json:"name"`
	TotalRP       int                    `json:"total_rp"`
	MatchesPlayed int                    `json:"matches_played"`
	AvgScore      float64                `json:"avg_score"`
	Breakdown     []model.BreakdownEntry `json:"breakdown"`
}

// AdvancementRow is an advancement table row. Rank is the position by
// advancement points, not the league rank.
type AdvancementRow struct {
	Rank       int    `json:"rank"`
	LeagueRank int    `json:"league_rank"`
	Number     string `json:"number"`
	Name       string `json:"name"`
	model.AdvancementBreakdown
	Advances bool `json:"advances"`
}

// ProjectedStanding is a hypothetical ranking row.
type ProjectedStanding struct {
	Standing
	AdvancementPoints int `json:"advancement_points"`
}

// MatchRecord is the flat wire shape of a tournament match.
type MatchRecord struct {
	MatchID   string `json:"match_id"`
	R1        string `json:"r1"`
	R2        string `json:"r2"`
	B1        string `json:"b1"`
	B2        string `json:"b2"`
	RedScore  int    `json:"rs"`
	BlueScore int    `json:"bs"`
	RedRP     int    `json:"rrp"`
	BlueRP    int    `json:"brp"`
}

// RoundScore rounds an average score to two decimals for display.
func RoundScore(v float64) float64 {
	return math.Round(v*100) / 100
}

// NewStanding converts a ranked team.
func NewStanding(t model.Team) Standing {
	bd := t.Breakdown
	if bd == nil {
		bd = []model.BreakdownEntry{}
	}
	return Standing{
		Rank:          t.LeagueRank,
		Number:        t.Number,
		Name:          t.Name,
		TotalRP:       t.TotalRankingPoints,
		MatchesPlayed: t.MatchesPlayed,
		AvgScore:      RoundScore(t.AverageScore),
		Breakdown:     bd,
	}
}

// Standings converts teams in order.
func Standings(teams []model.Team) []Standing {
	out := make([]Standing, len(teams))
	for i, t := range teams {
		out[i] = NewStanding(t)
	}
	return out
}

// AdvancementRows converts teams already ordered by advancement points and
// flags the first slots rows.
func AdvancementRows(teams []model.Team, slots int) []AdvancementRow {
	out := make([]AdvancementRow, len(teams))
	for i, t := range teams {
		out[i] = AdvancementRow{
			Rank:                 i + 1,
			LeagueRank:           t.LeagueRank,
			Number:               t.Number,
			Name:                 t.Name,
			AdvancementBreakdown: t.Advancement,
			Advances:             i < slots,
		}
	}
	return out
}

// ProjectedStandings converts projected teams in order.
func ProjectedStandings(teams []model.Team) []ProjectedStanding {
	out := make([]ProjectedStanding, len(teams))
	for i, t := range teams {
		out[i] = ProjectedStanding{Standing: NewStanding(t), AdvancementPoints: t.Advancement.Total}
	}
	return out
}

// ToMatch converts the wire shape into a match of the given type.
func (r MatchRecord) ToMatch(typ model.MatchType) model.Match {
	return model.Match{
		ID:        r.MatchID,
		Red:       [2]string{r.R1, r.R2},
		Blue:      [2]string{r.B1, r.B2},
		RedScore:  r.RedScore,
		BlueScore: r.BlueScore,
		RedRP:     r.RedRP,
		BlueRP:    r.BlueRP,
		Type:      typ,
	}
}

// NewMatchRecord converts a match to its wire shape.
func NewMatchRecord(m model.Match) MatchRecord {
	return MatchRecord{
		MatchID:   m.ID,
		R1:        m.Red[0],
		R2:        m.Red[1],
		B1:        m.Blue[0],
		B2:        m.Blue[1],
		RedScore:  m.RedScore,
		BlueScore: m.BlueScore,
		RedRP:     m.RedRP,
		BlueRP:    m.BlueRP,
	}
}

// MatchRow is a match in list responses.
type MatchRow struct {
	ID        string `json:"id"`
	R1        string `json:"r1"`
	R2        string `json:"r2"`
	B1        string `json:"b1"`
	B2        string `json:"b2"`
	RedScore  int    `json:"rs"`
	BlueScore int    `json:"bs"`
	RedRP     int    `json:"rrp"`
	BlueRP    int    `json:"brp"`
	Type      string `json:"type"`
}

// NewMatchRow converts a recorded match.
func NewMatchRow(m model.Match) MatchRow {
	return MatchRow{
		ID:        m.ID,
		R1:        m.Red[0],
		R2:        m.Red[1],
		B1:        m.Blue[0],
		B2:        m.Blue[1],
		RedScore:  m.RedScore,
		BlueScore: m.BlueScore,
		RedRP:     m.RedRP,
		BlueRP:    m.BlueRP,
		Type:      string(m.Type),
	}
}

// MeetMatchRow converts a structured meet match, naming it "<prefix>-Q<n>".
func MeetMatchRow(prefix string, m model.MeetMatch) MatchRow {
	return MatchRow{
		ID:        fmt.Sprintf("%s-Q%d", prefix, m.MatchNum),
		R1:        seat(m.Red, 0),
		R2:        seat(m.Red, 1),
		B1:        seat(m.Blue, 0),
		B2:        seat(m.Blue, 1),
		RedScore:  m.RedScore,
		BlueScore: m.BlueScore,
		RedRP:     m.RedRP,
		BlueRP:    m.BlueRP,
		Type:      string(model.MatchTypeMeet),
	}
}

func seat(teams []string, i int) string {
	if i < len(teams) {
		return teams[i]
	}
	return ""
}
