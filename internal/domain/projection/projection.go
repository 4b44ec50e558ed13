// Package projection previews standings as if proposed matches had been
// played, without touching recorded state.
package projection

import (
	"github.com/okian/ebladvance/internal/domain/advancement"
	"github.com/okian/ebladvance/internal/domain/model"
	"github.com/okian/ebladvance/internal/domain/ranking"
)

// Apply returns clones of teams with one tournament performance appended
// per proposal for each named team. Slots naming teams outside the set are
// ignored.
func Apply(teams []model.Team, proposals []model.Match) []model.Team {
	out := make([]model.Team, len(teams))
	index := make(map[string]int, len(teams))
	for i := range teams {
		out[i] = teams[i].Clone()
		index[out[i].Number] = i
	}

	for _, m := range proposals {
		m.Type = model.MatchTypeTournament
		for _, number := range m.Teams() {
			i, ok := index[number]
			if !ok {
				continue
			}
			p, _ := m.PerformanceFor(number)
			out[i].AddPerformance(p)
		}
	}
	return out
}

// Project ranks and scores advancement for teams with proposals applied.
// The result is ordered by advancement points.
func Project(teams []model.Team, proposals []model.Match, src model.PointSources) []model.Team {
	return advancement.Advance(ranking.Rank(Apply(teams, proposals)), src)
}
