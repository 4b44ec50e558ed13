// Package advancement computes tournament advancement points from league
// rank and the externally maintained point sources.
package advancement

import (
	"cmp"
	"slices"

	"github.com/okian/ebladvance/internal/domain/model"
)

// Point table constants.
const (
	qualificationBase  = 17
	qualificationFloor = 2
	allianceBase       = 21
)

// QualificationPoints returns max(2, 17-rank).
func QualificationPoints(leagueRank int) int {
	return max(qualificationFloor, qualificationBase-leagueRank)
}

// AllianceSelectionPoints returns the points for an alliance selection slot
// (slot 1 is the captain of alliance 1).
func AllianceSelectionPoints(slot int) int {
	return allianceBase - slot
}

// Compute returns the advancement breakdown for a ranked team.
func Compute(t model.Team, src model.PointSources) model.AdvancementBreakdown {
	b := model.AdvancementBreakdown{
		Qualification: QualificationPoints(t.LeagueRank),
	}
	if slot, ok := src.AllianceSelections[t.Number]; ok {
		b.AllianceSelection = AllianceSelectionPoints(slot)
	}
	b.Awards = src.Awards[t.Number]
	b.Playoff = src.PlayoffResults[t.Number]
	b.Total = b.Qualification + b.AllianceSelection + b.Awards + b.Playoff
	return b
}

// Advance annotates each ranked team with its advancement points and
// returns them ordered by total, highest first. Ties keep input order.
// The input is not modified.
func Advance(ranked []model.Team, src model.PointSources) []model.Team {
	out := make([]model.Team, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].Clone()
		out[i].Advancement = Compute(out[i], src)
	}
	slices.SortStableFunc(out, func(a, b model.Team) int {
		return cmp.Compare(b.Advancement.Total, a.Advancement.Total)
	})
	return out
}
