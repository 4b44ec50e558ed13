// Package ranking computes league standings from team match histories.
//
// A team's ranking point total is the sum over its best LeagueCap league
// performances plus its best TournamentCap tournament performances, where
// "best" orders by ranking points then score. Teams are then ordered by
// total ranking points and average score.
package ranking

import (
	"cmp"
	"slices"

	"github.com/okian/ebladvance/internal/domain/model"
)

// Caps on the number of performances that contribute per subset.
const (
	LeagueCap     = 10
	TournamentCap = 5
)

// Rank computes every team's derived fields and returns the teams ordered
// by league rank. Ties beyond (total RP, average score) keep input order.
// Neither the input slice nor its teams are modified.
func Rank(teams []model.Team) []model.Team {
	out := make([]model.Team, len(teams))
	for i := range teams {
		out[i] = Evaluate(teams[i])
	}

	slices.SortStableFunc(out, func(a, b model.Team) int {
		if c := cmp.Compare(b.TotalRankingPoints, a.TotalRankingPoints); c != 0 {
			return c
		}
		return cmp.Compare(b.AverageScore, a.AverageScore)
	})

	for i := range out {
		out[i].LeagueRank = i + 1
	}
	return out
}

// Evaluate returns a copy of t with TotalRankingPoints, AverageScore,
// MatchesPlayed and Breakdown recomputed from its performances. LeagueRank
// is left as is.
func Evaluate(t model.Team) model.Team {
	t = t.Clone()

	var league, tournament []int
	for i, p := range t.Performances {
		if p.IsTournament {
			tournament = append(tournament, i)
		} else {
			league = append(league, i)
		}
	}

	counted := make([]bool, len(t.Performances))
	total := countBest(t.Performances, league, LeagueCap, counted) +
		countBest(t.Performances, tournament, TournamentCap, counted)

	scoreSum := 0
	for _, p := range t.Performances {
		scoreSum += p.Score
	}

	t.TotalRankingPoints = total
	t.MatchesPlayed = len(t.Performances)
	t.AverageScore = 0
	if t.MatchesPlayed > 0 {
		t.AverageScore = float64(scoreSum) / float64(t.MatchesPlayed)
	}
	t.Breakdown = breakdown(t.Performances, counted)
	return t
}

// countBest orders idx by (rp, score) descending, marks the first limit
// entries as counted and returns their ranking point sum.
func countBest(perfs []model.Performance, idx []int, limit int, counted []bool) int {
	slices.SortStableFunc(idx, func(a, b int) int {
		return comparePerformance(perfs[b], perfs[a])
	})
	sum := 0
	for _, i := range idx[:min(limit, len(idx))] {
		counted[i] = true
		sum += perfs[i].RankingPoints
	}
	return sum
}

func comparePerformance(a, b model.Performance) int {
	if c := cmp.Compare(a.RankingPoints, b.RankingPoints); c != 0 {
		return c
	}
	return cmp.Compare(a.Score, b.Score)
}

// breakdown lists every performance by match id for display.
func breakdown(perfs []model.Performance, counted []bool) []model.BreakdownEntry {
	out := make([]model.BreakdownEntry, len(perfs))
	for i, p := range perfs {
		out[i] = model.BreakdownEntry{Performance: p, IsCounted: counted[i]}
	}
	slices.SortStableFunc(out, func(a, b model.BreakdownEntry) int {
		return cmp.Compare(a.MatchID, b.MatchID)
	})
	return out
}
