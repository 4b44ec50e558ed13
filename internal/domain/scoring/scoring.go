// Package scoring derives per-team ranking points from raw alliance results.
package scoring

import "github.com/okian/ebladvance/internal/domain/model"

// Outcome ranking points.
const (
	WinRP  = 3
	TieRP  = 1
	LossRP = 0
)

// AllianceResult is one alliance's side of a scored match.
type AllianceResult struct {
	TotalPoints int
	MovementRP  int
	GoalRP      int
	PatternRP   int
}

// BonusRP sums the alliance's bonus ranking points.
func (a AllianceResult) BonusRP() int {
	return a.MovementRP + a.GoalRP + a.PatternRP
}

// Outcome returns the win/tie/loss ranking points for own against opp.
func Outcome(own, opp AllianceResult) int {
	switch {
	case own.TotalPoints > opp.TotalPoints:
		return WinRP
	case own.TotalPoints == opp.TotalPoints:
		return TieRP
	default:
		return LossRP
	}
}

// RankingPoints returns outcome plus bonus ranking points for own.
func RankingPoints(own, opp AllianceResult) int {
	return Outcome(own, opp) + own.BonusRP()
}

// ForTeam builds a league performance for a team on the own alliance.
// Surrogate appearances are recorded with zero ranking points and zero score.
func ForTeam(matchID string, own, opp AllianceResult, surrogate bool) model.Performance {
	p := model.Performance{
		MatchID:     matchID,
		IsSurrogate: surrogate,
	}
	if !surrogate {
		p.RankingPoints = RankingPoints(own, opp)
		p.Score = own.TotalPoints
	}
	return p
}

// MeetMatch builds the structured display record for a league match.
func MeetMatch(num int, red, blue []string, redRes, blueRes AllianceResult) model.MeetMatch {
	return model.MeetMatch{
		MatchNum:  num,
		Red:       red,
		Blue:      blue,
		RedScore:  redRes.TotalPoints,
		BlueScore: blueRes.TotalPoints,
		RedRP:     RankingPoints(redRes, blueRes),
		BlueRP:    RankingPoints(blueRes, redRes),
	}
}
