package advancement

import (
	"cmp"
	"slices"
)

const worksheetTop = 16

// WorksheetQualificationPoints is the worksheet scale, max(2, 16-(rank-1)).
// It is one point under QualificationPoints and is never used by Advance.
func WorksheetQualificationPoints(rank int) int {
	return max(qualificationFloor, worksheetTop-(rank-1))
}

// WorksheetRow is one manually entered line of the advancement worksheet.
type WorksheetRow struct {
	Team        string `json:"team"`
	Rank        int    `json:"rank_num"`
	AlliancePts int    `json:"alliance_pts"`
	AwardPts    int    `json:"award_pts"`
	RankPts     int    `json:"rank_pts"`
	Total       int    `json:"total"`
	Advancing   bool   `json:"advancing"`
	// Unranked marks a row whose rank cell was blank or not a number.
	Unranked bool `json:"unranked,omitempty"`
}

// Worksheet fills in rank points and totals, orders rows by total and flags
// the first slots rows as advancing. Unranked rows get the floor.
func Worksheet(rows []WorksheetRow, slots int) []WorksheetRow {
	out := slices.Clone(rows)
	for i := range out {
		if out[i].Unranked {
			out[i].RankPts = qualificationFloor
		} else {
			out[i].RankPts = WorksheetQualificationPoints(out[i].Rank)
		}
		out[i].Total = out[i].RankPts + out[i].AlliancePts + out[i].AwardPts
	}
	slices.SortStableFunc(out, func(a, b WorksheetRow) int {
		return cmp.Compare(b.Total, a.Total)
	})
	for i := range out {
		out[i].Advancing = i < slots
	}
	return out
}
