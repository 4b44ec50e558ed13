package projection_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/ebladvance/internal/domain/model"
	"github.com/okian/ebladvance/internal/domain/projection"
	"github.com/okian/ebladvance/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func roster() []model.Team {
	mk := func(number string, rp int) model.Team {
		t := model.NewTeam(model.TeamInfo{Number: number})
		t.Performances = []model.Performance{{MatchID: "M1-Q1", RankingPoints: rp, Score: 10 * rp}}
		return t
	}
	return []model.Team{mk("A", 6), mk("B", 5), mk("C", 4), mk("D", 3), mk("E", 2)}
}

func proposal(id string, r1, r2, b1, b2 string, redRP, blueRP int) model.Match {
	return model.Match{
		ID:        id,
		Red:       [2]string{r1, r2},
		Blue:      [2]string{b1, b2},
		RedScore:  100,
		BlueScore: 50,
		RedRP:     redRP,
		BlueRP:    blueRP,
	}
}

func TestApply(t *testing.T) {
	Convey("Given a proposal naming a team outside the roster", t, func() {
		teams := roster()
		got := projection.Apply(teams, []model.Match{proposal("HYP-1", "E", "D", "C", "Z", 6, 0)})

		Convey("Then rostered teams gain a tournament record", func() {
			e := got[4]
			So(e.Performances, ShouldHaveLength, 2)
			So(e.Performances[1], ShouldResemble, model.Performance{
				MatchID: "HYP-1", RankingPoints: 6, Score: 100, IsTournament: true,
			})
			So(got[2].Performances[1].RankingPoints, ShouldEqual, 0)
			So(got[2].Performances[1].Score, ShouldEqual, 50)
		})

		Convey("And untouched teams keep their records", func() {
			So(got[0].Performances, ShouldHaveLength, 1)
			So(got[1].Performances, ShouldHaveLength, 1)
		})

		Convey("And the originals are unchanged", func() {
			for _, tm := range teams {
				So(tm.Performances, ShouldHaveLength, 1)
			}
		})
	})
}

func TestProject(t *testing.T) {
	Convey("Given recorded teams", t, func() {
		teams := roster()
		baseline := ranking.Rank(teams)
		src := model.NewPointSources()

		Convey("When projecting a strong result for the last team", func() {
			got := projection.Project(teams, []model.Match{
				proposal("HYP-1", "E", "D", "A", "B", 6, 0),
				proposal("HYP-2", "E", "C", "A", "B", 6, 0),
			}, src)

			Convey("Then the last team climbs to first", func() {
				So(got[0].Number, ShouldEqual, "E")
				So(got[0].LeagueRank, ShouldEqual, 1)
				So(got[0].TotalRankingPoints, ShouldEqual, 14)
				So(got[0].Advancement.Total, ShouldEqual, 16)
			})
		})

		Convey("When projecting twice with different proposals", func() {
			_ = projection.Project(teams, []model.Match{proposal("HYP-1", "E", "D", "A", "B", 6, 0)}, src)
			_ = projection.Project(teams, []model.Match{proposal("HYP-9", "C", "D", "A", "E", 0, 6)}, src)

			Convey("Then ranking the originals matches the baseline", func() {
				So(cmp.Diff(baseline, ranking.Rank(teams)), ShouldBeEmpty)
			})
		})

		Convey("When projecting with no proposals", func() {
			got := projection.Project(teams, nil, src)

			Convey("Then league ranks equal the baseline", func() {
				for i, tm := range got {
					So(tm.Number, ShouldEqual, baseline[i].Number)
					So(tm.LeagueRank, ShouldEqual, baseline[i].LeagueRank)
				}
			})
		})
	})
}
