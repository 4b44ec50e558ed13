package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/ebladvance/internal/adapters/repository"
	"github.com/okian/ebladvance/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type storeFactory func(t *testing.T) repository.Store

func factories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) repository.Store {
			return repository.NewMemoryStore()
		},
		"sqlite": func(t *testing.T) repository.Store {
			s, err := repository.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return s
		},
	}
}

func sampleLeague() model.LeagueData {
	d := model.NewLeagueData()
	d.FetchedAt = time.Date(2025, 11, 8, 18, 30, 0, 0, time.UTC)
	d.Performances["5214"] = []model.Performance{
		{MatchID: "M1-Q3", RankingPoints: 4, Score: 120},
		{MatchID: "M1-Q1", RankingPoints: 0, Score: 80, IsSurrogate: true},
	}
	d.Performances["11920"] = []model.Performance{{MatchID: "M1-Q1", RankingPoints: 3, Score: 95}}
	d.Meets["meet1"] = []model.MeetMatch{
		{MatchNum: 3, Red: []string{"5214", "14770"}, Blue: []string{"11920", "23212"}, RedScore: 120, BlueScore: 60, RedRP: 4, BlueRP: 0},
		{MatchNum: 1, Red: []string{"11920", "30473"}, Blue: []string{"5214", "25810"}, RedScore: 95, BlueScore: 80, RedRP: 3, BlueRP: 1},
	}
	return d
}

func TestStores(t *testing.T) {
	for name, open := range factories() {
		Convey("Given a "+name+" store", t, func() {
			ctx := context.Background()
			s := open(t)
			defer func() { _ = s.Close() }()

			Convey("When the league is replaced", func() {
				So(s.ReplaceLeague(ctx, sampleLeague()), ShouldBeNil)

				Convey("Then performances keep their order per team", func() {
					got, err := s.League(ctx)
					So(err, ShouldBeNil)
					So(got.Performances["5214"], ShouldResemble, sampleLeague().Performances["5214"])
					So(got.FetchedAt.Equal(sampleLeague().FetchedAt), ShouldBeTrue)
				})

				Convey("Then meet matches come back ordered by match number", func() {
					ms, err := s.MeetMatches(ctx, "meet1")
					So(err, ShouldBeNil)
					So(ms, ShouldHaveLength, 2)
					So(ms[0].MatchNum, ShouldEqual, 1)
					So(ms[1].Red, ShouldResemble, []string{"5214", "14770"})
				})

				Convey("Then an unknown meet is empty", func() {
					ms, err := s.MeetMatches(ctx, "meet9")
					So(err, ShouldBeNil)
					So(ms, ShouldBeEmpty)
				})

				Convey("Then a second replace drops the first pull", func() {
					d := model.NewLeagueData()
					d.Performances["30473"] = []model.Performance{{MatchID: "M2-Q1", RankingPoints: 2, Score: 40}}
					So(s.ReplaceLeague(ctx, d), ShouldBeNil)

					got, err := s.League(ctx)
					So(err, ShouldBeNil)
					So(got.Performances, ShouldHaveLength, 1)
					So(got.Meets, ShouldBeEmpty)
				})

				Convey("Then counts reflect the pull", func() {
					c, err := s.Counts(ctx)
					So(err, ShouldBeNil)
					So(c.LeagueTeams, ShouldEqual, 2)
					So(c.LeaguePerformances, ShouldEqual, 3)
					So(c.MeetMatches, ShouldEqual, 2)
				})
			})

			Convey("When tournament matches are recorded", func() {
				m1 := model.Match{ID: "T-1", Red: [2]string{"5214", "11920"}, Blue: [2]string{"14770", "30473"},
					RedScore: 150, BlueScore: 90, RedRP: 4, BlueRP: 0, Type: model.MatchTypeTournament}
				m2 := model.Match{ID: "T-2", Red: [2]string{"23212", "25810"}, Blue: [2]string{"26891", "32098"},
					RedScore: 70, BlueScore: 70, RedRP: 1, BlueRP: 1, Type: model.MatchTypeTournament}
				So(s.AddMatch(ctx, m1), ShouldBeNil)
				So(s.AddMatch(ctx, m2), ShouldBeNil)

				Convey("Then they list in insertion order", func() {
					ms, err := s.Matches(ctx)
					So(err, ShouldBeNil)
					So(ms, ShouldResemble, []model.Match{m1, m2})
				})

				Convey("Then a repeated id is rejected", func() {
					err := s.AddMatch(ctx, m1)
					So(errors.Is(err, repository.ErrDuplicateMatch), ShouldBeTrue)
				})

				Convey("Then deleting removes only that match", func() {
					So(s.DeleteMatch(ctx, "T-1"), ShouldBeNil)
					ms, err := s.Matches(ctx)
					So(err, ShouldBeNil)
					So(ms, ShouldResemble, []model.Match{m2})
				})

				Convey("Then deleting an unknown id reports not found", func() {
					So(errors.Is(s.DeleteMatch(ctx, "T-9"), repository.ErrNotFound), ShouldBeTrue)
				})

				Convey("Then clearing empties the list", func() {
					So(s.ClearMatches(ctx), ShouldBeNil)
					ms, err := s.Matches(ctx)
					So(err, ShouldBeNil)
					So(ms, ShouldBeEmpty)
				})
			})

			Convey("When advancement inputs are entered", func() {
				So(s.SetAllianceSelection(ctx, "5214", 1), ShouldBeNil)
				So(s.SetAllianceSelection(ctx, "5214", 3), ShouldBeNil)
				So(s.AddAward(ctx, "11920", 12), ShouldBeNil)
				So(s.AddAward(ctx, "11920", 5), ShouldBeNil)
				So(s.SetPlayoffResult(ctx, "14770", 20), ShouldBeNil)
				So(s.SetPlayoffResult(ctx, "14770", 10), ShouldBeNil)

				Convey("Then slots and playoffs overwrite while awards accumulate", func() {
					src, err := s.PointSources(ctx)
					So(err, ShouldBeNil)
					So(src.AllianceSelections, ShouldResemble, map[string]int{"5214": 3})
					So(src.Awards, ShouldResemble, map[string]int{"11920": 17})
					So(src.PlayoffResults, ShouldResemble, map[string]int{"14770": 10})
				})

				Convey("Then reset clears every source", func() {
					So(s.ResetAdvancement(ctx), ShouldBeNil)
					src, err := s.PointSources(ctx)
					So(err, ShouldBeNil)
					So(src.AllianceSelections, ShouldBeEmpty)
					So(src.Awards, ShouldBeEmpty)
					So(src.PlayoffResults, ShouldBeEmpty)
				})
			})

			Convey("When the alliance board is saved partially", func() {
				board := model.AllianceBoard{"alliance2": {Captain: "5214", Pick1: "30473"}}
				So(s.SetAllianceBoard(ctx, board), ShouldBeNil)

				Convey("Then every alliance is present on read", func() {
					got, err := s.AllianceBoard(ctx)
					So(err, ShouldBeNil)
					So(got, ShouldHaveLength, model.AllianceCount)
					So(got["alliance2"].Captain, ShouldEqual, "5214")
					So(got["alliance1"], ShouldResemble, model.AllianceSlots{})
				})

				Convey("Then reset empties it", func() {
					So(s.ResetAdvancement(ctx), ShouldBeNil)
					got, err := s.AllianceBoard(ctx)
					So(err, ShouldBeNil)
					So(got["alliance2"], ShouldResemble, model.AllianceSlots{})
				})
			})
		})
	}
}

func TestOpen(t *testing.T) {
	Convey("Given Open", t, func() {
		ctx := context.Background()

		Convey("The memory path yields a MemoryStore", func() {
			s, err := repository.Open(ctx, repository.MemoryPath)
			So(err, ShouldBeNil)
			_, ok := s.(*repository.MemoryStore)
			So(ok, ShouldBeTrue)
		})

		Convey("A file path yields a SQLiteStore that survives reopening", func() {
			path := filepath.Join(t.TempDir(), "ebl.db")
			s, err := repository.Open(ctx, path, repository.WithBusyTimeout(time.Second), repository.WithJournalMode("DELETE"))
			So(err, ShouldBeNil)
			So(s.AddAward(ctx, "5214", 8), ShouldBeNil)
			So(s.Close(), ShouldBeNil)

			s, err = repository.Open(ctx, path)
			So(err, ShouldBeNil)
			defer func() { _ = s.Close() }()
			src, err := s.PointSources(ctx)
			So(err, ShouldBeNil)
			So(src.Awards["5214"], ShouldEqual, 8)
		})

		Convey("An empty path is rejected", func() {
			_, err := repository.NewSQLiteStore(ctx, " ")
			So(errors.Is(err, repository.ErrInvalidPath), ShouldBeTrue)
		})
	})
}

func TestMemoryStoreIsolation(t *testing.T) {
	Convey("Given a memory store holding league data", t, func() {
		ctx := context.Background()
		s := repository.NewMemoryStore()
		d := sampleLeague()
		So(s.ReplaceLeague(ctx, d), ShouldBeNil)

		Convey("Mutating the caller's copy does not reach the store", func() {
			d.Performances["5214"][0].RankingPoints = 99
			got, err := s.League(ctx)
			So(err, ShouldBeNil)
			So(got.Performances["5214"][0].RankingPoints, ShouldEqual, 4)
		})
	})
}
