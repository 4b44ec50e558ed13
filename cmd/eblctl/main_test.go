package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/ebladvance/internal/domain/types"
	"github.com/okian/ebladvance/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func init() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		panic(err)
	}
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"eblctl"}, args...))
	return out.String(), err
}

func writeInput(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "in.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWorksheetCommand(t *testing.T) {
	Convey("Given a worksheet input file", t, func() {
		in := writeInput(t, [][]any{
			{"Team", "Rank", "Alliance", "Award"},
			{"5214", 1, 0, 0},
			{"14770", 6, 20, 40},
			{"", 3, 0, 0},
		})
		outPath := filepath.Join(t.TempDir(), "out.xlsx")

		Convey("When it is scored", func() {
			out, err := run("--json", "worksheet", "--in", in, "--out", outPath, "--slots", "1")
			So(err, ShouldBeNil)

			Convey("Then rows are ordered by total and blank teams skipped", func() {
				var rows []map[string]any
				So(json.Unmarshal([]byte(out), &rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
				So(rows[0]["team"], ShouldEqual, "14770")
				So(rows[0]["total"], ShouldEqual, float64(11+20+40))
				So(rows[0]["advancing"], ShouldEqual, true)
				So(rows[1]["rank_pts"], ShouldEqual, float64(16))
			})

			Convey("And the result workbook is written", func() {
				_, err := os.Stat(outPath)
				So(err, ShouldBeNil)
			})
		})

		Convey("When printed as a table", func() {
			out, err := run("worksheet", "--in", in)

			Convey("Then every team is listed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "RANK PTS")
				So(out, ShouldContainSubstring, "14770")
			})
		})
	})
}

func TestStoreCommands(t *testing.T) {
	Convey("Given a fresh SQLite file", t, func() {
		db := filepath.Join(t.TempDir(), "ebl.db")

		Convey("When an award is recorded", func() {
			out, err := run("--db", db, "award", "5214", "Inspire 1st (60)")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "award entry worth 60")

			Convey("Then the advancement table includes it", func() {
				out, err := run("--db", db, "--json", "advancement")
				So(err, ShouldBeNil)
				var rows []types.AdvancementRow
				So(json.Unmarshal([]byte(out), &rows), ShouldBeNil)
				So(rows[0].Number, ShouldEqual, "5214")
				So(rows[0].Awards, ShouldEqual, 60)
			})
		})

		Convey("When the team is unknown", func() {
			_, err := run("--db", db, "award", "1", "Inspire 1st (60)")

			Convey("Then the command fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When arguments are missing", func() {
			_, err := run("--db", db, "award", "5214")
			So(err, ShouldNotBeNil)
		})

		Convey("When standings are printed", func() {
			out, err := run("--db", db, "standings")

			Convey("Then the roster is listed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "RANK")
				So(out, ShouldContainSubstring, "5214")
			})
		})

		Convey("When exporting", func() {
			path := filepath.Join(t.TempDir(), "standings.xlsx")
			_, err := run("--db", db, "export", "--out", path)

			Convey("Then the workbook has both sheets", func() {
				So(err, ShouldBeNil)
				f, err := excelize.OpenFile(path)
				So(err, ShouldBeNil)
				defer f.Close()
				So(f.GetSheetList(), ShouldResemble, []string{"League Rankings", "Advancement"})
			})
		})
	})
}
