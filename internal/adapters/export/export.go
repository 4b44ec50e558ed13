// Package export renders standings and advancement tables as xlsx workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/okian/ebladvance/internal/domain/advancement"
	"github.com/okian/ebladvance/internal/domain/types"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetRankings    = "League Rankings"
	SheetAdvancement = "Advancement"
	SheetWorksheet   = "Worksheet"
)

var (
	rankingHeader     = []any{"Rank", "Team", "Name", "Total RP", "Matches", "Avg Score"}
	advancementHeader = []any{"Rank", "Team", "Name", "League Rank", "Qual Pts", "Alliance Pts", "Award Pts", "Playoff Pts", "Total AP", "Advances"}
	worksheetHeader   = []any{"Team", "Rank", "Rank Pts", "Alliance Pts", "Award Pts", "Total", "Advancing"}
)

// Workbook builds a workbook with the ranking and advancement sheets.
func Workbook(standings []types.Standing, rows []types.AdvancementRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetRankings); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetAdvancement); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	if err := writeRankings(f, standings); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeAdvancement(f, rows); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// Write streams the ranking and advancement workbook to w.
func Write(w io.Writer, standings []types.Standing, rows []types.AdvancementRow) error {
	f, err := Workbook(standings, rows)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRankings(f *excelize.File, standings []types.Standing) error {
	if err := setRow(f, SheetRankings, 1, rankingHeader); err != nil {
		return err
	}
	for i, s := range standings {
		row := []any{s.Rank, s.Number, s.Name, s.TotalRP, s.MatchesPlayed, s.AvgScore}
		if err := setRow(f, SheetRankings, i+2, row); err != nil {
			return err
		}
	}
	return styleHeader(f, SheetRankings, len(rankingHeader))
}

func writeAdvancement(f *excelize.File, rows []types.AdvancementRow) error {
	if err := setRow(f, SheetAdvancement, 1, advancementHeader); err != nil {
		return err
	}
	highlight, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C6EFCE"}},
		Font: &excelize.Font{Bold: true, Color: "006100"},
	})
	if err != nil {
		return fmt.Errorf("advancing style: %w", err)
	}
	for i, r := range rows {
		line := []any{r.Rank, r.Number, r.Name, r.LeagueRank, r.Qualification, r.AllianceSelection,
			r.Awards, r.Playoff, r.Total, yesNo(r.Advances)}
		if err := setRow(f, SheetAdvancement, i+2, line); err != nil {
			return err
		}
		if r.Advances {
			if err := styleRow(f, SheetAdvancement, i+2, len(advancementHeader), highlight); err != nil {
				return err
			}
		}
	}
	return styleHeader(f, SheetAdvancement, len(advancementHeader))
}

// WriteWorksheet streams a worksheet result as a single-sheet workbook.
func WriteWorksheet(w io.Writer, rows []advancement.WorksheetRow) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetWorksheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setRow(f, SheetWorksheet, 1, worksheetHeader); err != nil {
		return err
	}
	for i, r := range rows {
		line := []any{r.Team, r.Rank, r.RankPts, r.AlliancePts, r.AwardPts, r.Total, yesNo(r.Advancing)}
		if err := setRow(f, SheetWorksheet, i+2, line); err != nil {
			return err
		}
	}
	if err := styleHeader(f, SheetWorksheet, len(worksheetHeader)); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, cols int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := styleRow(f, sheet, 1, cols, bold); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
