package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/ebladvance/internal/domain/advancement"
	"github.com/xuri/excelize/v2"
)

// ReadWorksheet reads worksheet input rows from the first sheet of an xlsx
// file. The header row must name Team and Rank columns; Alliance and Award
// columns are optional. Rows with a blank team cell are skipped. A blank or
// non-numeric rank marks the row unranked.
func ReadWorksheet(r io.Reader) ([]advancement.WorksheetRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrMissingColumn, sheets[0])
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	teamCol, ok := cols["team"]
	if !ok {
		return nil, fmt.Errorf("%w: team", ErrMissingColumn)
	}
	rankCol, ok := cols["rank"]
	if !ok {
		return nil, fmt.Errorf("%w: rank", ErrMissingColumn)
	}

	out := make([]advancement.WorksheetRow, 0, len(rows)-1)
	for n, row := range rows[1:] {
		team := cell(row, teamCol)
		if team == "" {
			continue
		}
		line := n + 2
		wr := advancement.WorksheetRow{Team: team}
		if rank, err := strconv.Atoi(cell(row, rankCol)); err == nil {
			wr.Rank = rank
		} else {
			wr.Unranked = true
		}
		if c, ok := cols["alliance"]; ok {
			if wr.AlliancePts, err = intCell(row, c); err != nil {
				return nil, fmt.Errorf("row %d alliance: %w", line, err)
			}
		}
		if c, ok := cols["award"]; ok {
			if wr.AwardPts, err = intCell(row, c); err != nil {
				return nil, fmt.Errorf("row %d award: %w", line, err)
			}
		}
		out = append(out, wr)
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func intCell(row []string, i int) (int, error) {
	v := cell(row, i)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
