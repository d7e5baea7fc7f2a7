package model

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/tablegrid/internal/grid/core"
)

// Sheet is a worksheet imported from an xlsx workbook.
type Sheet struct {
	Name  string
	Table *Table

	// Spans are the sheet's merged cells, zero-based.
	Spans []core.Region

	// ColumnWidths holds widths, in characters, for columns whose width
	// differs from the sheet default.
	ColumnWidths map[int]int
}

// LoadXLSX reads one worksheet from an xlsx file. An empty sheet name
// selects the active sheet.
func LoadXLSX(path, sheet string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()
	return readSheet(f, sheet)
}

// LoadXLSXReader reads one worksheet from an xlsx stream.
func LoadXLSXReader(r io.Reader, sheet string) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return readSheet(f, sheet)
}

func readSheet(f *excelize.File, sheet string) (*Sheet, error) {
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSheet, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading rows of %s: %w", sheet, err)
	}
	data := make([][]any, len(rows))
	for i, r := range rows {
		rec := make([]any, len(r))
		for j, v := range r {
			rec[j] = cellValue(v)
		}
		data[i] = rec
	}
	out := &Sheet{
		Name:         sheet,
		Table:        NewTableFromRows(data),
		ColumnWidths: make(map[int]int),
	}

	merged, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading merged cells of %s: %w", sheet, err)
	}
	for _, mc := range merged {
		c1, r1, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			continue
		}
		c2, r2, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			continue
		}
		out.Spans = append(out.Spans, core.NewRegion(r1-1, c1-1, r2-1, c2-1).Normalized())
	}

	defWidth, _ := f.GetColWidth(sheet, "XFD")
	for c := 0; c < out.Table.NumColumns(); c++ {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			continue
		}
		w, err := f.GetColWidth(sheet, name)
		if err != nil || w == defWidth {
			continue
		}
		out.ColumnWidths[c] = max(int(math.Round(w)), 1)
	}

	return out, nil
}

// cellValue turns numeric cell text into a number so displays can align
// it.
func cellValue(s string) any {
	if s == "" {
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
