package render

import (
	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/layout"
)

const (
	runeHorizontal = '─'
	runeVertical   = '│'
	runeCross      = '┼'
)

// drawGridLines draws the separators around and between the cells of
// region. Under right-to-left layout the closing vertical line is on the
// left.
func (r *Renderer) drawGridLines(region core.Region) {
	if !r.opts.GridLines {
		return
	}
	e := r.eng
	startRow := e.FirstNonHiddenRow(region.StartRow, region.EndRow)
	endRow := e.LastNonHiddenRow(startRow, region.EndRow)
	startCol := e.FirstNonHiddenColumn(region.StartCol, region.EndCol)
	endCol := e.LastNonHiddenColumn(startCol, region.EndCol)
	if startRow < 0 || endRow < startRow || startCol < 0 || endCol < startCol {
		return
	}

	rect := r.regionRect(core.NewRegion(startRow, startCol, endRow, endCol))
	if !rect.IsValid() {
		return
	}

	rows, cols := e.RowPositions(), e.ColumnPositions()
	dims := e.Dimensions()
	hlw, vlw := e.HorizontalLineWidth(), e.VerticalLineWidth()
	st := r.opts.Theme.LineStyle()

	if hlw > 0 {
		for row := startRow; row <= endRow; row++ {
			y := rows.At(row)
			if y == layout.Hidden {
				continue
			}
			r.hline(y-hlw, hlw, rect.X, rect.Right(), st)
		}
		r.hline(rows.At(endRow)+dims.RowHeight(endRow), hlw, rect.X, rect.Right(), st)
	}

	if vlw > 0 {
		rtl := e.Direction() == core.RightToLeft
		for col := startCol; col <= endCol; col++ {
			x := cols.At(col)
			if x == layout.Hidden {
				continue
			}
			if rtl {
				x += dims.ColumnWidth(col)
			} else {
				x -= vlw
			}
			r.vline(x, vlw, rect.Y, rect.Bottom(), st)
		}
		if rtl {
			r.vline(cols.At(endCol)-vlw, vlw, rect.Y, rect.Bottom(), st)
		} else {
			r.vline(cols.At(endCol)+dims.ColumnWidth(endCol), vlw, rect.Y, rect.Bottom(), st)
		}
	}

	r.record(OpGridLines, core.InvalidCell, rect)
}

func (r *Renderer) hline(y, width, x0, x1 int, st core.Style) {
	for yy := y; yy < y+width; yy++ {
		for x := x0; x <= x1; x++ {
			ch := rune(runeHorizontal)
			if r.canvas.Cell(x, yy).Rune == runeVertical {
				ch = runeCross
			}
			r.canvas.SetCell(x, yy, core.Cell{Rune: ch, Width: 1, Style: st})
		}
	}
}

func (r *Renderer) vline(x, width, y0, y1 int, st core.Style) {
	for xx := x; xx < x+width; xx++ {
		for y := y0; y <= y1; y++ {
			ch := rune(runeVertical)
			if c := r.canvas.Cell(xx, y).Rune; c == runeHorizontal || c == runeCross {
				ch = runeCross
			}
			r.canvas.SetCell(xx, y, core.Cell{Rune: ch, Width: 1, Style: st})
		}
	}
}
