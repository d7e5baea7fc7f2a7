package layout

import "github.com/dshills/tablegrid/internal/grid/core"

func (e *Engine) rowsConsistent() bool {
	if e.stale.HasRows() || e.top < 0 || e.bottom < 0 {
		return false
	}
	return e.rows.First() == e.top && e.rows.Len() >= e.bottom-e.top+1
}

func (e *Engine) colsConsistent() bool {
	if e.stale.HasColumns() || e.left < 0 || e.right < 0 {
		return false
	}
	return e.cols.First() == e.left && e.cols.Len() >= e.right-e.left+1
}

// nextRow returns the next non-hidden placed row after row, or -1.
func (e *Engine) nextRow(row int) int {
	for r := row + 1; r <= e.bottom; r++ {
		if e.rows.At(r) != Hidden {
			return r
		}
	}
	return -1
}

func (e *Engine) nextColumn(col int) int {
	for c := col + 1; c <= e.right; c++ {
		if e.cols.At(c) != Hidden {
			return c
		}
	}
	return -1
}

// RowAt returns the row under pixel y. When nearest is set a point above
// or below every row maps to the top or bottom row; otherwise it gives -1.
// Inconsistent is returned when the layout is stale.
func (e *Engine) RowAt(y int, nearest bool) int {
	if !e.rowsConsistent() {
		return Inconsistent
	}
	first := e.nextRow(e.top - 1)
	if first < 0 {
		return -1
	}
	if y < e.rows.At(first) {
		if nearest {
			return e.top
		}
		return -1
	}

	for r := first; r >= 0; {
		next := e.nextRow(r)
		if next < 0 {
			if nearest || y <= e.rows.At(r)+e.dims.RowHeight(r) {
				return r
			}
			return -1
		}
		if y < e.rows.At(next) {
			return r
		}
		r = next
	}

	if nearest {
		return e.bottom
	}
	return -1
}

// ColumnAt returns the column under pixel x, mirrored under right-to-left
// layout. See RowAt.
func (e *Engine) ColumnAt(x int, nearest bool) int {
	if !e.colsConsistent() {
		return Inconsistent
	}
	if e.opts.Direction == core.RightToLeft {
		return e.columnAtRTL(x, nearest)
	}
	first := e.nextColumn(e.left - 1)
	if first < 0 {
		return -1
	}
	if x < e.cols.At(first) {
		if nearest {
			return e.left
		}
		return -1
	}

	for c := first; c >= 0; {
		next := e.nextColumn(c)
		if next < 0 {
			if nearest || x <= e.cols.At(c)+e.dims.ColumnWidth(c) {
				return c
			}
			return -1
		}
		if x < e.cols.At(next) {
			return c
		}
		c = next
	}

	if nearest {
		return e.right
	}
	return -1
}

func (e *Engine) columnAtRTL(x int, nearest bool) int {
	first := e.nextColumn(e.left - 1)
	if first < 0 {
		return -1
	}
	if x > e.cols.At(first)+e.dims.ColumnWidth(first)-1 {
		if nearest {
			return e.left
		}
		return -1
	}

	for c := first; c >= 0; {
		next := e.nextColumn(c)
		if next < 0 {
			if nearest || x >= e.cols.At(c)-1 {
				return c
			}
			return -1
		}
		if x >= e.cols.At(next)+e.dims.ColumnWidth(next) {
			return c
		}
		c = next
	}

	if nearest {
		return e.right
	}
	return -1
}

// CellAt returns the cell under the pixel. A point inside a span resolves
// to the span's anchor when the anchor is not hidden. If either axis is
// inconsistent both components are Inconsistent.
func (e *Engine) CellAt(x, y int, nearest bool) core.CellAddress {
	row := e.RowAt(y, nearest)
	col := e.ColumnAt(x, nearest)
	if row == Inconsistent || col == Inconsistent {
		return core.Addr(Inconsistent, Inconsistent)
	}
	if row < 0 || col < 0 {
		return core.InvalidCell
	}
	if e.spans != nil {
		if r, interior, ok := e.spans.InsideSpan(row, col); ok && interior {
			if !e.IsCellHidden(r.StartRow, r.StartCol) {
				return r.TopLeft()
			}
		}
	}
	return core.Addr(row, col)
}

// CellDimensions returns the pixel rectangle of a placed cell. With
// withSpans set, a span anchor covers its whole span, measured from the
// first member that is on screen. Cells not on screen give
// core.InvalidRect.
func (e *Engine) CellDimensions(row, col int, withSpans bool) core.Rect {
	if !e.rows.Has(row) || !e.cols.Has(col) || row > e.bottom || col > e.right {
		return core.InvalidRect
	}

	if withSpans && e.spans != nil {
		if sp, ok := e.spans.IsSpanner(row, col); ok {
			return e.spanRect(sp)
		}
	}

	y, x := e.rows.At(row), e.cols.At(col)
	if y == Hidden || x == Hidden {
		return core.InvalidRect
	}
	return core.NewRect(x, y, e.dims.ColumnWidth(col), e.dims.RowHeight(row))
}

// spanRect measures a span whose anchor is placed. Members scrolled off
// the near edges are not counted, so only the visible part is returned.
func (e *Engine) spanRect(sp core.Region) core.Rect {
	row, col := sp.StartRow, sp.StartCol
	y := e.rows.At(row)
	for y == Hidden && row < min(sp.EndRow, e.bottom) {
		row++
		y = e.rows.At(row)
	}
	x := e.cols.At(col)
	for x == Hidden && col < min(sp.EndCol, e.right) {
		col++
		x = e.cols.At(col)
	}
	if x == Hidden || y == Hidden {
		return core.InvalidRect
	}

	vis := core.NewRegion(row, col, sp.EndRow, sp.EndCol)
	w := e.dims.RegionWidth(vis)
	h := e.dims.RegionHeight(vis)
	if w <= 0 || h <= 0 {
		return core.InvalidRect
	}
	if e.opts.Direction == core.RightToLeft {
		right := x + e.dims.ColumnWidth(col) - 1
		return core.NewRect(right-w+1, y, w, h)
	}
	return core.NewRect(x, y, w, h)
}

// SpanOrigin returns the rectangle a span occupies when drawn in full.
// Members scrolled off the top or the near edge move the origin back so
// the visible part stays aligned; callers clip to the visible area.
func (e *Engine) SpanOrigin(sp core.Region) core.Rect {
	row := max(sp.StartRow, e.top)
	col := max(sp.StartCol, e.left)
	if row > sp.EndRow || col > sp.EndCol {
		return core.InvalidRect
	}
	vis := e.spanRect(core.NewRegion(row, col, sp.EndRow, sp.EndCol))
	if !vis.IsValid() {
		return core.InvalidRect
	}

	full := core.NewRect(vis.X, vis.Y, e.dims.RegionWidth(sp), e.dims.RegionHeight(sp))
	if row > sp.StartRow {
		if h := e.dims.RegionHeight(core.NewRegion(sp.StartRow, sp.StartCol, row-1, sp.EndCol)); h > 0 {
			full.Y -= h + e.HorizontalLineWidth()
		}
	}
	off := 0
	if col > sp.StartCol {
		if w := e.dims.RegionWidth(core.NewRegion(sp.StartRow, sp.StartCol, sp.EndRow, col-1)); w > 0 {
			off = w + e.VerticalLineWidth()
		}
	}
	if e.opts.Direction == core.RightToLeft {
		full.X = vis.X + vis.W + off - full.W
	} else {
		full.X -= off
	}
	return full
}
