// Package layout turns a scroll position and a pixel rectangle into
// row and column pixel offsets.
//
// The Engine walks visual indices from the top-left cell, skipping hidden
// rows and columns, until the bounds or the viewport end are reached. It
// records which rows and columns are placed, which of them are fully
// visible, and answers hit-testing and cell geometry queries from the
// resulting Positions. Results are cached until a change marks an axis
// stale; Layout recomputes whatever is stale.
package layout

import (
	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/dimension"
	"github.com/dshills/tablegrid/internal/grid/model"
	"github.com/dshills/tablegrid/internal/grid/span"
	"github.com/dshills/tablegrid/internal/grid/style"
)

// Inconsistent is returned by hit-testing when the position arrays do not
// match the placed range. Callers should run Layout and retry.
const Inconsistent = -2

// Capabilities configures one Engine for its role in a table.
type Capabilities struct {
	ProvidesEditing bool
	IsHeader        bool
	IsFrozenPane    bool
}

// Options configures an Engine.
type Options struct {
	HorizontalLineWidth  int
	VerticalLineWidth    int
	HorizontalShadeWidth int
	VerticalShadeWidth   int

	Direction core.Direction

	// Viewport limits the cells the engine may ever show.
	Viewport core.Region

	Capabilities Capabilities
}

// DefaultOptions returns options with one-pixel grid lines and an
// unrestricted viewport.
func DefaultOptions() Options {
	return Options{
		HorizontalLineWidth: 1,
		VerticalLineWidth:   1,
		Viewport:            core.NewRegion(0, 0, core.LastRow, core.LastColumn),
	}
}

// Engine computes and caches the layout of one grid pane.
type Engine struct {
	dims  dimension.Service
	spans span.Service
	data  model.Model
	opts  Options

	bounds core.Rect

	top, left           int
	bottom, right       int
	fullyBottom         int
	fullyRight          int
	rows, cols          Positions
	pageRow, pageCol    int
	stale, pageStale    core.IndexType
	onRecompute         func(core.IndexType)
	lastBottom, lastEnd int
}

// New creates an engine over the given services.
func New(dims dimension.Service, spans span.Service, data model.Model, opts Options) *Engine {
	if !opts.Viewport.IsValid() {
		opts.Viewport = core.NewRegion(0, 0, core.LastRow, core.LastColumn)
	}
	return &Engine{
		dims:      dims,
		spans:     spans,
		data:      data,
		opts:      opts,
		bottom:    -1,
		right:     -1,
		stale:     core.BothIndex,
		pageStale: core.BothIndex,
	}
}

// Options returns the engine options.
func (e *Engine) Options() Options { return e.opts }

// Direction returns the horizontal layout direction.
func (e *Engine) Direction() core.Direction { return e.opts.Direction }

// Capabilities returns the engine's role.
func (e *Engine) Capabilities() Capabilities { return e.opts.Capabilities }

// Dimensions returns the dimension service.
func (e *Engine) Dimensions() dimension.Service { return e.dims }

// Spans returns the span service.
func (e *Engine) Spans() span.Service { return e.spans }

// Model returns the data model.
func (e *Engine) Model() model.Model { return e.data }

// SetModel replaces the data model and marks everything stale.
func (e *Engine) SetModel(m model.Model) {
	e.data = m
	e.MarkStale(core.BothIndex)
}

// OnRecompute registers fn to be called after Layout recomputes an axis.
func (e *Engine) OnRecompute(fn func(core.IndexType)) { e.onRecompute = fn }

// HorizontalLineWidth is the space between rows, shade included.
func (e *Engine) HorizontalLineWidth() int {
	return e.opts.HorizontalLineWidth + e.opts.HorizontalShadeWidth
}

// VerticalLineWidth is the space between columns, shade included.
func (e *Engine) VerticalLineWidth() int {
	return e.opts.VerticalLineWidth + e.opts.VerticalShadeWidth
}

// SetLineWidths changes the grid line widths.
func (e *Engine) SetLineWidths(horizontal, vertical int) {
	e.opts.HorizontalLineWidth = max(horizontal, 0)
	e.opts.VerticalLineWidth = max(vertical, 0)
	e.MarkStale(core.BothIndex)
}

// SetDirection changes the horizontal layout direction.
func (e *Engine) SetDirection(d core.Direction) {
	if e.opts.Direction == d {
		return
	}
	e.opts.Direction = d
	e.MarkStale(core.ColumnIndex)
}

// Viewport returns the configured viewport.
func (e *Engine) Viewport() core.Region { return e.opts.Viewport }

// SetViewport restricts the cells the engine may show. An invalid region
// removes the restriction.
func (e *Engine) SetViewport(r core.Region) {
	if !r.IsValid() {
		r = core.NewRegion(0, 0, core.LastRow, core.LastColumn)
	}
	e.opts.Viewport = r.Normalized()
	e.MarkStale(core.BothIndex)
}

// Bounds returns the pixel rectangle cells are laid out in.
func (e *Engine) Bounds() core.Rect { return e.bounds }

// SetBounds changes the pixel rectangle. Only the axes whose size changed
// are marked stale.
func (e *Engine) SetBounds(r core.Rect) {
	var axes core.IndexType
	if r.Y != e.bounds.Y || r.H != e.bounds.H {
		axes |= core.RowIndex
	}
	if r.X != e.bounds.X || r.W != e.bounds.W {
		axes |= core.ColumnIndex
	}
	e.bounds = r
	e.MarkStale(axes)
}

// MarkStale schedules a recompute of the given axes.
func (e *Engine) MarkStale(axes core.IndexType) {
	e.stale |= axes
	e.pageStale |= axes
}

// NeedsRecompute reports whether any of axes is stale.
func (e *Engine) NeedsRecompute(axes core.IndexType) bool {
	return e.stale&axes != 0
}

// RowsChanged is called when rows at or after start were resized,
// hidden, inserted or deleted.
func (e *Engine) RowsChanged(start, count int) {
	e.MarkStale(core.RowIndex)
}

// ColumnsChanged is called when columns at or after start changed.
func (e *Engine) ColumnsChanged(start, count int) {
	e.MarkStale(core.ColumnIndex)
}

// CellPropertyChanged is called when a property of region changed. It
// reports whether the change affects geometry.
func (e *Engine) CellPropertyChanged(r core.Region, p style.Property) bool {
	switch p {
	case style.PropFont, style.PropHidden:
		e.MarkStale(core.BothIndex)
		return true
	}
	return false
}

// TopRow returns the first row placed on screen.
func (e *Engine) TopRow() int { return e.top }

// LeftColumn returns the first column placed on screen. Under
// right-to-left layout it is drawn at the right edge.
func (e *Engine) LeftColumn() int { return e.left }

// SetTopRow scrolls vertically.
func (e *Engine) SetTopRow(row int) {
	row = max(row, 0)
	if row == e.top {
		return
	}
	e.top = row
	e.stale |= core.RowIndex
}

// SetLeftColumn scrolls horizontally.
func (e *Engine) SetLeftColumn(col int) {
	col = max(col, 0)
	if col == e.left {
		return
	}
	e.left = col
	e.stale |= core.ColumnIndex
}

// BottomRow returns the last row placed, which may be partly visible.
func (e *Engine) BottomRow() int { return e.bottom }

// RightColumn returns the last column placed, which may be partly visible.
func (e *Engine) RightColumn() int { return e.right }

// FullyVisibleBottomRow returns the last row drawn in full.
func (e *Engine) FullyVisibleBottomRow() int { return e.fullyBottom }

// FullyVisibleRightColumn returns the last column drawn in full.
func (e *Engine) FullyVisibleRightColumn() int { return e.fullyRight }

// RowPositions returns the row offsets of the last layout.
func (e *Engine) RowPositions() Positions { return e.rows }

// ColumnPositions returns the column offsets of the last layout.
func (e *Engine) ColumnPositions() Positions { return e.cols }

// ScreenRegion returns the cells placed on screen.
func (e *Engine) ScreenRegion() core.Region {
	return core.NewRegion(e.top, e.left, e.bottom, e.right)
}

// RealViewport returns the viewport clipped to the model bounds. An empty
// model gives an empty region.
func (e *Engine) RealViewport() core.Region {
	if e.data == nil {
		return core.EmptyRegion()
	}
	lastRow, lastCol := e.data.LastRow(), e.data.LastColumn()
	if lastRow < 0 || lastCol < 0 {
		return core.EmptyRegion()
	}
	vp := e.opts.Viewport
	return core.NewRegion(vp.StartRow, vp.StartCol, min(vp.EndRow, lastRow), min(vp.EndCol, lastCol))
}

// CurrentViewport is RealViewport with hidden rows and columns trimmed
// from both ends.
func (e *Engine) CurrentViewport() core.Region {
	vp := e.RealViewport()
	if vp.IsEmpty() {
		return vp
	}
	out := vp
	if r := e.FirstNonHiddenRow(vp.StartRow, vp.EndRow); r >= 0 {
		out.StartRow = r
		out.EndRow = e.LastNonHiddenRow(vp.StartRow, vp.EndRow)
	}
	if c := e.FirstNonHiddenColumn(vp.StartCol, vp.EndCol); c >= 0 {
		out.StartCol = c
		out.EndCol = e.LastNonHiddenColumn(vp.StartCol, vp.EndCol)
	}
	return out
}

// FirstNonHiddenRow returns the first visible row in [start, end], or -1.
func (e *Engine) FirstNonHiddenRow(start, end int) int {
	for ; start <= end; start++ {
		if !e.dims.IsRowHidden(start) {
			return start
		}
	}
	return -1
}

// LastNonHiddenRow returns the last visible row in [start, end], or -1.
func (e *Engine) LastNonHiddenRow(start, end int) int {
	for ; end >= start; end-- {
		if !e.dims.IsRowHidden(end) {
			return end
		}
	}
	return -1
}

// FirstNonHiddenColumn returns the first visible column in [start, end],
// or -1.
func (e *Engine) FirstNonHiddenColumn(start, end int) int {
	for ; start <= end; start++ {
		if !e.dims.IsColumnHidden(start) {
			return start
		}
	}
	return -1
}

// LastNonHiddenColumn returns the last visible column in [start, end], or
// -1.
func (e *Engine) LastNonHiddenColumn(start, end int) int {
	for ; end >= start; end-- {
		if !e.dims.IsColumnHidden(end) {
			return end
		}
	}
	return -1
}

// IsCellHidden reports whether the cell's row or column is hidden.
func (e *Engine) IsCellHidden(row, col int) bool {
	return e.dims.IsRowHidden(row) || e.dims.IsColumnHidden(col)
}

// Layout recomputes whatever is stale. It reports whether the placed
// range grew past the previous bottom-right, which callers treat as a
// reason to repaint everything.
func (e *Engine) Layout() bool {
	if e.stale != 0 {
		axes := e.stale
		e.stale = 0
		e.ComputeCellPositions(e.bounds, core.Addr(e.top, e.left), axes)
		if e.onRecompute != nil {
			e.onRecompute(axes)
		}
	}
	if e.pageStale != 0 {
		e.computeLastPage()
	}
	grew := e.bottom > e.lastBottom || e.right > e.lastEnd
	e.lastBottom, e.lastEnd = e.bottom, e.right
	return grew
}

// ComputeCellPositions places rows and/or columns starting at start inside
// bounds and returns the last cell placed. Hidden indices are recorded as
// Hidden and take no space.
func (e *Engine) ComputeCellPositions(bounds core.Rect, start core.CellAddress, axes core.IndexType) core.CellAddress {
	vp := e.RealViewport()

	if axes.HasRows() {
		e.top = start.Row
		e.placeRows(bounds, vp)
	}
	if axes.HasColumns() {
		e.left = start.Col
		if e.opts.Direction == core.RightToLeft {
			e.placeColumnsRTL(bounds, vp)
		} else {
			e.placeColumns(bounds, vp)
		}
	}
	return core.Addr(e.bottom, e.right)
}

func (e *Engine) placeRows(bounds core.Rect, vp core.Region) {
	lw := e.HorizontalLineWidth()
	e.rows.reset(e.top)

	y := bounds.Y + lw
	row := e.top
	last := Hidden
	for ; row <= vp.EndRow && y <= bounds.Bottom(); row++ {
		if e.dims.IsRowHidden(row) {
			e.rows.push(Hidden)
			continue
		}
		e.rows.push(y)
		last = y
		y += e.dims.RowHeight(row) + lw
	}

	e.bottom = row - 1
	e.fullyBottom = e.bottom
	if last != Hidden && bounds.Y+bounds.H < y {
		e.fullyBottom = e.bottom - 1
	}
}

func (e *Engine) placeColumns(bounds core.Rect, vp core.Region) {
	lw := e.VerticalLineWidth()
	e.cols.reset(e.left)

	x := bounds.X + lw
	col := e.left
	last := Hidden
	for ; col <= vp.EndCol && x <= bounds.Right(); col++ {
		if e.dims.IsColumnHidden(col) {
			e.cols.push(Hidden)
			continue
		}
		e.cols.push(x)
		last = x
		x += e.dims.ColumnWidth(col) + lw
	}

	e.right = col - 1
	e.fullyRight = e.right
	if last != Hidden && bounds.X+bounds.W < x {
		e.fullyRight = e.right - 1
	}
}

// placeColumnsRTL mirrors placeColumns: the left column is drawn against
// the right edge and each following column sits to its left.
func (e *Engine) placeColumnsRTL(bounds core.Rect, vp core.Region) {
	lw := e.VerticalLineWidth()
	e.cols.reset(e.left)

	edge := bounds.Right() - lw
	col := e.left
	last := Hidden
	for ; col <= vp.EndCol && edge >= bounds.X; col++ {
		if e.dims.IsColumnHidden(col) {
			e.cols.push(Hidden)
			continue
		}
		x := edge - e.dims.ColumnWidth(col) + 1
		e.cols.push(x)
		last = x
		edge = x - lw - 1
	}

	e.right = col - 1
	e.fullyRight = e.right
	if last != Hidden && last-lw < bounds.X {
		e.fullyRight = e.right - 1
	}
}

// LastPage returns the top row and left column that show the end of the
// viewport with as many cells as fit in the current bounds.
func (e *Engine) LastPage() (row, col int) {
	if e.pageStale != 0 {
		e.computeLastPage()
	}
	return e.pageRow, e.pageCol
}

// computeLastPage walks backward from the end of the viewport. The result
// depends only on sizes, not on the scroll position, and is the same in
// either direction.
func (e *Engine) computeLastPage() {
	e.pageStale = 0
	vp := e.CurrentViewport()
	if vp.IsEmpty() {
		e.pageRow, e.pageCol = 0, 0
		return
	}

	hlw := e.HorizontalLineWidth()
	used := 0
	row := vp.EndRow
	for ; row >= vp.StartRow; row-- {
		if e.dims.IsRowHidden(row) {
			continue
		}
		next := used + e.dims.RowHeight(row) + hlw
		if next+hlw > e.bounds.H {
			break
		}
		used = next
	}
	e.pageRow = min(row+1, vp.EndRow)
	if r := e.FirstNonHiddenRow(e.pageRow, vp.EndRow); r >= 0 {
		e.pageRow = r
	}

	vlw := e.VerticalLineWidth()
	used = 0
	col := vp.EndCol
	for ; col >= vp.StartCol; col-- {
		if e.dims.IsColumnHidden(col) {
			continue
		}
		next := used + e.dims.ColumnWidth(col) + vlw
		if next+vlw > e.bounds.W {
			break
		}
		used = next
	}
	e.pageCol = min(col+1, vp.EndCol)
	if c := e.FirstNonHiddenColumn(e.pageCol, vp.EndCol); c >= 0 {
		e.pageCol = c
	}
}

// VisibleRows returns the number of non-hidden rows placed.
func (e *Engine) VisibleRows() int {
	n := 0
	for r := e.top; r <= e.bottom; r++ {
		if !e.dims.IsRowHidden(r) {
			n++
		}
	}
	return n
}

// VisibleColumns returns the number of non-hidden columns placed.
func (e *Engine) VisibleColumns() int {
	n := 0
	for c := e.left; c <= e.right; c++ {
		if !e.dims.IsColumnHidden(c) {
			n++
		}
	}
	return n
}

// IsCellVisible reports whether any part of the cell is on screen.
func (e *Engine) IsCellVisible(row, col int) bool {
	if e.IsCellHidden(row, col) {
		return false
	}
	return e.top <= row && row <= e.bottom && e.left <= col && col <= e.right
}

// IsCellFullyVisible reports whether the whole cell is on screen.
func (e *Engine) IsCellFullyVisible(row, col int) bool {
	if e.IsCellHidden(row, col) {
		return false
	}
	return e.top <= row && row <= e.fullyBottom && e.left <= col && col <= e.fullyRight
}

// IsCellValid reports whether the cell may receive focus: it is inside
// the current viewport and not hidden.
func (e *Engine) IsCellValid(row, col int) bool {
	if row < 0 || col < 0 || e.IsCellHidden(row, col) {
		return false
	}
	return e.CurrentViewport().Contains(row, col)
}
