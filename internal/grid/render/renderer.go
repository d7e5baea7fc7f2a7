// Package render paints a laid-out grid into an off-screen canvas.
//
// A paint either repaints everything or only the accumulated dirty
// region. Each pass fills the background, draws grid lines, then plain
// cells, span anchors and overflowing cells, and finally clears whatever
// lies outside the content. Which cells are claimed by overflow is
// decided up front by ClaimOverflow, so every cell is drawn at most once
// per pass.
package render

import (
	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/layout"
	"github.com/dshills/tablegrid/internal/grid/style"
)

// OpKind identifies a recorded draw operation.
type OpKind uint8

const (
	OpBackground OpKind = iota
	OpGridLines
	OpCell
	OpSpan
	OpOverflow
	OpClear
)

// String returns the operation name.
func (k OpKind) String() string {
	switch k {
	case OpBackground:
		return "background"
	case OpGridLines:
		return "grid-lines"
	case OpCell:
		return "cell"
	case OpSpan:
		return "span"
	case OpOverflow:
		return "overflow"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// DrawOp is one step of the last paint.
type DrawOp struct {
	Kind OpKind
	Cell core.CellAddress
	Rect core.Rect
}

// Options configures a Renderer.
type Options struct {
	// Overflow lets text run into empty neighbouring cells.
	Overflow bool

	// MaxOverflowCells caps how many neighbours one cell may run into.
	MaxOverflowCells int

	GridLines bool
	Theme     style.Theme
}

// DefaultOptions returns overflow on, ten overflow cells, grid lines and
// the default theme.
func DefaultOptions() Options {
	return Options{
		Overflow:         true,
		MaxOverflowCells: 10,
		GridLines:        true,
		Theme:            style.DefaultTheme(),
	}
}

// Highlighter supplies selection and current-cell state while painting.
type Highlighter interface {
	IsCellSelected(row, col int) bool
	CurrentCell() core.CellAddress
}

// Renderer paints one layout engine's cells.
type Renderer struct {
	eng    *layout.Engine
	styles style.Provider
	opts   Options
	canvas *Canvas
	dirty  *Tracker
	hl     Highlighter
	log    core.Logger

	inPaint   bool
	deferred  bool
	onRepaint func()

	ops     []DrawOp
	paints  int
	skipped int
}

// New creates a renderer. A nil styles uses an empty style.Store.
func New(eng *layout.Engine, styles style.Provider, opts Options) *Renderer {
	if styles == nil {
		styles = style.NewStore()
	}
	if opts.MaxOverflowCells < 0 {
		opts.MaxOverflowCells = 0
	}
	return &Renderer{
		eng:    eng,
		styles: styles,
		opts:   opts,
		canvas: NewCanvas(),
		dirty:  NewTracker(),
		log:    core.NopLogger(),
	}
}

// SetLogger sets the logger.
func (r *Renderer) SetLogger(l core.Logger) {
	if l == nil {
		l = core.NopLogger()
	}
	r.log = l
}

// SetHighlighter sets the selection source.
func (r *Renderer) SetHighlighter(h Highlighter) { r.hl = h }

// OnRepaintRequest registers fn to be called when a paint must be
// issued again, after a nested paint was skipped.
func (r *Renderer) OnRepaintRequest(fn func()) { r.onRepaint = fn }

// Options returns the renderer options.
func (r *Renderer) Options() Options { return r.opts }

// SetOptions replaces the options and schedules a full repaint.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts
	r.dirty.MarkFull()
}

// Engine returns the layout engine.
func (r *Renderer) Engine() *layout.Engine { return r.eng }

// Canvas returns the off-screen canvas.
func (r *Renderer) Canvas() *Canvas { return r.canvas }

// Tracker returns the dirty tracker.
func (r *Renderer) Tracker() *Tracker { return r.dirty }

// InPaint reports whether a paint is running.
func (r *Renderer) InPaint() bool { return r.inPaint }

// Paints returns the number of completed paints.
func (r *Renderer) Paints() int { return r.paints }

// SkippedPaints returns the number of nested paints that were skipped.
func (r *Renderer) SkippedPaints() int { return r.skipped }

// LastFrame returns the draw operations of the last paint in order.
func (r *Renderer) LastFrame() []DrawOp {
	out := make([]DrawOp, len(r.ops))
	copy(out, r.ops)
	return out
}

// Redraw marks region dirty. An invalid region repaints everything.
func (r *Renderer) Redraw(region core.Region) { r.dirty.Redraw(region) }

// RedrawAll schedules a full repaint.
func (r *Renderer) RedrawAll() { r.dirty.MarkFull() }

// Resize changes the pixel area.
func (r *Renderer) Resize(width, height int) {
	if r.canvas.Ensure(width, height) {
		cw, ch := r.canvas.Capacity()
		r.log.Debug("render: canvas reallocated to %dx%d", cw, ch)
	}
	r.eng.SetBounds(core.NewRect(0, 0, width, height))
	r.dirty.MarkChange(ChangeResize, core.EmptyRegion())
}

func (r *Renderer) record(kind OpKind, cell core.CellAddress, rect core.Rect) {
	r.ops = append(r.ops, DrawOp{Kind: kind, Cell: cell, Rect: rect})
}

// Paint brings the canvas up to date and copies the painted part to dst,
// which may be nil. A call made while a paint is running is skipped; the
// running paint then schedules a full repaint and calls the repaint
// callback when it finishes.
func (r *Renderer) Paint(dst core.Surface) core.Rect {
	if r.inPaint {
		r.deferred = true
		r.skipped++
		r.log.Debug("render: nested paint skipped")
		return core.InvalidRect
	}
	r.inPaint = true
	r.ops = r.ops[:0]

	grew := r.eng.Layout()
	full := grew || r.dirty.NeedsFull(r.eng.CurrentViewport())

	painted := core.InvalidRect
	switch {
	case full:
		base := core.BlankCell(r.opts.Theme.BaseStyle())
		r.canvas.Clear(base)
		r.record(OpBackground, core.InvalidCell, r.canvas.Rect())
		if screen := r.eng.ScreenRegion(); screen.IsValid() {
			r.paintRegion(screen, false)
		} else {
			r.clearUnused()
		}
		painted = r.canvas.Rect()
	case r.dirty.IsDirty():
		painted = r.paintRegion(r.dirty.Region(), true)
	}

	if dst != nil && painted.IsValid() {
		r.canvas.Blit(dst, painted)
	}
	r.dirty.Reset()
	r.paints++
	r.inPaint = false

	if r.deferred {
		r.deferred = false
		r.dirty.MarkFull()
		if r.onRepaint != nil {
			r.onRepaint()
		}
	}
	return painted
}

// PaintRegion paints region immediately, recomputing the layout first if
// needed, and returns the painted pixels.
func (r *Renderer) PaintRegion(region core.Region) core.Rect {
	if !region.IsValid() {
		return core.InvalidRect
	}
	r.eng.Layout()
	return r.paintRegion(region, true)
}

func (r *Renderer) paintRegion(region core.Region, fill bool) core.Rect {
	e := r.eng
	top, left, bottom, right := e.TopRow(), e.LeftColumn(), e.BottomRow(), e.RightColumn()

	// Overflow may reach across the whole row.
	if r.opts.Overflow {
		region.StartCol = left
		region.EndCol = right
	}

	dr := core.NewRegion(
		max(region.StartRow, top),
		max(region.StartCol, left),
		min(region.EndRow, bottom),
		min(region.EndCol, right),
	)
	if dr.IsEmpty() {
		return core.InvalidRect
	}

	// Grow by one visible neighbour on each side so shared borders are
	// redrawn.
	grown := core.NewRegion(
		max(e.LastNonHiddenRow(top, dr.StartRow-1), top),
		max(e.LastNonHiddenColumn(left, dr.StartCol-1), left),
		bottom,
		right,
	)
	if next := e.FirstNonHiddenRow(dr.EndRow+1, bottom); next >= 0 {
		grown.EndRow = next
	}
	if next := e.FirstNonHiddenColumn(dr.EndCol+1, right); next >= 0 {
		grown.EndCol = next
	}

	if fill {
		rect := r.regionRect(grown).Intersect(r.canvas.Rect())
		if rect.IsValid() {
			r.canvas.Fill(rect, core.BlankCell(r.opts.Theme.BaseStyle()))
			r.record(OpBackground, core.InvalidCell, rect)
		}
	}
	r.drawGridLines(grown)

	painted := r.DrawRegion(grown)
	if painted.IsValid() {
		hlw, vlw := e.HorizontalLineWidth(), e.VerticalLineWidth()
		painted = core.RectFromEdges(painted.X-vlw, painted.Y-hlw, painted.Right()+vlw, painted.Bottom()+hlw).
			Intersect(r.canvas.Rect())
	}

	r.clearUnused()
	return painted
}

// frame is the scratch state of one DrawRegion call.
type frame struct {
	queue   []core.CellAddress
	spans   []DrawOp
	painted core.Rect
}

// DrawRegion draws the cells of region and returns the pixels touched.
// Span members are drawn once through their anchor and cells claimed by
// an overflowing neighbour are not drawn on their own.
func (r *Renderer) DrawRegion(region core.Region) core.Rect {
	e := r.eng
	screen := e.ScreenRegion()
	region = region.Intersection(screen)
	if region.IsEmpty() {
		return core.InvalidRect
	}

	dims := e.Dimensions()
	f := &frame{painted: core.InvalidRect}
	for row := region.StartRow; row <= region.EndRow; row++ {
		if dims.IsRowHidden(row) {
			continue
		}
		for col := region.StartCol; col <= region.EndCol; col++ {
			if dims.IsColumnHidden(col) {
				continue
			}
			f.queue = append(f.queue, core.Addr(row, col))
		}
	}

	if spans := e.Spans(); spans != nil {
		for _, sp := range spans.Spans() {
			if !sp.Intersects(region) {
				continue
			}
			f.queue = removeRegion(f.queue, sp)
			rect := e.SpanOrigin(sp)
			if !rect.IsValid() {
				continue
			}
			f.spans = append(f.spans, DrawOp{Kind: OpSpan, Cell: sp.TopLeft(), Rect: rect})
		}
	}

	var claims OverflowClaims
	if r.opts.Overflow && len(f.queue) > 0 {
		claims = ClaimOverflow(OverflowRequest{
			Queue:        f.queue,
			Content:      r.content,
			ColumnWidth:  dims.ColumnWidth,
			ColumnHidden: dims.IsColumnHidden,
			LineWidth:    e.VerticalLineWidth(),
			Spans:        e.Spans(),
			MaxCells:     r.opts.MaxOverflowCells,
			FirstColumn:  region.StartCol,
			LastColumn:   screen.EndCol,
			LookBehind:   region.StartCol == screen.StartCol,
		})
	}

	for _, c := range f.queue {
		if claims.IsClaimed(c) || claims.IsAnchor(c) {
			continue
		}
		rect := e.CellDimensions(c.Row, c.Col, false)
		f.painted = f.painted.Union(r.drawCell(OpCell, c.Row, c.Col, rect))
	}
	for _, op := range f.spans {
		f.painted = f.painted.Union(r.drawCell(OpSpan, op.Cell.Row, op.Cell.Col, op.Rect))
	}
	for _, claim := range claims.Claims {
		rect := r.overflowRect(claim, region.StartCol)
		f.painted = f.painted.Union(r.drawCell(OpOverflow, claim.Anchor.Row, claim.Anchor.Col, rect))
	}
	return f.painted
}

func removeRegion(queue []core.CellAddress, reg core.Region) []core.CellAddress {
	out := queue[:0]
	for _, c := range queue {
		if !reg.Contains(c.Row, c.Col) {
			out = append(out, c)
		}
	}
	return out
}

// overflowRect positions a merged draw. Anchors found left of the first
// column are placed by their Lead.
func (r *Renderer) overflowRect(claim OverflowClaim, firstCol int) core.Rect {
	e := r.eng
	row := claim.Anchor.Row
	y := e.RowPositions().At(row)
	h := e.Dimensions().RowHeight(row)

	refCol := claim.Anchor.Col
	if claim.Lead > 0 {
		refCol = firstCol
	}
	x := e.ColumnPositions().At(refCol)
	if x == layout.Hidden || y == layout.Hidden {
		return core.InvalidRect
	}

	if e.Direction() == core.RightToLeft {
		right := x + e.Dimensions().ColumnWidth(refCol) - 1 + claim.Lead
		return core.NewRect(right-claim.Width+1, y, claim.Width, h)
	}
	return core.NewRect(x-claim.Lead, y, claim.Width, h)
}

func (r *Renderer) content(row, col int) (int, bool) {
	m := r.eng.Model()
	if m == nil {
		return 0, true
	}
	d := r.styles.Display(row, col)
	if d == nil {
		return 0, true
	}
	v := m.Item(row, col)
	if d.IsEmpty(v) {
		return 0, true
	}
	return d.ContentWidth(v), false
}

// DrawCell draws one cell into rect, clipped to the layout bounds.
func (r *Renderer) DrawCell(row, col int, rect core.Rect) core.Rect {
	return r.drawCell(OpCell, row, col, rect)
}

func (r *Renderer) drawCell(kind OpKind, row, col int, rect core.Rect) core.Rect {
	if !rect.IsValid() {
		return core.InvalidRect
	}
	clip := rect.Intersect(r.eng.Bounds()).Intersect(r.canvas.Rect())
	if !clip.IsValid() {
		return core.InvalidRect
	}

	d := r.styles.Display(row, col)
	if d == nil {
		d = style.DefaultDisplay
	}
	var v any
	if m := r.eng.Model(); m != nil {
		v = m.Item(row, col)
	}
	d.Draw(clipSurface{dst: r.canvas, clip: clip}, rect, v, r.CellStyle(row, col))
	r.record(kind, core.Addr(row, col), clip)
	return clip
}

// CellStyle resolves the style a cell is painted with.
func (r *Renderer) CellStyle(row, col int) core.Style {
	th := r.opts.Theme
	var layers [style.LayerCount]*core.Style

	if r.eng.Capabilities().IsHeader {
		h := core.DefaultStyle().WithBackground(th.Header).WithAttributes(core.AttrBold)
		layers[style.LayerHeader] = &h
	}
	layers[style.LayerCell] = r.styles.CellStyle(row, col)
	if r.hl != nil {
		if r.hl.IsCellSelected(row, col) {
			s := core.DefaultStyle().WithBackground(th.Selection)
			layers[style.LayerSelection] = &s
		}
		if r.hl.CurrentCell() == core.Addr(row, col) {
			s := core.DefaultStyle().WithBackground(th.CurrentCell).WithAttributes(core.AttrBold)
			layers[style.LayerCurrent] = &s
		}
	}

	out := th.Resolve(layers)
	if !r.styles.Enabled(row, col) {
		out.Foreground = th.Disabled
	}
	return out
}

// regionRect returns the pixels of region including its surrounding
// grid lines.
func (r *Renderer) regionRect(reg core.Region) core.Rect {
	e := r.eng
	sr := e.FirstNonHiddenRow(reg.StartRow, reg.EndRow)
	er := e.LastNonHiddenRow(reg.StartRow, reg.EndRow)
	sc := e.FirstNonHiddenColumn(reg.StartCol, reg.EndCol)
	ec := e.LastNonHiddenColumn(reg.StartCol, reg.EndCol)
	if sr < 0 || er < 0 || sc < 0 || ec < 0 {
		return core.InvalidRect
	}

	rows, cols := e.RowPositions(), e.ColumnPositions()
	if rows.At(sr) == layout.Hidden || rows.At(er) == layout.Hidden ||
		cols.At(sc) == layout.Hidden || cols.At(ec) == layout.Hidden {
		return core.InvalidRect
	}
	dims := e.Dimensions()
	hlw, vlw := e.HorizontalLineWidth(), e.VerticalLineWidth()

	y0 := rows.At(sr) - hlw
	y1 := rows.At(er) + dims.RowHeight(er) + hlw - 1
	if e.Direction() == core.RightToLeft {
		return core.RectFromEdges(cols.At(ec)-vlw, y0, cols.At(sc)+dims.ColumnWidth(sc)+vlw-1, y1)
	}
	return core.RectFromEdges(cols.At(sc)-vlw, y0, cols.At(ec)+dims.ColumnWidth(ec)+vlw-1, y1)
}

// clearUnused fills the canvas outside the drawn content with the
// background so a shrinking grid leaves nothing stale behind.
func (r *Renderer) clearUnused() {
	e := r.eng
	canvas := r.canvas.Rect()
	if !canvas.IsValid() {
		return
	}
	blank := core.BlankCell(r.opts.Theme.BaseStyle())

	content := r.regionRect(e.ScreenRegion())
	if !content.IsValid() {
		r.canvas.Fill(canvas, blank)
		r.record(OpClear, core.InvalidCell, canvas)
		return
	}

	strips := []core.Rect{
		core.RectFromEdges(canvas.X, canvas.Y, canvas.Right(), content.Y-1),
		core.RectFromEdges(canvas.X, content.Bottom()+1, canvas.Right(), canvas.Bottom()),
		core.RectFromEdges(canvas.X, content.Y, content.X-1, content.Bottom()),
		core.RectFromEdges(content.Right()+1, content.Y, canvas.Right(), content.Bottom()),
	}
	for _, s := range strips {
		s = s.Intersect(canvas)
		if !s.IsValid() {
			continue
		}
		r.canvas.Fill(s, blank)
		r.record(OpClear, core.InvalidCell, s)
	}
}
