// Package table assembles a complete grid out of the layout, render,
// selection and traversal engines.
//
// A Grid owns the dimension, span and style services for one model and
// keeps every engine in step with them: model insertions shift spans,
// sizes, selections and the current cell; property changes turn into a
// recompute, a redraw or nothing. Frozen rows and columns are separate
// panes, each with its own layout engine and renderer over the same
// services. Input arrives as backend events and is translated into
// selection gestures, traversals and scrolls.
//
// A Grid is not safe for concurrent use. The AutoScroller hands its ticks
// over a channel so they can be applied on the grid's goroutine.
package table

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/dimension"
	"github.com/dshills/tablegrid/internal/grid/layout"
	"github.com/dshills/tablegrid/internal/grid/model"
	"github.com/dshills/tablegrid/internal/grid/render"
	"github.com/dshills/tablegrid/internal/grid/selection"
	"github.com/dshills/tablegrid/internal/grid/span"
	"github.com/dshills/tablegrid/internal/grid/style"
	"github.com/dshills/tablegrid/internal/grid/traverse"
)

// Options configures a Grid.
type Options struct {
	Overflow         bool
	MaxOverflowCells int
	GridLines        bool

	HorizontalLineWidth int
	VerticalLineWidth   int
	DefaultRowHeight    int
	DefaultColumnWidth  int

	Direction core.Direction

	FrozenRows    int
	FrozenColumns int

	Policy           selection.Policy
	SelectOnTraverse bool

	AutoScrollInterval time.Duration
	StretchLastColumn  bool

	Theme style.Theme
}

// DefaultOptions returns overflow on, single-width grid lines, multiple
// selection and the default theme.
func DefaultOptions() Options {
	do := dimension.DefaultOptions()
	return Options{
		Overflow:            true,
		MaxOverflowCells:    10,
		GridLines:           true,
		HorizontalLineWidth: do.HorizontalLineWidth,
		VerticalLineWidth:   do.VerticalLineWidth,
		DefaultRowHeight:    do.DefaultRowHeight,
		DefaultColumnWidth:  do.DefaultColumnWidth,
		Policy:              selection.SelectMultiple,
		AutoScrollInterval:  DefaultAutoScrollInterval,
		Theme:               style.DefaultTheme(),
	}
}

func (o Options) renderOptions() render.Options {
	return render.Options{
		Overflow:         o.Overflow,
		MaxOverflowCells: o.MaxOverflowCells,
		GridLines:        o.GridLines,
		Theme:            o.Theme,
	}
}

// pane is one independently scrolled part of the grid.
type pane struct {
	name string
	eng  *layout.Engine
	rend *render.Renderer
	rect core.Rect
}

// Grid is a scrollable table view over a model.
type Grid struct {
	ID uuid.UUID

	opts   Options
	order  *model.Ordered
	data   model.Model
	dims   *dimension.Manager
	spans  *span.Manager
	styles *style.Store
	sel    *selection.Manager
	nav    *traverse.Navigator
	auto   *AutoScroller
	log    core.Logger

	main   *pane
	top    *pane
	left   *pane
	corner *pane
	panes  []*pane

	width, height int
	needArrange   bool
	arranging     bool

	unsubscribe []func()
	modelUnsub  int
	onRepaint   func()

	gesture gestureState
}

// New creates a grid over data. A nil model is an empty grid; use
// SetModel to replace it.
func New(data model.Model, opts Options) *Grid {
	if data == nil {
		data = model.Sized{}
	}
	if opts.MaxOverflowCells < 0 {
		opts.MaxOverflowCells = 0
	}
	do := dimension.DefaultOptions()
	if opts.DefaultRowHeight > 0 {
		do.DefaultRowHeight = opts.DefaultRowHeight
	}
	if opts.DefaultColumnWidth > 0 {
		do.DefaultColumnWidth = opts.DefaultColumnWidth
	}
	do.HorizontalLineWidth = max(opts.HorizontalLineWidth, 0)
	do.VerticalLineWidth = max(opts.VerticalLineWidth, 0)

	order := model.NewOrdered(data)
	g := &Grid{
		ID:     uuid.New(),
		opts:   opts,
		order:  order,
		data:   order,
		dims:   dimension.NewManager(do),
		spans:  span.NewManager(),
		styles: style.NewStore(),
		auto:   NewAutoScroller(opts.AutoScrollInterval),
		log:    core.NopLogger(),

		modelUnsub: -1,
	}
	g.sel = selection.NewManager(g.bounds(), opts.Policy)
	g.main = g.newPane("main", g.mainViewport(), false)
	g.nav = traverse.New(g.main.eng, g.styles)
	g.nav.SetSelectOnTraverse(opts.SelectOnTraverse)
	g.nav.OnScrollRequest(g.applyScroll)
	g.nav.OnCurrentChanged(g.currentChanged)
	g.nav.OnSelect(g.selectCell)
	g.gesture.reset()

	g.buildPanes()
	g.subscribe()
	return g
}

// SetLogger sets the logger used by the grid and its engines.
func (g *Grid) SetLogger(l core.Logger) {
	if l == nil {
		l = core.NopLogger()
	}
	g.log = l
	g.sel.SetLogger(l)
	g.nav.SetLogger(l)
	for _, p := range g.panes {
		p.rend.SetLogger(l)
	}
}

// OnRepaintRequest registers fn to be called when the grid needs to be
// painted again outside of normal input handling.
func (g *Grid) OnRepaintRequest(fn func()) { g.onRepaint = fn }

// Options returns the grid options.
func (g *Grid) Options() Options { return g.opts }

// Model returns the data model.
func (g *Grid) Model() model.Model { return g.order.Base() }

// Ordering returns the visual order of the model's rows and columns.
// Every other index the grid takes or reports is a visual index.
func (g *Grid) Ordering() *model.Ordered { return g.order }

// Dimensions returns the dimension service.
func (g *Grid) Dimensions() *dimension.Manager { return g.dims }

// Spans returns the span service.
func (g *Grid) Spans() *span.Manager { return g.spans }

// Styles returns the style store.
func (g *Grid) Styles() *style.Store { return g.styles }

// Selection returns the selection manager.
func (g *Grid) Selection() *selection.Manager { return g.sel }

// Navigator returns the traversal engine.
func (g *Grid) Navigator() *traverse.Navigator { return g.nav }

// AutoScroller returns the drag auto-scroller.
func (g *Grid) AutoScroller() *AutoScroller { return g.auto }

// Engine returns the layout engine of the scrolling pane.
func (g *Grid) Engine() *layout.Engine { return g.main.eng }

// Renderer returns the renderer of the scrolling pane.
func (g *Grid) Renderer() *render.Renderer { return g.main.rend }

// IsCellSelected implements render.Highlighter.
func (g *Grid) IsCellSelected(row, col int) bool { return g.sel.IsCellSelected(row, col) }

// CurrentCell implements render.Highlighter.
func (g *Grid) CurrentCell() core.CellAddress { return g.nav.Current() }

// Close releases subscriptions and stops the auto-scroller.
func (g *Grid) Close() {
	g.auto.Stop()
	for _, fn := range g.unsubscribe {
		fn()
	}
	g.unsubscribe = nil
}

func (g *Grid) bounds() selection.Bounds { return g.data }

func (g *Grid) lastRow() int    { return g.data.LastRow() }
func (g *Grid) lastColumn() int { return g.data.LastColumn() }

func (g *Grid) newPane(name string, vp core.Region, frozen bool) *pane {
	lo := layout.DefaultOptions()
	lo.HorizontalLineWidth = g.dims.Options().HorizontalLineWidth
	lo.VerticalLineWidth = g.dims.Options().VerticalLineWidth
	lo.Direction = g.opts.Direction
	lo.Viewport = vp
	lo.Capabilities = layout.Capabilities{IsFrozenPane: frozen, ProvidesEditing: !frozen}

	eng := layout.New(g.dims, g.spans, g.data, lo)
	eng.SetTopRow(vp.StartRow)
	eng.SetLeftColumn(vp.StartCol)

	r := render.New(eng, g.styles, g.opts.renderOptions())
	r.SetHighlighter(g)
	r.SetLogger(g.log)
	r.OnRepaintRequest(g.requestRepaint)
	return &pane{name: name, eng: eng, rend: r, rect: core.Rect{}}
}

func (g *Grid) mainViewport() core.Region {
	return core.NewRegion(max(g.opts.FrozenRows, 0), max(g.opts.FrozenColumns, 0), core.LastRow, core.LastColumn)
}

// buildPanes creates the frozen panes the options ask for. Panes are
// painted in slice order, so the frozen ones draw over the main pane's
// edge lines.
func (g *Grid) buildPanes() {
	fr, fc := max(g.opts.FrozenRows, 0), max(g.opts.FrozenColumns, 0)

	vp := g.mainViewport()
	g.main.eng.SetViewport(vp)
	g.main.eng.SetTopRow(max(g.main.eng.TopRow(), vp.StartRow))
	g.main.eng.SetLeftColumn(max(g.main.eng.LeftColumn(), vp.StartCol))

	g.top, g.left, g.corner = nil, nil, nil
	g.panes = []*pane{g.main}
	if fr > 0 {
		g.top = g.newPane("top", core.NewRegion(0, fc, fr-1, core.LastColumn), true)
		g.top.eng.SetLeftColumn(g.main.eng.LeftColumn())
		g.panes = append(g.panes, g.top)
	}
	if fc > 0 {
		g.left = g.newPane("left", core.NewRegion(fr, 0, core.LastRow, fc-1), true)
		g.left.eng.SetTopRow(g.main.eng.TopRow())
		g.panes = append(g.panes, g.left)
	}
	if fr > 0 && fc > 0 {
		g.corner = g.newPane("corner", core.NewRegion(0, 0, fr-1, fc-1), true)
		g.panes = append(g.panes, g.corner)
	}
	g.needArrange = true
}

// SetFrozen changes the number of frozen rows and columns.
func (g *Grid) SetFrozen(rows, cols int) {
	rows, cols = max(rows, 0), max(cols, 0)
	if rows == g.opts.FrozenRows && cols == g.opts.FrozenColumns {
		return
	}
	g.opts.FrozenRows, g.opts.FrozenColumns = rows, cols
	g.buildPanes()
	g.RedrawAll()
}

// Resize sets the pixel size of the whole grid.
func (g *Grid) Resize(width, height int) {
	g.width, g.height = max(width, 0), max(height, 0)
	g.arrange()
}

// Size returns the pixel size of the grid.
func (g *Grid) Size() (width, height int) { return g.width, g.height }

// frozenExtent returns the pixel size of the frozen rows and columns,
// outer grid lines included, or zero when none are frozen.
func (g *Grid) frozenExtent() (h, w int) {
	hlw, vlw := g.main.eng.HorizontalLineWidth(), g.main.eng.VerticalLineWidth()
	if fr := g.opts.FrozenRows; fr > 0 {
		h = min(hlw+g.dims.RegionHeight(core.NewRegion(0, 0, fr-1, 0))+hlw, g.height)
	}
	if fc := g.opts.FrozenColumns; fc > 0 {
		w = min(vlw+g.dims.RegionWidth(core.NewRegion(0, 0, 0, fc-1))+vlw, g.width)
	}
	return h, w
}

// arrange places the panes. The main pane overlaps the frozen panes by
// one grid line so the separating line is drawn once.
func (g *Grid) arrange() {
	if g.arranging {
		return
	}
	g.arranging = true
	defer func() { g.arranging = false }()
	g.needArrange = false

	hlw, vlw := g.main.eng.HorizontalLineWidth(), g.main.eng.VerticalLineWidth()
	fh, fw := g.frozenExtent()
	y0 := max(fh-hlw, 0)
	x0 := max(fw-vlw, 0)
	mainW, mainH := g.width-x0, g.height-y0

	rtl := g.opts.Direction == core.RightToLeft
	mainX, frozenX := x0, 0
	if rtl {
		mainX, frozenX = 0, g.width-fw
	}

	g.place(g.main, core.NewRect(mainX, y0, mainW, mainH))
	if g.top != nil {
		g.place(g.top, core.NewRect(mainX, 0, mainW, fh))
	}
	if g.left != nil {
		g.place(g.left, core.NewRect(frozenX, y0, fw, mainH))
	}
	if g.corner != nil {
		g.place(g.corner, core.NewRect(frozenX, 0, fw, fh))
	}

	if g.opts.StretchLastColumn {
		g.stretchLastColumn(mainW)
	}
}

func (g *Grid) place(p *pane, r core.Rect) {
	r.W, r.H = max(r.W, 0), max(r.H, 0)
	if p.rect == r {
		return
	}
	p.rect = r
	p.rend.Resize(r.W, r.H)
}

// stretchLastColumn widens the last column so the columns of the main
// pane fill its width. It never narrows the column below its default.
func (g *Grid) stretchLastColumn(width int) {
	last := g.lastColumn()
	first := max(g.opts.FrozenColumns, 0)
	if last < first || g.dims.IsColumnHidden(last) {
		return
	}
	vlw := g.main.eng.VerticalLineWidth()
	want := width - 2*vlw
	if last > first {
		want -= g.dims.RegionWidth(core.NewRegion(0, first, 0, last-1)) + vlw
	}
	g.dims.SetStretchable(core.ColumnIndex, last, true)
	g.dims.Stretch(core.ColumnIndex, last, last, max(want, g.dims.Options().DefaultColumnWidth))
}

// Paint brings every pane up to date and copies what changed to dst,
// which may be nil. It returns the painted area in grid coordinates.
func (g *Grid) Paint(dst core.Surface) core.Rect {
	if g.needArrange {
		g.arrange()
	}
	painted := core.InvalidRect
	for _, p := range g.panes {
		var s core.Surface
		if dst != nil {
			s = paneSurface{dst: dst, rect: p.rect}
		}
		r := p.rend.Paint(s)
		if !r.IsValid() {
			continue
		}
		r.X += p.rect.X
		r.Y += p.rect.Y
		painted = painted.Union(r)
	}
	return painted
}

// NeedsPaint reports whether any pane has pending changes.
func (g *Grid) NeedsPaint() bool {
	if g.needArrange {
		return true
	}
	for _, p := range g.panes {
		if p.rend.Tracker().IsDirty() {
			return true
		}
	}
	return false
}

// RedrawAll schedules a full repaint of every pane.
func (g *Grid) RedrawAll() {
	for _, p := range g.panes {
		p.rend.RedrawAll()
	}
}

// Redraw schedules a repaint of region in every pane showing it.
func (g *Grid) Redraw(region core.Region) {
	if region.IsEmpty() {
		return
	}
	if region.IsValid() {
		region = region.Clamp(g.lastRow(), g.lastColumn())
		if region.IsEmpty() {
			return
		}
	}
	for _, p := range g.panes {
		p.rend.Redraw(region)
	}
}

func (g *Grid) requestRepaint() {
	if g.onRepaint != nil {
		g.onRepaint()
	}
}

// paneSurface translates a pane's canvas coordinates into the grid's and
// clips to the pane.
type paneSurface struct {
	dst  core.Surface
	rect core.Rect
}

func (s paneSurface) SetCell(x, y int, c core.Cell) {
	if x < 0 || y < 0 || x >= s.rect.W || y >= s.rect.H {
		return
	}
	s.dst.SetCell(s.rect.X+x, s.rect.Y+y, c)
}

func (s paneSurface) Fill(r core.Rect, c core.Cell) {
	r = r.Intersect(core.NewRect(0, 0, s.rect.W, s.rect.H))
	if !r.IsValid() {
		return
	}
	r.X += s.rect.X
	r.Y += s.rect.Y
	s.dst.Fill(r, c)
}
