package table

import (
	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/dimension"
	"github.com/dshills/tablegrid/internal/grid/model"
	"github.com/dshills/tablegrid/internal/grid/selection"
	"github.com/dshills/tablegrid/internal/grid/span"
	"github.com/dshills/tablegrid/internal/grid/style"
)

// subscribe connects the grid to its services and, when the model reports
// changes, to the model.
func (g *Grid) subscribe() {
	id := g.dims.Subscribe(g.handleDimensionChange)
	g.unsubscribe = append(g.unsubscribe, func() { g.dims.Unsubscribe(id) })

	sid := g.spans.Subscribe(g.handleSpanChange)
	g.unsubscribe = append(g.unsubscribe, func() { g.spans.Unsubscribe(sid) })

	pid := g.styles.Subscribe(g.HandlePropertyChange)
	g.unsubscribe = append(g.unsubscribe, func() { g.styles.Unsubscribe(pid) })

	cid := g.sel.Subscribe(g.handleSelectionChange)
	g.unsubscribe = append(g.unsubscribe, func() { g.sel.Unsubscribe(cid) })

	g.subscribeModel()
}

func (g *Grid) subscribeModel() {
	obs, ok := g.data.(model.Observable)
	if !ok {
		return
	}
	id := obs.Subscribe(g.HandleModelChange)
	g.unsubscribe = append(g.unsubscribe, func() { obs.Unsubscribe(id) })
	g.modelUnsub = len(g.unsubscribe) - 1
}

// SetModel replaces the data model. Spans, selections and the current
// cell are reset.
func (g *Grid) SetModel(m model.Model) {
	if m == nil {
		m = model.Sized{}
	}
	if g.modelUnsub >= 0 {
		g.unsubscribe[g.modelUnsub]()
		g.unsubscribe[g.modelUnsub] = func() {}
		g.modelUnsub = -1
	}
	g.order = model.NewOrdered(m)
	g.data = g.order
	for _, p := range g.panes {
		p.eng.SetModel(g.data)
	}
	g.sel.SetBounds(g.data)
	g.subscribeModel()
	g.reset()
}

// reset drops everything tied to model indices.
func (g *Grid) reset() {
	g.spans.RemoveAll()
	g.sel.Clear()
	g.nav.SetCurrent(core.InvalidCell)
	g.ScrollTo(0, 0)
	g.needArrange = true
	g.RedrawAll()
}

// HandleModelChange keeps spans, sizes, selections and the current cell
// in step with a model change.
func (g *Grid) HandleModelChange(c model.Change) {
	g.log.Debug("table: model %s start=%d count=%d", c.Kind, c.Start, c.Count)

	switch c.Kind {
	case model.CellsChanged:
		g.Redraw(c.Region)
		return

	case model.RowsInserted:
		g.spans.InsertRows(c.Count, c.Start)
		g.dims.InsertRows(c.Count, c.Start)
		g.sel.InsertRows(c.Count, c.Start)
		g.shiftCurrent(core.RowIndex, c.Start, c.Count)

	case model.RowsDeleted:
		g.spans.DeleteRows(c.Count, c.Start)
		g.dims.DeleteRows(c.Count, c.Start)
		g.sel.DeleteRows(c.Count, c.Start)
		g.shiftCurrent(core.RowIndex, c.Start, -c.Count)

	case model.ColumnsInserted:
		g.spans.InsertColumns(c.Count, c.Start)
		g.dims.InsertColumns(c.Count, c.Start)
		g.sel.InsertColumns(c.Count, c.Start)
		g.shiftCurrent(core.ColumnIndex, c.Start, c.Count)

	case model.ColumnsDeleted:
		g.spans.DeleteColumns(c.Count, c.Start)
		g.dims.DeleteColumns(c.Count, c.Start)
		g.sel.DeleteColumns(c.Count, c.Start)
		g.shiftCurrent(core.ColumnIndex, c.Start, -c.Count)

	case model.ModelReset:
		g.reset()
		return
	}

	for _, p := range g.panes {
		p.eng.MarkStale(core.BothIndex)
	}
	g.needArrange = true
	g.RedrawAll()
}

// shiftCurrent moves the current cell with an insertion (delta > 0) or
// deletion (delta < 0) at start. A deleted current cell moves to the
// nearest remaining index.
func (g *Grid) shiftCurrent(axis core.IndexType, start, delta int) {
	cur := g.nav.Current()
	if !cur.IsValid() {
		return
	}
	i := cur.Row
	if axis == core.ColumnIndex {
		i = cur.Col
	}
	switch {
	case i < start:
		return
	case delta > 0:
		i += delta
	case i < start-delta:
		i = start
	default:
		i += delta
	}

	last := g.lastRow()
	if axis == core.ColumnIndex {
		last = g.lastColumn()
	}
	if last < 0 {
		g.nav.SetCurrent(core.InvalidCell)
		return
	}
	i = min(i, last)
	if axis == core.RowIndex {
		cur.Row = i
	} else {
		cur.Col = i
	}
	g.nav.SetCurrent(cur)
}

func (g *Grid) handleDimensionChange(c dimension.Change) {
	for _, p := range g.panes {
		if c.Axis.HasRows() {
			p.eng.RowsChanged(c.Start, c.Count)
		}
		if c.Axis.HasColumns() {
			p.eng.ColumnsChanged(c.Start, c.Count)
		}
	}
	if !g.arranging {
		g.needArrange = true
	}
	g.RedrawAll()
}

func (g *Grid) handleSpanChange(c span.Change) {
	for _, p := range g.panes {
		p.eng.MarkStale(core.BothIndex)
	}
	g.RedrawAll()
}

// HandlePropertyChange reacts to a cell property change. Changes that
// affect geometry recompute the layout and repaint everything; selection
// and tooltip changes need nothing; anything else repaints the region.
func (g *Grid) HandlePropertyChange(c style.PropertyChange) {
	geometry := false
	for _, p := range g.panes {
		if p.eng.CellPropertyChanged(c.Region, c.Property) {
			geometry = true
		}
	}
	switch {
	case geometry:
		g.RedrawAll()
	case c.Property == style.PropSelected, c.Property == style.PropToolTip:
	default:
		g.Redraw(c.Region)
	}
}

func (g *Grid) handleSelectionChange(c selection.Change) {
	g.Redraw(c.Region)
}

func (g *Grid) currentChanged(prev, cur core.CellAddress) {
	if prev.IsValid() {
		g.Redraw(g.cellRegion(prev))
	}
	if cur.IsValid() {
		g.Redraw(g.cellRegion(cur))
	}
}

// cellRegion returns the span containing cell, or the cell itself.
func (g *Grid) cellRegion(cell core.CellAddress) core.Region {
	if sp, _, ok := g.spans.InsideSpan(cell.Row, cell.Col); ok {
		return sp
	}
	return core.CellRegion(cell.Row, cell.Col)
}

// selectCell replaces the selection with cell. It backs
// select-on-traverse.
func (g *Grid) selectCell(cell core.CellAddress) {
	g.sel.Process(selection.Begin, cell, cell)
	g.sel.Process(selection.End, cell, cell)
}

// SetLineWidths changes the grid line widths of every pane.
func (g *Grid) SetLineWidths(horizontal, vertical int) {
	horizontal, vertical = max(horizontal, 0), max(vertical, 0)
	g.opts.HorizontalLineWidth, g.opts.VerticalLineWidth = horizontal, vertical
	g.dims.SetLineWidths(horizontal, vertical)
	for _, p := range g.panes {
		p.eng.SetLineWidths(horizontal, vertical)
	}
	g.needArrange = true
	g.RedrawAll()
}

// SetDirection changes the horizontal layout direction.
func (g *Grid) SetDirection(d core.Direction) {
	if g.opts.Direction == d {
		return
	}
	g.opts.Direction = d
	for _, p := range g.panes {
		p.eng.SetDirection(d)
	}
	g.needArrange = true
	g.RedrawAll()
}

// Apply changes the grid options in place. Geometry options rebuild the
// frozen panes; render options repaint.
func (g *Grid) Apply(opts Options) {
	old := g.opts
	if opts.MaxOverflowCells < 0 {
		opts.MaxOverflowCells = 0
	}

	if opts.HorizontalLineWidth != old.HorizontalLineWidth || opts.VerticalLineWidth != old.VerticalLineWidth {
		g.SetLineWidths(opts.HorizontalLineWidth, opts.VerticalLineWidth)
	}
	if opts.Direction != old.Direction {
		g.SetDirection(opts.Direction)
	}
	if opts.Policy != old.Policy {
		g.sel.SetPolicy(opts.Policy)
	}
	g.nav.SetSelectOnTraverse(opts.SelectOnTraverse)
	g.auto.SetInterval(opts.AutoScrollInterval)

	if opts.StretchLastColumn != old.StretchLastColumn && !opts.StretchLastColumn {
		if last := g.lastColumn(); last >= 0 {
			g.dims.SetStretchable(core.ColumnIndex, last, false)
		}
	}

	frozen := opts.FrozenRows != old.FrozenRows || opts.FrozenColumns != old.FrozenColumns
	keep := g.opts
	g.opts = opts
	g.opts.HorizontalLineWidth = keep.HorizontalLineWidth
	g.opts.VerticalLineWidth = keep.VerticalLineWidth
	g.opts.Direction = keep.Direction

	ro := g.opts.renderOptions()
	for _, p := range g.panes {
		p.rend.SetOptions(ro)
	}
	if frozen {
		g.buildPanes()
		g.clampScroll()
	}
	g.needArrange = true
	g.RedrawAll()
}
