package table

import (
	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/layout"
	"github.com/dshills/tablegrid/internal/grid/traverse"
)

// TopRow returns the first row of the scrolling pane.
func (g *Grid) TopRow() int { return g.main.eng.TopRow() }

// LeftColumn returns the first column of the scrolling pane.
func (g *Grid) LeftColumn() int { return g.main.eng.LeftColumn() }

// ScrollTo makes row and col the top-left cell of the scrolling pane. The
// position is clamped to the viewport and to the last page; hidden
// indices move to the next shown one.
func (g *Grid) ScrollTo(row, col int) {
	eng := g.main.eng
	vp := eng.CurrentViewport()
	if vp.IsEmpty() {
		vp = eng.Viewport()
		row, col = vp.StartRow, vp.StartCol
	} else {
		pageRow, pageCol := eng.LastPage()
		row = min(max(row, vp.StartRow), max(pageRow, vp.StartRow))
		col = min(max(col, vp.StartCol), max(pageCol, vp.StartCol))
		if r := eng.FirstNonHiddenRow(row, vp.EndRow); r >= 0 {
			row = r
		} else if r := eng.LastNonHiddenRow(vp.StartRow, row); r >= 0 {
			row = r
		}
		if c := eng.FirstNonHiddenColumn(col, vp.EndCol); c >= 0 {
			col = c
		} else if c := eng.LastNonHiddenColumn(vp.StartCol, col); c >= 0 {
			col = c
		}
	}

	if row == eng.TopRow() && col == eng.LeftColumn() {
		return
	}
	g.log.Debug("table: scroll to %d,%d", row, col)
	eng.SetTopRow(row)
	eng.SetLeftColumn(col)
	g.syncFrozen()
	for _, p := range g.panes {
		p.eng.Layout()
	}
	g.RedrawAll()
}

// ScrollBy scrolls by rows and cols, which may be negative.
func (g *Grid) ScrollBy(rows, cols int) {
	g.ScrollTo(g.main.eng.TopRow()+rows, g.main.eng.LeftColumn()+cols)
}

// clampScroll re-applies the clamping of ScrollTo to the current position.
func (g *Grid) clampScroll() {
	g.ScrollTo(g.main.eng.TopRow(), g.main.eng.LeftColumn())
	g.syncFrozen()
}

// syncFrozen scrolls the frozen panes along with the scrolling pane.
func (g *Grid) syncFrozen() {
	if g.top != nil {
		g.top.eng.SetLeftColumn(g.main.eng.LeftColumn())
	}
	if g.left != nil {
		g.left.eng.SetTopRow(g.main.eng.TopRow())
	}
}

// applyScroll carries out a scroll request from the navigator.
func (g *Grid) applyScroll(r traverse.ScrollRequest) {
	top, left := g.main.eng.TopRow(), g.main.eng.LeftColumn()
	switch r.Direction {
	case traverse.ScrollUp:
		g.ScrollTo(top-r.Amount, left)
	case traverse.ScrollDown:
		g.ScrollTo(top+r.Amount, left)
	case traverse.ScrollLeft:
		g.ScrollTo(top, left-r.Amount)
	case traverse.ScrollRight:
		g.ScrollTo(top, left+r.Amount)
	case traverse.ScrollToRow:
		g.ScrollTo(r.Target, left)
	case traverse.ScrollToColumn:
		g.ScrollTo(top, r.Target)
	}
}

// prepare brings pane placement and every layout up to date before the
// navigator reads them.
func (g *Grid) prepare() {
	if g.needArrange {
		g.arrange()
	}
	for _, p := range g.panes {
		p.eng.Layout()
	}
}

// paneAt returns the pane containing the grid pixel x, y.
func (g *Grid) paneAt(x, y int) *pane {
	for i := len(g.panes) - 1; i >= 0; i-- {
		if g.panes[i].rect.Contains(x, y) {
			return g.panes[i]
		}
	}
	return nil
}

// CellAt returns the cell under the grid pixel x, y. With nearest set, a
// point outside the grid resolves to the closest cell of the scrolling
// pane. It returns core.InvalidCell when no cell is there.
func (g *Grid) CellAt(x, y int, nearest bool) core.CellAddress {
	if g.needArrange {
		g.arrange()
	}
	p := g.paneAt(x, y)
	if p == nil {
		if !nearest {
			return core.InvalidCell
		}
		p = g.main
	}
	return g.paneCellAt(p, x, y, nearest)
}

func (g *Grid) paneCellAt(p *pane, x, y int, nearest bool) core.CellAddress {
	lx, ly := x-p.rect.X, y-p.rect.Y
	cell := p.eng.CellAt(lx, ly, nearest)
	if cell.Row == layout.Inconsistent {
		g.log.Debug("table: %s pane layout inconsistent at %d,%d, recomputing", p.name, x, y)
		p.eng.Layout()
		cell = p.eng.CellAt(lx, ly, nearest)
		if cell.Row == layout.Inconsistent {
			return core.InvalidCell
		}
	}
	return cell
}

// CellRect returns the pixel rectangle of a cell in grid coordinates, or
// core.InvalidRect when it is not on screen.
func (g *Grid) CellRect(row, col int) core.Rect {
	for _, p := range g.panes {
		if !p.eng.Viewport().Contains(row, col) {
			continue
		}
		p.eng.Layout()
		r := p.eng.CellDimensions(row, col, true)
		if !r.IsValid() {
			return core.InvalidRect
		}
		r.X += p.rect.X
		r.Y += p.rect.Y
		return r
	}
	return core.InvalidRect
}
