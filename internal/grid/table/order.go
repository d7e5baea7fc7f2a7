package table

import (
	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/model"
	"github.com/dshills/tablegrid/internal/grid/selection"
)

// SortRows orders the rows by the values in visual column col. Sizes,
// styles, selections and the current cell follow their rows; spans whose
// rows no longer sit together are removed.
func (g *Grid) SortRows(col int, order model.SortOrder) {
	g.reorder(core.RowIndex, g.order.Sort(core.RowIndex, col, order))
}

// SortColumns orders the columns by the values in visual row row.
func (g *Grid) SortColumns(row int, order model.SortOrder) {
	g.reorder(core.ColumnIndex, g.order.Sort(core.ColumnIndex, row, order))
}

// MoveRows moves the given visual rows, kept in ascending order, so they
// are shown before visual row target.
func (g *Grid) MoveRows(target int, rows ...int) {
	g.reorder(core.RowIndex, g.order.Move(core.RowIndex, target, rows))
}

// MoveColumns moves the given visual columns before visual column target.
func (g *Grid) MoveColumns(target int, cols ...int) {
	g.reorder(core.ColumnIndex, g.order.Move(core.ColumnIndex, target, cols))
}

// ResetOrder shows rows and columns in model order again.
func (g *Grid) ResetOrder() {
	g.reorder(core.RowIndex, g.order.Reset(core.RowIndex))
	g.reorder(core.ColumnIndex, g.order.Reset(core.ColumnIndex))
}

// reorder carries everything keyed by visual index along axis through
// vismap, which maps each old index to its new one.
func (g *Grid) reorder(axis core.IndexType, vismap []int) {
	if vismap == nil {
		return
	}
	g.log.Debug("table: reorder %s over %d lines", axis, len(vismap))

	if g.gesture.dragging {
		g.auto.Stop()
		g.gesture.dragging = false
		g.sel.Process(selection.End, g.gesture.anchor, g.gesture.last)
	}
	g.gesture.reset()

	g.remapSpans(axis, vismap)
	g.dims.Remap(axis, vismap)
	g.styles.Remap(axis, vismap)
	g.sel.Remap(axis, vismap)

	if cur := g.nav.Current(); cur.IsValid() {
		if axis == core.ColumnIndex {
			cur.Col = remapIndex(vismap, cur.Col)
		} else {
			cur.Row = remapIndex(vismap, cur.Row)
		}
		g.nav.SetCurrent(cur)
	}

	for _, p := range g.panes {
		p.eng.MarkStale(core.BothIndex)
	}
	g.needArrange = true
	g.RedrawAll()
}

// remapSpans moves a span whose lines stay adjacent and in order, and
// removes the others. All moved spans are taken out before any is put
// back so that two spans trading places never overlap.
func (g *Grid) remapSpans(axis core.IndexType, vismap []int) {
	var moved []core.Region
	for _, r := range g.spans.Spans() {
		lo, hi := r.StartRow, r.EndRow
		if axis == core.ColumnIndex {
			lo, hi = r.StartCol, r.EndCol
		}
		to := remapIndex(vismap, lo)
		together := true
		for i := lo + 1; i <= hi; i++ {
			if remapIndex(vismap, i) != to+i-lo {
				together = false
				break
			}
		}
		if to == lo && together {
			continue
		}
		g.spans.Remove(r.StartRow, r.StartCol)
		if !together {
			g.log.Debug("table: dropping span %v split by reorder", r)
			continue
		}
		if axis == core.ColumnIndex {
			r.StartCol, r.EndCol = to, to+hi-lo
		} else {
			r.StartRow, r.EndRow = to, to+hi-lo
		}
		moved = append(moved, r)
	}
	for _, r := range moved {
		g.spans.Add(r)
	}
}

func remapIndex(vismap []int, i int) int {
	if i >= 0 && i < len(vismap) {
		return vismap[i]
	}
	return i
}
