// Package traverse moves the current cell of a grid.
//
// Moves walk cell by cell from the current cell and land on the first
// cell that is enabled and not hidden, jumping over merged cells as a
// whole. Each move remembers the index it started from on the other
// axis, so a vertical walk through a span returns to its column
// afterwards. When the new current cell is not fully on screen the
// Navigator emits scroll requests; it never scrolls the layout itself.
package traverse

import (
	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/layout"
)

// ScrollDirection is the kind of a scroll request.
type ScrollDirection uint8

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
	ScrollLeft
	ScrollRight
	ScrollToRow
	ScrollToColumn
)

// String returns the direction name.
func (d ScrollDirection) String() string {
	switch d {
	case ScrollUp:
		return "up"
	case ScrollDown:
		return "down"
	case ScrollLeft:
		return "left"
	case ScrollRight:
		return "right"
	case ScrollToRow:
		return "to-row"
	case ScrollToColumn:
		return "to-column"
	default:
		return "unknown"
	}
}

// ScrollRequest asks the owner to scroll. Relative requests use Amount;
// ScrollToRow and ScrollToColumn put Target at the top or left edge.
type ScrollRequest struct {
	Direction ScrollDirection
	Amount    int
	Target    int
}

// Enabler reports whether a cell may become current.
type Enabler interface {
	Enabled(row, col int) bool
}

// Navigator tracks the current cell and moves it.
type Navigator struct {
	eng     *layout.Engine
	enabled Enabler
	log     core.Logger

	current core.CellAddress

	// Traversal anchors; -1 when unset.
	travRow int
	travCol int

	selectOnTraverse bool

	onScroll  func(ScrollRequest)
	onCurrent func(prev, cur core.CellAddress)
	onSelect  func(core.CellAddress)
}

// New creates a navigator with no current cell. A nil enabled treats
// every cell as enabled.
func New(eng *layout.Engine, enabled Enabler) *Navigator {
	return &Navigator{
		eng:     eng,
		enabled: enabled,
		log:     core.NopLogger(),
		current: core.InvalidCell,
		travRow: -1,
		travCol: -1,
	}
}

// SetLogger sets the logger.
func (n *Navigator) SetLogger(l core.Logger) {
	if l == nil {
		l = core.NopLogger()
	}
	n.log = l
}

// OnScrollRequest registers the scroll request handler.
func (n *Navigator) OnScrollRequest(fn func(ScrollRequest)) { n.onScroll = fn }

// OnCurrentChanged registers a handler called when the current cell moves.
func (n *Navigator) OnCurrentChanged(fn func(prev, cur core.CellAddress)) { n.onCurrent = fn }

// OnSelect registers the handler that selects a cell reached by
// traversal when select-on-traverse is on.
func (n *Navigator) OnSelect(fn func(core.CellAddress)) { n.onSelect = fn }

// SetSelectOnTraverse sets whether moves select the cell they land on.
func (n *Navigator) SetSelectOnTraverse(on bool) { n.selectOnTraverse = on }

// Current returns the current cell, or core.InvalidCell.
func (n *Navigator) Current() core.CellAddress { return n.current }

// CurrentCell implements the renderer's highlighter.
func (n *Navigator) CurrentCell() core.CellAddress { return n.current }

// SetCurrent moves the current cell without scrolling and clears the
// traversal anchors.
func (n *Navigator) SetCurrent(cell core.CellAddress) {
	n.travRow, n.travCol = -1, -1
	n.setCurrent(cell)
}

// Anchors returns the traversal anchors, -1 when unset.
func (n *Navigator) Anchors() (row, col int) { return n.travRow, n.travCol }

func (n *Navigator) setCurrent(cell core.CellAddress) {
	prev := n.current
	if prev == cell {
		return
	}
	n.current = cell
	if n.onCurrent != nil {
		n.onCurrent(prev, cell)
	}
}

func (n *Navigator) emit(r ScrollRequest) {
	n.log.Debug("traverse: scroll %s amount=%d target=%d", r.Direction, r.Amount, r.Target)
	if n.onScroll != nil {
		n.onScroll(r)
	}
}

// CanTraverseToCell reports whether the cell may become current.
func (n *Navigator) CanTraverseToCell(row, col int) bool {
	if !n.eng.IsCellValid(row, col) {
		return false
	}
	return n.enabled == nil || n.enabled.Enabled(row, col)
}

// TraverseToCell makes the cell current and scrolls it fully into view.
// A cell inside a span resolves to the span's anchor. With selectCell the
// select handler is called for the new cell. It reports false when the
// cell cannot become current.
func (n *Navigator) TraverseToCell(row, col int, selectCell bool) bool {
	if !n.CanTraverseToCell(row, col) {
		return false
	}
	n.travRow, n.travCol = -1, -1

	if sp, _, ok := n.insideSpan(row, col); ok {
		row, col = sp.StartRow, sp.StartCol
	}
	target := core.Addr(row, col)

	if n.current.IsValid() && n.current == target {
		if !n.eng.IsCellVisible(row, col) {
			n.MakeCellFullyVisible(row, col)
		}
		return true
	}

	if selectCell && n.onSelect != nil {
		n.onSelect(target)
	}
	n.setCurrent(target)
	n.MakeCellFullyVisible(row, col)
	return true
}

func (n *Navigator) insideSpan(row, col int) (core.Region, bool, bool) {
	spans := n.eng.Spans()
	if spans == nil {
		return core.EmptyRegion(), false, false
	}
	return spans.InsideSpan(row, col)
}
