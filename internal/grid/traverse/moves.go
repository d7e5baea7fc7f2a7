package traverse

import "github.com/dshills/tablegrid/internal/grid/core"

// Up moves the current cell to the nearest cell above that can take it.
func (n *Navigator) Up() bool { return n.moveVertical(-1) }

// Down moves the current cell to the nearest cell below.
func (n *Navigator) Down() bool { return n.moveVertical(1) }

// Left moves the current cell one column toward the visual left. In a
// right-to-left grid that is the next logical column.
func (n *Navigator) Left() bool { return n.moveHorizontal(n.visual(-1)) }

// Right moves the current cell one column toward the visual right.
func (n *Navigator) Right() bool { return n.moveHorizontal(n.visual(1)) }

func (n *Navigator) visual(step int) int {
	if n.eng.Direction() == core.RightToLeft {
		return -step
	}
	return step
}

func (n *Navigator) anchorRow() int {
	if n.travRow >= 0 {
		return n.travRow
	}
	return n.current.Row
}

func (n *Navigator) anchorColumn() int {
	if n.travCol >= 0 {
		return n.travCol
	}
	return n.current.Col
}

func (n *Navigator) moveVertical(step int) bool {
	if !n.current.IsValid() {
		return false
	}
	row := n.current.Row + step
	if sp, _, ok := n.insideSpan(n.current.Row, n.current.Col); ok {
		row = sp.StartRow - 1
		if step > 0 {
			row = sp.EndRow + 1
		}
	}
	return n.seekRow(row, step)
}

func (n *Navigator) moveHorizontal(step int) bool {
	if !n.current.IsValid() {
		return false
	}
	col := n.current.Col + step
	if sp, _, ok := n.insideSpan(n.current.Row, n.current.Col); ok {
		col = sp.StartCol - 1
		if step > 0 {
			col = sp.EndCol + 1
		}
	}
	return n.seekColumn(col, step)
}

// seekRow walks from row in step direction, keeping the column anchor,
// and makes the first cell that can take focus current. Cells of a span
// resolve to its anchor; a span that cannot take focus is skipped whole.
func (n *Navigator) seekRow(row, step int) bool {
	vp := n.eng.CurrentViewport()
	if vp.IsEmpty() {
		return false
	}
	anchor := n.anchorColumn()
	if anchor < 0 {
		anchor = vp.StartCol
	}
	col := anchor
	if n.eng.Dimensions().IsColumnHidden(col) {
		if col = n.eng.FirstNonHiddenColumn(col, vp.EndCol); col < 0 {
			return false
		}
	}

	for row >= vp.StartRow && row <= vp.EndRow {
		target := core.Addr(row, col)
		sp, _, spanned := n.insideSpan(row, col)
		if spanned {
			target = sp.TopLeft()
		}
		if n.CanTraverseToCell(target.Row, target.Col) {
			if !n.TraverseToCell(target.Row, target.Col, n.selectOnTraverse) {
				return false
			}
			n.travCol = anchor
			return true
		}
		switch {
		case spanned && step < 0:
			row = sp.StartRow - 1
		case spanned:
			row = sp.EndRow + 1
		default:
			row += step
		}
	}
	return false
}

// seekColumn is seekRow across a row.
func (n *Navigator) seekColumn(col, step int) bool {
	vp := n.eng.CurrentViewport()
	if vp.IsEmpty() {
		return false
	}
	anchor := n.anchorRow()
	if anchor < 0 {
		anchor = vp.StartRow
	}
	row := anchor
	if n.eng.Dimensions().IsRowHidden(row) {
		if row = n.eng.FirstNonHiddenRow(row, vp.EndRow); row < 0 {
			return false
		}
	}

	for col >= vp.StartCol && col <= vp.EndCol {
		target := core.Addr(row, col)
		sp, _, spanned := n.insideSpan(row, col)
		if spanned {
			target = sp.TopLeft()
		}
		if n.CanTraverseToCell(target.Row, target.Col) {
			if !n.TraverseToCell(target.Row, target.Col, n.selectOnTraverse) {
				return false
			}
			n.travRow = anchor
			return true
		}
		switch {
		case spanned && step < 0:
			col = sp.StartCol - 1
		case spanned:
			col = sp.EndCol + 1
		default:
			col += step
		}
	}
	return false
}

// PageUp moves the current cell up by one screen less one row and
// scrolls by the same amount.
func (n *Navigator) PageUp() bool {
	if !n.current.IsValid() {
		return false
	}
	vp := n.eng.CurrentViewport()
	if vp.IsEmpty() {
		return false
	}
	page := max(n.eng.VisibleRows()-1, 1)
	row := max(n.current.Row-page, vp.StartRow)
	if n.eng.TopRow() != vp.StartRow {
		n.ScrollUp(page)
	}
	if n.seekRow(row, -1) {
		return true
	}
	return n.seekRow(row, 1)
}

// PageDown moves the current cell down by one screen less one row.
func (n *Navigator) PageDown() bool {
	if !n.current.IsValid() {
		return false
	}
	vp := n.eng.CurrentViewport()
	if vp.IsEmpty() {
		return false
	}
	page := max(n.eng.VisibleRows()-1, 1)
	row := min(n.current.Row+page, vp.EndRow)
	if n.eng.BottomRow() != vp.EndRow {
		n.ScrollDown(page)
	}
	if n.seekRow(row, 1) {
		return true
	}
	return n.seekRow(row, -1)
}

// Home moves to the first cell of the current row that can take focus.
func (n *Navigator) Home() bool {
	vp := n.eng.CurrentViewport()
	if !n.current.IsValid() || vp.IsEmpty() {
		return false
	}
	return n.seekColumn(vp.StartCol, 1)
}

// End moves to the last cell of the current row that can take focus.
func (n *Navigator) End() bool {
	vp := n.eng.CurrentViewport()
	if !n.current.IsValid() || vp.IsEmpty() {
		return false
	}
	return n.seekColumn(vp.EndCol, -1)
}

// Top moves to the first cell of the current column that can take focus.
func (n *Navigator) Top() bool {
	vp := n.eng.CurrentViewport()
	if !n.current.IsValid() || vp.IsEmpty() {
		return false
	}
	return n.seekRow(vp.StartRow, 1)
}

// Bottom moves to the last cell of the current column.
func (n *Navigator) Bottom() bool {
	vp := n.eng.CurrentViewport()
	if !n.current.IsValid() || vp.IsEmpty() {
		return false
	}
	return n.seekRow(vp.EndRow, -1)
}

// TableStart moves to the first cell of the table that can take focus,
// scanning row by row.
func (n *Navigator) TableStart() bool {
	vp := n.eng.CurrentViewport()
	if vp.IsEmpty() {
		return false
	}
	for row := vp.StartRow; row <= vp.EndRow; row++ {
		for col := vp.StartCol; col <= vp.EndCol; col++ {
			if n.TraverseToCell(row, col, n.selectOnTraverse) {
				return true
			}
		}
	}
	return false
}

// TableEnd moves to the last cell of the table that can take focus.
func (n *Navigator) TableEnd() bool {
	vp := n.eng.CurrentViewport()
	if vp.IsEmpty() {
		return false
	}
	for row := vp.EndRow; row >= vp.StartRow; row-- {
		for col := vp.EndCol; col >= vp.StartCol; col-- {
			if n.TraverseToCell(row, col, n.selectOnTraverse) {
				return true
			}
		}
	}
	return false
}

// Move dispatches a key movement.
func (n *Navigator) Move(m Movement) bool {
	switch m {
	case MoveUp:
		return n.Up()
	case MoveDown:
		return n.Down()
	case MoveLeft:
		return n.Left()
	case MoveRight:
		return n.Right()
	case MovePageUp:
		return n.PageUp()
	case MovePageDown:
		return n.PageDown()
	case MoveHome:
		return n.Home()
	case MoveEnd:
		return n.End()
	case MoveTop:
		return n.Top()
	case MoveBottom:
		return n.Bottom()
	case MoveTableStart:
		return n.TableStart()
	case MoveTableEnd:
		return n.TableEnd()
	default:
		return false
	}
}

// Movement names a traversal.
type Movement uint8

const (
	MoveNone Movement = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	MovePageUp
	MovePageDown
	MoveHome
	MoveEnd
	MoveTop
	MoveBottom
	MoveTableStart
	MoveTableEnd
)

var movementNames = map[string]Movement{
	"up":          MoveUp,
	"down":        MoveDown,
	"left":        MoveLeft,
	"right":       MoveRight,
	"page-up":     MovePageUp,
	"page-down":   MovePageDown,
	"home":        MoveHome,
	"end":         MoveEnd,
	"top":         MoveTop,
	"bottom":      MoveBottom,
	"table-start": MoveTableStart,
	"table-end":   MoveTableEnd,
}

// ParseMovement returns the movement with the given name, or MoveNone.
func ParseMovement(s string) Movement {
	return movementNames[s]
}

// String returns the movement name.
func (m Movement) String() string {
	for k, v := range movementNames {
		if v == m {
			return k
		}
	}
	return "none"
}
