package selection

import "github.com/dshills/tablegrid/internal/grid/core"

// State is the action applied to cells by setProperty.
type State uint8

const (
	// SelectTrue marks cells selected.
	SelectTrue State = iota

	// SelectFalse marks cells unselected.
	SelectFalse

	// SelectTrueRevert marks a cell selected only if the committed list
	// already selects it.
	SelectTrueRevert

	// SelectFalseRevert marks a cell unselected only if the committed
	// list does not select it.
	SelectFalseRevert
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case SelectTrue:
		return "true"
	case SelectFalse:
		return "false"
	case SelectTrueRevert:
		return "true-revert"
	case SelectFalseRevert:
		return "false-revert"
	default:
		return "unknown"
	}
}

// inverse returns the action that undoes s.
func (s State) inverse() State {
	switch s {
	case SelectTrue:
		return SelectFalse
	case SelectFalse:
		return SelectTrue
	case SelectTrueRevert:
		return SelectFalseRevert
	default:
		return SelectTrueRevert
	}
}

// resolved returns the plain state a revert state settles to.
func (s State) resolved() State {
	switch s {
	case SelectTrue, SelectTrueRevert:
		return SelectTrue
	default:
		return SelectFalse
	}
}

type cellKey struct{ row, col int }

// marks is the per-cell selected state shown while painting. Row and
// column flags cover whole lines; a cell entry overrides them.
type marks struct {
	cells map[cellKey]bool
	rows  map[int]bool
	cols  map[int]bool
}

func newMarks() *marks {
	return &marks{
		cells: make(map[cellKey]bool),
		rows:  make(map[int]bool),
		cols:  make(map[int]bool),
	}
}

func (m *marks) cell(row, col int) bool {
	if v, ok := m.cells[cellKey{row, col}]; ok {
		return v
	}
	return m.rows[row] || m.cols[col]
}

func (m *marks) setCell(row, col int, on bool) {
	k := cellKey{row, col}
	if on || m.rows[row] || m.cols[col] {
		m.cells[k] = on
		return
	}
	delete(m.cells, k)
}

func (m *marks) setRow(row int, on bool) {
	if on {
		m.rows[row] = true
	} else {
		delete(m.rows, row)
	}
	for k := range m.cells {
		if k.row == row {
			delete(m.cells, k)
		}
	}
}

func (m *marks) setColumn(col int, on bool) {
	if on {
		m.cols[col] = true
	} else {
		delete(m.cols, col)
	}
	for k := range m.cells {
		if k.col == col {
			delete(m.cells, k)
		}
	}
}

func (m *marks) reset() {
	clear(m.cells)
	clear(m.rows)
	clear(m.cols)
}

// setProperty applies st to every cell of the rectangle, clamped to the
// model. Whole-row and whole-column rectangles set line flags instead of
// cells. The rectangle is added to the affected region.
func (m *Manager) setProperty(r0, c0, r1, c1 int, st State) {
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	if c0 > c1 {
		c0, c1 = c1, c0
	}
	if r0 < 0 || c0 < 0 {
		return
	}

	lastRow, lastCol := 0, 0
	if m.bounds != nil {
		lastRow, lastCol = max(m.bounds.LastRow(), 0), max(m.bounds.LastColumn(), 0)
	}

	entireRows := c0 == 0 && c1 == core.LastColumn
	entireCols := r0 == 0 && r1 == core.LastRow
	switch {
	case entireRows:
		for row := r0; row <= min(r1, lastRow); row++ {
			if on, ok := apply(st, m.list.IsRowSelected(row, false)); ok {
				m.marks.setRow(row, on)
			}
		}
	case entireCols:
		for col := c0; col <= min(c1, lastCol); col++ {
			if on, ok := apply(st, m.list.IsColumnSelected(col, false)); ok {
				m.marks.setColumn(col, on)
			}
		}
	default:
		for row := r0; row <= min(r1, lastRow); row++ {
			for col := c0; col <= min(c1, lastCol); col++ {
				if on, ok := apply(st, m.list.IsCellSelected(row, col)); ok {
					m.marks.setCell(row, col, on)
				}
			}
		}
	}

	m.affected = m.affected.Union(core.NewRegion(r0, c0, r1, c1))
}

// apply decides the new state of one cell. Revert states only restore
// what the committed list says.
func apply(st State, inList bool) (on, ok bool) {
	switch st {
	case SelectTrue:
		return true, true
	case SelectFalse:
		return false, true
	case SelectTrueRevert:
		return true, inList
	default:
		return false, !inList
	}
}

func (m *Manager) setSelectionProperty(s Selection, st State) {
	if !s.IsValid() {
		return
	}
	m.setProperty(s.TopRow(), s.LeftColumn(), s.BottomRow(), s.RightColumn(), st)
}

// resync rebuilds the marks from the committed list and the gesture in
// progress after indices moved.
func (m *Manager) resync() {
	m.marks.reset()
	for _, s := range m.list {
		m.setSelectionProperty(s, SelectTrue)
	}
	if m.current.IsValid() {
		st := SelectTrue
		if !m.current.Selected {
			st = SelectFalse
		}
		m.setSelectionProperty(m.current, st)
	}
}
