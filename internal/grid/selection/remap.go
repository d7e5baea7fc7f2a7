package selection

import "github.com/dshills/tablegrid/internal/grid/core"

// Remap moves the committed selections after the order of axis changed.
// vismap maps each old index to its new one, or -1 when the index is no
// longer shown. Whole-line and single-cell entries move as they are; an
// entry spanning several indices of axis is split into one entry per
// index, since a reorder can scatter a contiguous block. Entries that
// land on an invalid index are dropped. It reports whether the list
// changed.
func (m *Manager) Remap(axis core.IndexType, vismap []int) bool {
	if len(m.list) == 0 || len(vismap) == 0 {
		return false
	}
	lookup := func(i int) int {
		if i < 0 || i >= len(vismap) {
			return -1
		}
		return vismap[i]
	}

	lastRow, lastCol := core.LastRow, core.LastColumn
	if m.bounds != nil {
		lastRow, lastCol = m.bounds.LastRow(), m.bounds.LastColumn()
	}

	var out List
	changed := false
	for _, s := range m.list {
		switch {
		case axis == core.RowIndex && s.IsEntireColumn(),
			axis == core.ColumnIndex && s.IsEntireRow():
			// Covers the whole reordered axis.
			out = append(out, s)
			continue
		}

		lo, hi, last := s.TopRow(), s.BottomRow(), lastRow
		if axis == core.ColumnIndex {
			lo, hi, last = s.LeftColumn(), s.RightColumn(), lastCol
		}
		hi = min(hi, last)

		for i := lo; i <= hi; i++ {
			to := lookup(i)
			if to < 0 {
				changed = true
				continue
			}
			if to != i {
				changed = true
			}
			out = append(out, onAxis(s, axis, to))
		}
		if hi > lo {
			changed = true
		}
	}

	m.list = out
	m.actions = nil
	m.affected = core.EmptyRegion()
	m.resync()
	if changed {
		m.announce(false)
	}
	return changed
}

// onAxis returns s restricted to index i of axis.
func onAxis(s Selection, axis core.IndexType, i int) Selection {
	if axis == core.ColumnIndex {
		return Selection{Selected: s.Selected, AnchorRow: s.AnchorRow, AnchorCol: i,
			StartRow: s.TopRow(), StartCol: i, EndRow: s.BottomRow(), EndCol: i}
	}
	return Selection{Selected: s.Selected, AnchorRow: i, AnchorCol: s.AnchorCol,
		StartRow: i, StartCol: s.LeftColumn(), EndRow: i, EndCol: s.RightColumn()}
}

// InsertRows shifts selections at or after at down by n. A selection
// that the insertion falls inside grows by n.
func (m *Manager) InsertRows(n, at int) { m.insert(core.RowIndex, n, at) }

// InsertColumns shifts selections at or after at right by n.
func (m *Manager) InsertColumns(n, at int) { m.insert(core.ColumnIndex, n, at) }

// DeleteRows removes n rows starting at at. Selections entirely inside
// the deleted range are removed, selections after it move up, and
// selections straddling one of its edges are dropped.
func (m *Manager) DeleteRows(n, at int) { m.remove(core.RowIndex, n, at) }

// DeleteColumns removes n columns starting at at.
func (m *Manager) DeleteColumns(n, at int) { m.remove(core.ColumnIndex, n, at) }

// span returns the extent of s along axis and whether s covers the whole
// axis.
func span(s Selection, axis core.IndexType) (lo, hi int, whole bool) {
	if axis == core.ColumnIndex {
		return s.LeftColumn(), s.RightColumn(), s.IsEntireRow()
	}
	return s.TopRow(), s.BottomRow(), s.IsEntireColumn()
}

// shifted moves the parts of s on axis by delta; each of the three
// positions moves only if it is at or after from.
func shifted(s Selection, axis core.IndexType, from, delta int) Selection {
	mv := func(i int) int {
		if i >= from && i != core.LastRow {
			return i + delta
		}
		return i
	}
	if axis == core.ColumnIndex {
		s.AnchorCol, s.StartCol, s.EndCol = mv(s.AnchorCol), mv(s.StartCol), mv(s.EndCol)
	} else {
		s.AnchorRow, s.StartRow, s.EndRow = mv(s.AnchorRow), mv(s.StartRow), mv(s.EndRow)
	}
	return s
}

func (m *Manager) insert(axis core.IndexType, n, at int) {
	if n <= 0 || at < 0 {
		return
	}
	if len(m.list) == 0 && !m.current.IsValid() {
		return
	}
	move := func(s Selection) Selection {
		if _, _, whole := span(s, axis); whole {
			return s
		}
		return shifted(s, axis, at, n)
	}
	for i := range m.list {
		m.list[i] = move(m.list[i])
	}
	if m.current.IsValid() {
		m.current = move(m.current)
	}
	m.afterShift()
}

func (m *Manager) remove(axis core.IndexType, n, at int) {
	if n <= 0 || at < 0 {
		return
	}
	if len(m.list) == 0 && !m.current.IsValid() {
		return
	}
	end := at + n - 1

	// keep reports the selection after deletion and whether it survives.
	keep := func(s Selection) (Selection, bool) {
		lo, hi, whole := span(s, axis)
		switch {
		case whole, hi < at:
			return s, true
		case lo >= at && hi <= end:
			return s, false
		case lo > end:
			return shifted(s, axis, at, -n), true
		default:
			m.log.Debug("selection: dropping %v straddling deleted %s %d-%d", s, axis, at, end)
			return s, false
		}
	}

	out := m.list[:0]
	for _, s := range m.list {
		if s, ok := keep(s); ok {
			out = append(out, s)
		}
	}
	m.list = out
	if m.current.IsValid() {
		if s, ok := keep(m.current); ok {
			m.current = s
		} else {
			m.current = Invalid()
		}
	}
	m.afterShift()
}

func (m *Manager) afterShift() {
	m.actions = nil
	m.affected = core.EmptyRegion()
	m.resync()
	m.announce(false)
}
