package selection

import (
	"slices"
	"testing"

	"github.com/dshills/tablegrid/internal/grid/core"
)

type grid struct{ rows, cols int }

func (g grid) LastRow() int    { return g.rows - 1 }
func (g grid) LastColumn() int { return g.cols - 1 }

func newTestManager(policy Policy) *Manager {
	return NewManager(grid{10, 10}, policy)
}

func selectRect(m *Manager, r0, c0, r1, c1 int) {
	m.Process(Begin, core.Addr(r0, c0), core.Addr(r0, c0))
	m.Process(Drag, core.Addr(r0, c0), core.Addr(r1, c1))
	m.Process(End, core.Addr(r0, c0), core.Addr(r1, c1))
}

func selectedCells(m *Manager) int {
	n := 0
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			if m.IsCellSelected(r, c) {
				n++
			}
		}
	}
	return n
}

func TestBeginDragEnd(t *testing.T) {
	m := newTestManager(SelectMultiple)
	selectRect(m, 2, 2, 5, 5)

	l := m.List()
	if len(l) != 1 {
		t.Fatalf("got %d entries, want 1", len(l))
	}
	if got, want := l[0].Region(), core.NewRegion(2, 2, 5, 5); got != want {
		t.Errorf("entry = %v, want %v", got, want)
	}
	if !m.IsCellSelected(3, 3) || !l.IsCellSelected(3, 3) {
		t.Error("(3,3) not selected")
	}
	if m.IsCellSelected(6, 6) || l.IsCellSelected(6, 6) {
		t.Error("(6,6) selected")
	}
	if n := selectedCells(m); n != 16 {
		t.Errorf("%d cells shown selected, want 16", n)
	}
	if _, ok := m.Current(); ok {
		t.Error("selection still in progress after End")
	}
}

func TestDragGrowAndShrink(t *testing.T) {
	m := newTestManager(SelectMultiple)
	m.Process(Begin, core.Addr(2, 2), core.Addr(2, 2))
	m.Process(Drag, core.Addr(2, 2), core.Addr(2, 5))
	m.Process(Drag, core.Addr(2, 2), core.Addr(5, 5))
	if n := selectedCells(m); n != 16 {
		t.Fatalf("after growing %d cells selected, want 16", n)
	}

	m.Process(Drag, core.Addr(2, 2), core.Addr(3, 5))
	if n := selectedCells(m); n != 8 {
		t.Errorf("after shrinking %d cells selected, want 8", n)
	}
	if m.IsCellSelected(4, 4) {
		t.Error("(4,4) still selected after shrinking")
	}

	// Retreat past the anchor.
	m.Process(Drag, core.Addr(2, 2), core.Addr(2, 5))
	m.Process(Drag, core.Addr(2, 2), core.Addr(2, 0))
	if n := selectedCells(m); n != 3 {
		t.Errorf("after crossing the anchor %d cells selected, want 3", n)
	}
	for _, c := range []int{3, 4, 5} {
		if m.IsCellSelected(2, c) {
			t.Errorf("(2,%d) still selected", c)
		}
	}

	m.Process(End, core.Addr(2, 2), core.Addr(2, 0))
	l := m.List()
	if len(l) != 1 || l[0].Region() != core.NewRegion(2, 0, 2, 2) {
		t.Errorf("list = %v, want [(2,0)-(2,2)]", l)
	}
}

func TestAddDeselectSplits(t *testing.T) {
	m := newTestManager(SelectMultiple)
	selectRect(m, 2, 2, 5, 5)

	m.Process(Add, core.Addr(3, 3), core.Addr(3, 3))
	m.Process(Drag, core.Addr(3, 3), core.Addr(4, 4))
	m.Process(End, core.Addr(3, 3), core.Addr(4, 4))

	l := m.List()
	if len(l) != 4 {
		t.Fatalf("got %d entries %v, want 4", len(l), l)
	}
	if n := l.CellCount(9, 9); n != 12 {
		t.Errorf("list covers %d cells, want 12", n)
	}
	if n := selectedCells(m); n != 12 {
		t.Errorf("%d cells shown selected, want 12", n)
	}
	for _, c := range []core.CellAddress{core.Addr(3, 3), core.Addr(4, 4), core.Addr(3, 4)} {
		if l.IsCellSelected(c.Row, c.Col) || m.IsCellSelected(c.Row, c.Col) {
			t.Errorf("%v still selected", c)
		}
	}

	want := []core.Region{
		core.NewRegion(2, 2, 2, 5),
		core.NewRegion(5, 2, 5, 5),
		core.NewRegion(3, 2, 4, 2),
		core.NewRegion(3, 5, 4, 5),
	}
	for i, w := range want {
		if got := l[i].Region(); got != w {
			t.Errorf("entry %d = %v, want %v", i, got, w)
		}
	}

	acts := m.Actions()
	if len(acts) != 2 || !acts[0].Selected || acts[1].Selected {
		t.Errorf("actions = %v, want [+, -]", acts)
	}
}

// marksMatchList fails t for every cell whose shown state differs from
// the committed list.
func marksMatchList(t *testing.T, m *Manager) {
	t.Helper()
	l := m.List()
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			if got, want := m.IsCellSelected(r, c), l.IsCellSelected(r, c); got != want {
				t.Errorf("(%d,%d) shown selected = %v, list says %v", r, c, got, want)
			}
		}
	}
}

func TestAddDragSelects(t *testing.T) {
	m := newTestManager(SelectMultiple)
	m.Process(Add, core.Addr(0, 0), core.Addr(0, 0))
	m.Process(Drag, core.Addr(0, 0), core.Addr(0, 3))
	for c := 0; c <= 3; c++ {
		if !m.IsCellSelected(0, c) {
			t.Errorf("(0,%d) not shown selected during the drag", c)
		}
	}

	m.Process(Drag, core.Addr(0, 0), core.Addr(0, 2))
	if m.IsCellSelected(0, 3) {
		t.Error("(0,3) still shown selected after shrinking")
	}

	m.Process(End, core.Addr(0, 0), core.Addr(0, 2))
	l := m.List()
	if len(l) != 1 || l[0].Region() != core.NewRegion(0, 0, 0, 2) {
		t.Fatalf("list = %v, want [(0,0)-(0,2)]", l)
	}
	marksMatchList(t, m)
}

func TestAddDragDeselects(t *testing.T) {
	m := newTestManager(SelectMultiple)
	selectRect(m, 2, 2, 5, 5)

	m.Process(Add, core.Addr(3, 3), core.Addr(3, 3))
	m.Process(Drag, core.Addr(3, 3), core.Addr(3, 4))
	if m.IsCellSelected(3, 4) {
		t.Error("(3,4) still shown selected during the deselect drag")
	}

	m.Process(Drag, core.Addr(3, 3), core.Addr(3, 5))
	m.Process(Drag, core.Addr(3, 3), core.Addr(3, 4))
	if !m.IsCellSelected(3, 5) {
		t.Error("(3,5) not restored after shrinking the deselect drag")
	}

	m.Process(End, core.Addr(3, 3), core.Addr(3, 4))
	if n := m.List().CellCount(9, 9); n != 14 {
		t.Errorf("list covers %d cells, want 14", n)
	}
	marksMatchList(t, m)
}

func TestAddTogglesSingleCell(t *testing.T) {
	m := newTestManager(SelectMultiple)
	m.Process(Add, core.Addr(1, 1), core.Addr(1, 1))
	m.Process(End, core.Addr(1, 1), core.Addr(1, 1))
	if !m.IsCellSelected(1, 1) {
		t.Fatal("ctrl-click did not select")
	}
	m.Process(Add, core.Addr(7, 7), core.Addr(7, 7))
	m.Process(End, core.Addr(7, 7), core.Addr(7, 7))
	if !m.IsCellSelected(1, 1) || !m.IsCellSelected(7, 7) {
		t.Fatal("second ctrl-click dropped the first")
	}

	m.Process(Add, core.Addr(1, 1), core.Addr(1, 1))
	m.Process(End, core.Addr(1, 1), core.Addr(1, 1))
	if m.IsCellSelected(1, 1) {
		t.Error("ctrl-click on a selected cell did not deselect")
	}
	if l := m.List(); len(l) != 1 || l[0].Region() != core.CellRegion(7, 7) {
		t.Errorf("list = %v, want [(7,7)]", l)
	}
}

func TestDeselectIdempotent(t *testing.T) {
	m := newTestManager(SelectMultiple)
	selectRect(m, 0, 0, 9, 9)

	deselect := func() {
		m.AddSelection(New(3, 3, 5, 5, false))
	}
	deselect()
	once := m.List()
	deselect()
	twice := m.List()

	if !slices.Equal(once, twice) {
		t.Errorf("second deselect changed the list:\n%v\n%v", once, twice)
	}
	if n := twice.CellCount(9, 9); n != 91 {
		t.Errorf("covers %d cells, want 91", n)
	}
}

func TestSelectThenDeselectEmpties(t *testing.T) {
	m := newTestManager(SelectMultiple)
	selectRect(m, 1, 1, 4, 6)
	selectRect(m, 1, 1, 4, 6)
	m.AddSelection(New(1, 1, 4, 6, false))

	if l := m.List(); len(l) != 0 {
		t.Errorf("list = %v, want empty", l)
	}
	if n := selectedCells(m); n != 0 {
		t.Errorf("%d cells shown selected, want 0", n)
	}
}

func TestSubtract(t *testing.T) {
	e := New(0, 0, 9, 9, true)
	tests := []struct {
		name string
		s    Selection
		want int
	}{
		{"disjoint", New(20, 20, 21, 21, false), 1},
		{"center", New(4, 4, 5, 5, false), 4},
		{"top edge", New(0, 4, 1, 5, false), 3},
		{"corner", New(0, 0, 1, 1, false), 2},
		{"full row band", New(3, 0, 4, 9, false), 2},
		{"all", New(0, 0, 9, 9, false), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subtract(e, tt.s)
			if len(got) != tt.want {
				t.Fatalf("got %d residuals %v, want %d", len(got), got, tt.want)
			}
			cells := 0
			for i, a := range got {
				cells += a.Region().Area()
				for _, b := range got[i+1:] {
					if a.Intersects(b) {
						t.Errorf("residuals %v and %v overlap", a, b)
					}
				}
				if tt.s.Intersects(a) && tt.want != 1 {
					t.Errorf("residual %v overlaps the removed part", a)
				}
			}
			removed := 0
			if e.Intersects(tt.s) {
				removed = e.Intersection(tt.s).Region().Area()
			}
			if cells != 100-removed {
				t.Errorf("residuals cover %d cells, want %d", cells, 100-removed)
			}
		})
	}
}

func TestPolicies(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		m := newTestManager(SelectNone)
		selectRect(m, 1, 1, 2, 2)
		if len(m.List()) != 0 || m.IsCellSelected(1, 1) {
			t.Error("selected under SelectNone")
		}
	})

	t.Run("single rejects drag", func(t *testing.T) {
		m := newTestManager(SelectSingle)
		selectRect(m, 1, 1, 3, 3)
		if n := selectedCells(m); n != 1 {
			t.Errorf("%d cells selected, want 1", n)
		}
		m.Process(Add, core.Addr(5, 5), core.Addr(5, 5))
		if m.IsCellSelected(5, 5) {
			t.Error("add accepted with a selection present")
		}
	})

	t.Run("row policy selects rows", func(t *testing.T) {
		m := newTestManager(SelectMultipleRow)
		selectRect(m, 2, 4, 3, 6)
		l := m.List()
		if len(l) != 1 || !l[0].IsEntireRow() {
			t.Fatalf("list = %v, want one whole-row entry", l)
		}
		if !m.IsCellSelected(2, 9) || !m.IsRowSelected(3) {
			t.Error("rows 2-3 not fully selected")
		}
		if m.IsCellSelected(4, 0) {
			t.Error("row 4 selected")
		}
	})

	t.Run("row policy ignores column header", func(t *testing.T) {
		m := newTestManager(SelectSingleRow)
		m.Process(Begin, core.Addr(0, 3), core.Addr(core.LastRow, 3))
		if _, ok := m.Current(); ok {
			t.Error("column header click started a selection")
		}
	})

	t.Run("switching policy clears", func(t *testing.T) {
		m := newTestManager(SelectMultiple)
		selectRect(m, 1, 1, 2, 2)
		m.SetPolicy(SelectSingle)
		if len(m.List()) != 0 || m.IsCellSelected(1, 1) {
			t.Error("selection kept after policy change")
		}
	})
}

func TestExtend(t *testing.T) {
	m := newTestManager(SelectMultiple)
	m.Process(Begin, core.Addr(1, 1), core.Addr(1, 1))
	m.Process(Extend, core.Addr(1, 1), core.Addr(4, 4))
	m.Process(Extend, core.Addr(1, 1), core.Addr(2, 2))
	if n := selectedCells(m); n != 4 {
		t.Errorf("%d cells selected after shift-clicking back, want 4", n)
	}
	m.Process(End, core.Addr(1, 1), core.Addr(2, 2))
	if l := m.List(); len(l) != 1 || l[0].Region() != core.NewRegion(1, 1, 2, 2) {
		t.Errorf("list = %v", l)
	}

	// Extending a committed block.
	m.Process(Extend, core.Addr(1, 1), core.Addr(3, 1))
	if !m.IsCellSelected(3, 1) || m.IsCellSelected(2, 2) {
		t.Error("committed block not extended")
	}
}

func TestReplace(t *testing.T) {
	m := newTestManager(SelectMultiple)
	selectRect(m, 1, 1, 2, 2)
	m.Process(Replace, core.Addr(1, 1), core.Addr(5, 1))

	l := m.List()
	if len(l) != 1 {
		t.Fatalf("got %d entries", len(l))
	}
	if l[0].AnchorRow != 1 || l[0].AnchorCol != 1 || l[0].Region() != core.NewRegion(1, 1, 5, 1) {
		t.Errorf("replaced = %+v", l[0])
	}
	if m.IsCellSelected(2, 2) || !m.IsCellSelected(5, 1) {
		t.Error("marks not updated by replace")
	}
}

func TestExclusive(t *testing.T) {
	m := newTestManager(SelectMultiple)
	if _, ok := m.Exclusive(); ok {
		t.Fatal("exclusive selection on empty manager")
	}
	m.Process(Begin, core.Addr(1, 1), core.Addr(1, 1))
	if es, ok := m.Exclusive(); !ok || es.Region() != core.CellRegion(1, 1) {
		t.Errorf("in progress: %v %v", es, ok)
	}
	m.Process(End, core.Addr(1, 1), core.Addr(1, 1))
	if _, ok := m.Exclusive(); !ok {
		t.Error("single committed selection not exclusive")
	}
	m.Process(Add, core.Addr(5, 5), core.Addr(5, 5))
	if _, ok := m.Exclusive(); ok {
		t.Error("exclusive with a committed and an in-progress selection")
	}
}

func TestNotifications(t *testing.T) {
	m := newTestManager(SelectMultiple)
	var got []Change
	id := m.Subscribe(func(c Change) { got = append(got, c) })

	m.Process(Begin, core.Addr(2, 2), core.Addr(2, 2))
	m.Process(Drag, core.Addr(2, 2), core.Addr(2, 4))
	m.Process(End, core.Addr(2, 2), core.Addr(2, 4))

	if len(got) != 3 {
		t.Fatalf("got %d notifications, want 3", len(got))
	}
	if !got[0].InProgress || !got[1].InProgress || got[2].InProgress {
		t.Errorf("in-progress flags = %v %v %v", got[0].InProgress, got[1].InProgress, got[2].InProgress)
	}
	if !got[1].Region.ContainsRegion(core.NewRegion(2, 3, 2, 4)) {
		t.Errorf("drag region %v misses the new cells", got[1].Region)
	}

	m.Unsubscribe(id)
	m.Clear()
	if len(got) != 3 {
		t.Error("notified after unsubscribe")
	}
}

func TestSelectAllAndClear(t *testing.T) {
	m := newTestManager(SelectMultiple)
	m.SelectAll()
	if n := selectedCells(m); n != 100 {
		t.Errorf("%d cells selected, want 100", n)
	}
	l := m.List()
	if len(l) != 1 || !l[0].IsEntireRow() || !l[0].IsEntireColumn() {
		t.Errorf("list = %v", l)
	}
	m.Clear()
	if n := selectedCells(m); n != 0 || len(m.List()) != 0 {
		t.Errorf("after Clear %d cells, %d entries", n, len(m.List()))
	}
}

func TestRemapRoundTrip(t *testing.T) {
	m := newTestManager(SelectMultiple)
	m.AddSelection(New(1, 0, 3, core.LastColumn, true))
	m.AddSelection(EntireRow(7))
	before := m.List().Rows(9)

	perm := []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}

	if !m.Remap(core.RowIndex, perm) {
		t.Fatal("Remap reported no change")
	}
	if got, want := m.List().Rows(9), []int{2, 6, 7, 8}; !slices.Equal(got, want) {
		t.Errorf("after permutation rows = %v, want %v", got, want)
	}
	if !m.IsCellSelected(8, 5) || m.IsCellSelected(1, 5) {
		t.Error("marks not moved with the rows")
	}

	m.Remap(core.RowIndex, inv)
	if got := m.List().Rows(9); !slices.Equal(got, before) {
		t.Errorf("round trip rows = %v, want %v", got, before)
	}
}

func TestRemapDropsHidden(t *testing.T) {
	m := newTestManager(SelectMultiple)
	m.AddSelection(New(2, 2, 2, 2, true))
	m.AddSelection(New(0, 5, core.LastRow, 5, true))

	var notified int
	m.Subscribe(func(Change) { notified++ })

	vismap := []int{0, 1, -1, 3, 4, 5, 6, 7, 8, 9}
	if !m.Remap(core.RowIndex, vismap) {
		t.Fatal("Remap reported no change")
	}
	l := m.List()
	if len(l) != 1 || !l[0].IsEntireColumn() {
		t.Errorf("list = %v, want only the column", l)
	}
	if notified != 1 {
		t.Errorf("notified %d times, want 1", notified)
	}
}

func TestRemapColumnsSplitsBlock(t *testing.T) {
	m := newTestManager(SelectMultiple)
	m.AddSelection(New(1, 1, 2, 3, true))

	vismap := []int{0, 5, 2, 8, 4, 1, 6, 7, 3, 9}
	m.Remap(core.ColumnIndex, vismap)

	l := m.List()
	if len(l) != 3 {
		t.Fatalf("got %d entries %v, want 3", len(l), l)
	}
	if got, want := l.Columns(9), []int{2, 5, 8}; !slices.Equal(got, want) {
		t.Errorf("columns = %v, want %v", got, want)
	}
	for _, s := range l {
		if s.TopRow() != 1 || s.BottomRow() != 2 {
			t.Errorf("entry %v lost its rows", s)
		}
	}
}

func TestInsertDelete(t *testing.T) {
	tests := []struct {
		name string
		op   func(m *Manager)
		want []core.Region
	}{
		{
			name: "insert before shifts",
			op:   func(m *Manager) { m.InsertRows(2, 0) },
			want: []core.Region{core.NewRegion(4, 1, 5, 1), core.NewRegion(8, 0, 8, 3), core.NewRegion(0, 7, core.LastRow, 7)},
		},
		{
			name: "insert inside grows",
			op:   func(m *Manager) { m.InsertRows(1, 3) },
			want: []core.Region{core.NewRegion(2, 1, 4, 1), core.NewRegion(7, 0, 7, 3), core.NewRegion(0, 7, core.LastRow, 7)},
		},
		{
			name: "delete after leaves earlier",
			op:   func(m *Manager) { m.DeleteRows(1, 5) },
			want: []core.Region{core.NewRegion(2, 1, 3, 1), core.NewRegion(5, 0, 5, 3), core.NewRegion(0, 7, core.LastRow, 7)},
		},
		{
			name: "delete containing removes",
			op:   func(m *Manager) { m.DeleteRows(2, 6) },
			want: []core.Region{core.NewRegion(2, 1, 3, 1), core.NewRegion(0, 7, core.LastRow, 7)},
		},
		{
			name: "straddling delete drops",
			op:   func(m *Manager) { m.DeleteRows(2, 3) },
			want: []core.Region{core.NewRegion(4, 0, 4, 3), core.NewRegion(0, 7, core.LastRow, 7)},
		},
		{
			name: "column delete shifts columns",
			op:   func(m *Manager) { m.DeleteColumns(1, 5) },
			want: []core.Region{core.NewRegion(2, 1, 3, 1), core.NewRegion(6, 0, 6, 3), core.NewRegion(0, 6, core.LastRow, 6)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(SelectMultiple)
			m.AddSelection(New(2, 1, 3, 1, true))
			m.AddSelection(New(6, 0, 6, 3, true))
			m.AddSelection(EntireColumn(7))

			tt.op(m)
			l := m.List()
			if len(l) != len(tt.want) {
				t.Fatalf("got %v, want %v", l, tt.want)
			}
			for i, w := range tt.want {
				if got := l[i].Region(); got != w {
					t.Errorf("entry %d = %v, want %v", i, got, w)
				}
			}
		})
	}
}
