package span

import (
	"testing"

	"github.com/dshills/tablegrid/internal/grid/core"
)

func TestAddRejectsOverlap(t *testing.T) {
	m := NewManager()
	if !m.Add(core.NewRegion(2, 2, 4, 4)) {
		t.Fatal("first span should be accepted")
	}

	tests := []struct {
		name string
		r    core.Region
	}{
		{"overlapping corner", core.NewRegion(4, 4, 5, 5)},
		{"contains existing", core.NewRegion(0, 0, 9, 9)},
		{"inside existing", core.NewRegion(3, 3, 3, 4)},
		{"single cell", core.CellRegion(7, 7)},
		{"invalid", core.NewRegion(-1, 0, 2, 2)},
		{"open ended", core.EntireRows(8, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m.Add(tt.r) {
				t.Errorf("Add(%v) accepted, want rejected", tt.r)
			}
			if m.Len() != 1 {
				t.Errorf("Len = %d, want 1", m.Len())
			}
			if got := m.Spans()[0]; got != core.NewRegion(2, 2, 4, 4) {
				t.Errorf("span set changed to %v", got)
			}
		})
	}
}

func TestSpansNeverOverlap(t *testing.T) {
	m := NewManager()
	candidates := []core.Region{
		core.NewRegion(0, 0, 1, 1),
		core.NewRegion(1, 1, 2, 2),
		core.NewRegion(0, 2, 0, 5),
		core.NewRegion(3, 0, 6, 0),
		core.NewRegion(5, 0, 5, 3),
		core.NewRegion(2, 3, 4, 4),
		core.NewRegion(6, 6, 8, 8),
	}
	for _, c := range candidates {
		m.Add(c)
	}

	spans := m.Spans()
	for i := range spans {
		for j := range spans {
			if i != j && spans[i].Intersects(spans[j]) {
				t.Errorf("spans %v and %v overlap", spans[i], spans[j])
			}
		}
	}
}

func TestAddReplacesSameAnchor(t *testing.T) {
	m := NewManager()
	m.Add(core.NewRegion(1, 1, 2, 2))
	m.Add(core.NewRegion(5, 5, 6, 6))

	if !m.Add(core.NewRegion(1, 1, 3, 4)) {
		t.Fatal("same-anchor span should replace")
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if r, ok := m.IsSpanner(1, 1); !ok || r != core.NewRegion(1, 1, 3, 4) {
		t.Errorf("IsSpanner(1,1) = %v,%v", r, ok)
	}
	if m.Add(core.NewRegion(1, 1, 5, 5)) {
		t.Error("replacement that hits another span should be rejected")
	}
}

func TestInsideSpan(t *testing.T) {
	m := NewManager()
	m.Add(core.NewRegion(2, 2, 3, 4))

	tests := []struct {
		row, col int
		interior bool
		ok       bool
	}{
		{2, 2, false, true},
		{2, 3, true, true},
		{3, 4, true, true},
		{4, 4, false, false},
		{1, 2, false, false},
	}

	for _, tt := range tests {
		_, interior, ok := m.InsideSpan(tt.row, tt.col)
		if interior != tt.interior || ok != tt.ok {
			t.Errorf("InsideSpan(%d,%d) = %v,%v want %v,%v", tt.row, tt.col, interior, ok, tt.interior, tt.ok)
		}
	}
	if _, ok := m.IsSpanner(2, 3); ok {
		t.Error("interior cell should not be a spanner")
	}
}

func TestRemoveAndNotify(t *testing.T) {
	m := NewManager()
	var kinds []ChangeKind
	m.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })

	m.Add(core.NewRegion(0, 0, 1, 1))
	m.Add(core.NewRegion(0, 0, 0, 0)) // rejected, no event
	if !m.Remove(0, 0) {
		t.Error("Remove should find the span")
	}
	if m.Remove(0, 0) {
		t.Error("second Remove should report false")
	}
	m.Add(core.NewRegion(4, 4, 5, 5))
	m.RemoveAll()

	want := []ChangeKind{SpanAdded, SpanRemoved, SpanAdded, SpansCleared}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestMaxSpanForRow(t *testing.T) {
	m := NewManager()
	m.Add(core.NewRegion(3, 0, 4, 1))
	m.Add(core.NewRegion(3, 5, 6, 5))

	if got := m.MaxSpanForRow(3); got != core.NewRegion(3, 0, 6, core.LastColumn) {
		t.Errorf("MaxSpanForRow = %v", got)
	}
	if got := m.MaxSpanForColumn(0); got != core.NewRegion(0, 0, core.LastRow, 1) {
		t.Errorf("MaxSpanForColumn = %v", got)
	}
	if got := m.MaxSpanForRow(9); got != core.EntireRows(9, 9) {
		t.Errorf("MaxSpanForRow without spans = %v", got)
	}
}

func TestInsertRows(t *testing.T) {
	m := NewManager()
	m.Add(core.NewRegion(1, 0, 2, 1)) // above insertion point
	m.Add(core.NewRegion(4, 0, 6, 1)) // straddles
	m.Add(core.NewRegion(8, 0, 9, 1)) // below

	m.InsertRows(2, 5)

	want := []core.Region{
		core.NewRegion(1, 0, 2, 1),
		core.NewRegion(4, 0, 8, 1),
		core.NewRegion(10, 0, 11, 1),
	}
	got := m.Spans()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("span %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDeleteRows(t *testing.T) {
	tests := []struct {
		name string
		span core.Region
		n    int
		at   int
		want []core.Region
	}{
		{"above untouched", core.NewRegion(0, 0, 1, 1), 2, 5, []core.Region{core.NewRegion(0, 0, 1, 1)}},
		{"below moves up", core.NewRegion(8, 0, 9, 1), 2, 5, []core.Region{core.NewRegion(6, 0, 7, 1)}},
		{"inside removed", core.NewRegion(5, 0, 6, 1), 3, 4, nil},
		{"cut top", core.NewRegion(5, 0, 9, 1), 3, 4, []core.Region{core.NewRegion(4, 0, 6, 1)}},
		{"cut bottom", core.NewRegion(2, 0, 6, 1), 3, 5, []core.Region{core.NewRegion(2, 0, 4, 1)}},
		{"cut centre", core.NewRegion(2, 0, 9, 1), 3, 4, []core.Region{core.NewRegion(2, 0, 6, 1)}},
		{"shrinks to single cell", core.NewRegion(2, 3, 3, 3), 1, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			if !m.Add(tt.span) {
				t.Fatalf("Add(%v) rejected", tt.span)
			}
			m.DeleteRows(tt.n, tt.at)
			got := m.Spans()
			if len(got) != len(tt.want) {
				t.Fatalf("spans = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDeleteColumns(t *testing.T) {
	m := NewManager()
	m.Add(core.NewRegion(0, 2, 1, 6))
	m.DeleteColumns(2, 3)

	got := m.Spans()
	if len(got) != 1 || got[0] != core.NewRegion(0, 2, 1, 4) {
		t.Errorf("spans = %v, want [(0,2)-(1,4)]", got)
	}
}
