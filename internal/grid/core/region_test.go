package core

import "testing"

func TestRegionEmpty(t *testing.T) {
	e := EmptyRegion()
	if !e.IsEmpty() {
		t.Error("EmptyRegion should be empty")
	}
	if e.IsValid() {
		t.Error("EmptyRegion should not be valid")
	}
	if e.Area() != 0 {
		t.Errorf("Area() = %d, want 0", e.Area())
	}

	r := NewRegion(1, 1, 3, 3)
	if got := e.Union(r); got != r {
		t.Errorf("empty.Union(r) = %v, want %v", got, r)
	}
	if got := r.Union(e); got != r {
		t.Errorf("r.Union(empty) = %v, want %v", got, r)
	}
	if r.Intersects(e) {
		t.Error("nothing should intersect the empty region")
	}
}

func TestRegionNormalized(t *testing.T) {
	r := RegionFromCells(Addr(5, 7), Addr(2, 3))
	want := NewRegion(2, 3, 5, 7)
	if r != want {
		t.Errorf("RegionFromCells = %v, want %v", r, want)
	}
	if r.Height() != 4 || r.Width() != 5 {
		t.Errorf("size = %dx%d, want 4x5", r.Height(), r.Width())
	}
}

func TestRegionIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b Region
		want Region
		ok   bool
	}{
		{"overlap", NewRegion(0, 0, 5, 5), NewRegion(3, 3, 8, 8), NewRegion(3, 3, 5, 5), true},
		{"contained", NewRegion(0, 0, 9, 9), NewRegion(2, 2, 4, 4), NewRegion(2, 2, 4, 4), true},
		{"touching corner", NewRegion(0, 0, 2, 2), NewRegion(2, 2, 3, 3), NewRegion(2, 2, 2, 2), true},
		{"disjoint", NewRegion(0, 0, 2, 2), NewRegion(3, 0, 4, 2), EmptyRegion(), false},
		{"entire row vs column", EntireRows(4, 4), EntireColumns(6, 6), NewRegion(4, 6, 4, 6), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.ok {
				t.Errorf("Intersects = %v, want %v", got, tt.ok)
			}
			if got := tt.a.Intersection(tt.b); !got.Equals(tt.want) {
				t.Errorf("Intersection = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegionContains(t *testing.T) {
	r := NewRegion(2, 2, 4, 6)
	if !r.Contains(2, 2) || !r.Contains(4, 6) {
		t.Error("corners should be contained")
	}
	if r.Contains(1, 3) || r.Contains(3, 7) {
		t.Error("outside cells should not be contained")
	}
	if !r.ContainsRegion(NewRegion(3, 3, 4, 4)) {
		t.Error("inner region should be contained")
	}
	if r.ContainsRegion(NewRegion(3, 3, 5, 4)) {
		t.Error("overhanging region should not be contained")
	}
}

func TestRegionEntireRowsAndClamp(t *testing.T) {
	r := EntireRows(3, 5)
	if !r.IsEntireRows() {
		t.Error("EntireRows should report IsEntireRows")
	}
	if r.IsEntireColumns() {
		t.Error("EntireRows should not report IsEntireColumns")
	}
	c := r.Clamp(99, 9)
	if c != NewRegion(3, 0, 5, 9) {
		t.Errorf("Clamp = %v, want [(3,0)-(5,9)]", c)
	}
}

func TestCellAddress(t *testing.T) {
	if InvalidCell.IsValid() {
		t.Error("InvalidCell should not be valid")
	}
	if !Addr(0, 0).IsValid() {
		t.Error("(0,0) should be valid")
	}
	if Addr(-1, 4).IsValid() {
		t.Error("negative row should not be valid")
	}
}

func TestIndexType(t *testing.T) {
	if !BothIndex.HasRows() || !BothIndex.HasColumns() {
		t.Error("BothIndex should include both axes")
	}
	if RowIndex.HasColumns() {
		t.Error("RowIndex should not include columns")
	}
}
