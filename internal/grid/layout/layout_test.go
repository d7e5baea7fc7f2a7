package layout

import (
	"testing"

	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/dimension"
	"github.com/dshills/tablegrid/internal/grid/model"
	"github.com/dshills/tablegrid/internal/grid/span"
)

func newTestEngine(rows, cols, rowHeight, colWidth int, opts Options) (*Engine, *dimension.Manager, *span.Manager) {
	do := dimension.DefaultOptions()
	do.DefaultRowHeight = rowHeight
	do.DefaultColumnWidth = colWidth
	do.HorizontalLineWidth = opts.HorizontalLineWidth
	do.VerticalLineWidth = opts.VerticalLineWidth
	dims := dimension.NewManager(do)
	spans := span.NewManager()
	e := New(dims, spans, model.Sized{Rows: rows, Cols: cols}, opts)
	return e, dims, spans
}

func TestFullyVisibleBottomRow(t *testing.T) {
	tests := []struct {
		name       string
		height     int
		wantBottom int
		wantFully  int
	}{
		{"exact fit", 20*21 + 1, 19, 19},
		{"partial next row", 430, 20, 19},
		{"one pixel short", 20 * 21, 19, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Viewport = core.NewRegion(0, 0, 99, 99)
			e, _, _ := newTestEngine(200, 5, 20, 10, opts)
			e.SetBounds(core.NewRect(0, 0, 80, tt.height))
			e.Layout()

			if got := e.BottomRow(); got != tt.wantBottom {
				t.Errorf("BottomRow() = %d, want %d", got, tt.wantBottom)
			}
			if got := e.FullyVisibleBottomRow(); got != tt.wantFully {
				t.Errorf("FullyVisibleBottomRow() = %d, want %d", got, tt.wantFully)
			}
		})
	}
}

func TestComputeCellPositionsMonotonic(t *testing.T) {
	opts := DefaultOptions()
	e, dims, _ := newTestEngine(50, 20, 3, 7, opts)
	dims.HideRow(4)
	dims.HideRow(5)
	dims.SetRowHeight(8, 9)
	dims.HideColumn(2)
	dims.SetColumnWidth(3, 15)

	last := e.ComputeCellPositions(core.NewRect(0, 0, 100, 60), core.Addr(0, 0), core.BothIndex)
	if last != core.Addr(e.BottomRow(), e.RightColumn()) {
		t.Errorf("returned %v, want bottom-right %d,%d", last, e.BottomRow(), e.RightColumn())
	}

	rows := e.RowPositions()
	prev := -1
	for r := rows.First(); r <= rows.Last(); r++ {
		p := rows.At(r)
		if dims.IsRowHidden(r) {
			if p != Hidden {
				t.Errorf("hidden row %d at %d", r, p)
			}
			continue
		}
		if p <= prev {
			t.Errorf("row %d at %d, not after %d", r, p, prev)
		}
		if prev >= 0 && r > 0 {
			prevRow := e.LastNonHiddenRow(0, r-1)
			if want := prev + dims.RowHeight(prevRow) + 1; p != want {
				t.Errorf("row %d at %d, want %d (hidden rows take no space)", r, p, want)
			}
		}
		prev = p
	}

	cols := e.ColumnPositions()
	if cols.At(2) != Hidden {
		t.Errorf("hidden column at %d", cols.At(2))
	}
	if got, want := cols.At(4), cols.At(3)+15+1; got != want {
		t.Errorf("column 4 at %d, want %d", got, want)
	}
}

func TestComputeCellPositionsRTL(t *testing.T) {
	opts := DefaultOptions()
	opts.Direction = core.RightToLeft
	e, _, _ := newTestEngine(10, 10, 1, 10, opts)
	e.SetBounds(core.NewRect(0, 0, 40, 10))
	e.Layout()

	cols := e.ColumnPositions()
	wantX := []int{29, 18, 7, -4}
	for i, want := range wantX {
		if got := cols.At(i); got != want {
			t.Errorf("column %d at %d, want %d", i, got, want)
		}
	}
	if e.RightColumn() != 3 {
		t.Errorf("RightColumn() = %d, want 3", e.RightColumn())
	}
	if e.FullyVisibleRightColumn() != 2 {
		t.Errorf("FullyVisibleRightColumn() = %d, want 2", e.FullyVisibleRightColumn())
	}

	tests := []struct {
		x    int
		want int
	}{
		{39, -1},
		{38, 0},
		{29, 0},
		{28, 0},
		{27, 1},
		{6, 2},
		{5, 3},
		{2, 3},
	}
	for _, tt := range tests {
		if got := e.ColumnAt(tt.x, false); got != tt.want {
			t.Errorf("ColumnAt(%d) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestRTLPartialColumnAtMinusOne(t *testing.T) {
	opts := DefaultOptions()
	opts.Direction = core.RightToLeft
	e, _, _ := newTestEngine(10, 10, 1, 10, opts)
	e.SetBounds(core.NewRect(0, 0, 43, 10))
	e.Layout()

	cols := e.ColumnPositions()
	for i, want := range []int{32, 21, 10, -1} {
		if got := cols.At(i); got != want {
			t.Errorf("column %d at %d, want %d", i, got, want)
		}
	}
	if e.RightColumn() != 3 {
		t.Fatalf("RightColumn() = %d, want 3", e.RightColumn())
	}
	if got, want := e.CellDimensions(0, 3, false), core.NewRect(-1, 1, 10, 1); got != want {
		t.Errorf("CellDimensions(0, 3) = %v, want %v", got, want)
	}
	for _, x := range []int{0, 4, 8} {
		if got := e.ColumnAt(x, false); got != 3 {
			t.Errorf("ColumnAt(%d) = %d, want 3", x, got)
		}
	}
}

func TestViewports(t *testing.T) {
	opts := DefaultOptions()
	opts.Viewport = core.NewRegion(0, 0, 99, 99)
	e, dims, _ := newTestEngine(50, 8, 1, 10, opts)
	dims.HideRow(0)
	dims.HideRow(49)
	dims.HideColumn(7)

	if got, want := e.RealViewport(), core.NewRegion(0, 0, 49, 7); got != want {
		t.Errorf("RealViewport() = %v, want %v", got, want)
	}
	if got, want := e.CurrentViewport(), core.NewRegion(1, 0, 48, 6); got != want {
		t.Errorf("CurrentViewport() = %v, want %v", got, want)
	}

	e.SetModel(model.NewTable(0, 0))
	if got := e.RealViewport(); got != core.EmptyRegion() || !got.IsEmpty() {
		t.Errorf("empty model viewport = %v, want %v", got, core.EmptyRegion())
	}
	if r, c := e.LastPage(); r != 0 || c != 0 {
		t.Errorf("empty LastPage() = %d,%d, want 0,0", r, c)
	}
}

func TestLastPage(t *testing.T) {
	opts := DefaultOptions()
	e, dims, _ := newTestEngine(100, 30, 20, 10, opts)
	e.SetBounds(core.NewRect(0, 0, 56, 20*21+1))

	row, col := e.LastPage()
	if row != 80 {
		t.Errorf("last page row = %d, want 80", row)
	}
	if col != 25 {
		t.Errorf("last page column = %d, want 25", col)
	}

	e.SetTopRow(50)
	if r, _ := e.LastPage(); r != 80 {
		t.Errorf("last page depends on scroll: %d", r)
	}

	dims.HideRow(85)
	e.RowsChanged(85, 1)
	if r, _ := e.LastPage(); r != 79 {
		t.Errorf("last page with hidden row = %d, want 79", r)
	}
}

func TestRowAt(t *testing.T) {
	opts := DefaultOptions()
	e, dims, _ := newTestEngine(100, 5, 4, 10, opts)
	dims.HideRow(2)
	e.SetBounds(core.NewRect(0, 0, 60, 20))

	if got := e.RowAt(5, false); got != Inconsistent {
		t.Errorf("RowAt before layout = %d, want Inconsistent", got)
	}
	e.Layout()

	tests := []struct {
		y       int
		nearest bool
		want    int
	}{
		{0, false, -1},
		{0, true, 0},
		{1, false, 0},
		{5, false, 0},
		{6, false, 1},
		{11, false, 3},
		{15, false, 3},
		{16, false, 4},
		{19, false, 4},
	}
	for _, tt := range tests {
		if got := e.RowAt(tt.y, tt.nearest); got != tt.want {
			t.Errorf("RowAt(%d, %v) = %d, want %d", tt.y, tt.nearest, got, tt.want)
		}
	}

	small, _, _ := newTestEngine(2, 2, 4, 10, opts)
	small.SetBounds(core.NewRect(0, 0, 60, 40))
	small.Layout()
	if got := small.RowAt(30, false); got != -1 {
		t.Errorf("below last row = %d, want -1", got)
	}
	if got := small.RowAt(30, true); got != 1 {
		t.Errorf("nearest below last row = %d, want 1", got)
	}
}

func TestCellAtSpan(t *testing.T) {
	opts := DefaultOptions()
	e, _, spans := newTestEngine(10, 10, 1, 10, opts)
	spans.Add(core.NewRegion(1, 1, 2, 3))
	e.SetBounds(core.NewRect(0, 0, 80, 20))
	e.Layout()

	x := e.ColumnPositions().At(3) + 1
	y := e.RowPositions().At(2)
	if got := e.CellAt(x, y, false); got != core.Addr(1, 1) {
		t.Errorf("CellAt inside span = %v, want (1,1)", got)
	}
	if got := e.CellAt(200, 200, false); got != core.InvalidCell {
		t.Errorf("CellAt outside = %v, want invalid", got)
	}

	e.SetTopRow(1)
	if got := e.CellAt(0, 0, true); got.Row != Inconsistent {
		t.Errorf("CellAt while stale = %v, want Inconsistent", got)
	}
}

func TestCellDimensions(t *testing.T) {
	opts := DefaultOptions()
	e, _, spans := newTestEngine(10, 10, 2, 10, opts)
	spans.Add(core.NewRegion(1, 1, 2, 3))
	e.SetBounds(core.NewRect(0, 0, 80, 30))
	e.Layout()

	if got, want := e.CellDimensions(0, 0, true), core.NewRect(1, 1, 10, 2); got != want {
		t.Errorf("CellDimensions(0,0) = %v, want %v", got, want)
	}
	// Three columns and two lines wide, two rows and one line tall.
	if got, want := e.CellDimensions(1, 1, true), core.NewRect(12, 4, 32, 5); got != want {
		t.Errorf("span CellDimensions = %v, want %v", got, want)
	}
	if got, want := e.CellDimensions(1, 1, false), core.NewRect(12, 4, 10, 2); got != want {
		t.Errorf("anchor without spans = %v, want %v", got, want)
	}
	if got := e.CellDimensions(50, 0, true); got != core.InvalidRect {
		t.Errorf("off-screen CellDimensions = %v, want invalid", got)
	}
}

func TestSpanOriginScrolled(t *testing.T) {
	opts := DefaultOptions()
	e, _, spans := newTestEngine(10, 10, 2, 10, opts)
	sp := core.NewRegion(1, 1, 3, 3)
	spans.Add(sp)
	e.SetBounds(core.NewRect(0, 0, 80, 30))
	e.SetTopRow(2)
	e.SetLeftColumn(2)
	e.Layout()

	got := e.SpanOrigin(sp)
	if got.W != 32 || got.H != 8 {
		t.Errorf("span size = %dx%d, want 32x8", got.W, got.H)
	}
	if got.X != 1-11 || got.Y != 1-3 {
		t.Errorf("span origin = %d,%d, want %d,%d", got.X, got.Y, -10, -2)
	}
}

func TestVisibility(t *testing.T) {
	opts := DefaultOptions()
	e, dims, _ := newTestEngine(20, 20, 1, 10, opts)
	dims.HideColumn(1)
	e.SetBounds(core.NewRect(0, 0, 30, 5))
	e.Layout()

	if e.VisibleRows() != 2 {
		t.Errorf("VisibleRows() = %d, want 2", e.VisibleRows())
	}
	if e.VisibleColumns() != 3 {
		t.Errorf("VisibleColumns() = %d, want 3", e.VisibleColumns())
	}
	if e.IsCellVisible(0, 1) {
		t.Error("hidden column reported visible")
	}
	if !e.IsCellVisible(1, 3) || e.IsCellFullyVisible(1, 3) {
		t.Error("column 3 should be partly visible")
	}
	if e.IsCellValid(0, 1) || !e.IsCellValid(19, 19) || e.IsCellValid(20, 0) {
		t.Error("IsCellValid mismatch")
	}
}
