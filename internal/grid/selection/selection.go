// Package selection maintains the selected cells of a grid.
//
// User gestures are fed to Manager.Process. While a gesture is in
// progress the affected cells are marked directly in the manager's
// selected-state store; when it ends the gesture's rectangle is folded
// into the selection List. Deselections split every entry they overlap
// into at most four residual rectangles, so the positive entries of the
// list never overlap and their union is exactly the selected cell set.
package selection

import (
	"fmt"
	"sort"

	"github.com/dshills/tablegrid/internal/grid/core"
)

// Selection is one rectangle of cells, anchored where the gesture began.
// A Selection with StartCol 0 and EndCol core.LastColumn covers whole
// rows; the column case is symmetric.
type Selection struct {
	// Selected is false for a deselection.
	Selected bool

	AnchorRow, AnchorCol int
	StartRow, StartCol   int
	EndRow, EndCol       int
}

// New creates a selection whose start is its anchor.
func New(anchorRow, anchorCol, endRow, endCol int, selected bool) Selection {
	return Selection{
		Selected:  selected,
		AnchorRow: anchorRow,
		AnchorCol: anchorCol,
		StartRow:  anchorRow,
		StartCol:  anchorCol,
		EndRow:    endRow,
		EndCol:    endCol,
	}
}

// Invalid returns the "no selection" value.
func Invalid() Selection {
	return Selection{Selected: true, AnchorRow: -1, AnchorCol: -1, StartRow: -1, StartCol: -1, EndRow: -1, EndCol: -1}
}

// EntireRow returns a selection of row on every column.
func EntireRow(row int) Selection {
	return New(row, 0, row, core.LastColumn, true)
}

// EntireColumn returns a selection of col on every row.
func EntireColumn(col int) Selection {
	return New(0, col, core.LastRow, col, true)
}

// FromRegion returns a positive selection covering r.
func FromRegion(r core.Region) Selection {
	r = r.Normalized()
	return New(r.StartRow, r.StartCol, r.EndRow, r.EndCol, true)
}

// IsValid reports whether start and end are both set.
func (s Selection) IsValid() bool {
	return s.StartRow >= 0 && s.StartCol >= 0 && s.EndRow >= 0 && s.EndCol >= 0
}

func (s Selection) TopRow() int      { return min(s.StartRow, s.EndRow) }
func (s Selection) BottomRow() int   { return max(s.StartRow, s.EndRow) }
func (s Selection) LeftColumn() int  { return min(s.StartCol, s.EndCol) }
func (s Selection) RightColumn() int { return max(s.StartCol, s.EndCol) }

// Region returns the covered cells.
func (s Selection) Region() core.Region {
	if !s.IsValid() {
		return core.EmptyRegion()
	}
	return core.NewRegion(s.TopRow(), s.LeftColumn(), s.BottomRow(), s.RightColumn())
}

// IsEntireRow reports whether the selection covers whole rows.
func (s Selection) IsEntireRow() bool {
	return s.LeftColumn() == 0 && s.RightColumn() == core.LastColumn
}

// IsEntireColumn reports whether the selection covers whole columns.
func (s Selection) IsEntireColumn() bool {
	return s.TopRow() == 0 && s.BottomRow() == core.LastRow
}

// Contains reports whether the cell lies inside the rectangle.
func (s Selection) Contains(row, col int) bool {
	return s.IsValid() &&
		row >= s.TopRow() && row <= s.BottomRow() &&
		col >= s.LeftColumn() && col <= s.RightColumn()
}

// Intersects reports whether the rectangles overlap.
func (s Selection) Intersects(o Selection) bool {
	return max(s.TopRow(), o.TopRow()) <= min(s.BottomRow(), o.BottomRow()) &&
		max(s.LeftColumn(), o.LeftColumn()) <= min(s.RightColumn(), o.RightColumn())
}

// Intersection returns the overlap as a positive selection.
func (s Selection) Intersection(o Selection) Selection {
	return rect(
		max(s.TopRow(), o.TopRow()),
		max(s.LeftColumn(), o.LeftColumn()),
		min(s.BottomRow(), o.BottomRow()),
		min(s.RightColumn(), o.RightColumn()),
	)
}

// Union returns the bounding rectangle as a positive selection.
func (s Selection) Union(o Selection) Selection {
	return rect(
		min(s.TopRow(), o.TopRow()),
		min(s.LeftColumn(), o.LeftColumn()),
		max(s.BottomRow(), o.BottomRow()),
		max(s.RightColumn(), o.RightColumn()),
	)
}

// String returns a compact representation.
func (s Selection) String() string {
	sign := "+"
	if !s.Selected {
		sign = "-"
	}
	return fmt.Sprintf("%s%v", sign, s.Region())
}

func rect(top, left, bottom, right int) Selection {
	return New(top, left, bottom, right, true)
}

// List is an ordered set of selections.
type List []Selection

// IsCellSelected reports whether any entry covers the cell.
func (l List) IsCellSelected(row, col int) bool {
	for _, s := range l {
		if s.Contains(row, col) {
			return true
		}
	}
	return false
}

// IsRowSelected reports whether any entry covers row. With complete, only
// entries covering the whole row count.
func (l List) IsRowSelected(row int, complete bool) bool {
	for _, s := range l {
		if row >= s.TopRow() && row <= s.BottomRow() && (!complete || s.IsEntireRow()) {
			return true
		}
	}
	return false
}

// IsColumnSelected reports whether any entry covers col. With complete,
// only entries covering the whole column count.
func (l List) IsColumnSelected(col int, complete bool) bool {
	for _, s := range l {
		if col >= s.LeftColumn() && col <= s.RightColumn() && (!complete || s.IsEntireColumn()) {
			return true
		}
	}
	return false
}

// Region returns the bounding region of all entries.
func (l List) Region() core.Region {
	out := core.EmptyRegion()
	for _, s := range l {
		out = out.Union(s.Region())
	}
	return out
}

// Rows returns the sorted rows touched by any entry, clamped to lastRow.
func (l List) Rows(lastRow int) []int {
	return l.indices(lastRow, Selection.TopRow, Selection.BottomRow)
}

// Columns returns the sorted columns touched by any entry, clamped to
// lastCol.
func (l List) Columns(lastCol int) []int {
	return l.indices(lastCol, Selection.LeftColumn, Selection.RightColumn)
}

func (l List) indices(last int, lo, hi func(Selection) int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, s := range l {
		end := min(hi(s), last)
		for i := lo(s); i <= end; i++ {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}
	sort.Ints(out)
	return out
}

// CellCount returns the number of cells covered by positive entries,
// with open-ended entries clamped to the given bounds. Overlapping
// entries are counted once per entry.
func (l List) CellCount(lastRow, lastCol int) int {
	n := 0
	for _, s := range l {
		if !s.Selected {
			continue
		}
		r := s.Region().Clamp(lastRow, lastCol)
		if !r.IsEmpty() {
			n += r.Area()
		}
	}
	return n
}

// Clone returns a copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}
