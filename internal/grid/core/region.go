package core

import (
	"fmt"
	"math"
)

// Open-ended sentinels meaning "last row/column of the model".
const (
	LastRow    = math.MaxInt32
	LastColumn = math.MaxInt32
)

// IndexType selects the axis (or axes) an operation applies to.
type IndexType uint8

const (
	RowIndex IndexType = 1 << iota
	ColumnIndex

	BothIndex = RowIndex | ColumnIndex
)

// HasRows reports whether the mask includes the row axis.
func (t IndexType) HasRows() bool { return t&RowIndex != 0 }

// HasColumns reports whether the mask includes the column axis.
func (t IndexType) HasColumns() bool { return t&ColumnIndex != 0 }

// String returns the axis name.
func (t IndexType) String() string {
	switch t {
	case RowIndex:
		return "row"
	case ColumnIndex:
		return "column"
	case BothIndex:
		return "both"
	default:
		return "none"
	}
}

// Direction is the horizontal layout direction.
type Direction uint8

const (
	LeftToRight Direction = iota
	RightToLeft
)

// String returns the direction name.
func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// CellAddress identifies a model cell. Either component may be -1 to mean
// "invalid".
type CellAddress struct {
	Row int
	Col int
}

// InvalidCell is the sentinel for "no cell".
var InvalidCell = CellAddress{Row: -1, Col: -1}

// Addr creates a cell address.
func Addr(row, col int) CellAddress {
	return CellAddress{Row: row, Col: col}
}

// IsValid returns true if both components are non-negative.
func (a CellAddress) IsValid() bool {
	return a.Row >= 0 && a.Col >= 0
}

// String returns a string representation of the address.
func (a CellAddress) String() string {
	return fmt.Sprintf("(%d,%d)", a.Row, a.Col)
}

// Region is a closed rectangular range of cells.
//
// A region whose end precedes its start on either axis is empty. Empty is
// distinct from invalid: an empty region is the identity for Union, while
// an invalid region (negative coordinates) is used by callers to mean
// "everything".
type Region struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// NewRegion creates a region from its corners.
func NewRegion(startRow, startCol, endRow, endCol int) Region {
	return Region{StartRow: startRow, StartCol: startCol, EndRow: endRow, EndCol: endCol}
}

// RegionFromCells creates the normalized region spanned by two cells.
func RegionFromCells(a, b CellAddress) Region {
	return Region{StartRow: a.Row, StartCol: a.Col, EndRow: b.Row, EndCol: b.Col}.Normalized()
}

// CellRegion returns the single-cell region at row, col.
func CellRegion(row, col int) Region {
	return Region{StartRow: row, StartCol: col, EndRow: row, EndCol: col}
}

// EmptyRegion returns the empty region.
func EmptyRegion() Region {
	return Region{StartRow: 0, StartCol: 0, EndRow: -1, EndCol: -1}
}

// InvalidRegion returns a region with all coordinates set to -1.
func InvalidRegion() Region {
	return Region{StartRow: -1, StartCol: -1, EndRow: -1, EndCol: -1}
}

// EntireRows returns the region covering rows start..end on every column.
func EntireRows(start, end int) Region {
	return Region{StartRow: start, StartCol: 0, EndRow: end, EndCol: LastColumn}
}

// EntireColumns returns the region covering columns start..end on every row.
func EntireColumns(start, end int) Region {
	return Region{StartRow: 0, StartCol: start, EndRow: LastRow, EndCol: end}
}

// IsEmpty returns true if the region contains no cells.
func (r Region) IsEmpty() bool {
	return r.EndRow < r.StartRow || r.EndCol < r.StartCol
}

// IsValid returns true if all coordinates are non-negative and the region
// is not empty.
func (r Region) IsValid() bool {
	return r.StartRow >= 0 && r.StartCol >= 0 && !r.IsEmpty()
}

// Normalized returns the region with start <= end on both axes.
func (r Region) Normalized() Region {
	if r.StartRow > r.EndRow {
		r.StartRow, r.EndRow = r.EndRow, r.StartRow
	}
	if r.StartCol > r.EndCol {
		r.StartCol, r.EndCol = r.EndCol, r.StartCol
	}
	return r
}

// Height returns the number of rows in the region.
func (r Region) Height() int {
	if r.IsEmpty() {
		return 0
	}
	return r.EndRow - r.StartRow + 1
}

// Width returns the number of columns in the region.
func (r Region) Width() int {
	if r.IsEmpty() {
		return 0
	}
	return r.EndCol - r.StartCol + 1
}

// Area returns the number of cells in the region.
func (r Region) Area() int {
	return r.Height() * r.Width()
}

// TopLeft returns the start corner.
func (r Region) TopLeft() CellAddress {
	return CellAddress{Row: r.StartRow, Col: r.StartCol}
}

// BottomRight returns the end corner.
func (r Region) BottomRight() CellAddress {
	return CellAddress{Row: r.EndRow, Col: r.EndCol}
}

// Contains returns true if the cell lies inside the region.
func (r Region) Contains(row, col int) bool {
	return row >= r.StartRow && row <= r.EndRow &&
		col >= r.StartCol && col <= r.EndCol
}

// ContainsRegion returns true if other lies entirely inside r.
func (r Region) ContainsRegion(other Region) bool {
	if other.IsEmpty() {
		return true
	}
	return other.StartRow >= r.StartRow && other.EndRow <= r.EndRow &&
		other.StartCol >= r.StartCol && other.EndCol <= r.EndCol
}

// Intersects returns true if the regions share at least one cell.
func (r Region) Intersects(other Region) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.StartRow <= other.EndRow && other.StartRow <= r.EndRow &&
		r.StartCol <= other.EndCol && other.StartCol <= r.EndCol
}

// Intersection returns the shared cells, or the empty region.
func (r Region) Intersection(other Region) Region {
	if !r.Intersects(other) {
		return EmptyRegion()
	}
	return Region{
		StartRow: max(r.StartRow, other.StartRow),
		StartCol: max(r.StartCol, other.StartCol),
		EndRow:   min(r.EndRow, other.EndRow),
		EndCol:   min(r.EndCol, other.EndCol),
	}
}

// Union returns the bounding region of both regions. The empty region is
// the identity.
func (r Region) Union(other Region) Region {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Region{
		StartRow: min(r.StartRow, other.StartRow),
		StartCol: min(r.StartCol, other.StartCol),
		EndRow:   max(r.EndRow, other.EndRow),
		EndCol:   max(r.EndCol, other.EndCol),
	}
}

// Clamp limits the end coordinates to the given last row and column.
// Open-ended sentinels become concrete.
func (r Region) Clamp(lastRow, lastCol int) Region {
	r.EndRow = min(r.EndRow, lastRow)
	r.EndCol = min(r.EndCol, lastCol)
	return r
}

// IsEntireRows returns true if the region covers whole rows.
func (r Region) IsEntireRows() bool {
	return r.StartCol == 0 && r.EndCol == LastColumn
}

// IsEntireColumns returns true if the region covers whole columns.
func (r Region) IsEntireColumns() bool {
	return r.StartRow == 0 && r.EndRow == LastRow
}

// Equals returns true if both regions have the same corners, or both are
// empty.
func (r Region) Equals(other Region) bool {
	if r.IsEmpty() && other.IsEmpty() {
		return true
	}
	return r == other
}

// String returns a string representation of the region.
func (r Region) String() string {
	if r.IsEmpty() {
		return "[empty]"
	}
	return fmt.Sprintf("[(%d,%d)-(%d,%d)]", r.StartRow, r.StartCol, r.EndRow, r.EndCol)
}
