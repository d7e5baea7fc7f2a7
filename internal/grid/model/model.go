// Package model provides the data model the grid displays.
//
// Model is the read surface the grid needs: an item per cell and the
// model's bounds. Table is an in-memory implementation with change
// notifications; the loaders in this package build Tables from xlsx, JSON
// and SQLite sources, and ScriptModel computes cells with Lua.
package model

import (
	"github.com/google/uuid"

	"github.com/dshills/tablegrid/internal/grid/core"
)

// Model is a two-dimensional data source.
type Model interface {
	// Item returns the value at row, col, or nil.
	Item(row, col int) any

	// LastRow returns the index of the last row, or -1 when empty.
	LastRow() int

	// LastColumn returns the index of the last column, or -1 when empty.
	LastColumn() int
}

// ChangeKind identifies a model change.
type ChangeKind int

const (
	CellsChanged ChangeKind = iota
	RowsInserted
	RowsDeleted
	ColumnsInserted
	ColumnsDeleted
	ModelReset
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case CellsChanged:
		return "cells-changed"
	case RowsInserted:
		return "rows-inserted"
	case RowsDeleted:
		return "rows-deleted"
	case ColumnsInserted:
		return "columns-inserted"
	case ColumnsDeleted:
		return "columns-deleted"
	case ModelReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes a model modification. Region is set for CellsChanged;
// Start and Count for insertions and deletions.
type Change struct {
	Kind   ChangeKind
	Region core.Region
	Start  int
	Count  int
}

// Observable is implemented by models that report changes.
type Observable interface {
	Subscribe(fn func(Change)) uuid.UUID
	Unsubscribe(id uuid.UUID)
}

// Table is an in-memory model. Rows may be ragged; missing cells read as
// nil.
type Table struct {
	rows    [][]any
	numCols int

	listeners map[uuid.UUID]func(Change)
	order     []uuid.UUID
}

// NewTable creates an empty table with the given size.
func NewTable(rows, cols int) *Table {
	t := &Table{listeners: make(map[uuid.UUID]func(Change))}
	t.rows = make([][]any, max(rows, 0))
	t.numCols = max(cols, 0)
	return t
}

// NewTableFromRows creates a table holding rows.
func NewTableFromRows(rows [][]any) *Table {
	t := NewTable(0, 0)
	t.rows = rows
	for _, r := range rows {
		t.numCols = max(t.numCols, len(r))
	}
	return t
}

// Subscribe implements Observable.
func (t *Table) Subscribe(fn func(Change)) uuid.UUID {
	id := uuid.New()
	t.listeners[id] = fn
	t.order = append(t.order, id)
	return id
}

// Unsubscribe implements Observable.
func (t *Table) Unsubscribe(id uuid.UUID) {
	delete(t.listeners, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *Table) notify(c Change) {
	for _, id := range t.order {
		if fn := t.listeners[id]; fn != nil {
			fn(c)
		}
	}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return t.numCols }

// LastRow implements Model.
func (t *Table) LastRow() int { return len(t.rows) - 1 }

// LastColumn implements Model.
func (t *Table) LastColumn() int { return t.numCols - 1 }

// Item implements Model.
func (t *Table) Item(row, col int) any {
	if row < 0 || row >= len(t.rows) || col < 0 {
		return nil
	}
	r := t.rows[row]
	if col >= len(r) {
		return nil
	}
	return r[col]
}

// SetItem stores v at row, col, growing the table if needed.
func (t *Table) SetItem(row, col int, v any) {
	if row < 0 || col < 0 {
		return
	}
	grew := false
	for row >= len(t.rows) {
		t.rows = append(t.rows, nil)
		grew = true
	}
	r := t.rows[row]
	for col >= len(r) {
		r = append(r, nil)
	}
	r[col] = v
	t.rows[row] = r
	if col >= t.numCols {
		t.numCols = col + 1
		grew = true
	}
	if grew {
		t.notify(Change{Kind: ModelReset, Region: core.EmptyRegion()})
		return
	}
	t.notify(Change{Kind: CellsChanged, Region: core.CellRegion(row, col)})
}

// InsertRows inserts n empty rows before at.
func (t *Table) InsertRows(n, at int) {
	if n <= 0 || at < 0 || at > len(t.rows) {
		return
	}
	fresh := make([][]any, n)
	t.rows = append(t.rows[:at], append(fresh, t.rows[at:]...)...)
	t.notify(Change{Kind: RowsInserted, Region: core.EmptyRegion(), Start: at, Count: n})
}

// DeleteRows removes n rows starting at at.
func (t *Table) DeleteRows(n, at int) {
	if n <= 0 || at < 0 || at >= len(t.rows) {
		return
	}
	n = min(n, len(t.rows)-at)
	t.rows = append(t.rows[:at], t.rows[at+n:]...)
	t.notify(Change{Kind: RowsDeleted, Region: core.EmptyRegion(), Start: at, Count: n})
}

// InsertColumns inserts n empty columns before at.
func (t *Table) InsertColumns(n, at int) {
	if n <= 0 || at < 0 || at > t.numCols {
		return
	}
	for i, r := range t.rows {
		if at >= len(r) {
			continue
		}
		fresh := make([]any, n)
		t.rows[i] = append(r[:at], append(fresh, r[at:]...)...)
	}
	t.numCols += n
	t.notify(Change{Kind: ColumnsInserted, Region: core.EmptyRegion(), Start: at, Count: n})
}

// DeleteColumns removes n columns starting at at.
func (t *Table) DeleteColumns(n, at int) {
	if n <= 0 || at < 0 || at >= t.numCols {
		return
	}
	n = min(n, t.numCols-at)
	for i, r := range t.rows {
		if at >= len(r) {
			continue
		}
		end := min(at+n, len(r))
		t.rows[i] = append(r[:at], r[end:]...)
	}
	t.numCols -= n
	t.notify(Change{Kind: ColumnsDeleted, Region: core.EmptyRegion(), Start: at, Count: n})
}

// Sized is a model with fixed bounds whose items come from a function.
// It lets hosts present very large virtual tables without storing cells.
type Sized struct {
	Rows, Cols int
	Func       func(row, col int) any
}

// Item implements Model.
func (s Sized) Item(row, col int) any {
	if row < 0 || col < 0 || row >= s.Rows || col >= s.Cols || s.Func == nil {
		return nil
	}
	return s.Func(row, col)
}

// LastRow implements Model.
func (s Sized) LastRow() int { return s.Rows - 1 }

// LastColumn implements Model.
func (s Sized) LastColumn() int { return s.Cols - 1 }
