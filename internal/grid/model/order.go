package model

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/tablegrid/internal/grid/core"
)

// SortOrder is the direction of a sort.
type SortOrder uint8

const (
	// Ascending sorts smallest first.
	Ascending SortOrder = iota

	// Descending sorts largest first.
	Descending
)

// ParseSortOrder parses "asc" or "desc".
func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return Ascending, true
	case "desc", "descending":
		return Descending, true
	}
	return Ascending, false
}

// String returns the order name.
func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Ordered presents a model with its rows and columns in a visual order.
// Item, LastRow and LastColumn take visual indices. An axis that was never
// reordered maps every index to itself.
//
// A row insertion or deletion in the base model while the rows are
// reordered resets the row order and is reported as ModelReset; the same
// holds for columns.
type Ordered struct {
	base Model
	rows []int // visual -> model; nil is the identity
	cols []int

	baseID    uuid.UUID
	listeners map[uuid.UUID]func(Change)
	order     []uuid.UUID
}

// NewOrdered wraps base in the identity order.
func NewOrdered(base Model) *Ordered {
	if base == nil {
		base = Sized{}
	}
	return &Ordered{base: base, listeners: make(map[uuid.UUID]func(Change))}
}

// Base returns the wrapped model.
func (o *Ordered) Base() Model { return o.base }

// Item implements Model.
func (o *Ordered) Item(row, col int) any {
	return o.base.Item(o.ModelRow(row), o.ModelColumn(col))
}

// LastRow implements Model.
func (o *Ordered) LastRow() int { return o.base.LastRow() }

// LastColumn implements Model.
func (o *Ordered) LastColumn() int { return o.base.LastColumn() }

// ModelRow returns the model row shown at visual row.
func (o *Ordered) ModelRow(row int) int { return toModel(o.rows, row) }

// ModelColumn returns the model column shown at visual column col.
func (o *Ordered) ModelColumn(col int) int { return toModel(o.cols, col) }

// VisualRow returns the visual row showing model row, or -1.
func (o *Ordered) VisualRow(row int) int { return toVisual(o.rows, row) }

// VisualColumn returns the visual column showing model column col, or -1.
func (o *Ordered) VisualColumn(col int) int { return toVisual(o.cols, col) }

// IsIdentity reports whether axis is shown in model order.
func (o *Ordered) IsIdentity(axis core.IndexType) bool {
	if axis == core.ColumnIndex {
		return o.cols == nil
	}
	return o.rows == nil
}

func toModel(m []int, i int) int {
	if i >= 0 && i < len(m) {
		return m[i]
	}
	return i
}

func toVisual(m []int, i int) int {
	if i < 0 {
		return -1
	}
	if m == nil || i >= len(m) {
		return i
	}
	return slices.Index(m, i)
}

func (o *Ordered) axis(axis core.IndexType) (*[]int, int) {
	if axis == core.ColumnIndex {
		return &o.cols, o.base.LastColumn() + 1
	}
	return &o.rows, o.base.LastRow() + 1
}

// current returns the visual-to-model map of axis at full length.
func (o *Ordered) current(axis core.IndexType) []int {
	m, n := o.axis(axis)
	out := make([]int, n)
	for i := range out {
		out[i] = toModel(*m, i)
	}
	return out
}

// permute applies a new visual order given as the old visual index shown
// at each new position. It returns the old-to-new visual map, or nil when
// nothing moved.
func (o *Ordered) permute(axis core.IndexType, byNew []int) []int {
	m, _ := o.axis(axis)
	cur := o.current(axis)

	vismap := make([]int, len(byNew))
	next := make([]int, len(byNew))
	moved, identity := false, true
	for p, old := range byNew {
		vismap[old] = p
		next[p] = cur[old]
		moved = moved || old != p
		identity = identity && next[p] == p
	}
	if !moved {
		return nil
	}
	if identity {
		*m = nil
	} else {
		*m = next
	}
	return vismap
}

// Sort orders axis by the values in the line at visual index key of the
// other axis. Equal values keep their relative order; nil sorts last in
// both directions. It returns the old-to-new visual map, or nil when
// nothing moved.
func (o *Ordered) Sort(axis core.IndexType, key int, order SortOrder) []int {
	_, n := o.axis(axis)
	value := func(i int) any { return o.Item(i, key) }
	if axis == core.ColumnIndex {
		value = func(i int) any { return o.Item(key, i) }
	}

	vis := make([]int, n)
	vals := make([]any, n)
	for i := range vis {
		vis[i] = i
		vals[i] = value(i)
	}
	slices.SortStableFunc(vis, func(a, b int) int {
		va, vb := vals[a], vals[b]
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return 1
		case vb == nil:
			return -1
		}
		c := CompareValues(va, vb)
		if order == Descending {
			c = -c
		}
		return c
	})
	return o.permute(axis, vis)
}

// Move places the visual indices in lines, in ascending order, before
// visual index target of the same axis. A target past the end appends
// them. It returns the old-to-new visual map, or nil when nothing moved.
func (o *Ordered) Move(axis core.IndexType, target int, lines []int) []int {
	_, n := o.axis(axis)
	moving := make([]bool, n)
	var block []int
	for _, i := range lines {
		if i >= 0 && i < n && !moving[i] {
			moving[i] = true
			block = append(block, i)
		}
	}
	if len(block) == 0 {
		return nil
	}
	slices.Sort(block)

	target = min(max(target, 0), n)
	byNew := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i == target {
			byNew = append(byNew, block...)
		}
		if !moving[i] {
			byNew = append(byNew, i)
		}
	}
	if target == n {
		byNew = append(byNew, block...)
	}
	return o.permute(axis, byNew)
}

// Reset restores model order on axis and returns the old-to-new visual
// map, or nil when it already was in model order.
func (o *Ordered) Reset(axis core.IndexType) []int {
	m, _ := o.axis(axis)
	if *m == nil {
		return nil
	}
	cur := o.current(axis)
	// Showing model index cur[v] at position cur[v] is the identity.
	byNew := make([]int, len(cur))
	for v, mi := range cur {
		byNew[mi] = v
	}
	return o.permute(axis, byNew)
}

// Subscribe implements Observable. Changes of the base model are
// forwarded in visual coordinates.
func (o *Ordered) Subscribe(fn func(Change)) uuid.UUID {
	if len(o.order) == 0 {
		if obs, ok := o.base.(Observable); ok {
			o.baseID = obs.Subscribe(o.forward)
		}
	}
	id := uuid.New()
	o.listeners[id] = fn
	o.order = append(o.order, id)
	return id
}

// Unsubscribe implements Observable.
func (o *Ordered) Unsubscribe(id uuid.UUID) {
	delete(o.listeners, id)
	for i, x := range o.order {
		if x == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	if len(o.order) == 0 && o.baseID != uuid.Nil {
		if obs, ok := o.base.(Observable); ok {
			obs.Unsubscribe(o.baseID)
		}
		o.baseID = uuid.Nil
	}
}

func (o *Ordered) forward(c Change) {
	switch c.Kind {
	case CellsChanged:
		r := c.Region
		if !r.IsEmpty() {
			if o.rows != nil {
				r.StartRow, r.EndRow = 0, core.LastRow
			}
			if o.cols != nil {
				r.StartCol, r.EndCol = 0, core.LastColumn
			}
		}
		c.Region = r
	case RowsInserted, RowsDeleted:
		if o.rows != nil {
			o.rows = nil
			c = Change{Kind: ModelReset, Region: core.EmptyRegion()}
		}
	case ColumnsInserted, ColumnsDeleted:
		if o.cols != nil {
			o.cols = nil
			c = Change{Kind: ModelReset, Region: core.EmptyRegion()}
		}
	case ModelReset:
		o.rows, o.cols = nil, nil
	}
	for _, id := range o.order {
		if fn := o.listeners[id]; fn != nil {
			fn(c)
		}
	}
}

// CompareValues orders two cell values. Numbers compare numerically and
// sort before everything else, strings compare case-insensitively, false
// sorts before true and anything else compares by its printed form.
func CompareValues(a, b any) int {
	fa, aNum := number(a)
	fb, bNum := number(b)
	switch {
	case aNum && bNum:
		return cmp.Compare(fa, fb)
	case aNum:
		return -1
	case bNum:
		return 1
	}

	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			}
			return 1
		}
	}

	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	if c := strings.Compare(strings.ToLower(sa), strings.ToLower(sb)); c != 0 {
		return c
	}
	return strings.Compare(sa, sb)
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
