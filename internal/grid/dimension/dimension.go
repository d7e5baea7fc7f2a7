// Package dimension stores row heights, column widths and hidden state.
//
// The layout engine consumes dimensions through the Service interface. The
// Manager type is the default implementation: it keeps per-index overrides
// on top of a default size, tracks hidden indices, and can stretch a set of
// indices to fill a target size.
package dimension

import (
	"sort"

	"github.com/google/uuid"

	"github.com/dshills/tablegrid/internal/grid/core"
)

// Service is the dimension query surface the layout engine needs.
type Service interface {
	RowHeight(row int) int
	ColumnWidth(col int) int
	IsRowHidden(row int) bool
	IsColumnHidden(col int) bool

	// RegionHeight returns the pixel height of the region's non-hidden
	// rows, including the grid lines between them.
	RegionHeight(r core.Region) int

	// RegionWidth returns the pixel width of the region's non-hidden
	// columns, including the grid lines between them.
	RegionWidth(r core.Region) int
}

// ChangeKind identifies what changed in a dimension notification.
type ChangeKind int

const (
	ChangeResized ChangeKind = iota
	ChangeHidden
	ChangeShown
	ChangeInserted
	ChangeDeleted
	ChangeMoved
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeResized:
		return "resized"
	case ChangeHidden:
		return "hidden"
	case ChangeShown:
		return "shown"
	case ChangeInserted:
		return "inserted"
	case ChangeDeleted:
		return "deleted"
	case ChangeMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Change describes a dimension change on one axis.
type Change struct {
	Axis  core.IndexType
	Kind  ChangeKind
	Start int
	Count int
}

// Options configures a Manager.
type Options struct {
	DefaultRowHeight    int
	DefaultColumnWidth  int
	HorizontalLineWidth int
	VerticalLineWidth   int
	MinRowHeight        int
	MinColumnWidth      int
}

// DefaultOptions returns terminal-friendly defaults: one-line rows, ten
// column-wide columns and single-width grid lines.
func DefaultOptions() Options {
	return Options{
		DefaultRowHeight:    1,
		DefaultColumnWidth:  10,
		HorizontalLineWidth: 1,
		VerticalLineWidth:   1,
		MinRowHeight:        1,
		MinColumnWidth:      1,
	}
}

type axis struct {
	def       int
	min       int
	sizes     map[int]int
	hidden    map[int]bool
	stretch   map[int]bool
	lastShift int
}

func newAxis(def, minSize int) *axis {
	return &axis{
		def:       def,
		min:       minSize,
		sizes:     make(map[int]int),
		hidden:    make(map[int]bool),
		stretch:   make(map[int]bool),
		lastShift: -1,
	}
}

func (a *axis) size(i int) int {
	if s, ok := a.sizes[i]; ok {
		return s
	}
	return a.def
}

func (a *axis) sum(start, end, lineWidth int) int {
	total := 0
	hidden := 0
	for i := start; i <= end; i++ {
		if a.hidden[i] {
			hidden++
			continue
		}
		total += a.size(i)
	}
	lines := max(end-start-hidden, 0)
	return total + lineWidth*lines
}

func shiftKeys[V any](m map[int]V, at, delta int) map[int]V {
	out := make(map[int]V, len(m))
	for k, v := range m {
		switch {
		case k < at:
			out[k] = v
		case delta < 0 && k < at-delta:
			// Deleted.
		default:
			out[k+delta] = v
		}
	}
	return out
}

func (a *axis) insert(n, at int) {
	a.sizes = shiftKeys(a.sizes, at, n)
	a.hidden = shiftKeys(a.hidden, at, n)
	a.stretch = shiftKeys(a.stretch, at, n)
}

func remapKeys[V any](m map[int]V, vismap []int) map[int]V {
	out := make(map[int]V, len(m))
	for k, v := range m {
		to := k
		if k < len(vismap) {
			to = vismap[k]
		}
		if to >= 0 {
			out[to] = v
		}
	}
	return out
}

func (a *axis) remap(vismap []int) {
	a.sizes = remapKeys(a.sizes, vismap)
	a.hidden = remapKeys(a.hidden, vismap)
	a.stretch = remapKeys(a.stretch, vismap)
}

func (a *axis) remove(n, at int) {
	a.sizes = shiftKeys(a.sizes, at, -n)
	a.hidden = shiftKeys(a.hidden, at, -n)
	a.stretch = shiftKeys(a.stretch, at, -n)
}

// Manager is the default dimension service.
type Manager struct {
	opts      Options
	rows      *axis
	cols      *axis
	listeners map[uuid.UUID]func(Change)
	order     []uuid.UUID
}

// NewManager creates a dimension manager.
func NewManager(opts Options) *Manager {
	if opts.DefaultRowHeight <= 0 {
		opts.DefaultRowHeight = 1
	}
	if opts.DefaultColumnWidth <= 0 {
		opts.DefaultColumnWidth = 1
	}
	return &Manager{
		opts:      opts,
		rows:      newAxis(opts.DefaultRowHeight, max(opts.MinRowHeight, 1)),
		cols:      newAxis(opts.DefaultColumnWidth, max(opts.MinColumnWidth, 1)),
		listeners: make(map[uuid.UUID]func(Change)),
	}
}

// Options returns the manager's options.
func (m *Manager) Options() Options {
	return m.opts
}

// Subscribe registers fn to be called synchronously on every change.
func (m *Manager) Subscribe(fn func(Change)) uuid.UUID {
	id := uuid.New()
	m.listeners[id] = fn
	m.order = append(m.order, id)
	return id
}

// Unsubscribe removes a listener.
func (m *Manager) Unsubscribe(id uuid.UUID) {
	delete(m.listeners, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Manager) notify(c Change) {
	for _, id := range m.order {
		if fn := m.listeners[id]; fn != nil {
			fn(c)
		}
	}
}

func (m *Manager) axis(t core.IndexType) *axis {
	if t == core.ColumnIndex {
		return m.cols
	}
	return m.rows
}

// SetLineWidths changes the grid line widths used by RegionHeight,
// RegionWidth and Stretch. Layout engines keep their own copy and must
// be updated alongside.
func (m *Manager) SetLineWidths(horizontal, vertical int) {
	m.opts.HorizontalLineWidth = max(horizontal, 0)
	m.opts.VerticalLineWidth = max(vertical, 0)
}

// RowHeight returns the height of row.
func (m *Manager) RowHeight(row int) int { return m.rows.size(row) }

// ColumnWidth returns the width of col.
func (m *Manager) ColumnWidth(col int) int { return m.cols.size(col) }

// IsRowHidden reports whether row is hidden.
func (m *Manager) IsRowHidden(row int) bool { return m.rows.hidden[row] }

// IsColumnHidden reports whether col is hidden.
func (m *Manager) IsColumnHidden(col int) bool { return m.cols.hidden[col] }

// RegionHeight implements Service.
func (m *Manager) RegionHeight(r core.Region) int {
	return m.rows.sum(r.StartRow, r.EndRow, m.opts.HorizontalLineWidth)
}

// RegionWidth implements Service.
func (m *Manager) RegionWidth(r core.Region) int {
	return m.cols.sum(r.StartCol, r.EndCol, m.opts.VerticalLineWidth)
}

// SetRowHeight overrides the height of a row.
func (m *Manager) SetRowHeight(row, height int) {
	m.setSize(core.RowIndex, row, height)
}

// SetColumnWidth overrides the width of a column.
func (m *Manager) SetColumnWidth(col, width int) {
	m.setSize(core.ColumnIndex, col, width)
}

func (m *Manager) setSize(t core.IndexType, i, size int) {
	a := m.axis(t)
	size = max(size, a.min)
	if a.size(i) == size {
		return
	}
	a.sizes[i] = size
	m.notify(Change{Axis: t, Kind: ChangeResized, Start: i, Count: 1})
}

// HideRow hides a row.
func (m *Manager) HideRow(row int) { m.setHidden(core.RowIndex, row, true) }

// ShowRow unhides a row.
func (m *Manager) ShowRow(row int) { m.setHidden(core.RowIndex, row, false) }

// HideColumn hides a column.
func (m *Manager) HideColumn(col int) { m.setHidden(core.ColumnIndex, col, true) }

// ShowColumn unhides a column.
func (m *Manager) ShowColumn(col int) { m.setHidden(core.ColumnIndex, col, false) }

func (m *Manager) setHidden(t core.IndexType, i int, hidden bool) {
	a := m.axis(t)
	if a.hidden[i] == hidden {
		return
	}
	kind := ChangeShown
	if hidden {
		a.hidden[i] = true
		kind = ChangeHidden
	} else {
		delete(a.hidden, i)
	}
	m.notify(Change{Axis: t, Kind: kind, Start: i, Count: 1})
}

// SetStretchable marks an index as taking part in Stretch.
func (m *Manager) SetStretchable(t core.IndexType, i int, on bool) {
	a := m.axis(t)
	if on {
		a.stretch[i] = true
	} else {
		delete(a.stretch, i)
	}
}

// Stretch distributes the difference between toSize and the current size
// of start..end over the stretchable indices in that range. The remainder
// goes to the indices after the one that received it last time so repeated
// small resizes do not always widen the same index. Returns false when
// nothing in range is stretchable.
func (m *Manager) Stretch(t core.IndexType, start, end, toSize int) bool {
	a := m.axis(t)
	var idx []int
	for i := range a.stretch {
		if i >= start && i <= end && !a.hidden[i] {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return false
	}
	sort.Ints(idx)

	lw := m.opts.HorizontalLineWidth
	if t == core.ColumnIndex {
		lw = m.opts.VerticalLineWidth
	}
	space := toSize - a.sum(start, end, lw)
	if space == 0 {
		return true
	}

	each := space / len(idx)
	remainder := space % len(idx)
	step := 1
	if remainder < 0 {
		remainder = -remainder
		step = -1
	}

	first := 0
	for n, i := range idx {
		if i > a.lastShift {
			first = n
			break
		}
	}
	for k := range idx {
		n := (first + k) % len(idx)
		i := idx[n]
		delta := each
		if remainder > 0 {
			delta += step
			remainder--
			a.lastShift = i
		}
		a.sizes[i] = max(a.size(i)+delta, a.min)
	}

	m.notify(Change{Axis: t, Kind: ChangeResized, Start: idx[0], Count: idx[len(idx)-1] - idx[0] + 1})
	return true
}

// InsertRows shifts row overrides to make room for n rows at position at.
func (m *Manager) InsertRows(n, at int) { m.insert(core.RowIndex, n, at) }

// InsertColumns shifts column overrides to make room for n columns.
func (m *Manager) InsertColumns(n, at int) { m.insert(core.ColumnIndex, n, at) }

// DeleteRows drops overrides for n rows at position at and shifts the rest.
func (m *Manager) DeleteRows(n, at int) { m.remove(core.RowIndex, n, at) }

// DeleteColumns drops overrides for n columns and shifts the rest.
func (m *Manager) DeleteColumns(n, at int) { m.remove(core.ColumnIndex, n, at) }

// Remap moves sizes, hidden flags and stretch flags of axis t after a
// reorder. vismap maps each old index to its new one; indices past its
// end stay put and a negative entry drops the index's settings.
func (m *Manager) Remap(t core.IndexType, vismap []int) {
	if len(vismap) == 0 {
		return
	}
	m.axis(t).remap(vismap)
	m.notify(Change{Axis: t, Kind: ChangeMoved, Start: 0, Count: len(vismap)})
}

func (m *Manager) insert(t core.IndexType, n, at int) {
	if n <= 0 || at < 0 {
		return
	}
	m.axis(t).insert(n, at)
	m.notify(Change{Axis: t, Kind: ChangeInserted, Start: at, Count: n})
}

func (m *Manager) remove(t core.IndexType, n, at int) {
	if n <= 0 || at < 0 {
		return
	}
	m.axis(t).remove(n, at)
	m.notify(Change{Axis: t, Kind: ChangeDeleted, Start: at, Count: n})
}
