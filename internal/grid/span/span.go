// Package span manages merged-cell rectangles.
//
// A span is a region whose cells render as the top-left (anchor) cell's
// content. Spans never overlap; Add rejects any span that would.
package span

import (
	"github.com/google/uuid"

	"github.com/dshills/tablegrid/internal/grid/core"
)

// Service is the span lookup surface consumed by layout and rendering.
type Service interface {
	// IsSpanner returns the span anchored at row, col.
	IsSpanner(row, col int) (core.Region, bool)

	// InsideSpan returns the span covering row, col. interior is true when
	// the cell is covered by the span but is not its anchor.
	InsideSpan(row, col int) (r core.Region, interior bool, ok bool)

	// Spans returns all spans in insertion order.
	Spans() []core.Region
}

// ChangeKind identifies a span change.
type ChangeKind int

const (
	SpanAdded ChangeKind = iota
	SpanRemoved
	SpansCleared
	SpansShifted
)

// Change describes a span list modification.
type Change struct {
	Kind ChangeKind
	// Region is the affected span; empty for SpansCleared and SpansShifted.
	Region core.Region
}

// Manager is the default span service.
type Manager struct {
	spans     []core.Region
	listeners map[uuid.UUID]func(Change)
	order     []uuid.UUID
}

// NewManager creates an empty span manager.
func NewManager() *Manager {
	return &Manager{listeners: make(map[uuid.UUID]func(Change))}
}

// Subscribe registers fn to be called synchronously after every change.
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

// Len returns the number of spans.
func (m *Manager) Len() int {
	return len(m.spans)
}

// Spans returns a copy of all spans.
func (m *Manager) Spans() []core.Region {
	out := make([]core.Region, len(m.spans))
	copy(out, m.spans)
	return out
}

// Add inserts a span. A span with the same anchor as an existing one
// replaces it, provided the new rectangle does not hit any other span.
// Single cells, invalid regions and overlapping spans are rejected and the
// set is left unchanged.
func (m *Manager) Add(r core.Region) bool {
	r = r.Normalized()
	if !r.IsValid() || (r.Height() <= 1 && r.Width() <= 1) {
		return false
	}
	if r.EndRow == core.LastRow || r.EndCol == core.LastColumn {
		return false
	}

	replace := -1
	for i, s := range m.spans {
		if s.StartRow == r.StartRow && s.StartCol == r.StartCol {
			replace = i
			continue
		}
		if s.Intersects(r) {
			return false
		}
	}

	if replace >= 0 {
		m.spans[replace] = r
	} else {
		m.spans = append(m.spans, r)
	}
	m.notify(Change{Kind: SpanAdded, Region: r})
	return true
}

// Remove deletes the span anchored at row, col.
func (m *Manager) Remove(row, col int) bool {
	for i, s := range m.spans {
		if s.StartRow == row && s.StartCol == col {
			m.spans = append(m.spans[:i], m.spans[i+1:]...)
			m.notify(Change{Kind: SpanRemoved, Region: s})
			return true
		}
	}
	return false
}

// RemoveAll deletes every span.
func (m *Manager) RemoveAll() {
	if len(m.spans) == 0 {
		return
	}
	m.spans = nil
	m.notify(Change{Kind: SpansCleared, Region: core.EmptyRegion()})
}

// IsSpanner implements Service.
func (m *Manager) IsSpanner(row, col int) (core.Region, bool) {
	for _, s := range m.spans {
		if s.StartRow == row && s.StartCol == col {
			return s, true
		}
	}
	return core.EmptyRegion(), false
}

// InsideSpan implements Service.
func (m *Manager) InsideSpan(row, col int) (core.Region, bool, bool) {
	for _, s := range m.spans {
		if s.Contains(row, col) {
			interior := s.StartRow != row || s.StartCol != col
			return s, interior, true
		}
	}
	return core.EmptyRegion(), false, false
}

// Intersecting returns the spans that share a cell with r.
func (m *Manager) Intersecting(r core.Region) []core.Region {
	var out []core.Region
	for _, s := range m.spans {
		if s.Intersects(r) {
			out = append(out, s)
		}
	}
	return out
}

// MaxSpanForRow returns the entire-row region starting at row, extended
// downward by the tallest span anchored on that row.
func (m *Manager) MaxSpanForRow(row int) core.Region {
	height := 1
	for _, s := range m.spans {
		if s.StartRow == row {
			height = max(height, s.Height())
		}
	}
	return core.NewRegion(row, 0, row+height-1, core.LastColumn)
}

// MaxSpanForColumn returns the entire-column region starting at col,
// extended right by the widest span anchored in that column.
func (m *Manager) MaxSpanForColumn(col int) core.Region {
	width := 1
	for _, s := range m.spans {
		if s.StartCol == col {
			width = max(width, s.Width())
		}
	}
	return core.NewRegion(0, col, core.LastRow, col+width-1)
}

// InsertRows moves spans at or below at down by n and grows spans that
// straddle at.
func (m *Manager) InsertRows(n, at int) {
	m.insert(core.RowIndex, n, at)
}

// InsertColumns moves spans at or right of at by n and grows spans that
// straddle at.
func (m *Manager) InsertColumns(n, at int) {
	m.insert(core.ColumnIndex, n, at)
}

// DeleteRows removes rows at..at+n-1 from every span. Spans entirely
// inside the range are dropped, spans below move up, and spans that
// overlap the range are cut.
func (m *Manager) DeleteRows(n, at int) {
	m.remove(core.RowIndex, n, at)
}

// DeleteColumns is the column counterpart of DeleteRows.
func (m *Manager) DeleteColumns(n, at int) {
	m.remove(core.ColumnIndex, n, at)
}

// axisOf returns the start and end of r on the given axis.
func axisOf(r core.Region, t core.IndexType) (int, int) {
	if t == core.ColumnIndex {
		return r.StartCol, r.EndCol
	}
	return r.StartRow, r.EndRow
}

func withAxis(r core.Region, t core.IndexType, start, end int) core.Region {
	if t == core.ColumnIndex {
		r.StartCol, r.EndCol = start, end
	} else {
		r.StartRow, r.EndRow = start, end
	}
	return r
}

func (m *Manager) insert(t core.IndexType, n, at int) {
	if n <= 0 || at < 0 || len(m.spans) == 0 {
		return
	}
	for i, s := range m.spans {
		start, end := axisOf(s, t)
		switch {
		case start >= at:
			m.spans[i] = withAxis(s, t, start+n, end+n)
		case end >= at:
			m.spans[i] = withAxis(s, t, start, end+n)
		}
	}
	m.notify(Change{Kind: SpansShifted, Region: core.EmptyRegion()})
}

func (m *Manager) remove(t core.IndexType, n, at int) {
	if n <= 0 || at < 0 || len(m.spans) == 0 {
		return
	}
	// Half-open intervals: span [sl, sr), deletion [dl, dr).
	dl, dr := at, at+n
	kept := m.spans[:0]
	for _, s := range m.spans {
		start, end := axisOf(s, t)
		sl, sr := start, end+1
		switch {
		case sr <= dl:
			kept = append(kept, s)
		case sl >= dr:
			kept = append(kept, withAxis(s, t, sl-n, sr-n-1))
		default:
			size := max(dl-sl, 0) + max(sr-dr, 0)
			if size == 0 {
				continue
			}
			newStart := min(sl, dl)
			cut := withAxis(s, t, newStart, newStart+size-1)
			if cut.Height() <= 1 && cut.Width() <= 1 {
				continue
			}
			kept = append(kept, cut)
		}
	}
	m.spans = kept
	m.notify(Change{Kind: SpansShifted, Region: core.EmptyRegion()})
}
