// Package style provides per-cell attributes, cell displays and the theme.
//
// The Provider interface is what layout, rendering and traversal consult:
// whether a cell is enabled, which Display draws it, and any style
// override. Store is the default map-backed implementation and emits a
// PropertyChange for every mutation so the grid can decide between a
// recompute, a redraw, or nothing.
package style

import (
	"github.com/google/uuid"

	"github.com/dshills/tablegrid/internal/grid/core"
)

// Provider answers per-cell attribute queries.
type Provider interface {
	Enabled(row, col int) bool
	Display(row, col int) Display

	// CellStyle returns the override for a cell, or nil.
	CellStyle(row, col int) *core.Style
}

// Property names a cell attribute.
type Property int

const (
	PropForeground Property = iota
	PropBackground
	PropFont
	PropHidden
	PropEnabled
	PropDisplay
	PropSelected
	PropToolTip
)

// String returns the property name.
func (p Property) String() string {
	switch p {
	case PropForeground:
		return "foreground"
	case PropBackground:
		return "background"
	case PropFont:
		return "font"
	case PropHidden:
		return "hidden"
	case PropEnabled:
		return "enabled"
	case PropDisplay:
		return "display"
	case PropSelected:
		return "selected"
	case PropToolTip:
		return "tooltip"
	default:
		return "unknown"
	}
}

// PropertyChange reports a property change over a region.
type PropertyChange struct {
	Region   core.Region
	Property Property
}

type cellKey struct{ row, col int }

// Store is a map-backed Provider.
type Store struct {
	disabledCells map[cellKey]bool
	disabledRows  map[int]bool
	disabledCols  map[int]bool

	styles   map[cellKey]core.Style
	tooltips map[cellKey]string

	colDisplays map[int]Display
	cellDisplay map[cellKey]Display
	fallback    Display

	listeners map[uuid.UUID]func(PropertyChange)
	order     []uuid.UUID
}

// NewStore creates an empty attribute store.
func NewStore() *Store {
	return &Store{
		disabledCells: make(map[cellKey]bool),
		disabledRows:  make(map[int]bool),
		disabledCols:  make(map[int]bool),
		styles:        make(map[cellKey]core.Style),
		tooltips:      make(map[cellKey]string),
		colDisplays:   make(map[int]Display),
		cellDisplay:   make(map[cellKey]Display),
		fallback:      DefaultDisplay,
		listeners:     make(map[uuid.UUID]func(PropertyChange)),
	}
}

// Subscribe registers fn to be called synchronously after every change.
func (s *Store) Subscribe(fn func(PropertyChange)) uuid.UUID {
	id := uuid.New()
	s.listeners[id] = fn
	s.order = append(s.order, id)
	return id
}

// Unsubscribe removes a listener.
func (s *Store) Unsubscribe(id uuid.UUID) {
	delete(s.listeners, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) notify(r core.Region, p Property) {
	c := PropertyChange{Region: r, Property: p}
	for _, id := range s.order {
		if fn := s.listeners[id]; fn != nil {
			fn(c)
		}
	}
}

// Enabled implements Provider.
func (s *Store) Enabled(row, col int) bool {
	return !s.disabledRows[row] && !s.disabledCols[col] && !s.disabledCells[cellKey{row, col}]
}

// Display implements Provider.
func (s *Store) Display(row, col int) Display {
	if d, ok := s.cellDisplay[cellKey{row, col}]; ok {
		return d
	}
	if d, ok := s.colDisplays[col]; ok {
		return d
	}
	return s.fallback
}

// CellStyle implements Provider.
func (s *Store) CellStyle(row, col int) *core.Style {
	if st, ok := s.styles[cellKey{row, col}]; ok {
		return &st
	}
	return nil
}

// ToolTip returns the tooltip for a cell.
func (s *Store) ToolTip(row, col int) string {
	return s.tooltips[cellKey{row, col}]
}

// SetEnabled enables or disables one cell.
func (s *Store) SetEnabled(row, col int, enabled bool) {
	k := cellKey{row, col}
	if enabled {
		delete(s.disabledCells, k)
	} else {
		s.disabledCells[k] = true
	}
	s.notify(core.CellRegion(row, col), PropEnabled)
}

// SetRowEnabled enables or disables a whole row.
func (s *Store) SetRowEnabled(row int, enabled bool) {
	if enabled {
		delete(s.disabledRows, row)
	} else {
		s.disabledRows[row] = true
	}
	s.notify(core.EntireRows(row, row), PropEnabled)
}

// SetColumnEnabled enables or disables a whole column.
func (s *Store) SetColumnEnabled(col int, enabled bool) {
	if enabled {
		delete(s.disabledCols, col)
	} else {
		s.disabledCols[col] = true
	}
	s.notify(core.EntireColumns(col, col), PropEnabled)
}

// SetForeground sets a cell's foreground colour.
func (s *Store) SetForeground(row, col int, c core.Color) {
	k := cellKey{row, col}
	st, ok := s.styles[k]
	if !ok {
		st = core.DefaultStyle()
	}
	s.styles[k] = st.WithForeground(c)
	s.notify(core.CellRegion(row, col), PropForeground)
}

// SetBackground sets a cell's background colour.
func (s *Store) SetBackground(row, col int, c core.Color) {
	k := cellKey{row, col}
	st, ok := s.styles[k]
	if !ok {
		st = core.DefaultStyle()
	}
	s.styles[k] = st.WithBackground(c)
	s.notify(core.CellRegion(row, col), PropBackground)
}

// SetAttributes sets a cell's text attributes. Attributes change the
// glyph metrics on some front ends, so this reports PropFont.
func (s *Store) SetAttributes(row, col int, a core.Attribute) {
	k := cellKey{row, col}
	st, ok := s.styles[k]
	if !ok {
		st = core.DefaultStyle()
	}
	st.Attributes = a
	s.styles[k] = st
	s.notify(core.CellRegion(row, col), PropFont)
}

// SetToolTip sets a cell's tooltip.
func (s *Store) SetToolTip(row, col int, text string) {
	k := cellKey{row, col}
	if text == "" {
		delete(s.tooltips, k)
	} else {
		s.tooltips[k] = text
	}
	s.notify(core.CellRegion(row, col), PropToolTip)
}

// SetColumnDisplay sets the display for every cell of a column.
func (s *Store) SetColumnDisplay(col int, d Display) {
	if d == nil {
		delete(s.colDisplays, col)
	} else {
		s.colDisplays[col] = d
	}
	s.notify(core.EntireColumns(col, col), PropDisplay)
}

// SetCellDisplay sets the display for one cell.
func (s *Store) SetCellDisplay(row, col int, d Display) {
	k := cellKey{row, col}
	if d == nil {
		delete(s.cellDisplay, k)
	} else {
		s.cellDisplay[k] = d
	}
	s.notify(core.CellRegion(row, col), PropDisplay)
}

// SetDefaultDisplay replaces the fallback display.
func (s *Store) SetDefaultDisplay(d Display) {
	if d == nil {
		d = DefaultDisplay
	}
	s.fallback = d
	s.notify(core.EntireRows(0, core.LastRow), PropDisplay)
}

// Remap moves every per-index attribute of axis after a reorder. vismap
// maps each old index to its new one; indices past its end stay put and
// a negative entry drops the index's attributes. Listeners are not
// notified; the caller repaints.
func (s *Store) Remap(axis core.IndexType, vismap []int) {
	if len(vismap) == 0 {
		return
	}
	move := func(i int) int {
		if i >= 0 && i < len(vismap) {
			return vismap[i]
		}
		return i
	}
	moveKey := func(k cellKey) (cellKey, bool) {
		if axis == core.ColumnIndex {
			k.col = move(k.col)
			return k, k.col >= 0
		}
		k.row = move(k.row)
		return k, k.row >= 0
	}

	s.disabledCells = remapCells(s.disabledCells, moveKey)
	s.styles = remapCells(s.styles, moveKey)
	s.tooltips = remapCells(s.tooltips, moveKey)
	s.cellDisplay = remapCells(s.cellDisplay, moveKey)
	if axis == core.ColumnIndex {
		s.disabledCols = remapLines(s.disabledCols, move)
		s.colDisplays = remapLines(s.colDisplays, move)
	} else {
		s.disabledRows = remapLines(s.disabledRows, move)
	}
}

func remapCells[V any](m map[cellKey]V, move func(cellKey) (cellKey, bool)) map[cellKey]V {
	out := make(map[cellKey]V, len(m))
	for k, v := range m {
		if nk, ok := move(k); ok {
			out[nk] = v
		}
	}
	return out
}

func remapLines[V any](m map[int]V, move func(int) int) map[int]V {
	out := make(map[int]V, len(m))
	for k, v := range m {
		if nk := move(k); nk >= 0 {
			out[nk] = v
		}
	}
	return out
}
