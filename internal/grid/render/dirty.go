package render

import "github.com/dshills/tablegrid/internal/grid/core"

// ChangeType classifies what made part of the grid dirty.
type ChangeType uint8

const (
	// ChangeCells indicates cell values or attributes changed.
	ChangeCells ChangeType = iota

	// ChangeSelection indicates the selection changed.
	ChangeSelection

	// ChangeCurrent indicates the current cell moved.
	ChangeCurrent

	// ChangeScroll indicates the top-left cell changed.
	ChangeScroll

	// ChangeResize indicates the pixel area changed.
	ChangeResize

	// ChangeLayout indicates sizes, hidden state or spans changed.
	ChangeLayout
)

// String returns the change type name.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeCells:
		return "cells"
	case ChangeSelection:
		return "selection"
	case ChangeCurrent:
		return "current"
	case ChangeScroll:
		return "scroll"
	case ChangeResize:
		return "resize"
	case ChangeLayout:
		return "layout"
	default:
		return "unknown"
	}
}

// Tracker accumulates the cells that need repainting. Pending regions
// are unioned; any request that cannot be expressed as a region turns
// into a full repaint.
type Tracker struct {
	region  core.Region
	full    bool
	initial bool
}

// NewTracker creates a tracker whose first paint is full.
func NewTracker() *Tracker {
	return &Tracker{region: core.EmptyRegion(), full: true, initial: true}
}

// Redraw marks region dirty. An invalid region marks everything.
func (t *Tracker) Redraw(region core.Region) {
	if !region.IsValid() {
		t.MarkFull()
		return
	}
	if t.full {
		return
	}
	t.region = t.region.Union(region.Normalized())
}

// MarkChange marks the result of a change. Scrolls, resizes and layout
// changes move every cell and so repaint everything.
func (t *Tracker) MarkChange(ct ChangeType, region core.Region) {
	switch ct {
	case ChangeScroll, ChangeResize, ChangeLayout:
		t.MarkFull()
	default:
		t.Redraw(region)
	}
}

// MarkFull requests a repaint of everything.
func (t *Tracker) MarkFull() {
	t.full = true
	t.region = core.EmptyRegion()
}

// IsDirty reports whether anything needs painting.
func (t *Tracker) IsDirty() bool {
	return t.full || !t.region.IsEmpty()
}

// Region returns the accumulated dirty region.
func (t *Tracker) Region() core.Region { return t.region }

// NeedsFull reports whether the next paint must be full: a full repaint
// was requested, nothing has been painted yet, or the dirty region runs
// past the end of viewport.
func (t *Tracker) NeedsFull(viewport core.Region) bool {
	if t.full || t.initial {
		return true
	}
	if t.region.IsEmpty() {
		return false
	}
	return t.region.EndRow > viewport.EndRow || t.region.EndCol > viewport.EndCol
}

// Reset clears all pending state after a paint.
func (t *Tracker) Reset() {
	t.region = core.EmptyRegion()
	t.full = false
	t.initial = false
}
