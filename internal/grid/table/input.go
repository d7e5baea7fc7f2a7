package table

import (
	"github.com/dshills/tablegrid/internal/backend"
	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/selection"
	"github.com/dshills/tablegrid/internal/grid/traverse"
)

// WheelStep is how many rows or columns one wheel notch scrolls.
const WheelStep = 3

// gestureState tracks the pointer and keyboard selection in progress.
type gestureState struct {
	dragging bool
	anchor   core.CellAddress
	last     core.CellAddress
	x, y     int

	// Keyboard extension anchor; invalid when no shift-move is running.
	keyAnchor core.CellAddress
}

func (s *gestureState) reset() {
	*s = gestureState{
		anchor:    core.InvalidCell,
		last:      core.InvalidCell,
		keyAnchor: core.InvalidCell,
	}
}

// Dragging reports whether a pointer selection is in progress.
func (g *Grid) Dragging() bool { return g.gesture.dragging }

// HandleEvent applies a key or mouse event. It reports whether the event
// was consumed.
func (g *Grid) HandleEvent(ev backend.Event) bool {
	switch ev.Type {
	case backend.EventKey:
		return g.handleKey(ev)
	case backend.EventMouse:
		return g.handleMouse(ev)
	case backend.EventResize:
		g.Resize(ev.Width, ev.Height)
		return true
	}
	return false
}

func (g *Grid) handleKey(ev backend.Event) bool {
	ctrl := ev.Mod.Has(backend.ModCtrl)
	shift := ev.Mod.Has(backend.ModShift)
	rtl := g.opts.Direction == core.RightToLeft

	var m traverse.Movement
	switch ev.Key {
	case backend.KeyUp:
		m = traverse.MoveUp
	case backend.KeyDown, backend.KeyEnter:
		m = traverse.MoveDown
	case backend.KeyLeft:
		m = traverse.MoveLeft
	case backend.KeyRight:
		m = traverse.MoveRight
	case backend.KeyTab:
		m = traverse.MoveRight
		if rtl {
			m = traverse.MoveLeft
		}
	case backend.KeyBacktab:
		m = traverse.MoveLeft
		if rtl {
			m = traverse.MoveRight
		}
	case backend.KeyPageUp:
		m = traverse.MovePageUp
	case backend.KeyPageDown:
		m = traverse.MovePageDown
	case backend.KeyHome:
		m = traverse.MoveHome
		if ctrl {
			m = traverse.MoveTableStart
		}
	case backend.KeyEnd:
		m = traverse.MoveEnd
		if ctrl {
			m = traverse.MoveTableEnd
		}
	case backend.KeyCtrlA:
		g.sel.SelectAll()
		return true
	case backend.KeyRune:
		if ev.Rune == ' ' {
			g.toggleCurrent()
			return true
		}
		return false
	default:
		return false
	}

	if ev.Key == backend.KeyTab || ev.Key == backend.KeyBacktab || ev.Key == backend.KeyEnter {
		shift = false
	}
	return g.Move(m, shift)
}

// Move applies a traversal. With extend set the selection grows from the
// cell where extension started to the new current cell.
func (g *Grid) Move(m traverse.Movement, extend bool) bool {
	g.prepare()
	prev := g.nav.Current()
	if !prev.IsValid() {
		g.gesture.keyAnchor = core.InvalidCell
		return g.nav.TableStart()
	}
	if !g.nav.Move(m) {
		return false
	}
	if !extend {
		g.gesture.keyAnchor = core.InvalidCell
		return true
	}

	cur := g.nav.Current()
	if !g.gesture.keyAnchor.IsValid() || !g.hasBlock(g.gesture.keyAnchor) || !g.sel.Policy().Multiple() {
		g.gesture.keyAnchor = prev
		g.sel.Process(selection.Begin, prev, cur)
		g.sel.Process(selection.End, prev, cur)
		return true
	}
	g.sel.Process(selection.Extend, g.gesture.keyAnchor, cur)
	return true
}

// hasBlock reports whether a committed selection is anchored at cell.
func (g *Grid) hasBlock(cell core.CellAddress) bool {
	for _, s := range g.sel.List() {
		if s.AnchorRow == cell.Row && s.AnchorCol == cell.Col {
			return true
		}
	}
	return false
}

// toggleCurrent flips the selected state of the current cell.
func (g *Grid) toggleCurrent() {
	cur := g.nav.Current()
	if !cur.IsValid() {
		return
	}
	g.sel.Process(selection.Add, cur, cur)
	g.sel.Process(selection.End, cur, cur)
}

func (g *Grid) handleMouse(ev backend.Event) bool {
	if ev.MouseButton.IsWheel() {
		return g.handleWheel(ev.MouseButton)
	}

	switch ev.MouseAction {
	case backend.MousePress:
		if ev.MouseButton != backend.MouseLeft {
			return false
		}
		return g.press(ev.MouseX, ev.MouseY, ev.Mod)
	case backend.MouseDrag:
		return g.drag(ev.MouseX, ev.MouseY)
	case backend.MouseRelease:
		return g.release()
	}
	return false
}

func (g *Grid) handleWheel(b backend.MouseButton) bool {
	rows, cols := 0, 0
	switch b {
	case backend.MouseWheelUp:
		rows = -WheelStep
	case backend.MouseWheelDown:
		rows = WheelStep
	case backend.MouseWheelLeft:
		cols = -WheelStep
	case backend.MouseWheelRight:
		cols = WheelStep
	}
	if g.opts.Direction == core.RightToLeft {
		cols = -cols
	}
	g.ScrollBy(rows, cols)
	return true
}

// press starts a gesture. Shift extends the block anchored at the last
// click. Ctrl toggles the cell and drags the toggle; anything else starts
// a new selection.
func (g *Grid) press(x, y int, mod backend.ModMask) bool {
	cell := g.CellAt(x, y, false)
	if !cell.IsValid() {
		return false
	}
	g.gesture.x, g.gesture.y = x, y
	g.gesture.keyAnchor = core.InvalidCell

	switch {
	case mod.Has(backend.ModShift) && g.gesture.anchor.IsValid() && g.hasBlock(g.gesture.anchor):
		g.sel.Process(selection.Extend, g.gesture.anchor, cell)
		g.nav.TraverseToCell(cell.Row, cell.Col, false)
		return true

	case mod.Has(backend.ModCtrl):
		g.sel.Process(selection.Add, cell, cell)
	default:
		g.sel.Process(selection.Begin, cell, cell)
	}

	g.gesture.dragging = true
	g.gesture.anchor = cell
	g.gesture.last = cell
	g.nav.TraverseToCell(cell.Row, cell.Col, false)
	return true
}

// drag moves the end of the selection in progress and starts or stops
// auto-scrolling depending on how far outside the scrolling pane the
// pointer is.
func (g *Grid) drag(x, y int) bool {
	if !g.gesture.dragging {
		return false
	}
	g.gesture.x, g.gesture.y = x, y

	r := g.main.rect
	step := autoScrollStep(x, y, r.X, r.Y, r.Right(), r.Bottom())
	if g.opts.Direction == core.RightToLeft {
		step.Cols = -step.Cols
	}
	g.auto.Start(step)

	g.dragTo(x, y)
	return true
}

func (g *Grid) dragTo(x, y int) {
	cell := g.CellAt(x, y, true)
	if !cell.IsValid() || cell == g.gesture.last {
		return
	}
	g.gesture.last = cell
	g.sel.Process(selection.Drag, g.gesture.anchor, cell)
}

func (g *Grid) release() bool {
	if !g.gesture.dragging {
		return false
	}
	g.auto.Stop()
	g.gesture.dragging = false
	g.sel.Process(selection.End, g.gesture.anchor, g.gesture.last)
	return true
}

// AutoScrollTick applies one auto-scroll step and moves the drag to the
// cells that scrolled under the pointer. Ticks arriving after the drag
// ended are ignored.
func (g *Grid) AutoScrollTick(step ScrollStep) {
	if !g.gesture.dragging || step.IsZero() {
		return
	}
	g.ScrollBy(step.Rows, step.Cols)
	g.dragTo(g.gesture.x, g.gesture.y)
}
