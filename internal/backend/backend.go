// Package backend provides the terminal abstraction the grid paints to.
package backend

import "github.com/dshills/tablegrid/internal/grid/core"

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
	EventClosed
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventMouse:
		return "mouse"
	case EventResize:
		return "resize"
	case EventInterrupt:
		return "interrupt"
	case EventClosed:
		return "closed"
	default:
		return "none"
	}
}

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton
	MouseAction    MouseAction

	// Resize event fields
	Width, Height int
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlA
	KeyCtrlC
	KeyCtrlL
	KeyCtrlQ
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
)

// IsWheel reports whether the button is a wheel direction.
func (b MouseButton) IsWheel() bool {
	return b >= MouseWheelUp
}

// MouseAction distinguishes the phases of a pointer gesture.
type MouseAction int

const (
	MouseMove MouseAction = iota
	MousePress
	MouseDrag
	MouseRelease
)

// String returns the action name.
func (a MouseAction) String() string {
	switch a {
	case MousePress:
		return "press"
	case MouseDrag:
		return "drag"
	case MouseRelease:
		return "release"
	default:
		return "move"
	}
}

// NextMouseAction derives the gesture phase from the button held in the
// previous and the current mouse report. Terminals only report button
// state, so a press is a button appearing and a release is it going away.
func NextMouseAction(prev, cur MouseButton) MouseAction {
	switch {
	case cur.IsWheel():
		return MousePress
	case prev == MouseNone && cur != MouseNone:
		return MousePress
	case prev != MouseNone && !prev.IsWheel() && cur == MouseNone:
		return MouseRelease
	case cur != MouseNone && prev == cur:
		return MouseDrag
	case cur != MouseNone:
		return MousePress
	default:
		return MouseMove
	}
}

// Backend defines the interface for terminal/display backends.
// Implementations handle actual drawing to the terminal or other display surfaces.
type Backend interface {
	core.Surface

	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// Clear clears the entire screen with the default style.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// PollEvent waits for and returns the next terminal event. After
	// Shutdown it returns an EventClosed event.
	PollEvent() Event

	// PostEvent posts a synthetic event to the event queue.
	PostEvent(event Event)

	// HasTrueColor returns true if the backend supports 24-bit color.
	HasTrueColor() bool

	EnableMouse()
	DisableMouse()
}
