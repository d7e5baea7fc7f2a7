package backend

import (
	"strings"

	"github.com/dshills/tablegrid/internal/grid/core"
)

// NullBackend is an in-memory backend for tests and for dumping a frame
// as text.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	events        chan Event
	shows         int
	mouse         bool
	closed        bool
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{events: make(chan Event, 100)}
	b.alloc(width, height)
	return b
}

func (b *NullBackend) alloc(width, height int) {
	b.width, b.height = max(width, 0), max(height, 0)
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Init() error { return nil }

// Shutdown makes PollEvent return EventClosed once the queue drains.
func (b *NullBackend) Shutdown() {
	if !b.closed {
		b.closed = true
		close(b.events)
	}
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

// Cell returns the cell at the given position.
func (b *NullBackend) Cell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Fill(r core.Rect, cell core.Cell) {
	for y := max(r.Y, 0); y <= r.Bottom() && y < b.height; y++ {
		for x := max(r.X, 0); x <= r.Right() && x < b.width; x++ {
			b.cells[y][x] = cell
		}
	}
}

func (b *NullBackend) Clear() {
	b.Fill(core.NewRect(0, 0, b.width, b.height), core.EmptyCell())
}

func (b *NullBackend) Show() { b.shows++ }

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int { return b.shows }

func (b *NullBackend) PollEvent() Event {
	ev, ok := <-b.events
	if !ok {
		return Event{Type: EventClosed}
	}
	return ev
}

// Events exposes the event queue so callers can select on it.
func (b *NullBackend) Events() <-chan Event { return b.events }

func (b *NullBackend) PostEvent(event Event) {
	if b.closed {
		return
	}
	select {
	case b.events <- event:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

func (b *NullBackend) HasTrueColor() bool { return true }
func (b *NullBackend) EnableMouse()       { b.mouse = true }
func (b *NullBackend) DisableMouse()      { b.mouse = false }

// MouseEnabled reports whether mouse reporting is on.
func (b *NullBackend) MouseEnabled() bool { return b.mouse }

// Resize simulates a terminal resize and queues the resize event.
func (b *NullBackend) Resize(width, height int) {
	b.alloc(width, height)
	b.PostEvent(Event{Type: EventResize, Width: b.width, Height: b.height})
}

// Line returns row y as text. Continuation cells of wide characters are
// skipped.
func (b *NullBackend) Line(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		if c.IsContinuation() {
			continue
		}
		if c.Rune == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteRune(c.Rune)
		for _, r := range c.Combining {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// String returns the whole screen, one line per row.
func (b *NullBackend) String() string {
	lines := make([]string, b.height)
	for y := range lines {
		lines[y] = strings.TrimRight(b.Line(y), " ")
	}
	return strings.Join(lines, "\n")
}
