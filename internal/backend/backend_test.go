package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tablegrid/internal/grid/core"
)

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cell := core.NewStyledCell('X', core.DefaultStyle().WithForeground(core.ColorBlue))
	b.SetCell(10, 5, cell)

	if got := b.Cell(10, 5); !got.Equals(cell) {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds should be ignored/return empty
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)
	if got := b.Cell(-1, 0); !got.Equals(core.EmptyCell()) {
		t.Error("out of bounds should return empty cell")
	}
}

func TestNullBackendFillAndLine(t *testing.T) {
	b := NewNullBackend(10, 3)
	b.Fill(core.NewRect(2, 1, 3, 5), core.NewStyledCell('.', core.DefaultStyle()))

	want := []string{
		"          ",
		"  ...     ",
		"  ...     ",
	}
	for y, w := range want {
		if got := b.Line(y); got != w {
			t.Errorf("Line(%d) = %q, want %q", y, got, w)
		}
	}
	if got := b.String(); got != "\n  ...\n  ..." {
		t.Errorf("String() = %q", got)
	}

	b.Clear()
	if got := b.Line(1); got != "          " {
		t.Errorf("after Clear Line(1) = %q", got)
	}
}

func TestNullBackendWideRune(t *testing.T) {
	b := NewNullBackend(4, 1)
	b.SetCell(0, 0, core.NewStyledCell('日', core.DefaultStyle()))
	b.SetCell(1, 0, core.Cell{})
	b.SetCell(2, 0, core.NewStyledCell('a', core.DefaultStyle()))

	if got := b.Line(0); got != "日a " {
		t.Errorf("Line(0) = %q, want %q", got, "日a ")
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: 'q'})
	b.Resize(100, 40)

	if ev := b.PollEvent(); ev.Type != EventKey || ev.Rune != 'q' {
		t.Errorf("first event = %+v, want key q", ev)
	}
	ev := b.PollEvent()
	if ev.Type != EventResize || ev.Width != 100 || ev.Height != 40 {
		t.Errorf("second event = %+v, want resize 100x40", ev)
	}
	if w, h := b.Size(); w != 100 || h != 40 {
		t.Errorf("Size() = %d,%d, want 100,40", w, h)
	}

	b.Shutdown()
	b.PostEvent(Event{Type: EventKey})
	if ev := b.PollEvent(); ev.Type != EventClosed {
		t.Errorf("after Shutdown event = %v, want closed", ev.Type)
	}
}

func TestNextMouseAction(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur MouseButton
		want      MouseAction
	}{
		{"press", MouseNone, MouseLeft, MousePress},
		{"drag", MouseLeft, MouseLeft, MouseDrag},
		{"release", MouseLeft, MouseNone, MouseRelease},
		{"move", MouseNone, MouseNone, MouseMove},
		{"wheel", MouseNone, MouseWheelDown, MousePress},
		{"wheel while held", MouseLeft, MouseWheelUp, MousePress},
		{"button change", MouseLeft, MouseRight, MousePress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextMouseAction(tt.prev, tt.cur); got != tt.want {
				t.Errorf("NextMouseAction(%v, %v) = %v, want %v", tt.prev, tt.cur, got, tt.want)
			}
		})
	}
}

func TestConvertEvent(t *testing.T) {
	key := convertEvent(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModShift))
	if key.Type != EventKey || key.Key != KeyPageDown || !key.Mod.Has(ModShift) {
		t.Errorf("key event = %+v", key)
	}

	mouse := convertEvent(tcell.NewEventMouse(3, 7, tcell.Button1, tcell.ModCtrl))
	if mouse.Type != EventMouse || mouse.MouseX != 3 || mouse.MouseY != 7 {
		t.Errorf("mouse event = %+v", mouse)
	}
	if mouse.MouseButton != MouseLeft || !mouse.Mod.Has(ModCtrl) {
		t.Errorf("mouse button/mod = %v/%v", mouse.MouseButton, mouse.Mod)
	}

	posted := Event{Type: EventResize, Width: 5, Height: 6}
	if got := convertEvent(tcell.NewEventInterrupt(posted)); got != posted {
		t.Errorf("interrupt event = %+v, want %+v", got, posted)
	}
	if got := convertEvent(tcell.NewEventInterrupt(nil)); got.Type != EventInterrupt {
		t.Errorf("bare interrupt = %v, want interrupt", got.Type)
	}
}

func TestConvertStyle(t *testing.T) {
	st := core.Style{
		Foreground: core.ColorFromRGB(10, 20, 30),
		Background: core.ColorDefault,
		Attributes: core.AttrBold | core.AttrUnderline,
	}
	fg, bg, attrs := convertStyle(st).Decompose()
	if fg != tcell.NewRGBColor(10, 20, 30) {
		t.Errorf("foreground = %v", fg)
	}
	if bg != tcell.ColorDefault {
		t.Errorf("background = %v, want default", bg)
	}
	if attrs&tcell.AttrBold == 0 || attrs&tcell.AttrUnderline == 0 {
		t.Errorf("attributes = %v, want bold|underline", attrs)
	}
}
