package style

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/tablegrid/internal/grid/core"
)

// Display renders one kind of cell value. Implementations must be
// stateless; the same Display is shared by many cells.
type Display interface {
	// IsEmpty reports whether value has nothing to draw. Empty cells are
	// the only ones an overflowing neighbour may claim.
	IsEmpty(value any) bool

	// ContentWidth returns the pixel width needed to show value in full.
	ContentWidth(value any) int

	// Draw paints value into rect on s.
	Draw(s core.Surface, rect core.Rect, value any, st core.Style)
}

// Alignment is the horizontal placement of text inside a cell.
type Alignment int

const (
	AlignAuto Alignment = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// ParseAlignment parses "left", "right", "center" or "auto".
func ParseAlignment(s string) Alignment {
	switch strings.ToLower(s) {
	case "left":
		return AlignLeft
	case "right":
		return AlignRight
	case "center", "centre":
		return AlignCenter
	default:
		return AlignAuto
	}
}

// TextDisplay draws a value's string form on the first line of the cell.
// AlignAuto right-aligns numbers and left-aligns everything else.
type TextDisplay struct {
	Align Alignment
	// Padding is left blank on each side of the text.
	Padding int
}

// DefaultDisplay is the display used when no other is registered.
var DefaultDisplay Display = TextDisplay{}

// Text returns the string form of a cell value.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.6f", v), "0"), ".")
	default:
		return fmt.Sprint(v)
	}
}

func isNumeric(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// IsEmpty implements Display.
func (d TextDisplay) IsEmpty(value any) bool {
	return Text(value) == ""
}

// ContentWidth implements Display.
func (d TextDisplay) ContentWidth(value any) int {
	s := Text(value)
	if s == "" {
		return 0
	}
	return runewidth.StringWidth(s) + 2*d.Padding
}

// Draw implements Display.
func (d TextDisplay) Draw(s core.Surface, rect core.Rect, value any, st core.Style) {
	if !rect.IsValid() {
		return
	}
	s.Fill(rect, core.BlankCell(st))

	text := Text(value)
	if text == "" {
		return
	}

	avail := rect.W - 2*d.Padding
	if avail <= 0 {
		return
	}
	width := runewidth.StringWidth(text)

	align := d.Align
	if align == AlignAuto {
		align = AlignLeft
		if isNumeric(value) {
			align = AlignRight
		}
	}

	x := rect.X + d.Padding
	if width < avail {
		switch align {
		case AlignRight:
			x += avail - width
		case AlignCenter:
			x += (avail - width) / 2
		}
	}
	y := rect.Y + (rect.H-1)/2
	limit := rect.X + d.Padding + avail

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		w := gr.Width()
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		cell := core.Cell{Rune: runes[0], Width: w, Style: st}
		if len(runes) > 1 {
			cell.Combining = runes[1:]
		}
		s.SetCell(x, y, cell)
		for i := 1; i < w; i++ {
			s.SetCell(x+i, y, core.Cell{Style: st})
		}
		x += w
	}
}
