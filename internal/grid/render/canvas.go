package render

import "github.com/dshills/tablegrid/internal/grid/core"

const (
	// Slack is added to both dimensions when the canvas grows.
	Slack = 100

	// ShrinkThreshold is how much larger than needed the canvas may be
	// before it is reallocated smaller.
	ShrinkThreshold = 500
)

// Canvas is the off-screen cell buffer the renderer paints into. Its
// capacity exceeds the visible size by Slack so small resizes reuse the
// same storage.
type Canvas struct {
	width, height int
	capW, capH    int
	cells         []core.Cell
	fill          core.Cell
	allocations   int
}

// NewCanvas creates an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{fill: core.EmptyCell()}
}

// Ensure sets the visible size, reallocating only when the size exceeds
// the capacity or is smaller than it by more than ShrinkThreshold. It
// reports whether storage was reallocated.
func (c *Canvas) Ensure(width, height int) bool {
	width, height = max(width, 0), max(height, 0)
	if width == 0 || height == 0 {
		c.width, c.height = width, height
		return false
	}

	grow := width > c.capW || height > c.capH
	shrink := c.capW-width > ShrinkThreshold || c.capH-height > ShrinkThreshold
	c.width, c.height = width, height
	if !grow && !shrink {
		return false
	}

	c.capW, c.capH = width+Slack, height+Slack
	c.cells = make([]core.Cell, c.capW*c.capH)
	for i := range c.cells {
		c.cells[i] = c.fill
	}
	c.allocations++
	return true
}

// Size returns the visible size.
func (c *Canvas) Size() (width, height int) { return c.width, c.height }

// Capacity returns the allocated size.
func (c *Canvas) Capacity() (width, height int) { return c.capW, c.capH }

// Allocations returns how many times storage was allocated.
func (c *Canvas) Allocations() int { return c.allocations }

// Rect returns the visible area.
func (c *Canvas) Rect() core.Rect { return core.NewRect(0, 0, c.width, c.height) }

// SetCell implements core.Surface. Writes outside the visible area are
// dropped.
func (c *Canvas) SetCell(x, y int, cell core.Cell) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.capW+x] = cell
}

// Fill implements core.Surface.
func (c *Canvas) Fill(r core.Rect, cell core.Cell) {
	r = r.Intersect(c.Rect())
	if !r.IsValid() {
		return
	}
	for y := r.Y; y <= r.Bottom(); y++ {
		row := c.cells[y*c.capW : y*c.capW+c.capW]
		for x := r.X; x <= r.Right(); x++ {
			row[x] = cell
		}
	}
}

// Cell returns the cell at x, y, or an empty cell outside the visible
// area.
func (c *Canvas) Cell(x, y int) core.Cell {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return core.EmptyCell()
	}
	return c.cells[y*c.capW+x]
}

// Clear fills the visible area with cell.
func (c *Canvas) Clear(cell core.Cell) {
	c.fill = cell
	c.Fill(c.Rect(), cell)
}

// Blit copies r from the canvas to dst.
func (c *Canvas) Blit(dst core.Surface, r core.Rect) {
	r = r.Intersect(c.Rect())
	if !r.IsValid() {
		return
	}
	for y := r.Y; y <= r.Bottom(); y++ {
		for x := r.X; x <= r.Right(); x++ {
			dst.SetCell(x, y, c.cells[y*c.capW+x])
		}
	}
}

// Line returns row y as text, with continuation cells omitted. It is
// used by the dump output and tests.
func (c *Canvas) Line(y int) string {
	if y < 0 || y >= c.height {
		return ""
	}
	buf := make([]rune, 0, c.width)
	for x := 0; x < c.width; x++ {
		cell := c.cells[y*c.capW+x]
		if cell.IsContinuation() {
			continue
		}
		r := cell.Rune
		if r == 0 {
			r = ' '
		}
		buf = append(buf, r)
		buf = append(buf, cell.Combining...)
	}
	return string(buf)
}

// clipSurface restricts drawing to a rectangle.
type clipSurface struct {
	dst  core.Surface
	clip core.Rect
}

func (s clipSurface) SetCell(x, y int, cell core.Cell) {
	if s.clip.Contains(x, y) {
		s.dst.SetCell(x, y, cell)
	}
}

func (s clipSurface) Fill(r core.Rect, cell core.Cell) {
	s.dst.Fill(r.Intersect(s.clip), cell)
}
