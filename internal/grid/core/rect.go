package core

import "fmt"

// Rect is a rectangle in pixel coordinates. W and H are sizes; Right and
// Bottom return inclusive edges.
type Rect struct {
	X, Y int
	W, H int
}

// InvalidRect is returned when a cell has no on-screen geometry.
var InvalidRect = Rect{X: -1, Y: -1, W: -1, H: -1}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromEdges creates a rectangle from inclusive edges.
func RectFromEdges(left, top, right, bottom int) Rect {
	return Rect{X: left, Y: top, W: right - left + 1, H: bottom - top + 1}
}

// Right returns the inclusive right edge.
func (r Rect) Right() int { return r.X + r.W - 1 }

// Bottom returns the inclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H - 1 }

// IsValid returns true if the rectangle has positive area.
func (r Rect) IsValid() bool {
	return r.W > 0 && r.H > 0
}

// Contains returns true if the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Intersect returns the overlapping part, or a zero rect.
func (r Rect) Intersect(other Rect) Rect {
	left := max(r.X, other.X)
	top := max(r.Y, other.Y)
	right := min(r.Right(), other.Right())
	bottom := min(r.Bottom(), other.Bottom())
	if right < left || bottom < top {
		return Rect{}
	}
	return RectFromEdges(left, top, right, bottom)
}

// Union returns the bounding rectangle of both. Invalid rects are ignored.
func (r Rect) Union(other Rect) Rect {
	if !r.IsValid() {
		return other
	}
	if !other.IsValid() {
		return r
	}
	return RectFromEdges(
		min(r.X, other.X),
		min(r.Y, other.Y),
		max(r.Right(), other.Right()),
		max(r.Bottom(), other.Bottom()),
	)
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}

// Surface is a drawable grid of canvas cells.
type Surface interface {
	// SetCell writes a cell. Positions outside the surface are ignored.
	SetCell(x, y int, c Cell)

	// Fill writes c to every position of r.
	Fill(r Rect, c Cell)
}
