package layout

import "math"

// Hidden is the position recorded for a hidden row or column. Real
// offsets can be negative when a cell is partly scrolled off the near
// edge, so it lies outside any pixel range.
const Hidden = math.MinInt

// Positions maps a contiguous run of indices to their pixel offsets. For
// rows the offset is the top edge; for columns the left edge. Hidden
// indices hold Hidden and consume no space.
type Positions struct {
	first int
	pos   []int
}

func (p *Positions) reset(first int) {
	p.first = first
	p.pos = p.pos[:0]
}

func (p *Positions) push(v int) {
	p.pos = append(p.pos, v)
}

// First returns the first index in the run.
func (p Positions) First() int { return p.first }

// Last returns the last index in the run, or First()-1 when empty.
func (p Positions) Last() int { return p.first + len(p.pos) - 1 }

// Len returns the number of indices in the run.
func (p Positions) Len() int { return len(p.pos) }

// Has reports whether index lies in the run.
func (p Positions) Has(index int) bool {
	return index >= p.first && index < p.first+len(p.pos)
}

// At returns the offset of index, or Hidden when the index is hidden or
// outside the run.
func (p Positions) At(index int) int {
	if !p.Has(index) {
		return Hidden
	}
	return p.pos[index-p.first]
}
