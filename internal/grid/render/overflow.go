package render

import (
	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/span"
)

// OverflowRequest is the input to ClaimOverflow.
type OverflowRequest struct {
	// Queue is the cells still to be drawn, in reading order. Span
	// members must already be removed.
	Queue []core.CellAddress

	// Content returns the width a cell's content needs and whether the
	// cell has nothing to draw.
	Content func(row, col int) (width int, empty bool)

	ColumnWidth  func(col int) int
	ColumnHidden func(col int) bool
	LineWidth    int

	// Spans may be nil.
	Spans span.Service

	// MaxCells caps the number of neighbours one cell may claim.
	MaxCells int

	// FirstColumn and LastColumn are the screen edges; no claim crosses
	// LastColumn.
	FirstColumn int
	LastColumn  int

	// LookBehind enables discovery of cells left of FirstColumn whose
	// content runs into it.
	LookBehind bool
}

// OverflowClaim is one merged draw.
type OverflowClaim struct {
	Anchor  core.CellAddress
	Claimed []core.CellAddress

	// Width is the merged pixel width, anchor included.
	Width int

	// Lead is the pixel width of the part left of FirstColumn. It is
	// non-zero only for anchors found by looking behind.
	Lead int
}

// OverflowClaims is the result of ClaimOverflow.
type OverflowClaims struct {
	Claims  []OverflowClaim
	claimed map[core.CellAddress]bool
	anchors map[core.CellAddress]int
}

// IsClaimed reports whether cell was merged into a neighbour.
func (c OverflowClaims) IsClaimed(cell core.CellAddress) bool {
	return c.claimed[cell]
}

// IsAnchor reports whether cell draws merged with its neighbours.
func (c OverflowClaims) IsAnchor(cell core.CellAddress) bool {
	_, ok := c.anchors[cell]
	return ok
}

// Claim returns the claim anchored at cell.
func (c OverflowClaims) Claim(cell core.CellAddress) (OverflowClaim, bool) {
	i, ok := c.anchors[cell]
	if !ok {
		return OverflowClaim{}, false
	}
	return c.Claims[i], true
}

// Len returns the number of claimed cells.
func (c OverflowClaims) Len() int { return len(c.claimed) }

// ClaimOverflow decides which empty cells are covered by a neighbour's
// text. A cell claims following cells in the queue while its content is
// wider than what it has, up to MaxCells, stopping at the first cell that
// is not empty, not queued, or inside a span. It does not modify req.
func ClaimOverflow(req OverflowRequest) OverflowClaims {
	out := OverflowClaims{
		claimed: make(map[core.CellAddress]bool),
		anchors: make(map[core.CellAddress]int),
	}
	if req.MaxCells <= 0 || req.Content == nil || req.ColumnWidth == nil {
		return out
	}

	queued := make(map[core.CellAddress]bool, len(req.Queue))
	for _, c := range req.Queue {
		queued[c] = true
	}

	if req.LookBehind && req.FirstColumn > 0 {
		seen := make(map[int]bool)
		for _, c := range req.Queue {
			if c.Col != req.FirstColumn || seen[c.Row] {
				continue
			}
			seen[c.Row] = true
			claimBehind(req, &out, queued, c.Row)
		}
	}

	for _, c := range req.Queue {
		if out.claimed[c] || out.IsAnchor(c) {
			continue
		}
		need, empty := req.Content(c.Row, c.Col)
		if empty {
			continue
		}
		have := req.ColumnWidth(c.Col)
		if need <= have {
			continue
		}
		claim := OverflowClaim{Anchor: c, Width: have}
		claimForward(req, &out, queued, &claim, c.Col, c.Col+1, need)
		if len(claim.Claimed) > 0 {
			out.add(claim)
		}
	}
	return out
}

// claimBehind looks left of FirstColumn on row for a cell whose content
// reaches the first visible column.
func claimBehind(req OverflowRequest, out *OverflowClaims, queued map[core.CellAddress]bool, row int) {
	first := core.Addr(row, req.FirstColumn)
	if out.claimed[first] {
		return
	}
	if _, empty := req.Content(row, req.FirstColumn); !empty {
		return
	}

	for prev := req.FirstColumn - 1; prev >= 0 && req.FirstColumn-prev <= req.MaxCells; prev-- {
		if req.ColumnHidden != nil && req.ColumnHidden(prev) {
			continue
		}
		if inSpan(req.Spans, row, prev) {
			return
		}
		need, empty := req.Content(row, prev)
		if empty {
			continue
		}

		lead := 0
		for c := prev; c < req.FirstColumn; c++ {
			if req.ColumnHidden != nil && req.ColumnHidden(c) {
				continue
			}
			lead += req.ColumnWidth(c) + req.LineWidth
		}
		claim := OverflowClaim{
			Anchor: core.Addr(row, prev),
			Width:  lead - req.LineWidth,
			Lead:   lead,
		}
		claimForward(req, out, queued, &claim, prev, req.FirstColumn, need)
		if len(claim.Claimed) > 0 {
			out.add(claim)
		}
		return
	}
}

func claimForward(req OverflowRequest, out *OverflowClaims, queued map[core.CellAddress]bool, claim *OverflowClaim, anchorCol, next, need int) {
	row := claim.Anchor.Row
	for ; need > claim.Width && next <= req.LastColumn && next-anchorCol <= req.MaxCells; next++ {
		if req.ColumnHidden != nil && req.ColumnHidden(next) {
			continue
		}
		cell := core.Addr(row, next)
		if !queued[cell] || out.claimed[cell] || out.IsAnchor(cell) || inSpan(req.Spans, row, next) {
			return
		}
		if _, empty := req.Content(row, next); !empty {
			return
		}
		claim.Width += req.LineWidth + req.ColumnWidth(next)
		claim.Claimed = append(claim.Claimed, cell)
	}
}

func (c *OverflowClaims) add(claim OverflowClaim) {
	c.anchors[claim.Anchor] = len(c.Claims)
	c.Claims = append(c.Claims, claim)
	for _, cell := range claim.Claimed {
		c.claimed[cell] = true
	}
}

func inSpan(s span.Service, row, col int) bool {
	if s == nil {
		return false
	}
	_, _, ok := s.InsideSpan(row, col)
	return ok
}
