package traverse

// ScrollUp requests scrolling up by at most num rows, stopping at the
// start of the viewport.
func (n *Navigator) ScrollUp(num int) {
	vp := n.eng.CurrentViewport()
	if vp.IsEmpty() || num <= 0 {
		return
	}
	if rows := min(n.eng.TopRow()-vp.StartRow, num); rows > 0 {
		n.emit(ScrollRequest{Direction: ScrollUp, Amount: rows})
	}
}

// ScrollDown requests scrolling down by at most num rows.
func (n *Navigator) ScrollDown(num int) {
	vp := n.eng.CurrentViewport()
	if vp.IsEmpty() || num <= 0 {
		return
	}
	if rows := min(vp.EndRow-n.eng.BottomRow()+1, num); rows > 0 {
		n.emit(ScrollRequest{Direction: ScrollDown, Amount: rows})
	}
}

// ScrollLeft requests scrolling toward the first column by at most num
// columns.
func (n *Navigator) ScrollLeft(num int) {
	vp := n.eng.CurrentViewport()
	if vp.IsEmpty() || num <= 0 {
		return
	}
	if cols := min(n.eng.LeftColumn()-vp.StartCol, num); cols > 0 {
		n.emit(ScrollRequest{Direction: ScrollLeft, Amount: cols})
	}
}

// ScrollRight requests scrolling toward the last column by at most num
// columns.
func (n *Navigator) ScrollRight(num int) {
	vp := n.eng.CurrentViewport()
	if vp.IsEmpty() || num <= 0 {
		return
	}
	if cols := min(vp.EndCol-n.eng.RightColumn()+1, num); cols > 0 {
		n.emit(ScrollRequest{Direction: ScrollRight, Amount: cols})
	}
}

// MakeCellFullyVisible requests the smallest scroll that shows the whole
// cell. A cell above or left of the screen becomes the top or left edge;
// a cell below or right of it becomes the last fully visible one. Cells
// larger than the screen end up at the top or left edge.
func (n *Navigator) MakeCellFullyVisible(row, col int) {
	vp := n.eng.CurrentViewport()
	if vp.IsEmpty() || !vp.Contains(row, col) || n.eng.IsCellHidden(row, col) {
		return
	}
	if n.eng.IsCellFullyVisible(row, col) {
		return
	}
	if first, ok := n.firstShownRow(row, vp.EndRow); ok {
		n.emit(ScrollRequest{Direction: ScrollToRow, Target: first})
	}
	if first, ok := n.firstShownColumn(col, vp.EndCol); ok {
		n.emit(ScrollRequest{Direction: ScrollToColumn, Target: first})
	}
}

// firstShownRow returns the top row that makes row fully visible and
// whether it differs from the current top row.
func (n *Navigator) firstShownRow(row, end int) (int, bool) {
	dims := n.eng.Dimensions()
	lw := n.eng.HorizontalLineWidth()
	top := n.eng.TopRow()
	first := n.eng.FirstNonHiddenRow(top, end)
	if first < 0 {
		return 0, false
	}
	if row < first {
		return row, true
	}

	budget := n.eng.Bounds().H - lw
	rowSpace := func(r int) int {
		if dims.IsRowHidden(r) {
			return 0
		}
		return dims.RowHeight(r) + lw
	}

	used := 0
	next := first
	for ; next <= end; next++ {
		rh := rowSpace(next)
		if used+rh > budget {
			break
		}
		used += rh
	}
	lastFull := n.eng.LastNonHiddenRow(first, next-1)

	for row > lastFull && lastFull < end && first < row {
		used -= rowSpace(first)
		first = n.eng.FirstNonHiddenRow(first+1, end)
		for ; next <= end; next++ {
			rh := rowSpace(next)
			if used+rh > budget {
				break
			}
			used += rh
		}
		lastFull = n.eng.LastNonHiddenRow(first, next-1)
	}

	if first == top {
		return 0, false
	}
	return first, true
}

// firstShownColumn is firstShownRow for columns.
func (n *Navigator) firstShownColumn(col, end int) (int, bool) {
	dims := n.eng.Dimensions()
	lw := n.eng.VerticalLineWidth()
	left := n.eng.LeftColumn()
	first := n.eng.FirstNonHiddenColumn(left, end)
	if first < 0 {
		return 0, false
	}
	if col < first {
		return col, true
	}

	budget := n.eng.Bounds().W - lw
	colSpace := func(c int) int {
		if dims.IsColumnHidden(c) {
			return 0
		}
		return dims.ColumnWidth(c) + lw
	}

	used := 0
	next := first
	for ; next <= end; next++ {
		cw := colSpace(next)
		if used+cw > budget {
			break
		}
		used += cw
	}
	lastFull := n.eng.LastNonHiddenColumn(first, next-1)

	for col > lastFull && lastFull < end && first < col {
		used -= colSpace(first)
		first = n.eng.FirstNonHiddenColumn(first+1, end)
		for ; next <= end; next++ {
			cw := colSpace(next)
			if used+cw > budget {
				break
			}
			used += cw
		}
		lastFull = n.eng.LastNonHiddenColumn(first, next-1)
	}

	if first == left {
		return 0, false
	}
	return first, true
}
