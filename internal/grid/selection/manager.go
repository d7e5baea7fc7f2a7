package selection

import (
	"github.com/google/uuid"

	"github.com/dshills/tablegrid/internal/grid/core"
)

// Policy constrains what may be selected.
type Policy uint8

const (
	// SelectNone disables selection.
	SelectNone Policy = iota

	// SelectSingle allows one cell.
	SelectSingle

	// SelectMultiple allows any number of rectangles.
	SelectMultiple

	// SelectSingleRow allows one whole row.
	SelectSingleRow

	// SelectMultipleRow allows any number of whole rows.
	SelectMultipleRow
)

// ParsePolicy parses a policy name as used in configuration files.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "none":
		return SelectNone, true
	case "single":
		return SelectSingle, true
	case "multiple":
		return SelectMultiple, true
	case "single_row":
		return SelectSingleRow, true
	case "multiple_row":
		return SelectMultipleRow, true
	}
	return SelectNone, false
}

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case SelectNone:
		return "none"
	case SelectSingle:
		return "single"
	case SelectMultiple:
		return "multiple"
	case SelectSingleRow:
		return "single_row"
	case SelectMultipleRow:
		return "multiple_row"
	default:
		return "unknown"
	}
}

func (p Policy) multiple() bool { return p == SelectMultiple || p == SelectMultipleRow }
func (p Policy) rows() bool     { return p == SelectSingleRow || p == SelectMultipleRow }

// Multiple reports whether the policy allows more than one block.
func (p Policy) Multiple() bool { return p.multiple() }

// Kind is a selection gesture.
type Kind uint8

const (
	// Begin starts a new selection, clearing the old one.
	Begin Kind = iota

	// Drag moves the end of the selection in progress.
	Drag

	// Extend moves the end of an existing selection block (shift-click).
	Extend

	// Add toggles a cell, row or column (ctrl-click).
	Add

	// Replace swaps the end of the last selection, keeping its anchor.
	Replace

	// End commits the selection in progress.
	End

	// None clears everything.
	None
)

// String returns the gesture name.
func (k Kind) String() string {
	switch k {
	case Begin:
		return "begin"
	case Drag:
		return "drag"
	case Extend:
		return "extend"
	case Add:
		return "add"
	case Replace:
		return "replace"
	case End:
		return "end"
	case None:
		return "none"
	default:
		return "unknown"
	}
}

// Change reports the cells whose selected state may have changed.
type Change struct {
	Region     core.Region
	InProgress bool
}

// Bounds supplies the model extent used to clamp open-ended selections.
type Bounds interface {
	LastRow() int
	LastColumn() int
}

// Manager runs the selection state machine.
type Manager struct {
	policy     Policy
	bounds     Bounds
	list       List
	actions    List
	current    Selection
	dragAction State
	marks      *marks
	affected   core.Region
	log        core.Logger

	listeners map[uuid.UUID]func(Change)
	order     []uuid.UUID
}

// NewManager creates a manager. bounds may be nil until a model is set.
func NewManager(bounds Bounds, policy Policy) *Manager {
	return &Manager{
		policy:    policy,
		bounds:    bounds,
		current:   Invalid(),
		marks:     newMarks(),
		affected:  core.EmptyRegion(),
		log:       core.NopLogger(),
		listeners: make(map[uuid.UUID]func(Change)),
	}
}

// SetLogger sets the logger.
func (m *Manager) SetLogger(l core.Logger) {
	if l == nil {
		l = core.NopLogger()
	}
	m.log = l
}

// SetBounds replaces the model extent and rebuilds the marks.
func (m *Manager) SetBounds(b Bounds) {
	m.bounds = b
	m.resync()
}

// Subscribe registers fn to be called after every processed gesture.
func (m *Manager) Subscribe(fn func(Change)) uuid.UUID {
	id := uuid.New()
	m.listeners[id] = fn
	m.order = append(m.order, id)
	return id
}

// Unsubscribe removes a listener.
func (m *Manager) Unsubscribe(id uuid.UUID) {
	delete(m.listeners, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Policy returns the selection policy.
func (m *Manager) Policy() Policy { return m.policy }

// SetPolicy changes the policy. Switching to anything but SelectMultiple
// clears the selection.
func (m *Manager) SetPolicy(p Policy) {
	if p == m.policy {
		return
	}
	m.policy = p
	if p != SelectMultiple {
		m.affected = core.EmptyRegion()
		m.deleteSelection()
		m.announce(false)
	}
}

// List returns a copy of the committed selections.
func (m *Manager) List() List { return m.list.Clone() }

// Actions returns every selection as it was committed, deselections
// included, since the selection was last cleared.
func (m *Manager) Actions() List { return m.actions.Clone() }

// Current returns the selection in progress.
func (m *Manager) Current() (Selection, bool) {
	return m.current, m.current.IsValid()
}

// Exclusive returns the single active selection, if there is exactly
// one: the selection in progress with nothing committed, or the only
// committed selection with nothing in progress.
func (m *Manager) Exclusive() (Selection, bool) {
	if m.current.IsValid() && len(m.list) == 0 {
		return m.current, true
	}
	if len(m.list) == 1 && !m.current.IsValid() {
		return m.list[0], true
	}
	return Invalid(), false
}

// IsCellSelected reports whether the cell is currently shown selected,
// including the effect of a gesture in progress.
func (m *Manager) IsCellSelected(row, col int) bool {
	return m.marks.cell(row, col)
}

// IsRowSelected reports whether row is selected as a whole.
func (m *Manager) IsRowSelected(row int) bool { return m.marks.rows[row] }

// IsColumnSelected reports whether col is selected as a whole.
func (m *Manager) IsColumnSelected(col int) bool { return m.marks.cols[col] }

// Process applies one gesture from begin to end. Row policies widen the
// cells to whole rows and ignore clicks on a column header.
func (m *Manager) Process(kind Kind, begin, end core.CellAddress) {
	m.affected = core.EmptyRegion()

	if m.policy.rows() {
		if begin.Row == 0 && end.Row == core.LastRow {
			return
		}
		begin.Col = 0
		end.Col = core.LastColumn
	}

	inProgress := true
	switch kind {
	case Begin:
		m.begin(begin, end)
	case Drag:
		m.drag(begin, end)
	case Extend:
		m.extend(begin, end)
	case Add:
		m.add(begin, end)
	case Replace:
		m.replace(begin, end)
	case End:
		m.end()
		inProgress = false
	case None:
		m.deleteSelection()
		inProgress = false
	default:
		m.deleteSelection()
		return
	}

	m.log.Debug("selection: %s %v-%v", kind, begin, end)
	m.announce(inProgress)
}

func (m *Manager) begin(begin, end core.CellAddress) {
	prev := core.EmptyRegion()
	if es, ok := m.Exclusive(); ok {
		prev = es.Region()
	}

	m.deleteSelection()
	if m.policy == SelectNone {
		return
	}

	m.current = New(begin.Row, begin.Col, end.Row, end.Col, true)
	m.dragAction = SelectTrue
	m.setProperty(begin.Row, begin.Col, end.Row, end.Col, SelectTrue)
	m.affected = m.affected.Union(prev)
}

// drag moves the end of the selection in progress. When the old end cell
// lies inside the new rectangle the selection is growing and the new
// strip takes the gesture's action; otherwise the strip given up goes
// back to what the committed list says. A move on both axes at once is handled as an extend.
func (m *Manager) drag(begin, end core.CellAddress) {
	if !m.policy.multiple() {
		return
	}
	sel := &m.current
	if !sel.IsValid() {
		return
	}
	if end.Row != sel.EndRow && end.Col != sel.EndCol {
		m.extend(begin, end)
		return
	}

	// Crossing the anchor shrinks to it first.
	if crosses(sel.AnchorRow, sel.EndRow, end.Row) {
		m.drag(begin, core.Addr(sel.AnchorRow, end.Col))
	} else if crosses(sel.AnchorCol, sel.EndCol, end.Col) {
		m.drag(begin, core.Addr(end.Row, sel.AnchorCol))
	}

	candidate := New(sel.AnchorRow, sel.AnchorCol, end.Row, end.Col, true)
	growing := candidate.Contains(sel.EndRow, sel.EndCol)

	insideRow, insideCol := end.Row, end.Col
	outsideRow, outsideCol := sel.EndRow, sel.EndCol
	if growing {
		insideRow, insideCol, outsideRow, outsideCol = outsideRow, outsideCol, insideRow, insideCol
	}
	rowAdj, colAdj := step(insideRow, outsideRow), step(insideCol, outsideCol)

	action := m.dragAction.resolved()
	if !growing {
		action = m.dragAction.inverse()
	}

	if colAdj != 0 {
		m.setProperty(sel.AnchorRow, insideCol+colAdj, outsideRow, outsideCol, action)
	}
	if rowAdj != 0 {
		m.setProperty(insideRow+rowAdj, sel.AnchorCol, outsideRow, insideCol, action)
	}
	sel.EndRow, sel.EndCol = end.Row, end.Col
}

func crosses(anchor, from, to int) bool {
	return (from-anchor)*(to-anchor) < 0
}

func step(from, to int) int {
	switch {
	case from < to:
		return 1
	case from > to:
		return -1
	}
	return 0
}

// extend clears the rectangle between the block's anchor and its old
// end, then applies the gesture's action between the anchor and the new
// end.
func (m *Manager) extend(begin, end core.CellAddress) {
	if !m.policy.multiple() {
		return
	}
	sel := m.findBlock(begin.Row, begin.Col)
	if sel == nil {
		return
	}

	m.setProperty(begin.Row, begin.Col, sel.EndRow, sel.EndCol, m.dragAction.inverse())
	m.setProperty(begin.Row, begin.Col, end.Row, end.Col, m.dragAction.resolved())
	sel.EndRow, sel.EndCol = end.Row, end.Col
}

// add toggles the clicked cell, row or column based on its shown state.
func (m *Manager) add(begin, end core.CellAddress) {
	if !m.policy.multiple() && len(m.list) > 0 {
		return
	}

	var set bool
	switch {
	case begin.Col == 0 && end.Col == core.LastColumn:
		set = m.marks.rows[begin.Row]
	case begin.Row == 0 && end.Row == core.LastRow:
		set = m.marks.cols[begin.Col]
	default:
		set = m.marks.cell(begin.Row, begin.Col)
	}

	m.dragAction = SelectTrueRevert
	st := SelectTrue
	if set {
		m.dragAction = SelectFalseRevert
		st = SelectFalse
	}
	m.current = New(begin.Row, begin.Col, end.Row, end.Col, !set)
	m.setProperty(begin.Row, begin.Col, end.Row, end.Col, st)
}

func (m *Manager) end() {
	if !m.current.IsValid() {
		return
	}
	st := SelectTrue
	if !m.current.Selected {
		st = SelectFalse
	}
	m.setSelectionProperty(m.current, st)
	m.addToList(m.current)
	m.current = Invalid()
	m.dragAction = SelectTrue
}

// replace keeps the anchor of the selection in progress, or of the last
// committed one, and gives it a new start and end.
func (m *Manager) replace(begin, end core.CellAddress) {
	cur := &m.current
	if !cur.IsValid() {
		if len(m.list) == 0 {
			return
		}
		cur = &m.list[len(m.list)-1]
	}
	m.setSelectionProperty(*cur, SelectFalse)
	if !m.policy.multiple() {
		return
	}

	*cur = Selection{
		Selected:  true,
		AnchorRow: cur.AnchorRow,
		AnchorCol: cur.AnchorCol,
		StartRow:  begin.Row,
		StartCol:  begin.Col,
		EndRow:    end.Row,
		EndCol:    end.Col,
	}
	m.setSelectionProperty(*cur, SelectTrue)
}

func (m *Manager) findBlock(anchorRow, anchorCol int) *Selection {
	if m.current.IsValid() && m.current.AnchorRow == anchorRow && m.current.AnchorCol == anchorCol {
		return &m.current
	}
	for i := range m.list {
		if m.list[i].AnchorRow == anchorRow && m.list[i].AnchorCol == anchorCol {
			return &m.list[i]
		}
	}
	return nil
}

// addToList commits s. A deselection replaces every entry it overlaps
// with the parts of that entry it does not cover.
func (m *Manager) addToList(s Selection) {
	if !s.IsValid() {
		return
	}
	m.actions = append(m.actions, s)

	if s.Selected {
		m.list = append(m.list, s)
		return
	}

	out := make(List, 0, len(m.list))
	for _, e := range m.list {
		if !e.Intersects(s) {
			out = append(out, e)
			continue
		}
		out = append(out, Subtract(e, s)...)
	}
	m.list = out
}

// Subtract returns the parts of e not covered by s: the full-width
// strips above and below the overlap, then the parts left and right of
// it. At most four rectangles are returned.
func Subtract(e, s Selection) []Selection {
	if !e.Intersects(s) {
		return []Selection{e}
	}
	is := e.Intersection(s)
	var out []Selection
	if is.TopRow() > e.TopRow() {
		out = append(out, rect(e.TopRow(), e.LeftColumn(), is.TopRow()-1, e.RightColumn()))
	}
	if is.BottomRow() < e.BottomRow() {
		out = append(out, rect(is.BottomRow()+1, e.LeftColumn(), e.BottomRow(), e.RightColumn()))
	}
	if is.LeftColumn() > e.LeftColumn() {
		out = append(out, rect(is.TopRow(), e.LeftColumn(), is.BottomRow(), is.LeftColumn()-1))
	}
	if is.RightColumn() < e.RightColumn() {
		out = append(out, rect(is.TopRow(), is.RightColumn()+1, is.BottomRow(), e.RightColumn()))
	}
	return out
}

// deleteSelection unmarks and forgets everything.
func (m *Manager) deleteSelection() {
	for _, s := range m.list {
		m.setSelectionProperty(s, SelectFalse)
	}
	m.list = nil
	if m.current.IsValid() {
		m.setSelectionProperty(m.current, SelectFalse)
		m.current = Invalid()
	}
	m.actions = nil
	m.dragAction = SelectTrue
}

// announce notifies listeners. The exclusive selection, if any, is
// always part of the reported region.
func (m *Manager) announce(inProgress bool) {
	if es, ok := m.Exclusive(); ok {
		m.affected = m.affected.Union(es.Region())
	}
	c := Change{Region: m.affected, InProgress: inProgress}
	for _, id := range m.order {
		if fn := m.listeners[id]; fn != nil {
			fn(c)
		}
	}
}

// Clear removes every selection.
func (m *Manager) Clear() {
	m.affected = core.EmptyRegion()
	m.deleteSelection()
	m.announce(false)
}

// SelectAll selects every cell. It is ignored unless the policy allows
// multiple selections.
func (m *Manager) SelectAll() {
	if !m.policy.multiple() {
		return
	}
	m.affected = core.EmptyRegion()
	m.deleteSelection()
	s := New(0, 0, core.LastRow, core.LastColumn, true)
	m.setSelectionProperty(s, SelectTrue)
	m.addToList(s)
	m.announce(false)
}

// AddSelection commits s directly. Unless the policy allows multiple
// selections it is ignored when something is already selected.
func (m *Manager) AddSelection(s Selection) {
	if !m.policy.multiple() && len(m.list) > 0 {
		return
	}
	if !s.IsValid() {
		return
	}
	m.affected = core.EmptyRegion()
	m.addToList(s)
	st := SelectTrue
	if !s.Selected {
		st = SelectFalse
	}
	m.setSelectionProperty(s, st)
	m.announce(false)
}

// SetList replaces the selection with l.
func (m *Manager) SetList(l List) {
	m.affected = core.EmptyRegion()
	m.deleteSelection()
	for _, s := range l {
		if !s.IsValid() {
			continue
		}
		if !m.policy.multiple() && len(m.list) > 0 {
			break
		}
		m.addToList(s)
		st := SelectTrue
		if !s.Selected {
			st = SelectFalse
		}
		m.setSelectionProperty(s, st)
	}
	m.announce(false)
}
