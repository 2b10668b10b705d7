// Package components provides reusable TUI components for portshell.
package components

// Row is one rendered row of a ScrollList.
type Row struct {
	// Index is the item index the row shows.
	Index int
	// Selected marks the row holding the selection.
	Selected bool
	// Ellipsis replaces the row with a marker: the list is scrolled past
	// it (first row) or continues beyond it (last row). The selected row is
	// never replaced.
	Ellipsis bool
}

// ScrollList tracks the selection and scroll offset of a list shown in a
// fixed number of rows. The item count is read live, so the list follows
// its data without being told.
//
// After every operation 0 <= selected < count (when count > 0) and the
// selection lies within the visible window.
type ScrollList struct {
	count    func() int
	height   int
	selected int
	offset   int
}

// NewScrollList creates a list of count() items shown in height rows.
func NewScrollList(count func() int, height int) *ScrollList {
	l := &ScrollList{count: count}
	l.SetHeight(height)
	return l
}

// SetHeight changes the number of visible rows. Heights below 1 are
// treated as 1.
func (l *ScrollList) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	l.height = height
	l.clamp()
}

// Height returns the number of visible rows.
func (l *ScrollList) Height() int {
	return l.height
}

// Len returns the current item count.
func (l *ScrollList) Len() int {
	return l.count()
}

// Selected returns the selected index and whether a selection exists.
func (l *ScrollList) Selected() (int, bool) {
	l.clamp()
	if l.count() == 0 {
		return 0, false
	}
	return l.selected, true
}

// Offset returns the index of the first visible item.
func (l *ScrollList) Offset() int {
	l.clamp()
	return l.offset
}

// MoveDown moves the selection down n items, stopping at the last one.
func (l *ScrollList) MoveDown(n int) {
	l.clamp()
	count := l.count()
	if count == 0 {
		return
	}
	l.selected = min(l.selected+n, count-1)
	if bottom := l.offset + l.height - 1; l.selected > bottom {
		l.offset += l.selected - bottom
	}
	l.clamp()
}

// MoveUp moves the selection up n items, stopping at the first one.
func (l *ScrollList) MoveUp(n int) {
	l.clamp()
	if l.count() == 0 {
		return
	}
	l.selected = max(l.selected-n, 0)
	if l.selected < l.offset {
		l.offset = l.selected
	}
	l.clamp()
}

// Select moves the selection to index i, scrolling it into view.
func (l *ScrollList) Select(i int) {
	count := l.count()
	if count == 0 {
		return
	}
	l.selected = max(0, min(i, count-1))
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if bottom := l.offset + l.height - 1; l.selected > bottom {
		l.offset = l.selected - l.height + 1
	}
	l.clamp()
}

// Reset selects the first item and scrolls to the top.
func (l *ScrollList) Reset() {
	l.selected = 0
	l.offset = 0
}

// clamp restores the invariants after the item count or height changed.
func (l *ScrollList) clamp() {
	count := l.count()
	if count == 0 {
		l.selected, l.offset = 0, 0
		return
	}
	l.selected = max(0, min(l.selected, count-1))
	l.offset = max(0, min(l.offset, count-l.height))
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected > l.offset+l.height-1 {
		l.offset = l.selected - l.height + 1
	}
}

// Rows returns the rows to render, at most Height of them.
func (l *ScrollList) Rows() []Row {
	l.clamp()
	count := l.count()
	end := min(l.offset+l.height, count)

	rows := make([]Row, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		rows = append(rows, Row{Index: i, Selected: i == l.selected})
	}
	if len(rows) == 0 {
		return rows
	}
	first, last := &rows[0], &rows[len(rows)-1]
	if l.offset > 0 && !first.Selected {
		first.Ellipsis = true
	}
	if end < count && !last.Selected {
		last.Ellipsis = true
	}
	return rows
}
