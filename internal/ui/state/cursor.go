package state

// MoveCursorHome moves the cursor to the first row.
func (m *Menu) MoveCursorHome() bool {
	if m.RowCount() == 0 {
		m.Cursor = 0
		return false
	}
	old := m.Cursor
	m.Cursor = 0
	return old != m.Cursor
}

// MoveCursorEnd moves the cursor to the last row.
func (m *Menu) MoveCursorEnd() bool {
	n := m.RowCount()
	if n == 0 {
		m.Cursor = 0
		return false
	}
	old := m.Cursor
	m.Cursor = n - 1
	return old != m.Cursor
}

// MoveCursorUp moves the cursor up one row, wrapping to the end.
func (m *Menu) MoveCursorUp() bool {
	n := m.RowCount()
	if n == 0 {
		return false
	}
	old := m.Cursor
	m.Cursor--
	if m.Cursor < 0 {
		m.Cursor = n - 1
	}
	return old != m.Cursor
}

// MoveCursorDown moves the cursor down one row, wrapping to the start.
func (m *Menu) MoveCursorDown() bool {
	n := m.RowCount()
	if n == 0 {
		return false
	}
	old := m.Cursor
	m.Cursor++
	if m.Cursor >= n {
		m.Cursor = 0
	}
	return old != m.Cursor
}

// MoveCursorPageUp moves the cursor up by the given page size.
func (m *Menu) MoveCursorPageUp(maxVisible int) bool {
	return m.moveCursorBy(-m.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by the given page size.
func (m *Menu) MoveCursorPageDown(maxVisible int) bool {
	return m.moveCursorBy(m.pageSize(maxVisible))
}

func (m *Menu) moveCursorBy(delta int) bool {
	n := m.RowCount()
	if n == 0 {
		m.Cursor = 0
		return false
	}
	old := m.Cursor
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	return m.Cursor != old
}

func (m *Menu) pageSize(maxVisible int) int {
	total := m.RowCount()
	if total == 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > total {
		size = total
	}
	if size < 1 {
		size = 1
	}
	return size
}

func (m *Menu) clampCursor() {
	n := m.RowCount()
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (m *Menu) EnsureCursorVisible(maxVisible int) {
	n := m.RowCount()
	if n == 0 {
		m.Cursor = 0
		m.ViewportOffset = 0
		return
	}
	m.clampCursor()
	if maxVisible <= 0 {
		m.ViewportOffset = 0
		return
	}
	maxOffset := max(n-maxVisible, 0)
	if m.ViewportOffset > maxOffset {
		m.ViewportOffset = maxOffset
	}
	if m.ViewportOffset < 0 {
		m.ViewportOffset = 0
	}
	if m.Cursor < m.ViewportOffset {
		m.ViewportOffset = m.Cursor
	}
	if upper := m.ViewportOffset + maxVisible - 1; m.Cursor > upper {
		m.ViewportOffset = min(max(m.Cursor-maxVisible+1, 0), maxOffset)
	}
}
