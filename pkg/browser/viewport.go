package browser

// The viewport decomposes the absolute selected index into
// lineIndex + rowScroll. Every transition below preserves that equation;
// clampSelection repairs it after the visible list shrinks.

// SetSize records the viewport dimensions. If a shrink leaves the selected
// line below the new bottom edge, the excess shifts into the row scroll so
// the same absolute row stays selected.
func (b *Browser) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	b.width, b.height = width, height
	if b.lineIndex >= height {
		shift := b.lineIndex - (height - 1)
		b.lineIndex -= shift
		b.rowScroll += shift
	}
	b.clampSelection()
}

func (b *Browser) moveUp() {
	if b.lineIndex == 0 && b.rowScroll > 0 {
		b.rowScroll--
	} else if b.lineIndex > 0 {
		b.lineIndex--
	}
}

func (b *Browser) moveDown() {
	if b.SelectedIndex() >= len(b.rows)-1 {
		return
	}
	if b.lineIndex < b.height-1 {
		b.lineIndex++
	} else {
		b.rowScroll++
	}
}

func (b *Browser) pageUp() {
	step := min(b.rowScroll, b.height-2)
	if step < 0 {
		step = 0
	}
	b.rowScroll -= step
	b.lineIndex = min(b.height-2, b.lineIndex+step)
	if b.lineIndex < 0 {
		b.lineIndex = 0
	}
}

func (b *Browser) pageDown() {
	step := min(len(b.rows)-(b.rowScroll+b.height), b.height-2)
	if step <= 0 {
		// Nothing left to scroll: park the selection on the last line.
		b.lineIndex = b.height - 1
		return
	}
	b.rowScroll += step
	// Keep the selection in a small band away from the edge so repeated
	// paging doesn't jitter it between extremes.
	b.lineIndex = max(2, b.lineIndex-step)
}

func (b *Browser) jumpTop() {
	b.rowScroll = 0
	b.lineIndex = 0
}

func (b *Browser) jumpBottom() {
	if len(b.rows) > b.height {
		b.rowScroll = len(b.rows) - b.height
		b.lineIndex = b.height - 1
	} else {
		b.rowScroll = 0
		b.lineIndex = len(b.rows) - 1
	}
}

func (b *Browser) scrollLeft() {
	if b.colScroll > 0 {
		b.colScroll--
	}
}

func (b *Browser) scrollRight() {
	if b.colScroll < b.maxColScroll {
		b.colScroll++
	}
}

// goToParent walks upward from the selection past every row at the same or
// greater depth, landing on the nearest strictly shallower ancestor row.
func (b *Browser) goToParent() {
	idx := b.SelectedIndex()
	if idx <= 0 || idx >= len(b.rows) {
		return
	}
	depth := b.rowDepth(b.rows[idx])
	i := idx - 1
	for i >= 0 && b.rowDepth(b.rows[i]) >= depth {
		i--
	}
	if i < 0 {
		return
	}
	if i < b.rowScroll {
		b.rowScroll = i
		b.lineIndex = 0
	} else {
		b.lineIndex = i - b.rowScroll
	}
}

// Select moves the selection to an absolute index in the visible list,
// scrolling just enough to bring it into view. Out-of-range indices are
// ignored.
func (b *Browser) Select(idx int) { b.selectIndex(idx) }

// selectIndex moves the selection to an absolute index, scrolling just
// enough to bring it into view.
func (b *Browser) selectIndex(idx int) {
	if idx < 0 || idx >= len(b.rows) {
		return
	}
	if idx < b.rowScroll {
		b.rowScroll = idx
	} else if idx >= b.rowScroll+b.height {
		b.rowScroll = idx - b.height + 1
	}
	b.lineIndex = idx - b.rowScroll
}

// clampSelection repairs the decomposition after any operation that may have
// shrunk the list or moved the selection out of range. Externally driven
// input can therefore never index past the list's end.
func (b *Browser) clampSelection() {
	if len(b.rows) == 0 {
		b.lineIndex, b.rowScroll = 0, 0
		return
	}
	idx := b.SelectedIndex()
	if idx > len(b.rows)-1 {
		idx = len(b.rows) - 1
	}
	if idx < 0 {
		idx = 0
	}
	if b.rowScroll > idx {
		b.rowScroll = idx
	}
	b.lineIndex = idx - b.rowScroll
	if b.lineIndex >= b.height {
		shift := b.lineIndex - (b.height - 1)
		b.lineIndex -= shift
		b.rowScroll += shift
	}
}
