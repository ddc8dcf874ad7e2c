package browser

import (
	"strings"
	"unicode/utf8"
)

// Incremental substring search over the visible list's labels. Search is a
// viewport-local operation: it only ever looks at materialized rows and
// never triggers expansion.

// SetQuery sets the case-sensitive search substring.
func (b *Browser) SetQuery(q string) { b.query = q }

// Query returns the current search substring.
func (b *Browser) Query() string { return b.query }

// SearchNext steps forward from the selection, wrapping at the end. Returns
// true and moves the selection on a match; on exhaustion the selection stays
// put and the highlight clears.
func (b *Browser) SearchNext() bool { return b.find(1, false) }

// SearchPrev steps backward from the selection, wrapping at the start.
func (b *Browser) SearchPrev() bool { return b.find(-1, false) }

// SearchPreview checks the current row before stepping forward. Used for
// live as-you-type search so a match under the cursor doesn't jump away.
func (b *Browser) SearchPreview() bool { return b.find(1, true) }

// ClearSearch drops the query and highlight.
func (b *Browser) ClearSearch() {
	b.query = ""
	b.invalidateMatch()
}

// Match returns the highlighted row index and the rune offset of the match
// within that row's label. ok is false when nothing is highlighted.
func (b *Browser) Match() (rowIdx, col int, ok bool) {
	if b.matchCol < 0 {
		return 0, 0, false
	}
	return b.matchRow, b.matchCol, true
}

func (b *Browser) find(dir int, checkCurrent bool) bool {
	n := len(b.rows)
	if n == 0 || b.query == "" {
		b.invalidateMatch()
		return false
	}
	start := b.SelectedIndex()
	i := start
	if !checkCurrent {
		i = (i + dir + n) % n
	}
	// One full cycle visits every row exactly once; coming back around to
	// the starting point is the exhaustion signal.
	for k := 0; k < n; k++ {
		label := b.rowLabel(b.rows[i])
		if col := strings.Index(label, b.query); col >= 0 {
			b.matchRow = i
			b.matchCol = utf8.RuneCountInString(label[:col])
			b.selectIndex(i)
			return true
		}
		i = (i + dir + n) % n
	}
	b.invalidateMatch()
	return false
}

// rowLabel is the text search matches against: the rendered line minus
// indentation and expand glyph.
func (b *Browser) rowLabel(r row) string {
	if r.isMore() {
		return moreText
	}
	l := b.src.Label(r.node)
	if l.Type == "" {
		return l.Name
	}
	return l.Name + " " + l.Type
}

// invalidateMatch clears the highlight. Called whenever the visible list is
// respliced, since the highlight is positional.
func (b *Browser) invalidateMatch() {
	b.matchRow = -1
	b.matchCol = -1
}
