package browser

// row is one element of the visible list: either a node row or a pagination
// placeholder. A placeholder's node field holds the parent whose children
// ran past the limit, and moreAt is the index of the first child it stands
// in for.
type row struct {
	node   Node
	moreAt int // -1 for node rows
}

func nodeRow(n Node) row { return row{node: n, moreAt: -1} }

func (r row) isMore() bool { return r.moreAt >= 0 }

// rowDepth returns the indent depth of a row. Placeholders sit at their
// siblings' depth, one below the parent.
func (b *Browser) rowDepth(r row) int {
	if r.isMore() {
		return b.mustInfo(r.node).depth + 1
	}
	return b.mustInfo(r.node).depth
}

// materializeLevel produces rows for parent's children starting at child
// index start, spending at most budget node rows at this level. If children
// remain past the budget, the next one becomes a placeholder terminating the
// batch. Children still flagged expanded from before an ancestor collapse
// are re-materialized depth-first, each nested level with the full limit.
func (b *Browser) materializeLevel(parent Node, start, depth, budget int) []row {
	kids := b.src.Children(parent)
	var out []row
	count := 0
	for i := start; i < len(kids); i++ {
		if count == budget {
			out = append(out, row{node: parent, moreAt: i})
			return out
		}
		child := kids[i]
		ci := b.getOrInit(child, depth, parent)
		out = append(out, nodeRow(child))
		count++
		if ci.expanded {
			out = append(out, b.materializeLevel(child, 0, depth+1, b.limit)...)
		}
	}
	return out
}

// toggleExpandAt is the single mutation point of the visible list.
//
// On a placeholder it resumes pagination: the placeholder row is replaced by
// the child it stood for plus up to limit further siblings (so each resume
// reveals limit+1 rows), with a fresh placeholder if children still remain.
// Resuming never touches an expanded flag.
//
// On an expanded node it deletes every following row of strictly greater
// depth: the whole materialized subtree, nested placeholders included.
//
// On a collapsed expandable node it splices the children batch in after the
// row and marks it expanded, then nudges the scroll so some of the new rows
// are visible when the selection sat on the bottom line.
func (b *Browser) toggleExpandAt(idx int) {
	if idx < 0 || idx >= len(b.rows) {
		return
	}
	r := b.rows[idx]
	if r.isMore() {
		depth := b.mustInfo(r.node).depth + 1
		batch := b.materializeLevel(r.node, r.moreAt, depth, b.limit+1)
		b.rows = spliceRows(b.rows, idx, idx+1, batch)
		b.invalidateMatch()
		return
	}

	fi := b.mustInfo(r.node)
	if !fi.expandable {
		return
	}
	if fi.expanded {
		last := idx + 1
		for last < len(b.rows) && b.rowDepth(b.rows[last]) > fi.depth {
			last++
		}
		b.rows = spliceRows(b.rows, idx+1, last, nil)
		fi.expanded = false
		b.invalidateMatch()
		b.clampSelection()
		return
	}

	batch := b.materializeLevel(r.node, 0, fi.depth+1, b.limit)
	b.rows = spliceRows(b.rows, idx+1, idx+1, batch)
	fi.expanded = true
	b.invalidateMatch()
	b.revealExpanded()
}

// revealExpanded scrolls down a little after an expansion that landed below
// a bottom-line selection, so some of the new rows show without yanking the
// view to the top.
func (b *Browser) revealExpanded() {
	if b.lineIndex != b.height-1 {
		return
	}
	below := len(b.rows) - b.rowScroll - b.height
	amt := min(below, b.height/3)
	if amt > 0 {
		b.rowScroll += amt
		b.lineIndex -= amt
	}
}

// spliceRows replaces rows[from:to] with batch, always copying so the result
// never aliases the input slices.
func spliceRows(rows []row, from, to int, batch []row) []row {
	out := make([]row, 0, len(rows)-(to-from)+len(batch))
	out = append(out, rows[:from]...)
	out = append(out, batch...)
	out = append(out, rows[to:]...)
	return out
}
