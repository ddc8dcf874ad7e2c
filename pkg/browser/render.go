package browser

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// moreText is the pagination placeholder label.
const moreText = "...more..."

// StyleRole tags one rendered cell for the UI shell to style. The engine
// decides regions; the shell decides colors.
type StyleRole uint8

const (
	RoleText      StyleRole = iota // indent and instance name
	RoleExpand                     // the +/- glyph
	RoleModule                     // module type text
	RoleGenerate                   // generate-block type text
	RoleTaskFunc                   // task/function type text
	RoleOther                      // unclassified type text
	RoleMore                       // pagination placeholder
	RoleOverflow                   // horizontal overflow indicator < >
	RoleHighlight                  // search match
)

// Cell is one styled character of the rendered viewport.
type Cell struct {
	Rune     rune
	Role     StyleRole
	Selected bool
}

// Draw projects one viewport's worth of rows into styled cells. It applies
// the current size first (resize clamping included) and recomputes the
// horizontal scroll bound from the longest visible line, exactly as wide as
// this redraw sees it.
func (b *Browser) Draw(height, width int) [][]Cell {
	b.SetSize(width, height)
	out := make([][]Cell, 0, height)
	maxLineWidth := 0
	for y := 0; y < height; y++ {
		idx := y + b.rowScroll
		if idx >= len(b.rows) {
			break
		}
		line, lineWidth := b.renderRow(idx, y == b.lineIndex, width)
		if lineWidth > maxLineWidth {
			maxLineWidth = lineWidth
		}
		out = append(out, line)
	}
	b.maxColScroll = maxLineWidth - width
	if b.maxColScroll < 0 {
		b.maxColScroll = 0
	}
	return out
}

// renderRow produces the visible cells of one row after horizontal
// scrolling, plus the full unscrolled width of the line.
func (b *Browser) renderRow(idx int, selected bool, width int) ([]Cell, int) {
	r := b.rows[idx]
	depth := b.rowDepth(r)

	var text []rune
	roleAt := func(int) StyleRole { return RoleMore }
	if r.isMore() {
		text = []rune(strings.Repeat(" ", depth) + moreText)
	} else {
		l := b.src.Label(r.node)
		fi := b.mustInfo(r.node)
		glyph := ' '
		if fi.expandable {
			glyph = '+'
			if fi.expanded {
				glyph = '-'
			}
		}
		line := strings.Repeat(" ", depth) + string(glyph) + l.Name
		typePos := len([]rune(line)) + 1
		if l.Type != "" {
			line += " " + l.Type
		}
		text = []rune(line)

		expandPos := depth
		namePos := depth + 1
		typeRole := RoleModule
		switch l.Kind {
		case KindGenerate:
			typeRole = RoleGenerate
		case KindTaskFunc:
			typeRole = RoleTaskFunc
		case KindSignal, KindOther:
			typeRole = RoleOther
		}
		hiStart, hiEnd := -1, -1
		if b.matchCol >= 0 && b.matchRow == idx {
			hiStart = namePos + b.matchCol
			hiEnd = hiStart + len([]rune(b.query))
		}
		expandable := fi.expandable
		roleAt = func(j int) StyleRole {
			if j >= hiStart && j < hiEnd {
				return RoleHighlight
			}
			switch {
			case j >= typePos:
				return typeRole
			case j > expandPos:
				return RoleText
			case j == expandPos && expandable:
				return RoleExpand
			default:
				return RoleText
			}
		}
	}

	cells := make([]Cell, 0, width)
	for j, ch := range text {
		x := j - b.colScroll
		if x < 0 {
			continue
		}
		if x >= width {
			break
		}
		switch {
		case x == 0 && b.colScroll != 0 && j >= depth:
			// Left-edge overflow marker once the indent has scrolled off.
			cells = append(cells, Cell{Rune: '<', Role: RoleOverflow, Selected: selected})
		case x == width-1 && j < len(text)-1:
			// The line continues past the right edge.
			cells = append(cells, Cell{Rune: '>', Role: RoleOverflow, Selected: selected})
		default:
			cells = append(cells, Cell{Rune: ch, Role: roleAt(j), Selected: selected})
		}
	}
	return cells, runewidth.StringWidth(string(text))
}

// Outline returns the entire visible list as plain indented text, one entry
// per row. Used by exports and tests; no viewport clipping applies.
func (b *Browser) Outline() []string {
	out := make([]string, len(b.rows))
	for i, r := range b.rows {
		indent := strings.Repeat(" ", b.rowDepth(r))
		if r.isMore() {
			out[i] = indent + moreText
			continue
		}
		glyph := " "
		if fi := b.mustInfo(r.node); fi.expandable {
			if fi.expanded {
				glyph = "-"
			} else {
				glyph = "+"
			}
		}
		out[i] = indent + glyph + b.rowLabel(r)
	}
	return out
}

// MaxColScroll returns the horizontal scroll bound computed by the last
// Draw.
func (b *Browser) MaxColScroll() int { return b.maxColScroll }
