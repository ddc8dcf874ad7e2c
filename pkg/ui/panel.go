package ui

import (
	"strings"

	"github.com/dau-dev/simview/pkg/browser"
)

// renderPanel draws one browser into a bordered panel of the given outer
// size. Cells with the same role and selection render as one run to keep
// the escape sequence count down on large windows.
func renderPanel(b *browser.Browser, theme Theme, title string, focused bool, outerW, outerH int) string {
	innerW := outerW - 2
	innerH := outerH - 3 // borders plus title line
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	titleStyle := theme.Title
	panelStyle := theme.Panel
	if focused {
		titleStyle = theme.TitleFocused
		panelStyle = theme.PanelFocused
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(truncateTitle(title, innerW)))
	sb.WriteString("\n")

	grid := b.Draw(innerH, innerW)
	for y := 0; y < innerH; y++ {
		if y > 0 {
			sb.WriteString("\n")
		}
		if y >= len(grid) {
			continue
		}
		sb.WriteString(renderLine(grid[y], theme, focused))
	}

	return panelStyle.Width(innerW).Height(outerH - 2).Render(sb.String())
}

func renderLine(cells []browser.Cell, theme Theme, focused bool) string {
	var sb strings.Builder
	var run []rune
	var runCell browser.Cell
	haveRun := false

	flush := func() {
		if len(run) > 0 {
			sb.WriteString(theme.cellStyle(runCell, focused).Render(string(run)))
			run = run[:0]
		}
	}

	for _, c := range cells {
		if !haveRun || c.Role != runCell.Role || c.Selected != runCell.Selected {
			flush()
			runCell = c
			haveRun = true
		}
		run = append(run, c.Rune)
	}
	flush()
	return sb.String()
}

func truncateTitle(s string, w int) string {
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	if w <= 1 {
		return string(runes[:w])
	}
	return string(runes[:w-1]) + "…"
}
