package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpContent = `# simview

## Navigation

| Key | Action |
|-----|--------|
| j/k or arrows | move selection |
| h/l | scroll horizontally |
| PgUp/PgDn | page |
| g / G | jump to top / bottom |
| u | go to parent |
| space / enter | expand or collapse |
| tab | switch panel |

## Search

| Key | Action |
|-----|--------|
| / | incremental search (case-sensitive) |
| n / N | next / previous match |
| esc | cancel search, restore position |

## Panels

| Key | Action |
|-----|--------|
| s | jump to matching scope in the other panel |
| y | copy the selected path to the clipboard |
| r | reload the design file |

## Signal filters (signal panel)

| Key | Action |
|-----|--------|
| i / o / b | hide inputs / outputs / inouts |
| w | hide undirected nets |
| f | filter signal names by substring |
`

func (m Model) helpView() string {
	width := m.width - 8
	if width > 78 {
		width = 78
	}
	if width < 20 {
		width = 20
	}

	rendered := helpContent
	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	); err == nil {
		if out, rerr := r.Render(helpContent); rerr == nil {
			rendered = strings.TrimSpace(out)
		}
	}

	lines := strings.Split(rendered, "\n")
	visible := m.height - 4
	if visible < 5 {
		visible = 5
	}
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	scroll := m.helpScroll
	if scroll > maxScroll {
		scroll = maxScroll
	}
	end := scroll + visible
	if end > len(lines) {
		end = len(lines)
	}

	body := strings.Join(lines[scroll:end], "\n")
	footer := m.theme.Status.Render("j/k to scroll, esc to close")

	box := m.theme.Panel.Padding(0, 2).Width(width + 4).Render(body + "\n\n" + footer)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.showHelp = false
	case "j", "down":
		m.helpScroll++
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "ctrl+c":
		m.persistSession()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}
