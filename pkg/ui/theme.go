package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/dau-dev/simview/pkg/browser"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme maps the engine's style roles onto terminal styles. Role colors
// follow the classic simulator-viewer palette: instance names plain, module
// types cyan, generate blocks blue, show-more yellow, expand glyphs green,
// overflow markers red, everything unclassified magenta.
type Theme struct {
	Renderer *lipgloss.Renderer

	Text      lipgloss.Style
	Expand    lipgloss.Style
	Module    lipgloss.Style
	Generate  lipgloss.Style
	TaskFunc  lipgloss.Style
	Other     lipgloss.Style
	More      lipgloss.Style
	Overflow  lipgloss.Style
	Highlight lipgloss.Style

	Title        lipgloss.Style
	TitleFocused lipgloss.Style
	Status       lipgloss.Style
	ErrorText    lipgloss.Style

	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
}

// DefaultTheme returns the standard theme bound to a renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	border := lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"}
	accent := lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}

	return Theme{
		Renderer: r,

		Text:      r.NewStyle(),
		Expand:    r.NewStyle().Foreground(ThemeFg("#50FA7B")),
		Module:    r.NewStyle().Foreground(ThemeFg("#56C8D8")),
		Generate:  r.NewStyle().Foreground(ThemeFg("#6C8CFF")),
		TaskFunc:  r.NewStyle().Foreground(ThemeFg("#E5C07B")),
		Other:     r.NewStyle().Foreground(ThemeFg("#C678DD")),
		More:      r.NewStyle().Foreground(ThemeFg("#F1FA8C")),
		Overflow:  r.NewStyle().Foreground(ThemeFg("#FF5555")),
		Highlight: r.NewStyle().Foreground(ThemeFg("#282A36")).Background(ThemeFg("#F1FA8C")),

		Title:        r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}),
		TitleFocused: r.NewStyle().Bold(true).Foreground(accent),
		Status:       r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}),
		ErrorText:    r.NewStyle().Foreground(ThemeFg("#FF5555")),

		Panel:        r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border),
		PanelFocused: r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent),
	}
}

// cellStyle resolves one rendered cell to a style. Selection renders as
// reverse video in the focused panel and underline in the unfocused one, so
// both panels keep a visible cursor.
func (t Theme) cellStyle(c browser.Cell, focused bool) lipgloss.Style {
	var s lipgloss.Style
	switch c.Role {
	case browser.RoleExpand:
		s = t.Expand
	case browser.RoleModule:
		s = t.Module
	case browser.RoleGenerate:
		s = t.Generate
	case browser.RoleTaskFunc:
		s = t.TaskFunc
	case browser.RoleOther:
		s = t.Other
	case browser.RoleMore:
		s = t.More
	case browser.RoleOverflow:
		s = t.Overflow
	case browser.RoleHighlight:
		s = t.Highlight
	default:
		s = t.Text
	}
	if c.Selected {
		if focused {
			s = s.Reverse(true)
		} else {
			s = s.Underline(true)
		}
	}
	return s
}
