package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Minimum usable terminal size.
const (
	minTerminalWidth  = 40
	minTerminalHeight = 12
)

// Layout breakpoints by terminal width.
const (
	layoutBreakpointSingle  = 50 // below: list only
	layoutBreakpointStacked = 90 // below: list above detail
)

// Layout mode names
const (
	LayoutModeSingle  = "single"
	LayoutModeStacked = "stacked"
	LayoutModeDual    = "dual"
)

// layoutMode picks the layout for a terminal width.
func layoutMode(width int) string {
	switch {
	case width < layoutBreakpointSingle:
		return LayoutModeSingle
	case width < layoutBreakpointStacked:
		return LayoutModeStacked
	default:
		return LayoutModeDual
	}
}

// ensureExactHeight pads or cuts content to exactly n lines (no trailing
// newline). Cutting keeps the top.
func ensureExactHeight(content string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// ensureExactWidth pads or truncates every line to exactly width cells so
// lipgloss.JoinHorizontal lines the panels up. Styling is kept.
func ensureExactWidth(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		w := ansi.StringWidth(line)
		switch {
		case w < width:
			lines[i] = line + strings.Repeat(" ", width-w)
		case w > width:
			cut := ansi.Truncate(line, width, "…")
			lines[i] = cut + strings.Repeat(" ", max(0, width-ansi.StringWidth(cut)))
		}
	}
	return strings.Join(lines, "\n")
}

// truncateText shortens plain text to width cells with an ellipsis.
func truncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// renderPanelTitle renders a two-line panel header: title plus rule.
func renderPanelTitle(title, hint string, width int, focused bool) string {
	style := PanelTitleDimStyle
	if focused {
		style = PanelTitleStyle
	}
	head := style.Render(truncateText(title, width))
	if hint != "" {
		room := width - runewidth.StringWidth(title) - 2
		if room > 3 {
			head += "  " + DimStyle.Render(truncateText(hint, room))
		}
	}
	return head + "\n" + PanelRuleStyle.Render(strings.Repeat("─", max(0, width)))
}

// renderSectionDivider renders "──── label ────" across width.
func renderSectionDivider(label string, width int) string {
	if label == "" {
		return PanelRuleStyle.Render(strings.Repeat("─", max(0, width)))
	}
	side := max(3, (width-runewidth.StringWidth(label)-2)/2)
	return PanelRuleStyle.Render(strings.Repeat("─", side)) +
		" " + DimStyle.Render(label) + " " +
		PanelRuleStyle.Render(strings.Repeat("─", side))
}

// centerInScreen places content in the middle of the screen.
func centerInScreen(content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
