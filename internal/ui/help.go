package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title    string
	bindings []key.Binding
}

// HelpOverlay shows the keyboard shortcuts in a modal.
type HelpOverlay struct {
	visible      bool
	width        int
	height       int
	scrollOffset int
	sections     []helpSection
}

// NewHelpOverlay creates a help overlay for the given bindings.
func NewHelpOverlay(keys keyMap) *HelpOverlay {
	return &HelpOverlay{sections: keys.helpSections()}
}

// Show opens the overlay at the top.
func (h *HelpOverlay) Show() {
	h.visible = true
	h.scrollOffset = 0
}

func (h *HelpOverlay) Hide() { h.visible = false }

func (h *HelpOverlay) IsVisible() bool { return h.visible }

// SetSize sets the screen size used for centering.
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Update scrolls on j/k and closes on any other key.
func (h *HelpOverlay) Update(msg tea.Msg) (*HelpOverlay, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !h.visible || !ok {
		return h, nil
	}
	switch km.String() {
	case "j", "down":
		h.scrollOffset++
	case "k", "up":
		h.scrollOffset = max(0, h.scrollOffset-1)
	case "pgdown":
		h.scrollOffset += 10
	case "pgup":
		h.scrollOffset = max(0, h.scrollOffset-10)
	default:
		h.Hide()
	}
	return h, nil
}

func (h *HelpOverlay) lines(dialogWidth int) []string {
	keyWidth := 14
	if dialogWidth < 45 {
		keyWidth = 10
	}
	keyStyle := HelpKeyColumnStyle.Width(keyWidth)
	descStyle := lipgloss.NewStyle().Foreground(ColorText)

	lines := []string{DialogTitleStyle.Render("KEYBOARD SHORTCUTS"), ""}
	for i, s := range h.sections {
		lines = append(lines, HelpSectionStyle.Render(s.title))
		for _, b := range s.bindings {
			hb := b.Help()
			lines = append(lines, "  "+keyStyle.Render(hb.Key)+descStyle.Render(hb.Desc))
		}
		if i < len(h.sections)-1 {
			lines = append(lines, "")
		}
	}
	lines = append(lines, "",
		PanelRuleStyle.Render(strings.Repeat("─", max(20, dialogWidth-8))),
		DetailFooterStyle.Render("item-deck v"+Version))
	return lines
}

// View renders the overlay, scrolled when the screen is short.
func (h *HelpOverlay) View() string {
	if !h.visible {
		return ""
	}
	dialogWidth := 48
	if h.width > 0 && h.width < dialogWidth+10 {
		dialogWidth = max(35, h.width-10)
	}

	lines := h.lines(dialogWidth)
	// border, padding and footer take 8 rows
	avail := max(10, h.height-8)
	maxScroll := max(0, len(lines)-avail)
	h.scrollOffset = min(h.scrollOffset, maxScroll)

	var body []string
	footer := "Press any key to close"
	if maxScroll == 0 {
		body = lines
	} else {
		if h.scrollOffset > 0 {
			body = append(body, ScrollIndicatorStyle.Render("▲ more above"))
		}
		end := min(len(lines), h.scrollOffset+avail)
		body = append(body, lines[h.scrollOffset:end]...)
		if end < len(lines) {
			body = append(body, ScrollIndicatorStyle.Render("▼ more below"))
		}
		footer = "j/k scroll • any other key to close"
	}
	body = append(body, "", DetailFooterStyle.Render(footer))

	box := DialogBoxStyle.Width(dialogWidth).Render(strings.Join(body, "\n"))
	return centerInScreen(box, h.width, h.height)
}
