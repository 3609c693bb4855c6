package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/asheshgoplani/item-deck/internal/item"
)

// renderDetail lays out a projected record for the detail pane. root, when
// set, shortens the provenance path.
func renderDetail(d *item.Detail, width int, root string) string {
	if d == nil {
		return DimStyle.Render("Select an item to see its details.")
	}
	width = max(width, 10)

	var b strings.Builder
	b.WriteString(styleLines(DetailTitleStyle, wordwrap.String(d.Title, width)))
	b.WriteString("\n")

	if d.Description != "" {
		b.WriteString("\n")
		b.WriteString(styleLines(DetailDescStyle, wordwrap.String(d.Description, width)))
		b.WriteString("\n")
	}

	if len(d.Known) > 0 {
		b.WriteString("\n")
		writeFields(&b, d.Known, width)
	}
	if len(d.Extra) > 0 {
		b.WriteString("\n")
		b.WriteString(renderSectionDivider("other fields", width))
		b.WriteString("\n\n")
		writeFields(&b, d.Extra, width)
	}

	if d.Source != "" {
		src := d.Source
		if root != "" {
			if rel, err := filepath.Rel(root, d.Source); err == nil {
				src = rel
			}
		}
		b.WriteString("\n")
		b.WriteString(DetailFooterStyle.Render(truncateText(fmt.Sprintf("%s #%d", src, d.Index), width)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeFields(b *strings.Builder, fields []item.Field, width int) {
	for _, f := range fields {
		label := DetailLabelStyle.Render(f.Label + ":")
		if !f.List {
			pad := len(f.Label) + 2
			if pad > width/2 {
				// long labels get the value on its own line
				b.WriteString(label + "\n")
				b.WriteString(indent.String(styleLines(DetailValueStyle, wordwrap.String(f.Text, width-2)), 2))
				b.WriteString("\n")
				continue
			}
			wrapped := wordwrap.String(f.Text, width-pad)
			first, rest, _ := strings.Cut(wrapped, "\n")
			b.WriteString(label + " " + DetailValueStyle.Render(first) + "\n")
			if rest != "" {
				b.WriteString(indent.String(styleLines(DetailValueStyle, rest), uint(pad)))
				b.WriteString("\n")
			}
			continue
		}

		b.WriteString(label + "\n")
		if len(f.Items) == 0 {
			b.WriteString("  " + DimStyle.Render("(none)") + "\n")
			continue
		}
		for _, it := range f.Items {
			wrapped := wordwrap.String(it, max(1, width-4))
			first, rest, _ := strings.Cut(wrapped, "\n")
			b.WriteString("  " + DetailBulletStyle.Render("•") + " " + DetailValueStyle.Render(first) + "\n")
			if rest != "" {
				b.WriteString(indent.String(styleLines(DetailValueStyle, rest), 4))
				b.WriteString("\n")
			}
		}
	}
}

// styleLines applies style per line so wrapping never splits an escape sequence.
func styleLines(style lipgloss.Style, s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = style.Render(l)
	}
	return strings.Join(lines, "\n")
}
