package item

import (
	"fmt"
	"strings"
)

// Markdown renders the detail as a Markdown document.
func (d *Detail) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	if d.Description != "" {
		b.WriteString(d.Description)
		b.WriteString("\n\n")
	}
	writeMarkdownFields(&b, d.Known)
	if len(d.Extra) > 0 {
		b.WriteString("---\n\n")
		writeMarkdownFields(&b, d.Extra)
	}
	if d.Source != "" {
		fmt.Fprintf(&b, "*%s, entry %d*\n", d.Source, d.Index)
	}
	return b.String()
}

func writeMarkdownFields(b *strings.Builder, fields []Field) {
	for _, f := range fields {
		if f.List {
			fmt.Fprintf(b, "**%s:**\n\n", f.Label)
			for _, it := range f.Items {
				fmt.Fprintf(b, "- %s\n", it)
			}
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(b, "**%s:** %s\n\n", f.Label, f.Text)
	}
}

// Text renders the detail as plain text, one field per line.
func (d *Detail) Text() string {
	var b strings.Builder
	b.WriteString(d.Title)
	b.WriteString("\n")
	if d.Description != "" {
		b.WriteString(d.Description)
		b.WriteString("\n")
	}
	for _, group := range [][]Field{d.Known, d.Extra} {
		for _, f := range group {
			if f.List {
				fmt.Fprintf(&b, "%s:\n", f.Label)
				for _, it := range f.Items {
					fmt.Fprintf(&b, "  • %s\n", it)
				}
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Text)
		}
	}
	return b.String()
}
