// Package render turns a built document into its canonical markup and an
// HTML preview of that markup.
package render

import (
	"fmt"
	"strings"

	"github.com/dgallion1/patternfmt/internal/doctree"
)

// Markdown renders the document as a title, a table of contents, a
// separator and the sections in order. Output depends only on doc.
func Markdown(doc *doctree.Document) string {
	var b strings.Builder

	title := doc.Title
	if title == "" {
		title = doctree.DefaultTitle
	}
	b.WriteString("# " + title + "\n\n")
	b.WriteString("## Table of Contents\n\n")

	// Numbering is the position in the full section list, not a per-level
	// counter. Level 3 sections are left out.
	for i, s := range doc.Sections {
		switch s.Level {
		case 1:
			fmt.Fprintf(&b, "%d. %s\n", i+1, s.Heading)
		case 2:
			fmt.Fprintf(&b, "   %d. %s\n", i+1, s.Heading)
		}
	}

	b.WriteString("\n---\n\n")

	for _, s := range doc.Sections {
		writeSection(&b, s)
	}
	return b.String()
}

func writeSection(b *strings.Builder, s *doctree.Section) {
	b.WriteString(strings.Repeat("#", s.Level+1) + " " + s.Heading + "\n\n")

	for _, block := range s.Content {
		switch v := block.(type) {
		case doctree.Paragraph:
			b.WriteString(v.Text + "\n\n")
		case doctree.Definition:
			fmt.Fprintf(b, "**%s:** %s\n\n", v.Term, v.Body)
		case doctree.BulletList:
			for _, item := range v.Items {
				b.WriteString("- " + item + "\n")
			}
			b.WriteString("\n")
		case doctree.NumberedList:
			for i, item := range v.Items {
				fmt.Fprintf(b, "%d. %s\n", i+1, item)
			}
			b.WriteString("\n")
		case doctree.Table:
			writeTable(b, v)
		case doctree.Reference:
			b.WriteString(v.Text + "\n\n")
		}
	}
}

// writeTable uses the first row as the header. Ragged rows are written
// as they are.
func writeTable(b *strings.Builder, t doctree.Table) {
	if len(t.Rows) == 0 {
		return
	}
	header := t.Rows[0]
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")

	for _, row := range t.Rows[1:] {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}
