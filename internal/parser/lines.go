package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dgallion1/patternfmt/internal/classify"
)

// lineWriter assembles classifier-shaped plain text, one structural unit
// per line with blank lines between blocks.
type lineWriter struct {
	b strings.Builder
}

func (w *lineWriter) line(s string) {
	s = collapseSpace(s)
	if s == "" {
		return
	}
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *lineWriter) blank() {
	if w.b.Len() == 0 || strings.HasSuffix(w.b.String(), "\n\n") {
		return
	}
	w.b.WriteByte('\n')
}

func (w *lineWriter) paragraph(s string) {
	w.line(s)
	w.blank()
}

// heading writes level 1 headings in capitals and deeper ones in title
// case. Title case that would not read back as a heading falls back to
// capitals.
func (w *lineWriter) heading(level int, s string) {
	s = collapseSpace(s)
	if level > 1 {
		if t := titleWords(s); classify.Classify(t, 0).Tag == classify.TagHeading {
			w.paragraph(t)
			return
		}
	}
	w.paragraph(strings.ToUpper(s))
}

// bullet and numbered skip empty items and report whether a line was
// written. A bare marker would read back as a paragraph.
func (w *lineWriter) bullet(s string) bool {
	s = collapseSpace(s)
	if s == "" {
		return false
	}
	w.line("- " + s)
	return true
}

func (w *lineWriter) numbered(n int, s string) bool {
	s = collapseSpace(s)
	if s == "" {
		return false
	}
	w.line(fmt.Sprintf("%d. %s", n, s))
	return true
}

func (w *lineWriter) table(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	w.line("[TABLE START]")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(collapseSpace(c), "|", "/")
		}
		w.line("| " + strings.Join(cells, " | ") + " |")
	}
	w.line("[TABLE END]")
	w.blank()
}

func (w *lineWriter) String() string {
	return strings.TrimRight(w.b.String(), "\n")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
