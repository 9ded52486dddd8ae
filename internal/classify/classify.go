package classify

import (
	"context"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	chapterPrefix      = regexp.MustCompile(`(?i)^(CHAPTER|PART|SECTION)\s+`)
	titleCase          = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*$`)
	numberedHeading    = regexp.MustCompile(`^\d+\.\s`)
	subNumberedHeading = regexp.MustCompile(`^\d+\.\d+\s`)

	referenceShapes = []*regexp.Regexp{
		regexp.MustCompile(`^[A-Z][a-z]+,?\s+[A-Z]\..*\(\d{4}\)`), // Smith, J. (2024)
		regexp.MustCompile(`^[A-Z][a-z]+\s+et\s+al\..*\d{4}`),     // Smith et al. 2024
		regexp.MustCompile(`^\[\d+\]`),                            // [1] ...
	}
	fourDigitYear = regexp.MustCompile(`\d{4}`)

	bulletMarker    = regexp.MustCompile(`^[•●○▪▫*-]\s+(.+)`)
	numberedMarkers = []*regexp.Regexp{
		regexp.MustCompile(`^\d+[.)]\s+.+`),
		regexp.MustCompile(`^[a-z][.)]\s+.+`),
		regexp.MustCompile(`(?i)^[ivxlcdm]+[.)]\s+.+`),
	}

	tableStartMarker = regexp.MustCompile(`(?i)^\[TABLE\s+START\]`)
	tableCaption     = regexp.MustCompile(`(?i)^Table\s+\d+`)
	tableEndMarker   = regexp.MustCompile(`(?i)^\[TABLE\s+END\]`)
	tableOpenPipe    = regexp.MustCompile(`^\|.*\|`)
	tableRow         = regexp.MustCompile(`^\|.*\|$`)

	definitionKeyword = regexp.MustCompile(`(?i)^(Definition|Objective|Task|Goal|Purpose|Aim|Method|Result|Conclusion):`)
	referencesKeyword = regexp.MustCompile(`(?i)^(references|bibliography|works cited|citations)$`)
)

// line is the trimmed input a rule inspects.
type line struct {
	text   string
	length int // in runes
}

type rule struct {
	name  string
	apply func(l line, rec *Record)
}

// rules are evaluated top to bottom and every rule sees every line. A later
// rule overwrites the tag an earlier one assigned, so the order here is the
// precedence: heading, reference, list, table, definition, section keyword.
var rules = []rule{
	{"heading", headingRule},
	{"reference", referenceRule},
	{"list", listRule},
	{"table", tableRule},
	{"definition", definitionRule},
	{"section-keyword", sectionKeywordRule},
}

// Classify tags a single line. It depends on nothing but its arguments.
func Classify(text string, index int) Record {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Record{Index: index, Tag: TagEmpty}
	}

	rec := Record{Index: index, Tag: TagParagraph, Text: trimmed}
	l := line{text: trimmed, length: utf8.RuneCountInString(trimmed)}
	for _, r := range rules {
		r.apply(l, &rec)
	}

	if rec.Tag != TagHeading {
		rec.Level = 0
	}
	if rec.Tag != TagBulletList {
		rec.Text = trimmed
	}
	if rec.Tag != TagDefinition {
		rec.Term, rec.Body = "", ""
	}
	return rec
}

// ProgressFunc receives the percentage of lines classified so far.
type ProgressFunc func(percent int)

// Lines splits text on newlines and classifies every line, blank ones
// included, so len(records) always equals the number of input lines.
// progress, if non-nil, is called after each line with
// round(100*index/total). ctx is checked between lines.
func Lines(ctx context.Context, text string, progress ProgressFunc) ([]Record, error) {
	lines := strings.Split(text, "\n")
	records := make([]Record, 0, len(lines))
	for i, l := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records = append(records, Classify(l, i))
		if progress != nil {
			progress(Percent(i, len(lines)))
		}
	}
	return records, nil
}

// Percent returns round(100*done/total), or 100 when total is zero.
func Percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

func headingRule(l line, rec *Record) {
	if l.length >= 100 {
		return
	}
	short := l.length < 50
	switch {
	case short && isAllCaps(l.text):
		rec.Tag, rec.Level = TagHeading, 1
	case chapterPrefix.MatchString(l.text):
		rec.Tag, rec.Level = TagHeading, 1
	case short && (titleCase.MatchString(l.text) || numberedHeading.MatchString(l.text)):
		rec.Tag, rec.Level = TagHeading, 2
	case subNumberedHeading.MatchString(l.text):
		rec.Tag, rec.Level = TagHeading, 3
	}
}

func referenceRule(l line, rec *Record) {
	for _, re := range referenceShapes {
		if re.MatchString(l.text) {
			rec.Tag = TagReference
			return
		}
	}
	if strings.Contains(l.text, "Retrieved from") && fourDigitYear.MatchString(l.text) {
		rec.Tag = TagReference
	}
}

// listRule strips the marker from bullet items but leaves numbered items
// untouched; the renderer numbers them itself.
func listRule(l line, rec *Record) {
	if m := bulletMarker.FindStringSubmatch(l.text); m != nil {
		rec.Tag = TagBulletList
		rec.Text = m[1]
	}
	for _, re := range numberedMarkers {
		if re.MatchString(l.text) {
			rec.Tag = TagNumberedList
			return
		}
	}
}

// tableRule applies the pipe-row shape only when the line is not an
// explicit start or end marker.
func tableRule(l line, rec *Record) {
	explicit := false
	if tableStartMarker.MatchString(l.text) || tableCaption.MatchString(l.text) {
		rec.Tag = TagTableStart
		explicit = true
	}
	if tableEndMarker.MatchString(l.text) {
		rec.Tag = TagTableEnd
		explicit = true
	}
	if explicit {
		return
	}
	switch {
	case tableRow.MatchString(l.text):
		rec.Tag = TagTableRow
	case tableOpenPipe.MatchString(l.text):
		rec.Tag = TagTableStart
	}
}

func definitionRule(l line, rec *Record) {
	if !definitionKeyword.MatchString(l.text) {
		return
	}
	term, body, _ := strings.Cut(l.text, ":")
	rec.Tag = TagDefinition
	rec.Term = strings.TrimSpace(term)
	rec.Body = strings.TrimSpace(body)
}

func sectionKeywordRule(l line, rec *Record) {
	if referencesKeyword.MatchString(l.text) {
		rec.Tag = TagHeading
		rec.Level = 1
		rec.Hint = HintReferences
	}
}

func isAllCaps(s string) bool {
	if s != strings.ToUpper(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
