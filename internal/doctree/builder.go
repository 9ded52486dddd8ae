package doctree

import (
	"strings"

	"github.com/dgallion1/patternfmt/internal/classify"
)

// referencesHeading names the section opened for references that arrive
// in the references region without a references heading in front of them.
const referencesHeading = "REFERENCES"

type listAcc struct {
	kind  classify.Tag
	items []string
	lines []int
}

type tableAcc struct {
	rows  [][]string
	lines []int // marker lines included
}

// Builder reassembles classified records into sections in one forward
// pass. The zero value is not usable; call NewBuilder. A Builder is done
// once Finish has been called.
type Builder struct {
	doc     *Document
	section *Section
	list    *listAcc
	table   *tableAcc
	inRefs  bool // sticky once a references heading is seen
}

func NewBuilder() *Builder {
	return &Builder{doc: &Document{}}
}

// Build runs a Builder over records and fills in the document stats.
func Build(records []classify.Record) *Document {
	b := NewBuilder()
	for _, rec := range records {
		b.Step(rec)
	}
	doc := b.Finish()
	doc.Stats = classify.Tally(records)
	return doc
}

// Step consumes one record and returns the section it closed, if any.
func (b *Builder) Step(rec classify.Record) *Section {
	if rec.Tag == classify.TagEmpty {
		return nil
	}
	if rec.Hint == classify.HintReferences {
		b.inRefs = true
	}

	if rec.Tag == classify.TagHeading {
		closed := b.closeSection()
		kind := KindNormal
		if rec.Hint == classify.HintReferences {
			kind = KindReferences
		}
		b.section = &Section{Heading: rec.Text, Level: rec.Level, Kind: kind, Line: rec.Index}
		return closed
	}

	// Lists do not survive interruption by any other kind of line.
	if !rec.Tag.IsList() {
		b.closeList()
	}

	switch {
	case b.inRefs && rec.Tag == classify.TagReference:
		var closed *Section
		if b.section == nil || b.section.Kind != KindReferences {
			closed = b.closeSection()
			b.section = &Section{Heading: referencesHeading, Level: 1, Kind: KindReferences, Line: rec.Index}
		}
		b.section.Content = append(b.section.Content, Reference{Text: rec.Text})
		return closed

	case rec.Tag.IsList():
		if b.list != nil && b.list.kind != rec.Tag {
			b.closeList()
		}
		if b.list == nil {
			b.list = &listAcc{kind: rec.Tag}
		}
		b.list.items = append(b.list.items, rec.Text)
		b.list.lines = append(b.list.lines, rec.Index)

	case rec.Tag == classify.TagTableStart:
		b.closeTable()
		b.table = &tableAcc{lines: []int{rec.Index}}

	case rec.Tag == classify.TagTableRow:
		if b.table == nil {
			b.drop(rec.Index)
			return nil
		}
		b.table.rows = append(b.table.rows, SplitRow(rec.Text))
		b.table.lines = append(b.table.lines, rec.Index)

	case rec.Tag == classify.TagTableEnd:
		if b.table == nil {
			b.drop(rec.Index)
			return nil
		}
		b.table.lines = append(b.table.lines, rec.Index)
		b.closeTable()

	case rec.Tag == classify.TagDefinition:
		b.attach(Definition{Term: rec.Term, Body: rec.Body}, rec.Index)

	case rec.Tag == classify.TagParagraph:
		b.attach(Paragraph{Text: rec.Text}, rec.Index)

	case rec.Tag == classify.TagReference:
		b.attach(Reference{Text: rec.Text}, rec.Index)
	}
	return nil
}

// Finish closes whatever is still open and returns the document.
func (b *Builder) Finish() *Document {
	b.closeSection()
	return b.doc
}

func (b *Builder) attach(block Block, lines ...int) {
	if b.section == nil {
		b.drop(lines...)
		return
	}
	b.section.Content = append(b.section.Content, block)
}

func (b *Builder) drop(lines ...int) {
	b.doc.Dropped = append(b.doc.Dropped, lines...)
}

func (b *Builder) closeList() {
	if b.list == nil {
		return
	}
	l := b.list
	b.list = nil
	if len(l.items) == 0 {
		return
	}
	if l.kind == classify.TagBulletList {
		b.attach(BulletList{Items: l.items}, l.lines...)
	} else {
		b.attach(NumberedList{Items: l.items}, l.lines...)
	}
}

// closeTable discards a table that never received a row.
func (b *Builder) closeTable() {
	if b.table == nil {
		return
	}
	t := b.table
	b.table = nil
	if len(t.rows) == 0 {
		b.drop(t.lines...)
		return
	}
	b.attach(Table{Rows: t.rows}, t.lines...)
}

func (b *Builder) closeSection() *Section {
	b.closeList()
	b.closeTable()
	s := b.section
	if s != nil {
		b.doc.Sections = append(b.doc.Sections, s)
	}
	b.section = nil
	return s
}

// SplitRow splits a pipe-delimited row into trimmed cells. Only the pieces
// before the leading pipe and after the trailing pipe are dropped, so empty
// cells inside the row keep their column.
func SplitRow(row string) []string {
	row = strings.TrimSpace(row)
	cells := strings.Split(row, "|")
	if strings.HasPrefix(row, "|") {
		cells = cells[1:]
	}
	if strings.HasSuffix(row, "|") && len(cells) > 0 {
		cells = cells[:len(cells)-1]
	}
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}
