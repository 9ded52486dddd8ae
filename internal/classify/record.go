// Package classify tags each line of a plain-text document with its
// structural role using an ordered table of heuristic rules.
package classify

// Tag identifies the structural role of a single line.
type Tag string

const (
	TagEmpty        Tag = "empty"
	TagHeading      Tag = "heading"
	TagParagraph    Tag = "paragraph"
	TagBulletList   Tag = "bullet-list"
	TagNumberedList Tag = "numbered-list"
	TagTableStart   Tag = "table-start"
	TagTableRow     Tag = "table-row"
	TagTableEnd     Tag = "table-end"
	TagReference    Tag = "reference"
	TagDefinition   Tag = "definition"
)

// IsList reports whether the tag belongs to the list family.
func (t Tag) IsList() bool {
	return t == TagBulletList || t == TagNumberedList
}

// Hint marks a heading that opens a special region of the document.
type Hint string

const (
	HintNone       Hint = ""
	HintReferences Hint = "references"
)

// Record is the classification result for one input line. Records are
// values and are never modified after Classify returns them.
type Record struct {
	Index int    `json:"index"`
	Tag   Tag    `json:"tag"`
	Text  string `json:"text"`
	Level int    `json:"heading_level,omitempty"` // 1-3 for headings, 0 otherwise
	Term  string `json:"term,omitempty"`
	Body  string `json:"body,omitempty"`
	Hint  Hint   `json:"section_hint,omitempty"`
}

// Stats aggregates tag totals over a whole document.
type Stats struct {
	Headings    int `json:"headings"`
	Paragraphs  int `json:"paragraphs"`
	References  int `json:"references"`
	Tables      int `json:"tables"`
	Lists       int `json:"lists"`
	Definitions int `json:"definitions"`
}

// Tally counts tags across records. Lists count once per list line, not
// once per merged list block; tables count their start markers.
func Tally(records []Record) Stats {
	var s Stats
	for _, r := range records {
		switch {
		case r.Tag == TagHeading:
			s.Headings++
		case r.Tag == TagParagraph:
			s.Paragraphs++
		case r.Tag == TagReference:
			s.References++
		case r.Tag == TagTableStart:
			s.Tables++
		case r.Tag.IsList():
			s.Lists++
		case r.Tag == TagDefinition:
			s.Definitions++
		}
	}
	return s
}
