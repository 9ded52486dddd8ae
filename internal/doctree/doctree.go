// Package doctree holds the section/block document model and the builder
// that reassembles classified lines into it.
package doctree

import (
	"encoding/json"

	"github.com/dgallion1/patternfmt/internal/classify"
)

// DefaultTitle is used when a document has no explicit title.
const DefaultTitle = "FORMATTED DOCUMENT"

// Document is the root of a built document.
type Document struct {
	Title    string         // Rendered title line (DefaultTitle when empty)
	Sections []*Section     // Sections in input order
	Stats    classify.Stats // Tag totals over the whole input
	Dropped  []int          // Input indices of non-empty lines with nowhere to attach
}

// SectionKind distinguishes ordinary sections from the references section.
type SectionKind string

const (
	KindNormal     SectionKind = "normal"
	KindReferences SectionKind = "references"
)

// Section is a heading plus its ordered content. Level is metadata for the
// table of contents only; sections never nest.
type Section struct {
	Heading string
	Level   int
	Kind    SectionKind
	Line    int // input index that opened the section
	Content []Block
}

// Block is one unit of section content. The set of implementations is
// closed: Paragraph, Definition, Reference, BulletList, NumberedList, Table.
type Block interface {
	blockType() string
}

type Paragraph struct{ Text string }

type Definition struct{ Term, Body string }

type Reference struct{ Text string }

type BulletList struct{ Items []string }

type NumberedList struct{ Items []string }

// Table rows may have differing lengths; they are kept as-is.
type Table struct{ Rows [][]string }

func (Paragraph) blockType() string    { return "paragraph" }
func (Definition) blockType() string   { return "definition" }
func (Reference) blockType() string    { return "reference" }
func (BulletList) blockType() string   { return "bullet-list" }
func (NumberedList) blockType() string { return "numbered-list" }
func (Table) blockType() string        { return "table" }

// blockJSON is the wire shape of a block.
type blockJSON struct {
	Type  string     `json:"type"`
	Text  string     `json:"text,omitempty"`
	Term  string     `json:"term,omitempty"`
	Body  string     `json:"body,omitempty"`
	Items []string   `json:"items,omitempty"`
	Rows  [][]string `json:"rows,omitempty"`
}

func toBlockJSON(b Block) blockJSON {
	out := blockJSON{Type: b.blockType()}
	switch v := b.(type) {
	case Paragraph:
		out.Text = v.Text
	case Definition:
		out.Term, out.Body = v.Term, v.Body
	case Reference:
		out.Text = v.Text
	case BulletList:
		out.Items = v.Items
	case NumberedList:
		out.Items = v.Items
	case Table:
		out.Rows = v.Rows
	}
	return out
}

// MarshalJSON encodes the section with a type discriminator on each block.
func (s *Section) MarshalJSON() ([]byte, error) {
	content := make([]blockJSON, 0, len(s.Content))
	for _, b := range s.Content {
		content = append(content, toBlockJSON(b))
	}
	return json.Marshal(struct {
		Heading string      `json:"heading"`
		Level   int         `json:"level"`
		Kind    SectionKind `json:"kind"`
		Line    int         `json:"line"`
		Content []blockJSON `json:"content"`
	}{s.Heading, s.Level, s.Kind, s.Line, content})
}
