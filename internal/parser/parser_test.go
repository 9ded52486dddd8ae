package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/patternfmt/internal/classify"
	"github.com/dgallion1/patternfmt/internal/doctree"
	"github.com/fumiama/go-docx"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantType string
	}{
		{"a.txt", "*parser.TextParser"},
		{"a.MD", "*parser.MarkdownParser"},
		{"a.markdown", "*parser.MarkdownParser"},
		{"a.csv", "*parser.CSVParser"},
		{"a.htm", "*parser.HTMLParser"},
		{"a.html", "*parser.HTMLParser"},
		{"a.pdf", "*parser.PDFParser"},
		{"a.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename, Options{})
		if err != nil {
			t.Fatalf("ForFile(%q): %v", tt.filename, err)
		}
		if got := typeName(p); got != tt.wantType {
			t.Errorf("ForFile(%q) = %s, want %s", tt.filename, got, tt.wantType)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	_, err := ForFile("archive.zip", Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if IsSupportedExtension("archive.zip") {
		t.Error("zip should not be supported")
	}
	if !IsSupportedExtension("REPORT.PDF") {
		t.Error("extension check should ignore case")
	}
}

func TestExtract_WrapsParseFailures(t *testing.T) {
	for _, name := range []string{"broken.docx", "broken.pdf"} {
		_, err := Extract(strings.NewReader("definitely not a real document"), name, Options{})
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !errors.Is(err, ErrReadFailed) {
			t.Errorf("%s: expected ErrReadFailed, got %v", name, err)
		}
		var re *ReadError
		if !errors.As(err, &re) || re.Filename != name {
			t.Errorf("%s: expected *ReadError naming the file, got %#v", name, err)
		}
	}
}

func TestExtract_PlainText(t *testing.T) {
	src, err := Extract(strings.NewReader("GOALS\n- one"), "plan.txt", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "plan" || src.Text != "GOALS\n- one" {
		t.Errorf("unexpected source %+v", src)
	}
}

func TestCSVParser(t *testing.T) {
	input := "name,score\nAnn,9\n\"Bob | Jr\",7\n"
	p := &CSVParser{}
	src, err := p.Parse(strings.NewReader(input), "scores.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "scores" {
		t.Errorf("expected title %q, got %q", "scores", src.Title)
	}

	want := "SCORES\n\n[TABLE START]\n| name | score |\n| Ann | 9 |\n| Bob / Jr | 7 |\n[TABLE END]"
	if src.Text != want {
		t.Errorf("text mismatch\n got: %q\nwant: %q", src.Text, want)
	}
}

func TestCSVParser_EmptyCornerCell(t *testing.T) {
	input := ",Q1,Q2\nNorth,1,2\n"
	src, err := Extract(strings.NewReader(input), "sales.csv", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "SALES\n\n[TABLE START]\n| | Q1 | Q2 |\n| North | 1 | 2 |\n[TABLE END]"
	if src.Text != want {
		t.Fatalf("text mismatch\n got: %q\nwant: %q", src.Text, want)
	}

	records, err := classify.Lines(context.Background(), src.Text, nil)
	if err != nil {
		t.Fatal(err)
	}
	doc := doctree.Build(records)
	if len(doc.Sections) != 1 || len(doc.Sections[0].Content) != 1 {
		t.Fatalf("expected one section holding the table, got %+v", doc.Sections)
	}
	table, ok := doc.Sections[0].Content[0].(doctree.Table)
	if !ok {
		t.Fatalf("expected a table block, got %T", doc.Sections[0].Content[0])
	}
	for i, row := range table.Rows {
		if len(row) != 3 {
			t.Errorf("row %d: expected 3 cells, got %q", i, row)
		}
	}
	if table.Rows[0][0] != "" {
		t.Errorf("expected empty corner cell, got %q", table.Rows[0][0])
	}
}

func TestCSVParser_Empty(t *testing.T) {
	p := &CSVParser{}
	src, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Text != "" {
		t.Errorf("expected empty text, got %q", src.Text)
	}
}

func TestHTMLParser(t *testing.T) {
	input := `<html><head><title>Field Notes</title><style>p{}</style></head>
<body>
<nav>skip me</nav>
<h1>Overview</h1>
<p>Some   intro
text.</p>
<h2>next steps</h2>
<ul><li>alpha</li><li>beta<ol><li>inner</li></ol></li></ul>
<table><tr><th>K</th><th>V</th></tr><tr><td>a</td><td>1</td></tr></table>
<script>alert(1)</script>
</body></html>`
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader(input), "notes.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "Field Notes" {
		t.Errorf("expected title from <title>, got %q", src.Title)
	}

	want := "OVERVIEW\n\nSome intro text.\n\nNext Steps\n\n- alpha\n- beta\n1. inner\n\n[TABLE START]\n| K | V |\n| a | 1 |\n[TABLE END]"
	if src.Text != want {
		t.Errorf("text mismatch\n got: %q\nwant: %q", src.Text, want)
	}
}

func TestHTMLParser_EmptyItemsAndLooseText(t *testing.T) {
	input := `<body>
<div>Loose <b>text</b> here</div>
<ul><li>one</li><li></li><li>   </li><li>three</li></ul>
<ol><li>a</li><li></li><li>c</li></ol>
</body>`
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader(input), "items.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Loose text here\n\n- one\n- three\n\n1. a\n2. c"
	if src.Text != want {
		t.Errorf("text mismatch\n got: %q\nwant: %q", src.Text, want)
	}
}

func TestHTMLParser_TitleFallsBackToFilename(t *testing.T) {
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader("<p>hi</p>"), "page.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "page" {
		t.Errorf("expected title %q, got %q", "page", src.Title)
	}
	if src.Text != "hi" {
		t.Errorf("expected %q, got %q", "hi", src.Text)
	}
}

func TestDocxHeadingLevel(t *testing.T) {
	tests := map[string]int{
		"Heading1":  1,
		"heading 2": 2,
		"Heading6":  6,
		"Title":     1,
		"Heading7":  0,
		"Normal":    0,
		"Heading":   0,
	}
	for style, want := range tests {
		if got := docxHeadingLevel(styledParagraph(style)); got != want {
			t.Errorf("docxHeadingLevel(%q) = %d, want %d", style, got, want)
		}
	}
}

func typeName(v any) string { return fmt.Sprintf("%T", v) }

func styledParagraph(style string) *docx.Paragraph {
	return &docx.Paragraph{
		Properties: &docx.ParagraphProperties{Style: &docx.Style{Val: style}},
	}
}

func TestParsersProduceClassifiableShapes(t *testing.T) {
	input := `# Results

## Field Sites A1

| Site | Count |
|------|-------|
| North | 4 |

1. first
2. second
`
	src, err := Extract(strings.NewReader(input), "r.md", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := classify.Lines(context.Background(), src.Text, nil)
	if err != nil {
		t.Fatal(err)
	}

	var tags []classify.Tag
	for _, r := range records {
		if r.Tag != classify.TagEmpty {
			tags = append(tags, r.Tag)
		}
	}
	want := []classify.Tag{
		classify.TagHeading,
		classify.TagHeading,
		classify.TagTableStart,
		classify.TagTableRow,
		classify.TagTableRow,
		classify.TagTableEnd,
		classify.TagNumberedList,
		classify.TagNumberedList,
	}
	if len(tags) != len(want) {
		t.Fatalf("expected tags %v, got %v (text %q)", want, tags, src.Text)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], tags[i])
		}
	}
}
