package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### subsection a1

Subsection A1 content.
`
	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", src.Title)
	}

	want := "TITLE\n\nIntro text.\n\nSection A\n\nSection A content.\n\nSUBSECTION A1\n\nSubsection A1 content."
	if src.Text != want {
		t.Errorf("text mismatch\n got: %q\nwant: %q", src.Text, want)
	}
}

func TestMarkdownParser_Lists(t *testing.T) {
	input := `Steps:

1. First
2. Second
   - nested *one*
3. Third

- apple
- banana
`
	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader(input), "lists.markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "lists" {
		t.Errorf("expected title %q, got %q", "lists", src.Title)
	}

	want := "Steps:\n\n1. First\n2. Second\n- nested one\n3. Third\n\n- apple\n- banana"
	if src.Text != want {
		t.Errorf("text mismatch\n got: %q\nwant: %q", src.Text, want)
	}
}

func TestMarkdownParser_EmptyItemsSkipped(t *testing.T) {
	input := "- one\n-\n- three\n\n1. foo\n2.\n3. bar\n"
	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader(input), "items.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "- one\n- three\n\n1. foo\n2. bar"
	if src.Text != want {
		t.Errorf("text mismatch\n got: %q\nwant: %q", src.Text, want)
	}
}

func TestMarkdownParser_HTMLBlock(t *testing.T) {
	input := "<div>\nNote from the <em>editor</em>\n</div>\n\nAfter the note.\n"
	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader(input), "note.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Note from the editor\n\nAfter the note."
	if src.Text != want {
		t.Errorf("text mismatch\n got: %q\nwant: %q", src.Text, want)
	}
}

func TestMarkdownParser_Table(t *testing.T) {
	input := `| Name | Score |
|------|-------|
| Ann  | 9     |
| Bob  | 7     |
`
	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader(input), "t.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "[TABLE START]\n| Name | Score |\n| Ann | 9 |\n| Bob | 7 |\n[TABLE END]"
	if src.Text != want {
		t.Errorf("text mismatch\n got: %q\nwant: %q", src.Text, want)
	}
}

func TestMarkdownParser_InlineMarkupStripped(t *testing.T) {
	input := "Some **bold** and `code` and [a link](http://x.test)\ncontinued here.\n"
	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader(input), "inline.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Some bold and code and a link continued here."
	if src.Text != want {
		t.Errorf("got %q, want %q", src.Text, want)
	}
}

func TestMarkdownParser_Empty(t *testing.T) {
	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Text != "" {
		t.Errorf("expected empty text, got %q", src.Text)
	}
}
