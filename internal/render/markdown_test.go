package render

import (
	"strings"
	"testing"

	"github.com/dgallion1/patternfmt/internal/doctree"
)

func TestMarkdown_IntroductionAndReferences(t *testing.T) {
	doc := &doctree.Document{
		Sections: []*doctree.Section{
			{
				Heading: "INTRODUCTION", Level: 1, Kind: doctree.KindNormal,
				Content: []doctree.Block{
					doctree.Paragraph{Text: "This is the first paragraph."},
					doctree.BulletList{Items: []string{"item one", "item two"}},
				},
			},
			{
				Heading: "REFERENCES", Level: 1, Kind: doctree.KindReferences,
				Content: []doctree.Block{
					doctree.Reference{Text: "Smith, J. (2024). A study."},
				},
			},
		},
	}

	want := "# FORMATTED DOCUMENT\n\n" +
		"## Table of Contents\n\n" +
		"1. INTRODUCTION\n" +
		"2. REFERENCES\n" +
		"\n---\n\n" +
		"## INTRODUCTION\n\n" +
		"This is the first paragraph.\n\n" +
		"- item one\n" +
		"- item two\n\n" +
		"## REFERENCES\n\n" +
		"Smith, J. (2024). A study.\n\n"

	got := Markdown(doc)
	if got != want {
		t.Errorf("markup mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestMarkdown_EmptyDocument(t *testing.T) {
	got := Markdown(&doctree.Document{})
	want := "# FORMATTED DOCUMENT\n\n## Table of Contents\n\n\n---\n\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdown_TitleOverride(t *testing.T) {
	got := Markdown(&doctree.Document{Title: "Field Notes"})
	if !strings.HasPrefix(got, "# Field Notes\n\n") {
		t.Errorf("expected custom title line, got %q", got)
	}
}

func TestMarkdown_TableOfContentsNumbering(t *testing.T) {
	doc := &doctree.Document{
		Sections: []*doctree.Section{
			{Heading: "ONE", Level: 1},
			{Heading: "1.1 detail", Level: 3},
			{Heading: "Sub Part", Level: 2},
			{Heading: "TWO", Level: 1},
		},
	}
	got := Markdown(doc)
	toc := got[:strings.Index(got, "---")]

	if !strings.Contains(toc, "1. ONE\n") {
		t.Errorf("expected level 1 entry at position 1, got %q", toc)
	}
	if !strings.Contains(toc, "   3. Sub Part\n") {
		t.Errorf("expected indented level 2 entry at position 3, got %q", toc)
	}
	if !strings.Contains(toc, "4. TWO\n") {
		t.Errorf("expected level 1 entry at position 4, got %q", toc)
	}
	if strings.Contains(toc, "detail") {
		t.Errorf("level 3 section should not be listed, got %q", toc)
	}

	if !strings.Contains(got, "#### 1.1 detail\n\n") {
		t.Errorf("expected level 3 heading with four markers, got %q", got)
	}
	if !strings.Contains(got, "### Sub Part\n\n") {
		t.Errorf("expected level 2 heading with three markers, got %q", got)
	}
}

func TestMarkdown_Blocks(t *testing.T) {
	doc := &doctree.Document{
		Sections: []*doctree.Section{{
			Heading: "BODY", Level: 1,
			Content: []doctree.Block{
				doctree.Definition{Term: "Goal", Body: "finish on time"},
				doctree.NumberedList{Items: []string{"3. first", "b) second"}},
				doctree.Table{Rows: [][]string{{"Name", "Score"}, {"Ann", "9"}, {"Bo"}}},
				doctree.Table{},
			},
		}},
	}
	got := Markdown(doc)

	wantParts := []string{
		"**Goal:** finish on time\n\n",
		"1. 3. first\n2. b) second\n\n",
		"| Name | Score |\n| --- | --- |\n| Ann | 9 |\n| Bo |\n\n",
	}
	for _, part := range wantParts {
		if !strings.Contains(got, part) {
			t.Errorf("expected output to contain %q, got %q", part, got)
		}
	}
	if !strings.HasSuffix(got, "| Bo |\n\n") {
		t.Errorf("expected empty table to render nothing, got %q", got)
	}
}

func TestMarkdown_Idempotent(t *testing.T) {
	doc := &doctree.Document{
		Sections: []*doctree.Section{{
			Heading: "A", Level: 1,
			Content: []doctree.Block{doctree.BulletList{Items: []string{"x"}}},
		}},
	}
	if Markdown(doc) != Markdown(doc) {
		t.Error("expected identical output on repeated renders")
	}
}

func TestHTML_Preview(t *testing.T) {
	markup := "# FORMATTED DOCUMENT\n\n## DATA\n\n**Goal:** ship\n\n| a | b |\n| --- | --- |\n| 1 | 2 |\n\n<script>alert(1)</script>\n"
	out, err := HTML(markup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"<h1>FORMATTED DOCUMENT</h1>", "<h2>DATA</h2>", "<strong>Goal:</strong>", "<table>", "<td>1</td>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected preview to contain %q, got %q", want, out)
		}
	}
	if strings.Contains(out, "<script>") || !strings.Contains(out, "<!-- raw HTML omitted -->") {
		t.Errorf("expected raw html to be omitted, got %q", out)
	}
}
