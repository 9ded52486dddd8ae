package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Source, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	var w lineWriter
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		writeMarkdownBlock(&w, n, src)
	}

	return &Source{
		Title: trimExt(filename, ".md", ".markdown"),
		Text:  w.String(),
	}, nil
}

func writeMarkdownBlock(w *lineWriter, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Heading:
		w.heading(node.Level, inlineText(node, src))
	case *ast.List:
		writeMarkdownList(w, node, src)
		w.blank()
	case *extast.Table:
		w.table(markdownTableRows(node, src))
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.line(string(seg.Value(src)))
		}
		w.blank()
	case *ast.HTMLBlock:
		var raw bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			raw.Write(seg.Value(src))
		}
		if node.HasClosure() {
			raw.Write(node.ClosureLine.Value(src))
		}
		if doc, err := html.Parse(&raw); err == nil {
			writeHTML(w, doc)
			w.blank()
		}
	case *ast.ThematicBreak:
	default:
		w.paragraph(inlineText(n, src))
	}
}

// writeMarkdownList writes nested lists after their parent item.
func writeMarkdownList(w *lineWriter, list *ast.List, src []byte) {
	num := list.Start
	if num == 0 {
		num = 1
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, sub)
				continue
			}
			parts = append(parts, inlineText(c, src))
		}
		itemText := strings.Join(parts, " ")
		if list.IsOrdered() {
			if w.numbered(num, itemText) {
				num++
			}
		} else {
			w.bullet(itemText)
		}
		for _, sub := range nested {
			writeMarkdownList(w, sub, src)
		}
	}
}

func markdownTableRows(table *extast.Table, src []byte) [][]string {
	var rows [][]string
	for r := table.FirstChild(); r != nil; r = r.NextSibling() {
		var row []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			row = append(row, inlineText(c, src))
		}
		rows = append(rows, row)
	}
	return rows
}

// inlineText collects the visible text of a node, dropping markup.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
			return
		case *ast.String:
			buf.Write(v.Value)
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	return collapseSpace(buf.String())
}
