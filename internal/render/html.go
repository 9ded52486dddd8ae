package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// previewMarkdown parses tables so the rendered document's tables survive
// into the preview. Raw HTML in the source is replaced with an
// omission comment, since the renderer runs without html.WithUnsafe.
var previewMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// HTML converts rendered markup into an HTML fragment for previewing.
func HTML(markup string) (string, error) {
	var buf bytes.Buffer
	if err := previewMarkdown.Convert([]byte(markup), &buf); err != nil {
		return "", fmt.Errorf("convert preview: %w", err)
	}
	return buf.String(), nil
}
