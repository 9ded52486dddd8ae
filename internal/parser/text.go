package parser

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("input is not valid UTF-8")

// TextParser handles plain text files. The text is passed through
// unchanged apart from a leading byte order mark.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, errInvalidUTF8
	}
	return &Source{
		Title: trimExt(filename, ".txt"),
		Text:  strings.TrimPrefix(string(data), "\ufeff"),
	}, nil
}
