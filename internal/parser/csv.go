package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles CSV files. The rows become one table under a heading
// named after the file.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Source, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := trimExt(filename, ".csv")
	var w lineWriter
	if len(records) > 0 {
		w.paragraph(strings.ToUpper(title))
		w.table(records)
	}
	return &Source{Title: title, Text: w.String()}, nil
}
