package pipeline

import (
	"context"
	"fmt"

	"github.com/dgallion1/patternfmt/internal/classify"
	"github.com/dgallion1/patternfmt/internal/doctree"
	"github.com/dgallion1/patternfmt/internal/render"
)

// Options configure a single Format call.
type Options struct {
	// Title replaces the default document title when non-empty.
	Title string
	// Progress receives classification progress, then a final 100.
	Progress classify.ProgressFunc
	// Phase is told when each stage starts.
	Phase func(JobStatus)
}

// Result holds every intermediate product of a Format call.
type Result struct {
	Records  []classify.Record
	Document *doctree.Document
	Markup   string
	Lines    int
}

// Format runs raw text through classification, structure building and
// rendering. It fails only when ctx is cancelled mid-classification.
func Format(ctx context.Context, text string, opts Options) (*Result, error) {
	opts.phase(StatusClassifying)
	records, err := classify.Lines(ctx, text, opts.Progress)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	opts.phase(StatusBuilding)
	doc := doctree.Build(records)
	doc.Title = opts.Title

	opts.phase(StatusRendering)
	markup := render.Markdown(doc)

	if opts.Progress != nil {
		opts.Progress(100)
	}
	return &Result{
		Records:  records,
		Document: doc,
		Markup:   markup,
		Lines:    len(records),
	}, nil
}

func (o Options) phase(s JobStatus) {
	if o.Phase != nil {
		o.Phase(s)
	}
}
