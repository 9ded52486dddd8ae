package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/patternfmt/internal/config"
	"github.com/dgallion1/patternfmt/internal/parser"
)

// Worker processes a single document job.
type Worker struct {
	parserOpts   parser.Options
	defaultTitle string
	latency      *LatencyStats
	log          *slog.Logger
}

func NewWorker(cfg config.Config, latency *LatencyStats, log *slog.Logger) *Worker {
	return &Worker{
		parserOpts:   parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		defaultTitle: cfg.DocumentTitle,
		latency:      latency,
		log:          log,
	}
}

// Process extracts text from the job's file, formats it, and stores the
// result on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	// Phase 1: Extract text
	job.SetStatus(StatusExtracting, "extracting")
	src, err := parser.Extract(bytes.NewReader(job.FileData()), job.Filename, w.parserOpts)
	if err != nil {
		log.Error("extract failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	title := job.Title
	if title == "" {
		title = w.defaultTitle
	}

	// Phase 2: Classify, build, render
	res, err := Format(ctx, src.Text, Options{
		Title:    title,
		Progress: job.SetProgress,
		Phase: func(s JobStatus) {
			job.SetStatus(s, string(s))
		},
	})
	if err != nil {
		log.Error("format failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "classifying")
		return
	}

	elapsed := time.Since(start)
	if w.latency != nil {
		w.latency.Record(elapsed, res.Lines)
	}
	job.Complete(res)
	log.Info("job complete",
		"lines", res.Lines,
		"sections", len(res.Document.Sections),
		"dropped", len(res.Document.Dropped),
		"duration_ms", elapsed.Milliseconds(),
	)
}
