package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/patternfmt/internal/config"
	"github.com/dgallion1/patternfmt/internal/parser"
)

func testConfig() config.Config {
	return config.Config{
		WorkerCount:  2,
		MaxQueueSize: 4,
		JobTTL:       time.Hour,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status.Done() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
	return JobSnapshot{}
}

func TestOrchestrator_ProcessesJob(t *testing.T) {
	o := NewOrchestrator(testConfig(), discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("paper.txt", "My Paper", []byte(scenarioInput))
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	snap := waitDone(t, job)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Errors)
	}
	if snap.Progress != 100 {
		t.Errorf("expected progress 100, got %d", snap.Progress)
	}
	markup, doc, ok := job.Result()
	if !ok {
		t.Fatal("expected a result")
	}
	if !strings.HasPrefix(markup, "# My Paper\n") {
		t.Errorf("expected job title in markup, got %q", markup)
	}
	if len(doc.Sections) != 2 {
		t.Errorf("expected 2 sections, got %d", len(doc.Sections))
	}
	if o.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable")
	}
	if o.Latency().Snapshot().Count != 1 {
		t.Error("expected one latency sample")
	}
}

func TestOrchestrator_ReadFailure(t *testing.T) {
	o := NewOrchestrator(testConfig(), discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("broken.docx", "", []byte("not a zip"))
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	snap := waitDone(t, job)
	if snap.Status != StatusFailed || snap.Phase != "extracting" {
		t.Fatalf("expected failure while extracting, got %q/%q", snap.Status, snap.Phase)
	}
	if len(snap.Errors) == 0 {
		t.Error("expected error recorded")
	}
	if _, _, ok := job.Result(); ok {
		t.Error("failed job should have no result")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	// Not started, so nothing drains the queue.
	o := NewOrchestrator(cfg, discardLogger())

	if err := o.Submit(NewJob("a.txt", "", nil)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	job := NewJob("b.txt", "", nil)
	err := o.Submit(job)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if job.Snapshot().Status != StatusFailed {
		t.Error("rejected job should be marked failed")
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestWorker_DefaultTitle(t *testing.T) {
	cfg := testConfig()
	cfg.DocumentTitle = "Configured Title"
	w := NewWorker(cfg, nil, discardLogger())

	job := NewJob("n.md", "", []byte("# Heading\n\ntext"))
	w.Process(context.Background(), job)

	markup, _, ok := job.Result()
	if !ok {
		t.Fatalf("expected completion, got %+v", job.Snapshot())
	}
	if !strings.HasPrefix(markup, "# Configured Title\n") {
		t.Errorf("expected configured title, got %q", markup)
	}
}

func TestWorker_UnsupportedFormat(t *testing.T) {
	w := NewWorker(testConfig(), nil, discardLogger())
	job := NewJob("image.png", "", []byte{0x89})
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected failure, got %q", snap.Status)
	}
	if len(snap.Errors) != 1 || !strings.Contains(snap.Errors[0], parser.ErrUnsupportedFormat.Error()) {
		t.Errorf("expected unsupported format error, got %v", snap.Errors)
	}
}
