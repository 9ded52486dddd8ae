package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/patternfmt/internal/config"
	"github.com/dgallion1/patternfmt/internal/parser"
	"github.com/dgallion1/patternfmt/internal/pipeline"
	"github.com/dgallion1/patternfmt/internal/render"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Exit codes follow Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitIO      = 3 // Input missing or unreadable, output unwritable
)

// stdinFilename names text read from standard input.
const stdinFilename = "stdin.txt"

var errWriteOutput = errors.New("write output")

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "patternfmt:", err)
	}
	os.Exit(exitCodeFor(err))
}

func exitCodeFor(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return ExitSuccess
	case errors.Is(err, ErrUsage), errors.Is(err, parser.ErrUnsupportedFormat):
		return ExitUsage
	case errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission),
		errors.Is(err, parser.ErrReadFailed),
		errors.Is(err, errWriteOutput):
		return ExitIO
	default:
		return ExitGeneral
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if flags.verbose || flags.progress {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	filename, data, err := readInput(flags.input, stdin)
	if err != nil {
		return err
	}
	log.Info("read input", "file", filename, "bytes", len(data))

	src, err := parser.Extract(bytes.NewReader(data), filename, parser.Options{
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
	})
	if err != nil {
		return err
	}

	title := flags.title
	if title == "" {
		title = cfg.DocumentTitle
	}
	opts := pipeline.Options{Title: title}
	if flags.progress {
		next := 0
		opts.Progress = func(pct int) {
			// One line per ten-point step.
			if pct >= next {
				log.Info("progress", "percent", pct)
				next = pct/10*10 + 10
			}
		}
	}
	if flags.verbose {
		opts.Phase = func(s pipeline.JobStatus) { log.Info("phase", "stage", s) }
	}

	res, err := pipeline.Format(ctx, src.Text, opts)
	if err != nil {
		return err
	}
	log.Info("formatted",
		"lines", res.Lines,
		"sections", len(res.Document.Sections),
		"dropped", len(res.Document.Dropped),
	)

	out := res.Markup
	if flags.html {
		if out, err = render.HTML(res.Markup); err != nil {
			return err
		}
	}
	if err := writeOutput(flags.output, stdout, out); err != nil {
		return err
	}

	if flags.stats {
		enc := json.NewEncoder(stderr)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"lines":   res.Lines,
			"stats":   res.Document.Stats,
			"dropped": len(res.Document.Dropped),
		}); err != nil {
			return fmt.Errorf("%w: %v", errWriteOutput, err)
		}
	}
	return nil
}

func readInput(path string, stdin io.Reader) (string, []byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", nil, &parser.ReadError{Filename: stdinFilename, Err: err}
		}
		return stdinFilename, data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read input: %w", err)
	}
	return path, data, nil
}

func writeOutput(path string, stdout io.Writer, content string) error {
	if path == "" || path == "-" {
		if _, err := io.WriteString(stdout, content); err != nil {
			return fmt.Errorf("%w: %v", errWriteOutput, err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: %w", errWriteOutput, err)
	}
	return nil
}
