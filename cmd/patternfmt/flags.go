package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks bad invocations.
var ErrUsage = errors.New("usage error")

type cliFlags struct {
	output   string
	title    string
	html     bool
	stats    bool
	progress bool
	verbose  bool
	input    string // "-" or empty reads stdin
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("patternfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: patternfmt [flags] [file]")
		fmt.Fprintln(stderr, "Formats a plain-text, Markdown, HTML, CSV, PDF or DOCX file into structured Markdown.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	fs.StringVar(&f.title, "title", "", "document title line")
	fs.BoolVar(&f.html, "html", false, "write the HTML preview instead of Markdown")
	fs.BoolVar(&f.stats, "stats", false, "print document stats as JSON to stderr")
	fs.BoolVar(&f.progress, "progress", false, "log classification progress")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log pipeline details")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	switch fs.NArg() {
	case 0:
		f.input = "-"
	case 1:
		f.input = fs.Arg(0)
	default:
		return nil, fmt.Errorf("%w: expected at most one input file, got %d", ErrUsage, fs.NArg())
	}
	return f, nil
}
