package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/critic/internal/review"
)

// Writer writes a review in a specific format.
type Writer interface {
	Write(w io.Writer, r *review.Review) error
}

// Options carries the run metadata some formats print.
type Options struct {
	Model       string
	Commit      string
	ToolVersion string
	Timestamp   time.Time
}

// Formats lists the names accepted by GetWriter.
var Formats = []string{"markdown", "compact", "json", "sarif", "summary"}

// GetWriter returns a writer for the specified format.
func GetWriter(format string, opts Options) (Writer, error) {
	switch format {
	case "markdown", "md":
		return &MarkdownWriter{Model: opts.Model, Commit: opts.Commit, Timestamp: opts.Timestamp}, nil
	case "compact":
		return &MarkdownWriter{Compact: true}, nil
	case "json":
		return &JSONWriter{}, nil
	case "sarif":
		return &SARIFWriter{ToolVersion: opts.ToolVersion}, nil
	case "summary", "text":
		return &SummaryWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile renders r with writer into path, creating parent directories.
func WriteFile(path string, writer Writer, r *review.Review) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := writer.Write(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

// scoreText formats the overall score, or N/A when the review has none.
func scoreText(r *review.Review) string {
	if score, ok := r.Score(); ok {
		return fmt.Sprintf("%d", score)
	}
	return "N/A"
}

func summaryText(r *review.Review) string {
	if r.Summary == "" {
		return "No summary available"
	}
	return r.Summary
}
