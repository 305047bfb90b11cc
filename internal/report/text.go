package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/radshape/nodulescan/internal/analysis"
)

// TextWriter outputs human-readable text reports.
// This format is designed for terminal display with aligned columns
// and clear section formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// verbose enables per-image finding listings in results output.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with per-finding detail.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteComparison outputs the cross-category comparison as an aligned table.
func (w *TextWriter) WriteComparison(cmp *analysis.Comparison) (int, error) {
	var sb strings.Builder

	sb.WriteString("Category Comparison\n")
	sb.WriteString(strings.Repeat("=", 78) + "\n")
	fmt.Fprintf(&sb, "%-16s %8s %8s %8s %10s %8s %10s\n",
		"Category", "Images", "Failed", "Blobs", "Contours", "Total", "Avg/Image")
	sb.WriteString(strings.Repeat("-", 78) + "\n")

	for _, category := range cmp.Categories {
		s := cmp.Summaries[category]
		fmt.Fprintf(&sb, "%-16s %8d %8d %8d %10d %8d %10.2f\n",
			string(s.Category), s.ImagesAnalyzed, s.ImagesFailed,
			s.TotalBlobs, s.TotalContours, s.TotalFindings, s.AvgFindingsPerImage)
	}
	sb.WriteString(strings.Repeat("=", 78) + "\n")

	return io.WriteString(w.output, sb.String())
}

// WriteResults outputs per-image rows as an aligned table.
func (w *TextWriter) WriteResults(results []analysis.Result) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%-16s %-28s %11s %6s %9s %6s\n",
		"Category", "Filename", "Dimensions", "Blobs", "Contours", "Total")
	sb.WriteString(strings.Repeat("-", 82) + "\n")

	for _, r := range results {
		fmt.Fprintf(&sb, "%-16s %-28s %5dx%-5d %6d %9d %6d\n",
			string(r.Category), r.Filename, r.Width, r.Height,
			r.BlobCount, r.ContourCount, r.TotalFindings)
		if w.verbose {
			for _, f := range r.Findings {
				fmt.Fprintf(&sb, "    %-8s center=(%.1f, %.1f) radius=%.1f shape=%.2f\n",
					string(f.Candidate.Method), f.Candidate.Center.X,
					f.Candidate.Center.Y, f.Candidate.Radius, f.Candidate.ShapeMetric)
			}
		}
	}

	return io.WriteString(w.output, sb.String())
}
