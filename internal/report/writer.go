package report

import (
	"io"

	"github.com/radshape/nodulescan/internal/analysis"
)

// Writer defines the interface for report output.
// Implementations write analysis results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// WriteComparison outputs a cross-category comparison to the
	// configured destination. Returns the number of bytes written and
	// any error encountered.
	WriteComparison(cmp *analysis.Comparison) (int, error)

	// WriteResults outputs per-image rows. This is useful for detailed
	// inspection of a single batch without category aggregation.
	WriteResults(results []analysis.Result) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteComparison outputs the comparison to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteComparison(cmp *analysis.Comparison) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteComparison(cmp)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteResults outputs the per-image rows to all configured Writers.
func (m *MultiWriter) WriteResults(results []analysis.Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteResults(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
