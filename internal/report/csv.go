package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/radshape/nodulescan/internal/analysis"
)

// CSVWriter outputs comma-separated rows for spreadsheet import.
//
// Design decision: We use the standard library encoding/csv package
// directly; the output is flat tabular data with no nesting, so a
// heavier serialization layer would add nothing.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteComparison outputs one row per category.
// Byte counts are approximate: encoding/csv does not report them, so we
// return 0 on success.
func (w *CSVWriter) WriteComparison(cmp *analysis.Comparison) (int, error) {
	cw := csv.NewWriter(w.output)

	header := []string{"category", "images_analyzed", "images_failed", "total_blobs", "total_contours", "total_findings", "avg_findings_per_image"}
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, category := range cmp.Categories {
		s := cmp.Summaries[category]
		row := []string{
			string(s.Category),
			strconv.Itoa(s.ImagesAnalyzed),
			strconv.Itoa(s.ImagesFailed),
			strconv.Itoa(s.TotalBlobs),
			strconv.Itoa(s.TotalContours),
			strconv.Itoa(s.TotalFindings),
			strconv.FormatFloat(s.AvgFindingsPerImage, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return 0, cw.Error()
}

// WriteResults outputs one row per analyzed image.
func (w *CSVWriter) WriteResults(results []analysis.Result) (int, error) {
	cw := csv.NewWriter(w.output)

	header := []string{"category", "filename", "width", "height", "blob_count", "contour_count", "total_findings"}
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range results {
		row := []string{
			string(r.Category),
			r.Filename,
			strconv.Itoa(r.Width),
			strconv.Itoa(r.Height),
			strconv.Itoa(r.BlobCount),
			strconv.Itoa(r.ContourCount),
			strconv.Itoa(r.TotalFindings),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return 0, cw.Error()
}
