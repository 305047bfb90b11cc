package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/radshape/nodulescan/internal/analysis"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. Mermaid chart embedding for the category distribution
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteComparison outputs the cross-category comparison in Markdown format.
func (w *MarkdownWriter) WriteComparison(cmp *analysis.Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Category Comparison")
	md.PlainText("")

	w.writeSummaryTable(md, cmp)
	w.writeMethodBreakdown(md, cmp)
	w.writePieChart(md, cmp)

	return len(md.String()), md.Build()
}

// WriteResults outputs per-image rows in Markdown format.
func (w *MarkdownWriter) WriteResults(results []analysis.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Analysis Results")
	md.PlainText("")

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			string(r.Category),
			"`" + r.Filename + "`",
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			strconv.Itoa(r.BlobCount),
			strconv.Itoa(r.ContourCount),
			strconv.Itoa(r.TotalFindings),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Filename", "Dimensions", "Blobs", "Contours", "Total"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// writeSummaryTable writes the aggregate table, one row per category.
func (w *MarkdownWriter) writeSummaryTable(md *markdown.Markdown, cmp *analysis.Comparison) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(cmp.Categories))
	for _, category := range cmp.Categories {
		s := cmp.Summaries[category]
		rows = append(rows, []string{
			string(s.Category),
			strconv.Itoa(s.ImagesAnalyzed),
			strconv.Itoa(s.ImagesFailed),
			strconv.Itoa(s.TotalFindings),
			fmt.Sprintf("%.2f", s.AvgFindingsPerImage),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Analyzed", "Failed", "Findings", "Avg/Image"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeMethodBreakdown splits totals into blob and contour counts.
func (w *MarkdownWriter) writeMethodBreakdown(md *markdown.Markdown, cmp *analysis.Comparison) {
	md.H2("Detection Method Breakdown")
	md.PlainText("")

	rows := make([][]string, 0, len(cmp.Categories))
	for _, category := range cmp.Categories {
		s := cmp.Summaries[category]
		rows = append(rows, []string{
			string(s.Category),
			strconv.Itoa(s.TotalBlobs),
			strconv.Itoa(s.TotalContours),
			"**" + strconv.Itoa(s.TotalFindings) + "**",
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Blob Detector", "Contour Detector", "Total"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of findings per category.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, cmp *analysis.Comparison) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Findings by Category"),
		piechart.WithShowData(true),
	)

	var any bool
	for i, label := range cmp.Series.Labels {
		if cmp.Series.Totals[i] > 0 {
			chart.LabelAndIntValue(label, uint64(cmp.Series.Totals[i]))
			any = true
		}
	}
	if !any {
		return
	}

	md.H2("Distribution")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
