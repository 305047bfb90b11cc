package analysis

import (
	"context"

	"github.com/radshape/nodulescan/internal/dataset"
)

// ChartSeries is the chart-ready view of a comparison: parallel slices in
// category order, split by detection method. Rendering is left to whatever
// consumes the series.
type ChartSeries struct {
	// Labels are the category names.
	Labels []string `json:"labels"`

	// Totals, Blobs, and Contours are detection counts per category,
	// index-aligned with Labels.
	Totals   []int `json:"totals"`
	Blobs    []int `json:"blobs"`
	Contours []int `json:"contours"`
}

// Comparison is the result of a cross-category run.
type Comparison struct {
	// Categories preserves the requested order.
	Categories []dataset.Category `json:"categories"`

	// Summaries maps each category to its aggregate.
	Summaries map[dataset.Category]CategorySummary `json:"summaries"`

	// Series is the chart-ready breakdown.
	Series ChartSeries `json:"series"`
}

// CompareCategories runs the full per-image pipeline for each category in
// turn and aggregates the results into a comparison. perCategory bounds the
// number of images analyzed per category; averages always divide by the
// number of images actually analyzed, not by perCategory, so sparse or
// partially broken categories are not skewed.
func (a *Analyzer) CompareCategories(ctx context.Context, layout *dataset.Layout, session *Session, categories []dataset.Category, perCategory int) (*Comparison, error) {
	cmp := &Comparison{
		Categories: categories,
		Summaries:  make(map[dataset.Category]CategorySummary, len(categories)),
	}

	for _, category := range categories {
		summary, err := a.AnalyzeCategory(ctx, layout, session, category, perCategory)
		if err != nil {
			return nil, err
		}
		cmp.Summaries[category] = summary

		cmp.Series.Labels = append(cmp.Series.Labels, string(category))
		cmp.Series.Totals = append(cmp.Series.Totals, summary.TotalFindings)
		cmp.Series.Blobs = append(cmp.Series.Blobs, summary.TotalBlobs)
		cmp.Series.Contours = append(cmp.Series.Contours, summary.TotalContours)
	}
	return cmp, nil
}
