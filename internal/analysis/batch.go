package analysis

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/radshape/nodulescan/internal/dataset"
)

// AnalyzeCategory analyzes up to maxImages images from one category,
// recording every outcome into the session, and returns the category summary
// over everything the session holds.
//
// Images are processed in parallel up to the configured concurrency. Each
// per-image analysis is self-contained, so the only synchronization is the
// session's append lock. A failed image is logged, recorded as a Failure,
// and never aborts the batch; only context cancellation stops the run early.
func (a *Analyzer) AnalyzeCategory(ctx context.Context, layout *dataset.Layout, session *Session, category dataset.Category, maxImages int) (CategorySummary, error) {
	paths, err := layout.List(category, maxImages)
	if err != nil {
		return CategorySummary{}, fmt.Errorf("list %s images: %w", category, err)
	}

	a.logger.Info("starting category batch",
		"category", string(category),
		"images", len(paths),
		"concurrency", a.cfg.Concurrency,
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			res := dataset.Load(path)
			if !res.Ok() {
				a.logger.Warn("image load failed",
					"category", string(category),
					"image", res.Basename(),
					"error", res.Err,
				)
				session.RecordFailure(Failure{
					Category: category,
					Filename: res.Basename(),
					Err:      res.Err,
				})
				return nil
			}

			result, err := a.AnalyzeGrid(category, res.Basename(), res.Grid, true)
			if err != nil {
				a.logger.Warn("image analysis failed",
					"category", string(category),
					"image", res.Basename(),
					"error", err,
				)
				session.RecordFailure(Failure{
					Category: category,
					Filename: res.Basename(),
					Err:      err,
				})
				return nil
			}

			session.Record(*result)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return CategorySummary{}, err
	}

	summary := session.Summarize(category)
	a.logger.Info("category batch complete",
		"category", string(category),
		"analyzed", summary.ImagesAnalyzed,
		"failed", summary.ImagesFailed,
		"findings", summary.TotalFindings,
		"elapsed", time.Since(start),
	)
	return summary, nil
}
