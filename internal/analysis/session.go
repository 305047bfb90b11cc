package analysis

import (
	"sync"

	"github.com/radshape/nodulescan/internal/dataset"
)

// Session owns the append-only result log for one analysis run.
//
// The session is explicit state passed by reference to whoever needs it; no
// package-level accumulation exists. Appends are serialized, so per-image
// analyses may run in parallel and record into the same session.
type Session struct {
	mu       sync.Mutex
	results  []Result
	failures []Failure
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Record appends a completed per-image result. Results are never mutated or
// removed after this point.
func (s *Session) Record(r Result) {
	s.mu.Lock()
	s.results = append(s.results, r)
	s.mu.Unlock()
}

// RecordFailure appends a failed image. Failed images are tracked separately
// from results so a failure is never mistaken for "no anomalies found".
func (s *Session) RecordFailure(f Failure) {
	s.mu.Lock()
	s.failures = append(s.failures, f)
	s.mu.Unlock()
}

// Results returns a copy of the recorded results in append order.
func (s *Session) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

// Failures returns a copy of the recorded failures in append order.
func (s *Session) Failures() []Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Failure, len(s.failures))
	copy(out, s.failures)
	return out
}

// CategorySummary aggregates all recorded results for one category.
// Summaries are derived on demand and have no independent lifecycle.
type CategorySummary struct {
	// Category is the summarized partition.
	Category dataset.Category `json:"category"`

	// ImagesAnalyzed counts successfully analyzed images only.
	ImagesAnalyzed int `json:"images_analyzed"`

	// ImagesFailed counts images that failed to load or analyze.
	ImagesFailed int `json:"images_failed"`

	// TotalBlobs, TotalContours, and TotalFindings sum detections across
	// analyzed images.
	TotalBlobs    int `json:"total_blobs"`
	TotalContours int `json:"total_contours"`
	TotalFindings int `json:"total_findings"`

	// AvgFindingsPerImage divides TotalFindings by ImagesAnalyzed, so
	// failed images never skew the average. Zero when nothing was analyzed.
	AvgFindingsPerImage float64 `json:"avg_findings_per_image"`
}

// Summarize computes the aggregate for one category over everything recorded
// so far.
func (s *Session) Summarize(category dataset.Category) CategorySummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := CategorySummary{Category: category}
	for _, r := range s.results {
		if r.Category != category {
			continue
		}
		summary.ImagesAnalyzed++
		summary.TotalBlobs += r.BlobCount
		summary.TotalContours += r.ContourCount
		summary.TotalFindings += r.TotalFindings
	}
	for _, f := range s.failures {
		if f.Category == category {
			summary.ImagesFailed++
		}
	}

	if summary.ImagesAnalyzed > 0 {
		summary.AvgFindingsPerImage = float64(summary.TotalFindings) / float64(summary.ImagesAnalyzed)
	}
	return summary
}
