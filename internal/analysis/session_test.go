package analysis

import (
	"errors"
	"sync"
	"testing"

	"github.com/radshape/nodulescan/internal/dataset"
)

func TestSession_Summarize(t *testing.T) {
	s := NewSession()
	s.Record(Result{Category: dataset.CategoryCOVID, Filename: "a.png", BlobCount: 2, ContourCount: 1, TotalFindings: 3})
	s.Record(Result{Category: dataset.CategoryCOVID, Filename: "b.png", BlobCount: 1, ContourCount: 0, TotalFindings: 1})
	s.RecordFailure(Failure{Category: dataset.CategoryCOVID, Filename: "c.png", Err: errors.New("truncated file")})

	summary := s.Summarize(dataset.CategoryCOVID)

	if summary.ImagesAnalyzed != 2 {
		t.Errorf("ImagesAnalyzed = %d, want 2", summary.ImagesAnalyzed)
	}
	if summary.ImagesFailed != 1 {
		t.Errorf("ImagesFailed = %d, want 1", summary.ImagesFailed)
	}
	if summary.TotalBlobs != 3 || summary.TotalContours != 1 || summary.TotalFindings != 4 {
		t.Errorf("totals = %d/%d/%d, want 3/1/4",
			summary.TotalBlobs, summary.TotalContours, summary.TotalFindings)
	}
	// The average divides by analyzed images only; failures do not dilute it.
	if summary.AvgFindingsPerImage != 2.0 {
		t.Errorf("AvgFindingsPerImage = %f, want 2.0", summary.AvgFindingsPerImage)
	}
}

func TestSession_SummarizeEmptyCategory(t *testing.T) {
	s := NewSession()
	s.Record(Result{Category: dataset.CategoryNormal, Filename: "a.png", TotalFindings: 5})

	summary := s.Summarize(dataset.CategoryCOVID)
	if summary.ImagesAnalyzed != 0 || summary.TotalFindings != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
	if summary.AvgFindingsPerImage != 0 {
		t.Errorf("average over zero images must be 0, got %f", summary.AvgFindingsPerImage)
	}
}

func TestSession_FiltersByCategory(t *testing.T) {
	s := NewSession()
	s.Record(Result{Category: dataset.CategoryCOVID, Filename: "a.png", TotalFindings: 3})
	s.Record(Result{Category: dataset.CategoryNormal, Filename: "b.png", TotalFindings: 7})
	s.RecordFailure(Failure{Category: dataset.CategoryNormal, Filename: "c.png", Err: errors.New("bad")})

	covid := s.Summarize(dataset.CategoryCOVID)
	if covid.TotalFindings != 3 || covid.ImagesFailed != 0 {
		t.Errorf("COVID summary leaked other categories: %+v", covid)
	}
}

func TestSession_ConcurrentRecording(t *testing.T) {
	s := NewSession()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Record(Result{Category: dataset.CategoryCOVID, TotalFindings: 1})
			s.RecordFailure(Failure{Category: dataset.CategoryCOVID, Err: errors.New("x")})
		}()
	}
	wg.Wait()

	summary := s.Summarize(dataset.CategoryCOVID)
	if summary.ImagesAnalyzed != 50 || summary.ImagesFailed != 50 {
		t.Errorf("lost records under concurrency: %+v", summary)
	}
}

func TestSession_ResultsCopy(t *testing.T) {
	s := NewSession()
	s.Record(Result{Category: dataset.CategoryCOVID, Filename: "a.png"})

	results := s.Results()
	results[0].Filename = "mutated.png"

	if s.Results()[0].Filename != "a.png" {
		t.Error("Results() must return a copy, not the backing slice")
	}
}
