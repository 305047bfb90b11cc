package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/radshape/nodulescan/internal/analysis"
	"github.com/radshape/nodulescan/internal/dataset"
	"github.com/radshape/nodulescan/internal/detection"
)

func openTestDB(t *testing.T) *ResultsDB {
	t.Helper()
	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleResult(filename string, blobs, contours int) *analysis.Result {
	return &analysis.Result{
		Category:      dataset.CategoryCOVID,
		Filename:      filename,
		Width:         512,
		Height:        512,
		BlobCount:     blobs,
		ContourCount:  contours,
		TotalFindings: blobs + contours,
		Findings: []detection.Finding{
			{
				Candidate: detection.Candidate{
					Center:      detection.PointF{X: 100, Y: 120},
					Radius:      8,
					ShapeMetric: 0.9,
					Area:        201,
					Method:      detection.MethodBlob,
				},
				Color: "#ff0000",
			},
		},
	}
}

func TestResultsDB_SaveAndList(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.SaveResult(ctx, sampleResult("a.png", 2, 1)); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	if _, err := db.SaveResult(ctx, sampleResult("b.png", 1, 0)); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	results, err := db.ListByCategory(ctx, dataset.CategoryCOVID)
	if err != nil {
		t.Fatalf("ListByCategory failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(results))
	}

	var found bool
	for _, r := range results {
		if r.Filename != "a.png" {
			continue
		}
		found = true
		if r.BlobCount != 2 || r.ContourCount != 1 || r.TotalFindings != 3 {
			t.Errorf("counts = %d/%d/%d", r.BlobCount, r.ContourCount, r.TotalFindings)
		}
		if len(r.Findings) != 1 {
			t.Fatalf("findings = %d entries, want 1", len(r.Findings))
		}
		f := r.Findings[0]
		if f.Candidate.Method != detection.MethodBlob || f.Candidate.Center.X != 100 {
			t.Errorf("finding did not survive the round trip: %+v", f)
		}
	}
	if !found {
		t.Error("a.png not returned")
	}
}

func TestResultsDB_UpsertReplaces(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.SaveResult(ctx, sampleResult("a.png", 2, 1)); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	if _, err := db.SaveResult(ctx, sampleResult("a.png", 5, 0)); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	results, err := db.ListByCategory(ctx, dataset.CategoryCOVID)
	if err != nil {
		t.Fatalf("ListByCategory failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("re-analysis must replace the row, got %d rows", len(results))
	}
	if results[0].BlobCount != 5 {
		t.Errorf("BlobCount = %d, want the newer value 5", results[0].BlobCount)
	}
}

func TestResultsDB_CategoryTotals(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.SaveResult(ctx, sampleResult("a.png", 2, 1)); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	normal := sampleResult("n.png", 1, 0)
	normal.Category = dataset.CategoryNormal
	if _, err := db.SaveResult(ctx, normal); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	totals, err := db.CategoryTotals(ctx)
	if err != nil {
		t.Fatalf("CategoryTotals failed: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(totals))
	}

	byCategory := make(map[dataset.Category]CategoryTotal, len(totals))
	for _, tot := range totals {
		byCategory[tot.Category] = tot
	}
	covid := byCategory[dataset.CategoryCOVID]
	if covid.ImageCount != 1 || covid.TotalFindings != 3 {
		t.Errorf("COVID totals = %+v", covid)
	}
}

func TestOpen_RequiresExistingWhenAsked(t *testing.T) {
	dir := t.TempDir()
	opts := Options{CreateIfNotExists: false, EnableWAL: true}

	if _, err := Open(filepath.Join(dir, "empty"), opts); err == nil {
		t.Fatal("expected error opening a missing database without create")
	}
}

func TestResultsDB_EmptyList(t *testing.T) {
	db := openTestDB(t)

	results, err := db.ListByCategory(context.Background(), dataset.CategoryViralPneumonia)
	if err != nil {
		t.Fatalf("ListByCategory failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no rows, got %d", len(results))
	}
}
