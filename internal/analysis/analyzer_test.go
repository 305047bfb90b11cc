package analysis

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/radshape/nodulescan/internal/config"
	"github.com/radshape/nodulescan/internal/dataset"
	img "github.com/radshape/nodulescan/internal/imaging"
	"github.com/radshape/nodulescan/internal/log"
)

// testConfig returns a validated config writing into a temp directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.OutputDir = t.TempDir()
	cfg.DBDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	return cfg
}

// testAnalyzer builds an analyzer with logging discarded.
func testAnalyzer(t *testing.T, cfg *config.Config) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(cfg, log.NewLogger(testWriter{t}, false))
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}
	return a
}

// testWriter routes analyzer logs through the test log.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// radiographGrid draws a synthetic chest-like image: bright field with two
// dark nodules.
func radiographGrid(size int) *img.Grid {
	g := img.NewGrid(size, size)
	for i := range g.Pix {
		g.Pix[i] = 180
	}
	for _, n := range []struct{ cx, cy, r int }{{cx: size / 3, cy: size / 3, r: 8}, {cx: 2 * size / 3, cy: size / 2, r: 6}} {
		for y := n.cy - n.r; y <= n.cy+n.r; y++ {
			for x := n.cx - n.r; x <= n.cx+n.r; x++ {
				dx, dy := x-n.cx, y-n.cy
				if dx*dx+dy*dy <= n.r*n.r {
					g.Set(x, y, 40)
				}
			}
		}
	}
	return g
}

func TestAnalyzeGrid_Invariants(t *testing.T) {
	cfg := testConfig(t)
	a := testAnalyzer(t, cfg)

	g := radiographGrid(512)
	result, err := a.AnalyzeGrid(dataset.CategoryCOVID, "synthetic.png", g, false)
	if err != nil {
		t.Fatalf("AnalyzeGrid failed: %v", err)
	}

	if result.Width != 512 || result.Height != 512 {
		t.Errorf("dimensions = %dx%d, want 512x512", result.Width, result.Height)
	}
	if result.TotalFindings != result.BlobCount+result.ContourCount {
		t.Errorf("total %d is not the sum of %d blobs and %d contours",
			result.TotalFindings, result.BlobCount, result.ContourCount)
	}
	if len(result.Findings) != result.TotalFindings {
		t.Errorf("findings list length %d disagrees with total %d",
			len(result.Findings), result.TotalFindings)
	}
	if result.OutputPath != "" {
		t.Errorf("no output requested but OutputPath = %q", result.OutputPath)
	}
}

func TestAnalyzeGrid_WritesAnnotatedImage(t *testing.T) {
	cfg := testConfig(t)
	a := testAnalyzer(t, cfg)

	result, err := a.AnalyzeGrid(dataset.CategoryCOVID, "scan.png", radiographGrid(512), true)
	if err != nil {
		t.Fatalf("AnalyzeGrid failed: %v", err)
	}

	if result.OutputPath == "" {
		t.Fatal("expected an annotated image path")
	}
	if filepath.Base(result.OutputPath) != "result_scan.png" {
		t.Errorf("annotated image named %q, want result_scan.png", filepath.Base(result.OutputPath))
	}
	if _, err := os.Stat(result.OutputPath); err != nil {
		t.Errorf("annotated image not written: %v", err)
	}
}

func TestAnalyzeGrid_EmptyImage(t *testing.T) {
	cfg := testConfig(t)
	a := testAnalyzer(t, cfg)

	if _, err := a.AnalyzeGrid(dataset.CategoryCOVID, "bad.png", &img.Grid{}, false); err == nil {
		t.Fatal("expected error for empty grid")
	}
}

// writeTestPNG encodes a grayscale PNG with two dark nodules.
func writeTestPNG(t *testing.T, path string, size int) {
	t.Helper()
	g := radiographGrid(size)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	gray := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			gray.SetGray(x, y, color.Gray{Y: g.At(x, y)})
		}
	}
	if err := png.Encode(f, gray); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// writeTestDataset lays out a minimal dataset with n valid images and one
// corrupt file in the given category folder.
func writeTestDataset(t *testing.T, category dataset.Category, n int) *dataset.Layout {
	t.Helper()
	root := t.TempDir()

	folder, ok := category.Folder()
	if !ok {
		t.Fatalf("no folder for category %s", category)
	}
	dir := filepath.Join(root, folder, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}

	for i := 0; i < n; i++ {
		writeTestPNG(t, filepath.Join(dir, "scan-"+string(rune('a'+i))+".png"), 128)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	layout, err := dataset.NewLayout(root)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}
	return layout
}

func TestAnalyzeCategory_RecordsFailuresAndContinues(t *testing.T) {
	cfg := testConfig(t)
	a := testAnalyzer(t, cfg)
	layout := writeTestDataset(t, dataset.CategoryCOVID, 2)

	session := NewSession()
	summary, err := a.AnalyzeCategory(context.Background(), layout, session, dataset.CategoryCOVID, 0)
	if err != nil {
		t.Fatalf("AnalyzeCategory failed: %v", err)
	}

	if summary.ImagesAnalyzed != 2 {
		t.Errorf("ImagesAnalyzed = %d, want 2", summary.ImagesAnalyzed)
	}
	if summary.ImagesFailed != 1 {
		t.Errorf("ImagesFailed = %d, want 1 (the corrupt file)", summary.ImagesFailed)
	}
	if len(session.Failures()) != 1 {
		t.Errorf("session holds %d failures, want 1", len(session.Failures()))
	}
}

func TestCompareCategories_SeriesOrder(t *testing.T) {
	cfg := testConfig(t)
	a := testAnalyzer(t, cfg)

	// Assemble a two-category dataset under one root.
	root := t.TempDir()
	for _, category := range []dataset.Category{dataset.CategoryCOVID, dataset.CategoryNormal} {
		folder, _ := category.Folder()
		dir := filepath.Join(root, folder, "images")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
		writeTestPNG(t, filepath.Join(dir, "scan.png"), 128)
	}
	layout, err := dataset.NewLayout(root)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}

	session := NewSession()
	categories := []dataset.Category{dataset.CategoryNormal, dataset.CategoryCOVID}
	cmp, err := a.CompareCategories(context.Background(), layout, session, categories, 5)
	if err != nil {
		t.Fatalf("CompareCategories failed: %v", err)
	}

	if len(cmp.Series.Labels) != 2 {
		t.Fatalf("series has %d labels, want 2", len(cmp.Series.Labels))
	}
	// Requested order is preserved in the chart series.
	if cmp.Series.Labels[0] != string(dataset.CategoryNormal) || cmp.Series.Labels[1] != string(dataset.CategoryCOVID) {
		t.Errorf("series order %v does not match request", cmp.Series.Labels)
	}
	for _, category := range categories {
		if _, ok := cmp.Summaries[category]; !ok {
			t.Errorf("missing summary for %s", category)
		}
	}
}
