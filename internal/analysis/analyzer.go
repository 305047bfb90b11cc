package analysis

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/radshape/nodulescan/internal/config"
	"github.com/radshape/nodulescan/internal/dataset"
	"github.com/radshape/nodulescan/internal/detection"
	img "github.com/radshape/nodulescan/internal/imaging"
)

// Result is the per-image analysis outcome.
// Results are created once per analyzed image and never mutated after being
// recorded in a Session.
type Result struct {
	// Category is the dataset partition the image belongs to.
	Category dataset.Category `json:"category"`

	// Filename is the source image basename.
	Filename string `json:"filename"`

	// Width and Height are the original image dimensions before any
	// downscaling.
	Width  int `json:"width"`
	Height int `json:"height"`

	// BlobCount and ContourCount break the findings down by method.
	BlobCount    int `json:"blob_count"`
	ContourCount int `json:"contour_count"`

	// TotalFindings is BlobCount + ContourCount.
	TotalFindings int `json:"total_findings"`

	// Findings lists the retained candidates.
	Findings []detection.Finding `json:"findings,omitempty"`

	// OutputPath is where the annotated image was written; empty when
	// annotation output is disabled.
	OutputPath string `json:"output_path,omitempty"`
}

// Failure records an image that could not be analyzed.
type Failure struct {
	// Category is the dataset partition the image belongs to.
	Category dataset.Category `json:"category"`

	// Filename is the source image basename.
	Filename string `json:"filename"`

	// Err is the load or analysis error.
	Err error `json:"-"`
}

// Analyzer runs the per-image detection pipeline with a fixed, validated
// configuration. An Analyzer is safe for concurrent use: it holds no
// per-image state.
type Analyzer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewAnalyzer validates the configuration and constructs an Analyzer.
// Invalid filter parameters surface here, before any image is touched.
func NewAnalyzer(cfg *config.Config, logger *slog.Logger) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("analyzer configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, logger: logger}, nil
}

// AnalyzeFile loads one image and analyzes it.
// The annotated image is written to the configured output directory as
// result_<basename> when writeOutput is true.
func (a *Analyzer) AnalyzeFile(category dataset.Category, path string, writeOutput bool) (*Result, error) {
	res := dataset.Load(path)
	if !res.Ok() {
		return nil, fmt.Errorf("load %s: %w", res.Basename(), res.Err)
	}
	return a.AnalyzeGrid(category, res.Basename(), res.Grid, writeOutput)
}

// AnalyzeGrid analyzes an already-loaded grid.
//
// The pipeline is strictly sequential per image: preprocess, then both
// detectors on the same preprocessed grid, then overlay fusion. A failure at
// any stage abandons the whole image; no partial findings are reported.
func (a *Analyzer) AnalyzeGrid(category dataset.Category, filename string, grid *img.Grid, writeOutput bool) (*Result, error) {
	a.logger.Debug("analyzing image",
		"category", string(category),
		"image", filename,
		"width", grid.Width,
		"height", grid.Height,
	)

	processed, err := img.Preprocess(grid, a.cfg.PreprocessOptions())
	if err != nil {
		return nil, fmt.Errorf("preprocess %s: %w", filename, err)
	}

	blobs, err := detection.DetectBlobs(processed, a.cfg.BlobParams())
	if err != nil {
		return nil, fmt.Errorf("blob detection %s: %w", filename, err)
	}

	contours, err := detection.DetectContours(processed, a.cfg.ContourParams())
	if err != nil {
		return nil, fmt.Errorf("contour detection %s: %w", filename, err)
	}

	if a.cfg.SegmentLungs {
		mask, err := img.SegmentLungs(processed)
		if err != nil {
			return nil, fmt.Errorf("lung segmentation %s: %w", filename, err)
		}
		blobs = filterByMask(blobs, mask)
		contours = filterByMask(contours, mask)
	}

	// Overlay on the processed grid so marker positions line up with the
	// coordinate space the detectors worked in.
	overlay, err := detection.Overlay(processed, blobs, contours, a.cfg.OverlayOptions())
	if err != nil {
		return nil, fmt.Errorf("overlay %s: %w", filename, err)
	}

	result := &Result{
		Category:      category,
		Filename:      filename,
		Width:         grid.Width,
		Height:        grid.Height,
		BlobCount:     overlay.BlobCount,
		ContourCount:  overlay.ContourCount,
		TotalFindings: overlay.TotalFindings,
		Findings:      overlay.Findings,
	}

	if writeOutput {
		outPath, err := a.saveAnnotated(filename, overlay)
		if err != nil {
			return nil, err
		}
		result.OutputPath = outPath
	}

	a.logger.Info("image analyzed",
		"category", string(category),
		"image", filename,
		"blobs", result.BlobCount,
		"contours", result.ContourCount,
		"total", result.TotalFindings,
	)
	return result, nil
}

// saveAnnotated writes the annotated image to the output directory, named
// deterministically from the source filename.
func (a *Analyzer) saveAnnotated(filename string, overlay *detection.OverlayResult) (string, error) {
	if err := os.MkdirAll(a.cfg.OutputDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outPath := filepath.Join(a.cfg.OutputDir, "result_"+filename)
	if err := imaging.Save(overlay.Image, outPath); err != nil {
		return "", fmt.Errorf("failed to save annotated image: %w", err)
	}
	return outPath, nil
}

// filterByMask keeps candidates whose center lies inside the binary mask.
func filterByMask(cands []detection.Candidate, mask *img.Grid) []detection.Candidate {
	var kept []detection.Candidate
	for _, c := range cands {
		x := int(c.Center.X + 0.5)
		y := int(c.Center.Y + 0.5)
		if x < 0 || x >= mask.Width || y < 0 || y >= mask.Height {
			continue
		}
		if mask.At(x, y) != 0 {
			kept = append(kept, c)
		}
	}
	return kept
}
