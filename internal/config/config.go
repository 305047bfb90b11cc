// Package config holds the tunable parameters of the analysis pipeline and
// their validation.
//
// A Config is populated from defaults, optionally overridden by a YAML file
// (with per-category overrides) and CLI flags, then validated once before any
// analysis begins. The validated config is passed through the application via
// dependency injection; there is no global configuration state.
package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/radshape/nodulescan/internal/detection"
	"github.com/radshape/nodulescan/internal/imaging"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "nodulescan"

	// DefaultConcurrency bounds parallel per-image analyses in batch runs.
	// Image analysis is CPU-bound, so a small fixed default avoids
	// oversubscription on typical machines while still overlapping decode
	// I/O with detection work.
	DefaultConcurrency = 4

	// DefaultDatasetDir is the expected dataset root, laid out as one
	// directory per category with an images/ subdirectory each.
	DefaultDatasetDir = "data/covid_dataset"
)

// Config holds all recognized options for the analysis pipeline as one flat
// struct; flag binding and YAML merging both address fields directly.
type Config struct {
	// MinRadius and MaxRadius bound blob candidate size in pixels.
	MinRadius float64
	MaxRadius float64

	// ClipLimit caps per-tile histogram bins during contrast enhancement.
	ClipLimit float64

	// TileGridSize is the per-axis tile count for contrast enhancement.
	TileGridSize int

	// DenoiseMethod selects the preprocessing noise filter.
	DenoiseMethod imaging.DenoiseMethod

	// DownscaleWidthCap is the maximum image width before area-averaging
	// resize. Zero disables downscaling.
	DownscaleWidthCap int

	// ContourAreaMin and ContourAreaMax bound contour candidate area in
	// square pixels (exclusive bounds).
	ContourAreaMin float64
	ContourAreaMax float64

	// ContourCircularityMin is the exclusive circularity floor for contour
	// candidates.
	ContourCircularityMin float64

	// ScaleContourArea rescales the contour area bounds with the effective
	// image resolution (relative to DownscaleWidthCap). Off by default: the
	// calibrated defaults assume fixed pixel-area bounds.
	ScaleContourArea bool

	// SegmentLungs restricts findings to the segmented lung fields.
	SegmentLungs bool

	// BlobColor and ContourColor are annotation hex colors.
	BlobColor    string
	ContourColor string

	// Concurrency is the number of images analyzed in parallel in batch runs.
	Concurrency int

	// DatasetDir is the category-keyed dataset root.
	DatasetDir string

	// OutputDir receives annotated result images and batch reports.
	OutputDir string

	// DBDir is the directory holding the SQLite result store.
	DBDir string

	// Verbose enables debug-level logging.
	Verbose bool
}

// New returns a Config populated with the dataset-calibrated defaults.
func New() *Config {
	return &Config{
		MinRadius:             detection.DefaultMinRadius,
		MaxRadius:             detection.DefaultMaxRadius,
		ClipLimit:             imaging.DefaultClipLimit,
		TileGridSize:          imaging.DefaultTileGridSize,
		DenoiseMethod:         imaging.DenoiseMedian,
		DownscaleWidthCap:     imaging.DefaultDownscaleWidthCap,
		ContourAreaMin:        detection.DefaultContourAreaMin,
		ContourAreaMax:        detection.DefaultContourAreaMax,
		ContourCircularityMin: detection.DefaultContourCircularityMin,
		BlobColor:             detection.DefaultBlobColor,
		ContourColor:          detection.DefaultContourColor,
		Concurrency:           DefaultConcurrency,
		DatasetDir:            DefaultDatasetDir,
		OutputDir:             DefaultOutputDir(),
		DBDir:                 DefaultDBDir(),
	}
}

// DefaultOutputDir returns the XDG data directory for analysis results.
// On Linux: ~/.local/share/nodulescan/results
func DefaultOutputDir() string {
	return filepath.Join(xdg.DataHome, AppName, "results")
}

// DefaultDBDir returns the XDG data directory for the result store.
// On Linux: ~/.local/share/nodulescan
func DefaultDBDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration, returning the first sentinel error
// found. Called once after flag and file merging, before the pipeline is
// constructed; invalid parameters fail immediately and are never clamped.
func (c *Config) Validate() error {
	if c.MinRadius <= 0 || c.MinRadius >= c.MaxRadius {
		return ErrRadiusRange
	}
	if c.ClipLimit <= 0 {
		return ErrClipLimit
	}
	if c.TileGridSize < 1 {
		return ErrTileGridSize
	}
	switch c.DenoiseMethod {
	case imaging.DenoiseMedian, imaging.DenoiseGaussian:
	default:
		return ErrDenoiseMethod
	}
	if c.DownscaleWidthCap < 0 {
		return ErrDownscaleCap
	}
	if c.ContourAreaMin < 0 || c.ContourAreaMin >= c.ContourAreaMax {
		return ErrContourAreaRange
	}
	if c.ContourCircularityMin < 0 || c.ContourCircularityMin > 1 {
		return ErrContourCircularity
	}
	if c.Concurrency <= 0 {
		return ErrConcurrency
	}
	return nil
}

// PreprocessOptions derives the preprocessing stage options.
func (c *Config) PreprocessOptions() imaging.PreprocessOptions {
	return imaging.PreprocessOptions{
		DownscaleWidthCap: c.DownscaleWidthCap,
		ClipLimit:         c.ClipLimit,
		TileGridSize:      c.TileGridSize,
		Denoise:           c.DenoiseMethod,
	}
}

// BlobParams derives the blob detector parameters.
func (c *Config) BlobParams() detection.BlobParams {
	p := detection.DefaultBlobParams()
	p.MinRadius = c.MinRadius
	p.MaxRadius = c.MaxRadius
	return p
}

// ContourParams derives the contour detector parameters.
func (c *Config) ContourParams() detection.ContourParams {
	p := detection.DefaultContourParams()
	p.AreaMin = c.ContourAreaMin
	p.AreaMax = c.ContourAreaMax
	p.MinCircularity = c.ContourCircularityMin
	if c.ScaleContourArea {
		p.ReferenceWidth = c.DownscaleWidthCap
	}
	return p
}

// OverlayOptions derives the annotation options.
func (c *Config) OverlayOptions() detection.OverlayOptions {
	return detection.OverlayOptions{
		BlobColor:    c.BlobColor,
		ContourColor: c.ContourColor,
	}
}
