package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/radshape/nodulescan/internal/imaging"
)

// OptionSet holds overridable pipeline options for the YAML config file.
// Zero values mean "not set"; only set fields override the base Config.
type OptionSet struct {
	MinRadius             float64 `yaml:"minRadius,omitempty"`
	MaxRadius             float64 `yaml:"maxRadius,omitempty"`
	ClipLimit             float64 `yaml:"clipLimit,omitempty"`
	TileGridSize          int     `yaml:"tileGridSize,omitempty"`
	DenoiseMethod         string  `yaml:"denoiseMethod,omitempty"`
	DownscaleWidthCap     int     `yaml:"downscaleWidthCap,omitempty"`
	ContourAreaMin        float64 `yaml:"contourAreaMin,omitempty"`
	ContourAreaMax        float64 `yaml:"contourAreaMax,omitempty"`
	ContourCircularityMin float64 `yaml:"contourCircularityMin,omitempty"`
	ScaleContourArea      bool    `yaml:"scaleContourArea,omitempty"`
	SegmentLungs          bool    `yaml:"segmentLungs,omitempty"`
	BlobColor             string  `yaml:"blobColor,omitempty"`
	ContourColor          string  `yaml:"contourColor,omitempty"`
}

// File represents the structure of the .nodulescan configuration file.
type File struct {
	// Defaults are applied to every analysis.
	Defaults OptionSet `yaml:"defaults,omitempty"`

	// Categories maps category names to option overrides, applied on top of
	// Defaults when analyzing that category.
	Categories map[string]OptionSet `yaml:"categories,omitempty"`

	// DatasetDir overrides the dataset root directory.
	DatasetDir string `yaml:"datasetDir,omitempty"`

	// OutputDir overrides the results directory.
	OutputDir string `yaml:"outputDir,omitempty"`
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// Apply merges the file's defaults and the named category's overrides into
// the config, in that order. An empty category applies defaults only.
// The result still needs Validate(); file values are not range-checked here.
func (f *File) Apply(cfg *Config, category string) {
	applyOptions(cfg, f.Defaults)
	if category != "" {
		if opts, ok := f.Categories[category]; ok {
			applyOptions(cfg, opts)
		}
	}
	if f.DatasetDir != "" {
		cfg.DatasetDir = f.DatasetDir
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
}

// applyOptions copies every set field of an OptionSet onto the config.
func applyOptions(cfg *Config, o OptionSet) {
	if o.MinRadius != 0 {
		cfg.MinRadius = o.MinRadius
	}
	if o.MaxRadius != 0 {
		cfg.MaxRadius = o.MaxRadius
	}
	if o.ClipLimit != 0 {
		cfg.ClipLimit = o.ClipLimit
	}
	if o.TileGridSize != 0 {
		cfg.TileGridSize = o.TileGridSize
	}
	if o.DenoiseMethod != "" {
		cfg.DenoiseMethod = imaging.DenoiseMethod(o.DenoiseMethod)
	}
	if o.DownscaleWidthCap != 0 {
		cfg.DownscaleWidthCap = o.DownscaleWidthCap
	}
	if o.ContourAreaMin != 0 {
		cfg.ContourAreaMin = o.ContourAreaMin
	}
	if o.ContourAreaMax != 0 {
		cfg.ContourAreaMax = o.ContourAreaMax
	}
	if o.ContourCircularityMin != 0 {
		cfg.ContourCircularityMin = o.ContourCircularityMin
	}
	if o.ScaleContourArea {
		cfg.ScaleContourArea = true
	}
	if o.SegmentLungs {
		cfg.SegmentLungs = true
	}
	if o.BlobColor != "" {
		cfg.BlobColor = o.BlobColor
	}
	if o.ContourColor != "" {
		cfg.ContourColor = o.ContourColor
	}
}
