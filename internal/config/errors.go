package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and surface bad filter
// parameters at pipeline construction time. Out-of-range values are never
// silently clamped.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic error handling while still providing human-readable
// messages.
var (
	// ErrRadiusRange is returned when the blob radius bounds are not
	// 0 < min_radius < max_radius.
	ErrRadiusRange = errors.New("invalid radius range: require 0 < min_radius < max_radius")

	// ErrClipLimit is returned when the contrast-enhancement clip limit is
	// not positive.
	ErrClipLimit = errors.New("invalid clip limit: must be positive")

	// ErrTileGridSize is returned when the equalization tile grid is smaller
	// than one tile per axis.
	ErrTileGridSize = errors.New("invalid tile grid size: must be at least 1")

	// ErrDenoiseMethod is returned for an unrecognized denoise method;
	// valid values are "median" and "gaussian".
	ErrDenoiseMethod = errors.New(`invalid denoise method: must be "median" or "gaussian"`)

	// ErrDownscaleCap is returned for a negative downscale width cap.
	// Zero disables downscaling.
	ErrDownscaleCap = errors.New("invalid downscale width cap: must be non-negative")

	// ErrContourAreaRange is returned when the contour area window is not
	// 0 <= min < max.
	ErrContourAreaRange = errors.New("invalid contour area range: require 0 <= min < max")

	// ErrContourCircularity is returned when the contour circularity floor
	// lies outside [0, 1].
	ErrContourCircularity = errors.New("invalid contour circularity: must be in [0, 1]")

	// ErrConcurrency is returned when the batch concurrency is not positive.
	ErrConcurrency = errors.New("invalid concurrency: must be positive")
)
