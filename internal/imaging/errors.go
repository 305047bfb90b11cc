package imaging

import "errors"

// Sentinel errors for grid validation.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances at each call site. This allows callers to use
// errors.Is() for programmatic handling (e.g., a batch runner distinguishing
// a malformed image from an I/O failure) while still wrapping the sentinel
// with per-call context via fmt.Errorf("...: %w", ...).
var (
	// ErrInvalidImage is returned when a grid with zero width or height
	// reaches a stage that requires pixel data. A malformed grid fails fast;
	// it is never silently treated as an image with no findings.
	ErrInvalidImage = errors.New("invalid image: grid has zero width or height")
)
