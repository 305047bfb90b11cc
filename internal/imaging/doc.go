// Package imaging provides the intensity-grid data model and preprocessing
// stages for chest-radiograph analysis.
//
// The central type is Grid, a single-channel 8-bit intensity raster stored in
// row-major order. Loaders decode PNG, JPEG, GIF, and BMP files into grids;
// the Preprocess function then applies the fixed enhancement pipeline that
// feeds the detectors: optional downscale, min-max normalization, tiled
// contrast-limited histogram equalization, and denoising.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Intensity Representation
//
// Grid samples are uint8 values in [0, 255]. Where the analysis requires the
// normalized form, sample s corresponds to s/255 in [0, 1]. Normalize
// guarantees the full output range except for the degenerate flat-image case,
// which produces an all-zero grid rather than dividing by zero.
//
// # Thread Safety
//
// The GridCache type is safe for concurrent use. Grids themselves are plain
// buffers; the preprocessing functions never mutate their input and may be
// called concurrently on different grids.
//
// # Error Handling
//
// Functions that require a well-formed grid return ErrInvalidImage (wrapped
// with context) when handed an empty or zero-dimension grid. File loading
// errors wrap the underlying I/O or decode error.
package imaging
