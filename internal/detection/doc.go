// Package detection implements the two anomaly detectors for preprocessed
// chest radiographs, plus the overlay stage that fuses their results.
//
// Both detectors consume the same preprocessed intensity grid and run
// independently:
//
//   - Blob detection: multi-level thresholding followed by connected-component
//     extraction and shape filtering (area, circularity, convexity). Finds
//     compact circular intensity anomalies such as nodules.
//   - Contour detection: locally adaptive thresholding followed by external
//     boundary tracing and shape filtering (area range, circularity). Finds
//     region-scale anomalies that a global threshold would miss under uneven
//     illumination.
//
// The two methods are complementary heuristics, not redundant checks, so the
// overlay stage reports both candidate sets without cross-method
// deduplication; overlap is interpreted visually.
//
// # Shape Metrics
//
// Circularity is 4*pi*area/perimeter^2, 1.0 for a perfect circle, clipped to
// 1.0 against floating-point overshoot on rasterized boundaries. Convexity is
// the ratio of region area to convex hull area.
//
// # Coordinate System
//
// All coordinates use the standard image convention: origin (0, 0) at the
// top-left corner, X increasing rightward, Y increasing downward. Candidate
// centers are float pixel coordinates.
//
// # Performance Considerations
//
// The detectors iterate over all pixels once per threshold level and trace
// each component boundary once. Downscaling wide images during preprocessing
// keeps the per-image cost bounded.
package detection
