// Package analysis orchestrates the per-image detection pipeline and
// aggregates results across the dataset.
//
// The Analyzer runs the deterministic per-image sequence: load, preprocess,
// dual-method detection (blob and contour, independently, on the same
// preprocessed grid), overlay fusion, and annotated-image output. Each image
// analysis is atomic: it produces either a complete Result or a recorded
// Failure, never partial findings.
//
// The Session owns the append-only result log shared across a run. It is the
// only shared mutable state in a batch; appends are serialized with a mutex
// and everything else is per-image. Summaries are derived on demand and
// always distinguish "zero findings" from "image failed to process".
package analysis
