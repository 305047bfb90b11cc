// Package database provides SQLite-based persistence for analysis results.
//
// Results are stored one row per analyzed image, with the individual
// findings serialized as JSON in a single column. Aggregates are computed
// with SQL rather than duplicated into a second table, so the per-image
// rows remain the single source of truth.
//
// The driver is modernc.org/sqlite, a pure-Go implementation, so the
// binary builds without cgo.
package database
