// Package log provides logging for the analysis pipeline, built on top of
// the standard slog package.
//
// This package extends slog to provide:
//   - Shortening of dataset file paths in log attributes
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// Batch runs log one line per image; with absolute dataset paths those
// lines are dominated by a repeated directory prefix. The PathHandler
// trims path-valued attributes to their basename so terminal output stays
// scannable. Verbose mode keeps full paths for debugging.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, false)
//	logger.Info("image analyzed",
//	    "path", "/data/covid_dataset/COVID/images/COVID-1.png", // logged as "COVID-1.png"
//	    "findings", 3,
//	)
package log
