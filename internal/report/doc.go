// Package report provides report generation for analysis runs.
//
// This package contains writers for different output formats:
//   - TextWriter: Human-readable comparison tables for terminal display
//   - MarkdownWriter: Markdown documents with tables and mermaid charts
//   - CSVWriter: Per-image rows for spreadsheet import
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
