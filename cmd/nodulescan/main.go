// Package main provides the entry point for the nodulescan CLI.
//
// Nodulescan analyzes grayscale chest radiographs for circular anomalies
// using two complementary detectors and writes annotated copies alongside
// per-category aggregates.
//
// Usage:
//
//	nodulescan analyze <image-path>
//	nodulescan batch <category>
//	nodulescan compare
//
// See --help for all available options.
package main

// main is the entry point for nodulescan.
func main() {
	Execute()
}
