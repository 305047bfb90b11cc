package detection

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/radshape/nodulescan/internal/imaging"
)

// Default annotation colors: red for blob candidates, blue for contour
// candidates, matching radiology review conventions for primary vs secondary
// marks.
const (
	DefaultBlobColor    = "#FF0000"
	DefaultContourColor = "#0000FF"
)

// markerThickness is the stroke width in pixels of drawn circles.
const markerThickness = 2

// Finding is a candidate retained in the final report for one image.
type Finding struct {
	// Candidate is the retained detection.
	Candidate Candidate `json:"candidate"`

	// Color is the hex color used for this finding in the annotated image.
	Color string `json:"color"`
}

// OverlayOptions configures the annotated output image.
type OverlayOptions struct {
	// BlobColor and ContourColor are hex colors ("#RRGGBB") for the two
	// candidate sets. Invalid or empty values fall back to the defaults.
	BlobColor    string
	ContourColor string
}

// OverlayResult contains the annotated image and the fused finding list.
type OverlayResult struct {
	// Image is a 3-channel copy of the original grid with every candidate
	// drawn as a circle outline.
	Image *image.NRGBA `json:"-"`

	// Findings lists all retained candidates, blob candidates first.
	Findings []Finding `json:"findings"`

	// BlobCount and ContourCount break the findings down by method.
	BlobCount    int `json:"blob_count"`
	ContourCount int `json:"contour_count"`

	// TotalFindings is always BlobCount + ContourCount: the two methods are
	// complementary heuristics, so no cross-method deduplication is applied.
	TotalFindings int `json:"total_findings"`
}

// Overlay fuses both candidate sets into an annotated image and a flattened
// finding list.
//
// Each blob candidate is drawn as a circle at its centroid and radius; each
// contour candidate as its minimum enclosing circle. The original grid is
// not mutated. Returns ErrInvalidImage (wrapped) for an empty grid.
func Overlay(original *imaging.Grid, blobs, contours []Candidate, opts OverlayOptions) (*OverlayResult, error) {
	if err := original.Validate(); err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}

	blobColor := parseMarkerColor(opts.BlobColor, DefaultBlobColor)
	contourColor := parseMarkerColor(opts.ContourColor, DefaultContourColor)

	img := original.ToNRGBA()
	findings := make([]Finding, 0, len(blobs)+len(contours))

	for _, c := range blobs {
		drawCircle(img, c.Center, c.Radius, toNRGBA(blobColor))
		findings = append(findings, Finding{Candidate: c, Color: blobColor.Hex()})
	}
	for _, c := range contours {
		drawCircle(img, c.Center, c.Radius, toNRGBA(contourColor))
		findings = append(findings, Finding{Candidate: c, Color: contourColor.Hex()})
	}

	return &OverlayResult{
		Image:         img,
		Findings:      findings,
		BlobCount:     len(blobs),
		ContourCount:  len(contours),
		TotalFindings: len(blobs) + len(contours),
	}, nil
}

// parseMarkerColor parses a hex annotation color, falling back to the given
// default when the value is empty or malformed.
func parseMarkerColor(hex, fallback string) colorful.Color {
	if hex != "" {
		if c, err := colorful.Hex(hex); err == nil {
			return c
		}
	}
	c, err := colorful.Hex(fallback)
	if err != nil {
		// Package-level defaults are well-formed.
		panic(fmt.Sprintf("invalid fallback color %q: %v", fallback, err))
	}
	return c
}

// toNRGBA converts a colorful color to an opaque NRGBA value.
func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// drawCircle draws a circle outline of markerThickness pixels using the
// midpoint circle algorithm, clipped to the image bounds.
func drawCircle(img *image.NRGBA, center PointF, radius float64, c color.NRGBA) {
	cx := int(center.X + 0.5)
	cy := int(center.Y + 0.5)
	base := int(radius + 0.5)
	if base < 1 {
		base = 1
	}

	for t := 0; t < markerThickness; t++ {
		r := base + t
		x := r
		y := 0
		err := 0

		for x >= y {
			setClipped(img, cx+x, cy+y, c)
			setClipped(img, cx+y, cy+x, c)
			setClipped(img, cx-y, cy+x, c)
			setClipped(img, cx-x, cy+y, c)
			setClipped(img, cx-x, cy-y, c)
			setClipped(img, cx-y, cy-x, c)
			setClipped(img, cx+y, cy-x, c)
			setClipped(img, cx+x, cy-y, c)

			if err <= 0 {
				y++
				err += 2*y + 1
			}
			if err > 0 {
				x--
				err -= 2*x + 1
			}
		}
	}
}

// setClipped sets a pixel if it lies within the image bounds.
func setClipped(img *image.NRGBA, x, y int, c color.NRGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetNRGBA(x, y, c)
	}
}
