package detection

import (
	"fmt"
	"image"
	"math"

	"github.com/radshape/nodulescan/internal/imaging"
)

// Default blob detector parameters. Radius bounds are calibrated to nodule
// sizes on 512-1024px chest radiographs; the threshold sweep covers the
// usable intensity range of a contrast-enhanced grid.
const (
	DefaultMinRadius      = 3.0
	DefaultMaxRadius      = 20.0
	DefaultMinCircularity = 0.5
	DefaultMinConvexity   = 0.8
	DefaultMinThreshold   = 50
	DefaultMaxThreshold   = 220
	DefaultThresholdStep  = 10
)

// BlobParams configures the circular-blob detector.
type BlobParams struct {
	// MinRadius and MaxRadius bound candidate size: component area must lie
	// in [pi*MinRadius^2, pi*MaxRadius^2].
	MinRadius float64
	MaxRadius float64

	// MinCircularity is the lowest accepted circularity (4*pi*A/P^2).
	MinCircularity float64

	// MinConvexity is the lowest accepted ratio of component area to convex
	// hull area.
	MinConvexity float64

	// MinThreshold, MaxThreshold, and ThresholdStep define the inclusive
	// intensity sweep used to binarize the grid at multiple levels.
	MinThreshold  int
	MaxThreshold  int
	ThresholdStep int
}

// DefaultBlobParams returns the dataset-calibrated defaults.
func DefaultBlobParams() BlobParams {
	return BlobParams{
		MinRadius:      DefaultMinRadius,
		MaxRadius:      DefaultMaxRadius,
		MinCircularity: DefaultMinCircularity,
		MinConvexity:   DefaultMinConvexity,
		MinThreshold:   DefaultMinThreshold,
		MaxThreshold:   DefaultMaxThreshold,
		ThresholdStep:  DefaultThresholdStep,
	}
}

// DetectBlobs finds circular dark-blob candidates in a preprocessed grid.
//
// The grid is binarized at every threshold level in the configured sweep
// (foreground = intensity below the level, matching dense nodular opacities
// after enhancement). Each level's 8-connected components are filtered on:
//
//   - area within [pi*MinRadius^2, pi*MaxRadius^2]
//   - circularity >= MinCircularity
//   - convexity >= MinConvexity
//
// Surviving components become candidates with the component centroid as
// center and radius sqrt(area/pi). Detections of the same blob at nearby
// threshold levels are merged by centroid proximity (distance below half the
// smaller radius), keeping the higher-circularity one.
//
// Output order carries no meaning; callers must treat the result as a set.
// Running the detector twice on the same grid yields the same candidate set.
func DetectBlobs(g *imaging.Grid, params BlobParams) ([]Candidate, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("detect blobs: %w", err)
	}

	minArea := math.Pi * params.MinRadius * params.MinRadius
	maxArea := math.Pi * params.MaxRadius * params.MaxRadius
	step := params.ThresholdStep
	if step <= 0 {
		step = DefaultThresholdStep
	}

	mask := make([]bool, len(g.Pix))
	var candidates []Candidate

	for level := params.MinThreshold; level <= params.MaxThreshold; level += step {
		for i, v := range g.Pix {
			mask[i] = int(v) < level
		}

		for _, comp := range findComponents(mask, g.Width, g.Height, int(minArea)) {
			area := float64(len(comp.pixels))
			if area < minArea || area > maxArea {
				continue
			}

			inside := func(x, y int) bool {
				if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
					return false
				}
				return mask[y*g.Width+x]
			}
			boundary := traceBoundary(inside, comp.start.X, comp.start.Y, 4*len(comp.pixels)+8)
			perimeter := arcLength(boundary)

			circ := circularity(area, perimeter)
			if circ < params.MinCircularity {
				continue
			}
			if convexity(area, boundary) < params.MinConvexity {
				continue
			}

			candidates = mergeCandidate(candidates, Candidate{
				Center:      comp.centroid(),
				Radius:      math.Sqrt(area / math.Pi),
				ShapeMetric: circ,
				Area:        area,
				Method:      MethodBlob,
			})
		}
	}
	return candidates, nil
}

// convexity estimates the ratio of region area to convex hull area.
//
// The hull polygon runs through boundary pixel centers, so its shoelace area
// undercounts the hull's pixel coverage by roughly half the hull perimeter;
// the correction keeps the ratio comparable to the pixel-count region area.
// Clipped to 1.0.
func convexity(area float64, boundary []image.Point) float64 {
	hull := convexHull(boundary)
	hullArea := polygonArea(hull) + arcLength(hull)/2 + 1
	if hullArea <= 0 {
		return 0
	}
	return math.Min(area/hullArea, 1.0)
}

// mergeCandidate inserts a blob candidate, merging it with an existing one
// when their centroids are closer than half the smaller radius. The merge
// keeps whichever candidate has the higher circularity.
func mergeCandidate(candidates []Candidate, c Candidate) []Candidate {
	for i, existing := range candidates {
		limit := math.Min(existing.Radius, c.Radius) / 2
		dx := existing.Center.X - c.Center.X
		dy := existing.Center.Y - c.Center.Y
		if math.Hypot(dx, dy) < limit {
			if c.ShapeMetric > existing.ShapeMetric {
				candidates[i] = c
			}
			return candidates
		}
	}
	return append(candidates, c)
}
