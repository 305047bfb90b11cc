package detection

import (
	"fmt"

	"github.com/radshape/nodulescan/internal/imaging"
)

// Default contour detector parameters. The area window is calibrated to
// 512-1024px wide images; see ContourParams.ReferenceWidth for rescaling.
const (
	DefaultAdaptiveWindow        = 11
	DefaultAdaptiveOffset        = 2
	DefaultContourAreaMin        = 50.0
	DefaultContourAreaMax        = 1000.0
	DefaultContourCircularityMin = 0.5
)

// ContourParams configures the contour/region detector.
type ContourParams struct {
	// Window is the odd side length of the local averaging window used for
	// adaptive thresholding.
	Window int

	// Offset is subtracted from the local mean before comparison; pixels
	// brighter than (mean - Offset) become foreground.
	Offset int

	// AreaMin and AreaMax bound accepted contour area (exclusive), in square
	// pixels at the reference resolution.
	AreaMin float64
	AreaMax float64

	// MinCircularity is the lowest accepted circularity (exclusive).
	MinCircularity float64

	// ReferenceWidth, when positive, rescales the area bounds by
	// (gridWidth/ReferenceWidth)^2 so the pixel-area window keeps its
	// physical meaning after downscaling. Zero keeps the bounds fixed, which
	// matches the historical behavior of the calibrated defaults.
	ReferenceWidth int
}

// DefaultContourParams returns the dataset-calibrated defaults with area
// rescaling disabled.
func DefaultContourParams() ContourParams {
	return ContourParams{
		Window:         DefaultAdaptiveWindow,
		Offset:         DefaultAdaptiveOffset,
		AreaMin:        DefaultContourAreaMin,
		AreaMax:        DefaultContourAreaMax,
		MinCircularity: DefaultContourCircularityMin,
	}
}

// DetectContours finds region-based candidates in a preprocessed grid.
//
// The grid is binarized with a locally adaptive threshold (mean of a
// Window x Window neighborhood minus Offset), so uneven illumination across
// the radiograph does not bias the binarization. Only the external boundary
// of each foreground region is traced; nested holes are ignored. A contour
// is retained when its enclosed area lies strictly inside (AreaMin, AreaMax)
// and its circularity exceeds MinCircularity.
//
// Each retained contour yields one candidate whose center and radius come
// from the minimum enclosing circle of the boundary, with the computed
// circularity as shape metric.
func DetectContours(g *imaging.Grid, params ContourParams) ([]Candidate, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("detect contours: %w", err)
	}

	areaMin, areaMax := params.AreaMin, params.AreaMax
	if params.ReferenceWidth > 0 {
		scale := float64(g.Width) / float64(params.ReferenceWidth)
		areaMin *= scale * scale
		areaMax *= scale * scale
	}

	mask := adaptiveThreshold(g, params.Window, params.Offset)

	var candidates []Candidate
	for _, comp := range findComponents(mask, g.Width, g.Height, 1) {
		inside := func(x, y int) bool {
			if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
				return false
			}
			return mask[y*g.Width+x]
		}
		boundary := traceBoundary(inside, comp.start.X, comp.start.Y, 4*len(comp.pixels)+8)

		area := polygonArea(boundary)
		if area <= areaMin || area >= areaMax {
			continue
		}

		circ := circularity(area, arcLength(boundary))
		if circ <= params.MinCircularity {
			continue
		}

		center, radius := minEnclosingCircle(boundaryToPointF(boundary))
		candidates = append(candidates, Candidate{
			Center:      center,
			Radius:      radius,
			ShapeMetric: circ,
			Area:        area,
			Method:      MethodContour,
		})
	}
	return candidates, nil
}

// adaptiveThreshold binarizes the grid against the local window mean minus a
// constant offset, computing window means in O(1) per pixel from an integral
// image. Windows are clipped at the grid border, so edge pixels average over
// the in-bounds portion only.
func adaptiveThreshold(g *imaging.Grid, window, offset int) []bool {
	if window < 3 {
		window = DefaultAdaptiveWindow
	}
	if window%2 == 0 {
		window++
	}
	r := window / 2

	// integral[y][x] holds the sum over the rectangle [0,x) x [0,y).
	w, h := g.Width, g.Height
	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(g.At(x, y))
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + rowSum
		}
	}

	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		y0 := clampInt(y-r, 0, h)
		y1 := clampInt(y+r+1, 0, h)
		for x := 0; x < w; x++ {
			x0 := clampInt(x-r, 0, w)
			x1 := clampInt(x+r+1, 0, w)

			sum := integral[y1*(w+1)+x1] - integral[y0*(w+1)+x1] -
				integral[y1*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := float64(sum) / float64((x1-x0)*(y1-y0))

			mask[y*w+x] = float64(g.At(x, y)) > mean-float64(offset)
		}
	}
	return mask
}

// clampInt constrains an integer value to the range [min, max].
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
