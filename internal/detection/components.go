package detection

import "image"

// component is an 8-connected region of foreground pixels in a binary mask.
type component struct {
	// pixels lists every pixel in the region.
	pixels []image.Point

	// start is the first pixel reached by a row-major scan. Its west
	// neighbor is background, which makes it a valid boundary trace origin.
	start image.Point
}

// centroid returns the mean pixel position of the component.
func (c *component) centroid() PointF {
	var sx, sy float64
	for _, p := range c.pixels {
		sx += float64(p.X)
		sy += float64(p.Y)
	}
	n := float64(len(c.pixels))
	return PointF{X: sx / n, Y: sy / n}
}

// findComponents extracts all 8-connected foreground components from a
// row-major binary mask. Components smaller than minSize pixels are discarded
// as noise before any shape analysis.
func findComponents(mask []bool, width, height, minSize int) []component {
	visited := make([]bool, len(mask))
	var comps []component

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if !mask[idx] || visited[idx] {
				continue
			}

			pixels := floodFill(mask, visited, x, y, width, height)
			if len(pixels) >= minSize {
				comps = append(comps, component{
					pixels: pixels,
					start:  image.Point{X: x, Y: y},
				})
			}
		}
	}
	return comps
}

// floodFill collects the 8-connected region containing (startX, startY).
// Uses a stack-based approach (not recursive) to avoid stack overflow on
// large regions.
func floodFill(mask, visited []bool, startX, startY, width, height int) []image.Point {
	var pixels []image.Point
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		idx := p.Y*width + p.X
		if visited[idx] || !mask[idx] {
			continue
		}

		visited[idx] = true
		pixels = append(pixels, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
	return pixels
}
