package detection

import (
	"image"
	"math"
	"sort"
)

// mooreDirs enumerates the 8-neighborhood in counterclockwise order starting
// east. Index arithmetic in traceBoundary depends on this ordering.
var mooreDirs = [8]image.Point{
	{X: 1, Y: 0},   // E
	{X: 1, Y: -1},  // NE
	{X: 0, Y: -1},  // N
	{X: -1, Y: -1}, // NW
	{X: -1, Y: 0},  // W
	{X: -1, Y: 1},  // SW
	{X: 0, Y: 1},   // S
	{X: 1, Y: 1},   // SE
}

// traceBoundary walks the external boundary of an 8-connected region using
// Moore-neighbor tracing, starting from the region pixel first reached by a
// row-major scan (so its west neighbor is guaranteed to be background).
//
// inside reports region membership and must handle out-of-bounds coordinates.
// maxSteps bounds the walk against pathological membership functions; pass at
// least four times the region pixel count. The returned boundary is an
// ordered closed polygon of pixel coordinates without a repeated endpoint.
// A single isolated pixel yields one point.
func traceBoundary(inside func(x, y int) bool, startX, startY, maxSteps int) []image.Point {
	start := image.Point{X: startX, Y: startY}
	pts := []image.Point{start}

	cur := start
	dir := 7
	var second image.Point
	haveSecond := false

	// The trace closes once it re-enters the second boundary pixel directly
	// after revisiting the start, which distinguishes completion from merely
	// touching the start pixel again on a narrow isthmus.
	for i := 0; i < maxSteps; i++ {
		var searchStart int
		if dir%2 == 0 {
			searchStart = (dir + 7) % 8
		} else {
			searchStart = (dir + 6) % 8
		}

		found := false
		for j := 0; j < 8; j++ {
			d := (searchStart + j) % 8
			n := cur.Add(mooreDirs[d])
			if inside(n.X, n.Y) {
				cur = n
				dir = d
				found = true
				break
			}
		}
		if !found {
			return pts // isolated pixel
		}

		if haveSecond && cur == second && pts[len(pts)-1] == start {
			break
		}
		if !haveSecond {
			second = cur
			haveSecond = true
		}
		pts = append(pts, cur)
	}

	// Drop the duplicated start point left by the closing step.
	if len(pts) > 1 && pts[len(pts)-1] == start {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// arcLength returns the length of the closed polyline through the given
// points: unit steps for orthogonal moves, sqrt(2) for diagonals on traced
// boundaries, including the closing segment.
func arcLength(pts []image.Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	var length float64
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		dx := float64(b.X - a.X)
		dy := float64(b.Y - a.Y)
		length += math.Hypot(dx, dy)
	}
	return length
}

// polygonArea returns the area enclosed by a closed polygon via the shoelace
// formula. Degenerate polygons (fewer than 3 points, or collinear) yield 0.
func polygonArea(pts []image.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum int64
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		sum += int64(a.X)*int64(b.Y) - int64(b.X)*int64(a.Y)
	}
	return math.Abs(float64(sum)) / 2
}

// convexHull computes the convex hull of a point set using the Andrew
// monotone chain algorithm. The hull is returned in counterclockwise order
// (image coordinates) without a repeated endpoint.
func convexHull(pts []image.Point) []image.Point {
	if len(pts) < 3 {
		out := make([]image.Point, len(pts))
		copy(out, pts)
		return out
	}

	sorted := make([]image.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	cross := func(o, a, b image.Point) int64 {
		return int64(a.X-o.X)*int64(b.Y-o.Y) - int64(a.Y-o.Y)*int64(b.X-o.X)
	}

	var hull []image.Point
	// Lower hull.
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// Upper hull.
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// minEnclosingCircle computes the smallest circle containing all points,
// using the incremental construction: grow the circle point by point,
// re-solving with one or two boundary points fixed whenever a point falls
// outside the current circle.
func minEnclosingCircle(pts []PointF) (center PointF, radius float64) {
	if len(pts) == 0 {
		return PointF{}, 0
	}

	const eps = 1e-7
	contains := func(c PointF, r float64, p PointF) bool {
		return math.Hypot(p.X-c.X, p.Y-c.Y) <= r+eps
	}

	center, radius = pts[0], 0
	for i := 1; i < len(pts); i++ {
		if contains(center, radius, pts[i]) {
			continue
		}
		center, radius = pts[i], 0
		for j := 0; j < i; j++ {
			if contains(center, radius, pts[j]) {
				continue
			}
			center, radius = circleFrom2(pts[i], pts[j])
			for k := 0; k < j; k++ {
				if contains(center, radius, pts[k]) {
					continue
				}
				center, radius = circleFrom3(pts[i], pts[j], pts[k])
			}
		}
	}
	return center, radius
}

// circleFrom2 returns the circle with the segment ab as diameter.
func circleFrom2(a, b PointF) (PointF, float64) {
	c := PointF{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	return c, math.Hypot(a.X-c.X, a.Y-c.Y)
}

// circleFrom3 returns the circumcircle of three points, falling back to the
// widest two-point circle when the points are (nearly) collinear.
func circleFrom3(a, b, c PointF) (PointF, float64) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-12 {
		// Collinear: the minimal circle is determined by the farthest pair.
		bestC, bestR := circleFrom2(a, b)
		if cc, r := circleFrom2(a, c); r > bestR {
			bestC, bestR = cc, r
		}
		if cc, r := circleFrom2(b, c); r > bestR {
			bestC, bestR = cc, r
		}
		return bestC, bestR
	}

	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	center := PointF{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}
	return center, math.Hypot(a.X-center.X, a.Y-center.Y)
}

// boundaryToPointF converts integer boundary pixels to float coordinates.
func boundaryToPointF(pts []image.Point) []PointF {
	out := make([]PointF, len(pts))
	for i, p := range pts {
		out[i] = PointF{X: float64(p.X), Y: float64(p.Y)}
	}
	return out
}

// circularity computes 4*pi*area/perimeter^2, clipped to 1.0 so rasterization
// noise on near-perfect circles cannot push the metric out of range.
func circularity(area, perimeter float64) float64 {
	if perimeter <= 0 {
		return 0
	}
	c := 4 * math.Pi * area / (perimeter * perimeter)
	return math.Min(c, 1.0)
}
