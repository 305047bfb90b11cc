package detection

import (
	"image"
	"math"
	"testing"
)

func TestConvexHull_Square(t *testing.T) {
	pts := []image.Point{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
		{X: 2, Y: 2}, {X: 1, Y: 3}, // interior points
	}

	hull := convexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("expected 4 hull vertices, got %d: %v", len(hull), hull)
	}
	for _, p := range hull {
		if p.X != 0 && p.X != 4 && p.Y != 0 && p.Y != 4 {
			t.Errorf("interior point %v on hull", p)
		}
	}
}

func TestConvexHull_Degenerate(t *testing.T) {
	// Collinear and tiny inputs must not panic.
	line := []image.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	if hull := convexHull(line); len(hull) == 0 {
		t.Error("collinear hull should not be empty")
	}
	single := []image.Point{{X: 3, Y: 3}}
	if hull := convexHull(single); len(hull) != 1 {
		t.Errorf("single point hull should have 1 vertex, got %d", len(hull))
	}
}

func TestPolygonArea_Square(t *testing.T) {
	pts := []image.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	if area := polygonArea(pts); area != 16 {
		t.Errorf("expected area 16, got %f", area)
	}
}

func TestArcLength_UnitSquare(t *testing.T) {
	pts := []image.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 3}, {X: 0, Y: 3}}
	if l := arcLength(pts); l != 12 {
		t.Errorf("expected closed perimeter 12, got %f", l)
	}
}

func TestMinEnclosingCircle(t *testing.T) {
	tests := []struct {
		name       string
		pts        []PointF
		wantCenter PointF
		wantRadius float64
	}{
		{
			name:       "two points",
			pts:        []PointF{{X: 0, Y: 0}, {X: 6, Y: 0}},
			wantCenter: PointF{X: 3, Y: 0},
			wantRadius: 3,
		},
		{
			name:       "square corners",
			pts:        []PointF{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
			wantCenter: PointF{X: 2, Y: 2},
			wantRadius: 2 * math.Sqrt2,
		},
		{
			name:       "single point",
			pts:        []PointF{{X: 5, Y: 7}},
			wantCenter: PointF{X: 5, Y: 7},
			wantRadius: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			center, radius := minEnclosingCircle(tt.pts)
			if math.Abs(center.X-tt.wantCenter.X) > 1e-6 || math.Abs(center.Y-tt.wantCenter.Y) > 1e-6 {
				t.Errorf("center = %+v, want %+v", center, tt.wantCenter)
			}
			if math.Abs(radius-tt.wantRadius) > 1e-6 {
				t.Errorf("radius = %f, want %f", radius, tt.wantRadius)
			}
		})
	}
}

func TestTraceBoundary_Square(t *testing.T) {
	// 4x4 filled square at (2,2)..(5,5).
	inside := func(x, y int) bool {
		return x >= 2 && x <= 5 && y >= 2 && y <= 5
	}

	boundary := traceBoundary(inside, 2, 2, 200)
	if len(boundary) != 12 {
		t.Fatalf("expected 12 boundary pixels, got %d", len(boundary))
	}
	for _, p := range boundary {
		onEdge := p.X == 2 || p.X == 5 || p.Y == 2 || p.Y == 5
		if !onEdge {
			t.Errorf("interior pixel %v traced as boundary", p)
		}
	}
}

func TestTraceBoundary_SinglePixel(t *testing.T) {
	inside := func(x, y int) bool { return x == 3 && y == 3 }

	boundary := traceBoundary(inside, 3, 3, 50)
	if len(boundary) != 1 {
		t.Errorf("expected 1 boundary pixel, got %d", len(boundary))
	}
}

func TestCircularity(t *testing.T) {
	// A true circle has circularity 1; elongated shapes score lower.
	r := 10.0
	circ := circularity(math.Pi*r*r, 2*math.Pi*r)
	if math.Abs(circ-1) > 1e-9 {
		t.Errorf("perfect circle circularity = %f, want 1", circ)
	}

	// A 20x2 rectangle.
	rect := circularity(40, 44)
	if rect > 0.3 {
		t.Errorf("elongated rectangle circularity = %f, want well under a circle's", rect)
	}

	if circularity(0, 0) != 0 {
		t.Error("degenerate input should score 0")
	}
}
