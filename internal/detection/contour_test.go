package detection

import (
	"math"
	"testing"

	"github.com/radshape/nodulescan/internal/imaging"
)

// gradientField creates a grid with a horizontal intensity ramp.
func gradientField(width, height int, lo, hi uint8) *imaging.Grid {
	g := imaging.NewGrid(width, height)
	span := int(hi) - int(lo)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.Set(x, y, uint8(int(lo)+span*x/(width-1)))
		}
	}
	return g
}

func TestDetectContours_BrightDisk(t *testing.T) {
	g := newField(200, 200, 50)
	drawDisk(g, 100, 100, 10, 200)

	cands, err := DetectContours(g, DefaultContourParams())
	if err != nil {
		t.Fatalf("DetectContours failed: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 contour, got %d: %+v", len(cands), cands)
	}

	c := cands[0]
	if math.Hypot(c.Center.X-100, c.Center.Y-100) > 3 {
		t.Errorf("center %+v too far from (100, 100)", c.Center)
	}
	if math.Abs(c.Radius-10) > 2 {
		t.Errorf("radius %f, want about 10", c.Radius)
	}
	if c.Method != MethodContour {
		t.Errorf("contour candidate tagged %q", c.Method)
	}
}

func TestDetectContours_IlluminationGradient(t *testing.T) {
	// A global threshold cannot separate a disk from a background ramp
	// spanning the disk's intensity; the local threshold can.
	g := gradientField(200, 200, 30, 120)
	drawDisk(g, 100, 100, 10, 220)

	cands, err := DetectContours(g, DefaultContourParams())
	if err != nil {
		t.Fatalf("DetectContours failed: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 contour under gradient, got %d: %+v", len(cands), cands)
	}
	if math.Hypot(cands[0].Center.X-100, cands[0].Center.Y-100) > 3 {
		t.Errorf("center %+v too far from (100, 100)", cands[0].Center)
	}
}

func TestDetectContours_AreaBounds(t *testing.T) {
	g := newField(200, 200, 50)
	drawDisk(g, 50, 50, 3, 200)    // enclosed area well under AreaMin
	drawDisk(g, 140, 140, 25, 200) // enclosed area well over AreaMax

	cands, err := DetectContours(g, DefaultContourParams())
	if err != nil {
		t.Fatalf("DetectContours failed: %v", err)
	}
	if len(cands) != 0 {
		t.Errorf("expected area bounds to reject both disks, got %d: %+v", len(cands), cands)
	}
}

func TestDetectContours_AreaScaling(t *testing.T) {
	g := newField(200, 200, 50)
	drawDisk(g, 100, 100, 10, 200)

	// Halving the effective resolution scales the area window down by 4,
	// pushing the disk's enclosed area past the maximum.
	params := DefaultContourParams()
	params.ReferenceWidth = 400

	cands, err := DetectContours(g, params)
	if err != nil {
		t.Fatalf("DetectContours failed: %v", err)
	}
	if len(cands) != 0 {
		t.Errorf("expected scaled bounds to reject the disk, got %d", len(cands))
	}
}

func TestDetectContours_CircularityFilter(t *testing.T) {
	g := newField(200, 200, 50)
	// A 40x4 bright bar: enclosed area inside the bounds, shape far from
	// circular.
	for y := 98; y < 102; y++ {
		for x := 80; x < 120; x++ {
			g.Set(x, y, 200)
		}
	}

	cands, err := DetectContours(g, DefaultContourParams())
	if err != nil {
		t.Fatalf("DetectContours failed: %v", err)
	}
	if len(cands) != 0 {
		t.Errorf("expected the bar to fail the circularity filter, got %d: %+v", len(cands), cands)
	}
}

func TestDetectContours_EmptyImage(t *testing.T) {
	if _, err := DetectContours(&imaging.Grid{}, DefaultContourParams()); err == nil {
		t.Fatal("expected error for empty grid")
	}
}
