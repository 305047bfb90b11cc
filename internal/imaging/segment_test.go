package imaging

import "testing"

// twoToneGrid creates a dark grid with a bright centered square.
func twoToneGrid(size, squareSize int, dark, bright uint8) *Grid {
	g := fillGrid(size, size, dark)
	off := (size - squareSize) / 2
	for y := off; y < off+squareSize; y++ {
		for x := off; x < off+squareSize; x++ {
			g.Set(x, y, bright)
		}
	}
	return g
}

func TestOtsu_BimodalImage(t *testing.T) {
	g := twoToneGrid(100, 40, 30, 200)

	threshold := Otsu(g)
	if threshold < 30 || threshold >= 200 {
		t.Errorf("threshold %d does not separate the two modes", threshold)
	}
}

func TestSegmentLungs_KeepsBrightRegion(t *testing.T) {
	g := twoToneGrid(100, 40, 30, 200)

	mask, err := SegmentLungs(g)
	if err != nil {
		t.Fatalf("SegmentLungs failed: %v", err)
	}

	if mask.At(50, 50) == 0 {
		t.Error("center of bright region should be foreground")
	}
	if mask.At(5, 5) != 0 {
		t.Error("dark background should be excluded")
	}
}

func TestSegmentLungs_ClosesSmallHoles(t *testing.T) {
	g := twoToneGrid(100, 40, 30, 200)
	// A lone dark pixel inside the bright region. Morphological closing
	// should absorb it.
	g.Set(50, 50, 30)

	mask, err := SegmentLungs(g)
	if err != nil {
		t.Fatalf("SegmentLungs failed: %v", err)
	}
	if mask.At(50, 50) == 0 {
		t.Error("single-pixel hole should be closed")
	}
}

func TestSegmentLungs_EmptyImage(t *testing.T) {
	_, err := SegmentLungs(&Grid{})
	if err == nil {
		t.Fatal("expected error for empty grid")
	}
}
