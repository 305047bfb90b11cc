package imaging

import "testing"

func TestEqualize_OutputDimensions(t *testing.T) {
	g := gradientGrid(100, 80, 50, 200)

	out := Equalize(g, DefaultClipLimit, DefaultTileGridSize)
	if out.Width != 100 || out.Height != 80 {
		t.Fatalf("dimensions changed: %dx%d", out.Width, out.Height)
	}
}

func TestEqualize_SpreadsCompressedRange(t *testing.T) {
	// Low-contrast input occupying a fifth of the intensity range.
	g := gradientGrid(256, 256, 100, 150)

	out := Equalize(g, DefaultClipLimit, DefaultTileGridSize)

	min, max := out.MinMax()
	inSpan := 150 - 100
	outSpan := int(max) - int(min)
	if outSpan <= inSpan {
		t.Errorf("equalization did not expand contrast: in span %d, out span %d", inSpan, outSpan)
	}
}

func TestEqualize_UniformImageStaysUniform(t *testing.T) {
	g := fillGrid(64, 64, 90)

	out := Equalize(g, DefaultClipLimit, DefaultTileGridSize)

	min, max := out.MinMax()
	if int(max)-int(min) > 1 {
		t.Errorf("uniform input should stay uniform, got range %d-%d", min, max)
	}
}

func TestEqualize_TinyImage(t *testing.T) {
	// Fewer pixels per axis than the tile grid; tiles must clamp instead
	// of producing empty histograms.
	g := gradientGrid(5, 5, 0, 255)

	out := Equalize(g, DefaultClipLimit, DefaultTileGridSize)
	if out.Width != 5 || out.Height != 5 {
		t.Fatalf("dimensions changed: %dx%d", out.Width, out.Height)
	}
}
