package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Grid is a single-channel 8-bit intensity raster stored in row-major order.
//
// Pix holds Height*Width samples; the sample for (x, y) is Pix[y*Width+x].
// A Grid is the common currency between the loader, the preprocessor, and the
// detectors. Grids are plain buffers with no hidden state; copy with Clone
// before mutating a shared grid.
type Grid struct {
	// Pix contains the intensity samples in row-major order.
	Pix []uint8

	// Width is the number of columns. Must be > 0 for a valid grid.
	Width int

	// Height is the number of rows. Must be > 0 for a valid grid.
	Height int
}

// NewGrid allocates a zero-filled grid of the given dimensions.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Pix:    make([]uint8, width*height),
		Width:  width,
		Height: height,
	}
}

// FromImage converts any image to an intensity grid using ITU-R BT.601
// luminance weights (0.299*R + 0.587*G + 0.114*B). Grayscale sources are
// passed through unchanged.
func FromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	g := NewGrid(width, height)

	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			copy(g.Pix[y*width:(y+1)*width], gray.Pix[y*gray.Stride:y*gray.Stride+width])
		}
		return g
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, gr, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			lum := float64(r>>8)*0.299 + float64(gr>>8)*0.587 + float64(b>>8)*0.114
			g.Pix[y*width+x] = uint8(lum)
		}
	}
	return g
}

// At returns the intensity sample at (x, y).
// No bounds checking is performed; caller must ensure coordinates are valid.
func (g *Grid) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set stores an intensity sample at (x, y).
// No bounds checking is performed; caller must ensure coordinates are valid.
func (g *Grid) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.Width, g.Height)
	copy(out.Pix, g.Pix)
	return out
}

// Validate reports whether the grid is well-formed.
//
// Returns ErrInvalidImage (wrapped with the offending dimensions) for an
// empty or zero-dimension grid, or when the pixel buffer does not match the
// declared dimensions.
func (g *Grid) Validate() error {
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w", ErrInvalidImage)
	}
	if len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: pixel buffer has %d samples, want %d",
			ErrInvalidImage, len(g.Pix), g.Width*g.Height)
	}
	return nil
}

// ToGray converts the grid to a standard library grayscale image.
func (g *Grid) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+g.Width], g.Pix[y*g.Width:(y+1)*g.Width])
	}
	return img
}

// ToNRGBA converts the grid to a 3-channel image (alpha fixed at 255).
// This is the base for annotated overlays, which draw colored markers on top.
func (g *Grid) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			v := g.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// MinMax returns the smallest and largest intensity in the grid.
func (g *Grid) MinMax() (min, max uint8) {
	if len(g.Pix) == 0 {
		return 0, 0
	}
	min, max = g.Pix[0], g.Pix[0]
	for _, v := range g.Pix {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Stats summarizes the intensity distribution of a grid.
type Stats struct {
	// Width and Height are the grid dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Mean is the average intensity in [0, 255].
	Mean float64 `json:"mean"`

	// StdDev is the intensity standard deviation.
	StdDev float64 `json:"std_dev"`

	// Min and Max are the intensity extremes.
	Min uint8 `json:"min"`
	Max uint8 `json:"max"`
}

// ComputeStats calculates intensity statistics for the grid.
// Returns an error for an invalid grid.
func (g *Grid) ComputeStats() (*Stats, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	var sum float64
	for _, v := range g.Pix {
		sum += float64(v)
	}
	n := float64(len(g.Pix))
	mean := sum / n

	var varSum float64
	for _, v := range g.Pix {
		d := float64(v) - mean
		varSum += d * d
	}

	min, max := g.MinMax()
	return &Stats{
		Width:  g.Width,
		Height: g.Height,
		Mean:   mean,
		StdDev: math.Sqrt(varSum / n),
		Min:    min,
		Max:    max,
	}, nil
}
