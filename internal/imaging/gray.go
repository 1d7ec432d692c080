package imaging

import "image"

// GrayImage is a rectangular grid of single-byte luminance samples, stored
// row-major with no padding. It is the data type every kernel in this
// package and in internal/scan operates on.
//
// A GrayImage is immutable once produced: kernels always allocate and
// return a new buffer rather than writing through their input.
type GrayImage struct {
	Width  int
	Height int
	Pix    []uint8 // len(Pix) == Width*Height, row-major
}

// NewGrayImage allocates a zeroed GrayImage of the given dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the luminance sample at (x, y). Coordinates are not bounds
// checked; callers within this module always stay in range by construction.
func (g *GrayImage) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set writes the luminance sample at (x, y).
func (g *GrayImage) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// clampSample clamps (x, y) to the valid image range, the border policy
// used by every kernel that needs neighboring samples near an edge.
func (g *GrayImage) clampSample(x, y int) uint8 {
	if x < 0 {
		x = 0
	} else if x >= g.Width {
		x = g.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.Height {
		y = g.Height - 1
	}
	return g.At(x, y)
}

// ToGrayImage converts a standard library image.Image to a GrayImage using
// ITU-R BT.601 luminance weights, the same formula the teacher's edge and
// shape detectors use (0.299*R + 0.587*G + 0.114*B).
//
// Grayscale conversion is an external, out-of-core concern per the document
// detector's contract; this is the caller-facing boundary that produces the
// GrayImage the core consumes.
func ToGrayImage(img image.Image) *GrayImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := NewGrayImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			out.Set(x, y, uint8(lum+0.5))
		}
	}
	return out
}

// ToImage converts a GrayImage back to a standard library *image.Gray,
// useful for callers that want to encode or display an intermediate buffer.
func (g *GrayImage) ToImage() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	copy(out.Pix, g.Pix)
	return out
}

// roundHalfAwayFromZero implements the rounding mode the kernel algorithms
// use for converting intermediate float accumulators back to bytes.
func roundHalfAwayFromZero(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
