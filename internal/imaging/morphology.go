package imaging

// Dilate performs a separable horizontal-then-vertical max filter over an
// odd-sized window k, clamping sample coordinates at the image border.
func Dilate(img *GrayImage, k int) *GrayImage {
	return morphSeparable(img, k, 0, maxByte)
}

// Erode performs a separable horizontal-then-vertical min filter over an
// odd-sized window k, with an initial accumulator of 255 (the structural
// complement of Dilate's 0).
func Erode(img *GrayImage, k int) *GrayImage {
	return morphSeparable(img, k, 255, minByte)
}

func morphSeparable(img *GrayImage, k int, identity uint8, combine func(a, b uint8) uint8) *GrayImage {
	if k < 1 {
		k = 1
	}
	if k%2 == 0 {
		k++
	}
	radius := k / 2

	horizontal := NewGrayImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			acc := identity
			for dx := -radius; dx <= radius; dx++ {
				acc = combine(acc, img.clampSample(x+dx, y))
			}
			horizontal.Set(x, y, acc)
		}
	}

	vertical := NewGrayImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			acc := identity
			for dy := -radius; dy <= radius; dy++ {
				acc = combine(acc, horizontal.clampSample(x, y+dy))
			}
			vertical.Set(x, y, acc)
		}
	}

	return vertical
}

func maxByte(a, b uint8) uint8 {
	if b > a {
		return b
	}
	return a
}

func minByte(a, b uint8) uint8 {
	if b < a {
		return b
	}
	return a
}

// MorphologicalClose applies `iterations` repetitions of (Dilate then
// Erode) using the same kernel size k. This closes gaps up to roughly
// (k-1)/2 * iterations pixels in a binary foreground.
func MorphologicalClose(img *GrayImage, k, iterations int) *GrayImage {
	out := img
	for i := 0; i < iterations; i++ {
		out = Dilate(out, k)
		out = Erode(out, k)
	}
	return out
}
