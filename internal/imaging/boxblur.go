package imaging

// BoxBlur applies a separable two-pass box filter with an odd kernel size k.
// It serves both as the Gaussian-blur stand-in feeding AdaptiveThreshold and
// as the blur kernel behind UnsharpMask.
func BoxBlur(img *GrayImage, k int) *GrayImage {
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
			sum := 0
			for dx := -radius; dx <= radius; dx++ {
				sum += int(img.clampSample(x+dx, y))
			}
			horizontal.Set(x, y, clampByte(roundHalfAwayFromZero(float64(sum)/float64(k))))
		}
	}

	vertical := NewGrayImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			sum := 0
			for dy := -radius; dy <= radius; dy++ {
				sum += int(horizontal.clampSample(x, y+dy))
			}
			vertical.Set(x, y, clampByte(roundHalfAwayFromZero(float64(sum)/float64(k))))
		}
	}

	return vertical
}

// boxMeanAt returns the box mean of img over the window of the given radius
// centered at (cx, cy), clamped to the image border. Used by UnsharpMask's
// fused-downscale variant, which needs a single-point box mean rather than
// a full-image blur pass.
func boxMeanAt(img *GrayImage, cx, cy, radius int) float64 {
	sum := 0
	count := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			sum += int(img.clampSample(cx+dx, cy+dy))
			count++
		}
	}
	return float64(sum) / float64(count)
}
