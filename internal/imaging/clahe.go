package imaging

// Clahe applies contrast-limited adaptive histogram equalization (Zuiderveld,
// 1994): the image is partitioned into a gx-by-gy tile grid, each tile gets
// its own clipped histogram equalization mapping, and output pixels are
// bilinearly blended between the four nearest tile mappings.
//
// clipLimit bounds how much any single histogram bin may dominate a tile's
// equalization curve before the excess count is redistributed across all
// 256 bins; clipLimit <= 0 (or very large) behaves as unclipped
// equalization. gx and gy must be >= 1.
func Clahe(img *GrayImage, gx, gy int, clipLimit float64) *GrayImage {
	if gx < 1 {
		gx = 1
	}
	if gy < 1 {
		gy = 1
	}

	tw := img.Width / gx
	th := img.Height / gy
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	mappings := buildClaheMappings(img, gx, gy, tw, th, clipLimit)
	return claheApply(img, gx, gy, tw, th, mappings)
}

// claheTileBounds returns the pixel rectangle owned by tile (tx, ty),
// extending the last column/row of tiles to the image edge so the full
// image is covered even when W/gx or H/gy has a remainder.
func claheTileBounds(tx, ty, tw, th, gx, gy, width, height int) (x0, y0, x1, y1 int) {
	x0 = tx * tw
	y0 = ty * th
	if tx == gx-1 {
		x1 = width
	} else {
		x1 = x0 + tw
	}
	if ty == gy-1 {
		y1 = height
	} else {
		y1 = y0 + th
	}
	return
}

// buildClaheMappings computes, for every tile, a 256-entry lookup table
// mapping input luminance to output luminance.
func buildClaheMappings(img *GrayImage, gx, gy, tw, th int, clipLimit float64) [][256]uint8 {
	mappings := make([][256]uint8, gx*gy)

	for ty := 0; ty < gy; ty++ {
		for tx := 0; tx < gx; tx++ {
			x0, y0, x1, y1 := claheTileBounds(tx, ty, tw, th, gx, gy, img.Width, img.Height)

			var hist [256]int
			n := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[img.At(x, y)]++
					n++
				}
			}

			clipHistogram(&hist, clipLimit, n)
			mappings[ty*gx+tx] = claheMappingFromHistogram(hist, n)
		}
	}

	return mappings
}

// clipHistogram caps every bin at clipCount and redistributes the excess
// evenly across all 256 bins, with any remainder going one count at a time
// to the lowest-numbered bins. A clipLimit <= 0 leaves the histogram as is.
func clipHistogram(hist *[256]int, clipLimit float64, n int) {
	if clipLimit <= 0 {
		return
	}
	clipCount := int(clipLimit * float64(n) / 256.0)
	if clipCount < 1 {
		clipCount = 1
	}

	excess := 0
	for i := 0; i < 256; i++ {
		if hist[i] > clipCount {
			excess += hist[i] - clipCount
			hist[i] = clipCount
		}
	}

	perBin := excess / 256
	remainder := excess % 256
	for i := 0; i < 256; i++ {
		hist[i] += perBin
		if i < remainder {
			hist[i]++
		}
	}
}

// claheMappingFromHistogram builds the 256-entry CDF-based remap table for
// one tile. If the tile's pixel count equals cdfMin (every count sits in the
// lowest occupied bin, as for a constant tile whose histogram was left
// unclipped), the identity mapping is used. A constant tile that was clipped
// has counts spread into the low bins and does not take this path.
func claheMappingFromHistogram(hist [256]int, n int) [256]uint8 {
	var cdf [256]int
	running := 0
	for i := 0; i < 256; i++ {
		running += hist[i]
		cdf[i] = running
	}

	cdfMin := 0
	for i := 0; i < 256; i++ {
		if cdf[i] > 0 {
			cdfMin = cdf[i]
			break
		}
	}

	var mapping [256]uint8
	denom := n - cdfMin
	if denom <= 0 {
		for i := 0; i < 256; i++ {
			mapping[i] = uint8(i)
		}
		return mapping
	}

	for i := 0; i < 256; i++ {
		v := float64(cdf[i]-cdfMin) / float64(denom) * 255.0
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		mapping[i] = uint8(roundHalfAwayFromZero(v))
	}
	return mapping
}

// claheApply produces the output image by bilinearly blending between the
// CDF mappings of the (up to) four tiles nearest each output pixel.
func claheApply(img *GrayImage, gx, gy, tw, th int, mappings [][256]uint8) *GrayImage {
	out := NewGrayImage(img.Width, img.Height)

	for y := 0; y < img.Height; y++ {
		fy := float64(y)/float64(th) - 0.5
		fy = clampFloat(fy, 0, float64(gy-1))
		ty0 := int(fy)
		ty1 := ty0 + 1
		if ty1 > gy-1 {
			ty1 = gy - 1
		}
		wy := fy - float64(ty0)

		for x := 0; x < img.Width; x++ {
			fx := float64(x)/float64(tw) - 0.5
			fx = clampFloat(fx, 0, float64(gx-1))
			tx0 := int(fx)
			tx1 := tx0 + 1
			if tx1 > gx-1 {
				tx1 = gx - 1
			}
			wx := fx - float64(tx0)

			v := img.At(x, y)
			v00 := float64(mappings[ty0*gx+tx0][v])
			v01 := float64(mappings[ty0*gx+tx1][v])
			v10 := float64(mappings[ty1*gx+tx0][v])
			v11 := float64(mappings[ty1*gx+tx1][v])

			top := v00*(1-wx) + v01*wx
			bottom := v10*(1-wx) + v11*wx
			blended := top*(1-wy) + bottom*wy

			out.Set(x, y, clampByte(roundHalfAwayFromZero(blended)))
		}
	}

	return out
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClaheAndDownscale runs Clahe at source resolution and then bilinearly
// downscales the result to dstW x dstH. It is a straightforward composition
// kept as its own entry point so a kernel Provider can offer a fused,
// faster implementation without changing the contract (the bilinear
// sampler it shares with UnsharpMaskAndDownscale, bilinearDownscale, is in
// internal/imaging/unsharp.go).
func ClaheAndDownscale(img *GrayImage, gx, gy int, clipLimit float64, dstW, dstH int) *GrayImage {
	enhanced := Clahe(img, gx, gy, clipLimit)
	return bilinearDownscale(enhanced, dstW, dstH)
}
