package imaging

import "testing"

func TestClahe_PreservesDimensionsAndRange(t *testing.T) {
	img := NewGrayImage(64, 48)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			img.Set(x, y, uint8((x*3+y*5)%256))
		}
	}

	out := Clahe(img, 8, 8, 2.0)

	if out.Width != img.Width || out.Height != img.Height {
		t.Fatalf("Clahe changed dimensions: got %dx%d, want %dx%d", out.Width, out.Height, img.Width, img.Height)
	}
	if len(out.Pix) != len(img.Pix) {
		t.Fatalf("Clahe output pixel count = %d, want %d", len(out.Pix), len(img.Pix))
	}
}

func TestClahe_FlatImageStaysFlat(t *testing.T) {
	img := NewGrayImage(32, 32)
	for i := range img.Pix {
		img.Pix[i] = 128
	}

	out := Clahe(img, 4, 4, 2.0)
	for i, v := range out.Pix {
		if v != 255 {
			t.Fatalf("Clahe(flat image)[%d] = %d, want 255 (each tile's single bin is clipped to 1 and the 63 excess counts go to bins 0..62, so 128 sits at the top of every tile's CDF)", i, v)
		}
	}
}

func TestClahe_UnclippedIncreasesContrastOfLowContrastGradient(t *testing.T) {
	const w, h = 64, 64
	img := NewGrayImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// A low-contrast gradient confined to a narrow band [100, 130].
			img.Set(x, y, uint8(100+(x*30)/w))
		}
	}

	out := Clahe(img, 2, 2, 40.0)

	inRange := maxByte(img.Pix[0], img.Pix[len(img.Pix)-1]) - minByte(img.Pix[0], img.Pix[len(img.Pix)-1])
	outRange := maxByte(out.Pix[0], out.Pix[len(out.Pix)-1]) - minByte(out.Pix[0], out.Pix[len(out.Pix)-1])

	if outRange < inRange {
		t.Errorf("expected CLAHE to expand the dynamic range of a low-contrast gradient, got %d -> %d", inRange, outRange)
	}
}

func TestClaheAndDownscale_ProducesRequestedDimensions(t *testing.T) {
	img := NewGrayImage(100, 80)
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 256)
	}

	out := ClaheAndDownscale(img, 8, 8, 2.0, 50, 40)
	if out.Width != 50 || out.Height != 40 {
		t.Errorf("ClaheAndDownscale() dims = %dx%d, want 50x40", out.Width, out.Height)
	}
}
