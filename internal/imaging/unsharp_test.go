package imaging

import "testing"

func TestUnsharpMask_FlatImageUnchanged(t *testing.T) {
	img := NewGrayImage(16, 16)
	for i := range img.Pix {
		img.Pix[i] = 150
	}

	out := UnsharpMask(img, 0.5, 2)
	for i, v := range out.Pix {
		if v != 150 {
			t.Fatalf("UnsharpMask(flat)[%d] = %d, want 150", i, v)
		}
	}
}

func TestUnsharpMask_AmplifiesEdge(t *testing.T) {
	img := NewGrayImage(20, 1)
	for x := 0; x < 20; x++ {
		if x < 10 {
			img.Set(x, 0, 50)
		} else {
			img.Set(x, 0, 200)
		}
	}

	out := UnsharpMask(img, 1.0, 2)

	// Just past the step, the bright side should overshoot the original
	// value (sharpening halo).
	if out.At(10, 0) <= img.At(10, 0) {
		t.Errorf("expected unsharp masking to overshoot at the bright side of a step edge: got %d, original %d", out.At(10, 0), img.At(10, 0))
	}
}

func TestUnsharpMaskAndDownscale_MatchesRequestedDimensions(t *testing.T) {
	img := NewGrayImage(100, 60)
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 256)
	}

	out := UnsharpMaskAndDownscale(img, 0.5, 2, 25, 15)
	if out.Width != 25 || out.Height != 15 {
		t.Errorf("UnsharpMaskAndDownscale() dims = %dx%d, want 25x15", out.Width, out.Height)
	}
}

func TestBilinearDownscale_FlatImageUnchanged(t *testing.T) {
	img := NewGrayImage(40, 40)
	for i := range img.Pix {
		img.Pix[i] = 90
	}

	out := bilinearDownscale(img, 10, 10)
	for i, v := range out.Pix {
		if v != 90 {
			t.Fatalf("bilinearDownscale(flat)[%d] = %d, want 90", i, v)
		}
	}
}
