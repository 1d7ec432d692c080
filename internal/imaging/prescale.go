package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// PrescaleForDetection downscales an oversized source photo to a processing
// resolution before it ever reaches the document-detection kernels.
//
// This is ambient plumbing, not one of the core numeric kernels: spec.md
// places "bilinear downscaling machinery" for the caller-facing resize out
// of the detector's core scope, but a caller still needs to shrink, say, a
// 12-megapixel phone photo down to a few hundred thousand pixels before
// handing it to Clahe/AdaptiveThreshold/Canny, both for speed and because
// the contour-filter's area ratios are scale-invariant but its absolute
// minArea prefilter is not (see internal/scan's scaleFactor handling).
//
// maxDimension bounds the longer of the two output sides; images already at
// or under that size are returned unchanged. Returns the resized image and
// the scale factor (source/processing, >= 1) the caller should pass through
// to the detector so its minArea prefilter stays fixed in source pixels.
func PrescaleForDetection(img image.Image, maxDimension int) (image.Image, float64) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxDimension || maxDimension <= 0 {
		return img, 1.0
	}

	scale := float64(longest) / float64(maxDimension)
	dstW := int(float64(w)/scale + 0.5)
	dstH := int(float64(h)/scale + 0.5)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	resized := transform.Resize(img, dstW, dstH, transform.Linear)
	return resized, scale
}
