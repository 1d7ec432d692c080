package scan

import "github.com/corvid-labs/paperscan-go/internal/imaging"

// CannyDetector produces a closed binary edge map from a grayscale image
// (spec §6's edge-detector interface: `canny(gray, W, H, lowThreshold,
// highThreshold, dilationKernelSize, dilationIterations) -> binary`).
type CannyDetector interface {
	Detect(gray *imaging.GrayImage, lowThreshold, highThreshold, dilationKernelSize, dilationIterations int) *imaging.GrayImage
}

type refCannyDetector struct{}

// NewReferenceCannyDetector returns the in-module reference Canny
// detector, wired directly to imaging.Canny (the package's Sobel +
// non-maximum-suppression + hysteresis implementation).
func NewReferenceCannyDetector() CannyDetector {
	return refCannyDetector{}
}

func (refCannyDetector) Detect(gray *imaging.GrayImage, lowThreshold, highThreshold, dilationKernelSize, dilationIterations int) *imaging.GrayImage {
	return imaging.Canny(gray, lowThreshold, highThreshold, dilationKernelSize, dilationIterations)
}
