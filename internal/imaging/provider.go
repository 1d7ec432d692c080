package imaging

// Provider is the kernel module boundary the document detector consumes
// (spec §6): a record of function pointers rather than an interface with
// runtime reflection, so a caller embedding a faster/native kernel set
// (e.g. a SIMD or GPU backend) can override individual operations while
// falling through to the reference Go implementation for the rest.
//
// Every field has the same contract regardless of backend: inputs are
// read-only, outputs are freshly allocated GrayImages of the stated
// dimensions. A nil field is never called directly — callers should use
// Reference() or Coalesce() to guarantee every slot is populated.
type Provider struct {
	Clahe                   func(img *GrayImage, gx, gy int, clipLimit float64) *GrayImage
	BoxBlur                 func(img *GrayImage, k int) *GrayImage
	AdaptiveThreshold       func(enhanced, blurred *GrayImage, offset float64, invert bool) *GrayImage
	Dilate                  func(img *GrayImage, k int) *GrayImage
	Erode                   func(img *GrayImage, k int) *GrayImage
	MorphologicalClose      func(img *GrayImage, k, iterations int) *GrayImage
	UnsharpMask             func(img *GrayImage, amount float64, radius int) *GrayImage
	UnsharpMaskAndDownscale func(img *GrayImage, amount float64, radius, dstW, dstH int) *GrayImage
	ClaheAndDownscale       func(img *GrayImage, gx, gy int, clipLimit float64, dstW, dstH int) *GrayImage
}

// Reference returns the Provider backed entirely by this package's
// from-scratch Go implementations of spec §4.1-§4.5.
func Reference() Provider {
	return Provider{
		Clahe:                   Clahe,
		BoxBlur:                 BoxBlur,
		AdaptiveThreshold:       AdaptiveThreshold,
		Dilate:                  Dilate,
		Erode:                   Erode,
		MorphologicalClose:      MorphologicalClose,
		UnsharpMask:             UnsharpMask,
		UnsharpMaskAndDownscale: UnsharpMaskAndDownscale,
		ClaheAndDownscale:       ClaheAndDownscale,
	}
}

// Coalesce fills any nil field in p with the corresponding reference
// implementation, modeling the "kernel unavailable -> fall back to
// reference" capability set described in spec §6/§7.
func (p Provider) Coalesce() Provider {
	ref := Reference()
	if p.Clahe == nil {
		p.Clahe = ref.Clahe
	}
	if p.BoxBlur == nil {
		p.BoxBlur = ref.BoxBlur
	}
	if p.AdaptiveThreshold == nil {
		p.AdaptiveThreshold = ref.AdaptiveThreshold
	}
	if p.Dilate == nil {
		p.Dilate = ref.Dilate
	}
	if p.Erode == nil {
		p.Erode = ref.Erode
	}
	if p.MorphologicalClose == nil {
		p.MorphologicalClose = ref.MorphologicalClose
	}
	if p.UnsharpMask == nil {
		p.UnsharpMask = ref.UnsharpMask
	}
	if p.UnsharpMaskAndDownscale == nil {
		p.UnsharpMaskAndDownscale = ref.UnsharpMaskAndDownscale
	}
	if p.ClaheAndDownscale == nil {
		p.ClaheAndDownscale = ref.ClaheAndDownscale
	}
	return p
}
