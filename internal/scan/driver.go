package scan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/corvid-labs/paperscan-go/internal/imaging"
)

// ErrDegenerateImage is returned when Scan is called with an image whose
// width or height is less than 1 (spec.md §7: rejected at the boundary
// before any strategy runs).
var ErrDegenerateImage = errors.New("scan: image has degenerate dimensions")

const (
	strategyEnhanced      = "enhanced"
	strategyCannyFallback = "canny-fallback"
	strategyCannyDefault  = "canny-default"
)

// ScanResult reports the outcome of one MultiStrategyDriver.Scan call.
//
// Winning strategy name, per-strategy candidate counts, and elapsed kernel
// time are diagnostics the driver is well-placed to report about itself
// (spec.md places timing/debug bookkeeping outside the core algorithms,
// but nothing stops the orchestrator from describing its own run).
type ScanResult struct {
	Success bool

	// Cancelled is true if the caller's context was done between strategies.
	Cancelled bool

	// Quad is the winning, corner-ordered candidate. Nil unless Success.
	Quad *Quad

	// Strategy names which strategy produced Quad: "enhanced",
	// "canny-fallback", "canny-default", or "fallback-raw-contour" for the
	// last-resort unapproximated case.
	Strategy string

	// CandidateCounts maps each attempted strategy name to how many of its
	// traced contours passed the minimum-area prefilter (not how many
	// survived the geometric filter).
	CandidateCounts map[string]int

	// Elapsed is the wall-clock time spent across all strategies.
	Elapsed time.Duration
}

// MultiStrategyDriver orchestrates the three detection strategies of
// spec.md §4.7 and merges their surviving candidates.
type MultiStrategyDriver struct {
	Config       Config
	Kernels      imaging.Provider
	Canny        CannyDetector
	Tracer       ContourTracer
	Approximator PolygonApproximator
	CornerOrder  CornerOrderer
}

// NewMultiStrategyDriver builds a driver wired entirely to this module's
// reference implementations; Kernels is imaging.Reference().
func NewMultiStrategyDriver(cfg Config) *MultiStrategyDriver {
	return &MultiStrategyDriver{
		Config:       cfg,
		Kernels:      imaging.Reference(),
		Canny:        NewReferenceCannyDetector(),
		Tracer:       NewReferenceContourTracer(),
		Approximator: NewReferencePolygonApproximator(),
		CornerOrder:  NewCornerOrderer(),
	}
}

type strategyOutcome struct {
	name      string
	contours  [][]ContourPoint
	candidate *Quad
}

// Scan runs all configured strategies against gray and returns the
// best-scoring candidate. scaleFactor is the downscale ratio applied to
// gray relative to the original source image (>= 1), used to keep the
// minimum-area prefilter fixed in source-pixel terms.
func (d *MultiStrategyDriver) Scan(ctx context.Context, gray *imaging.GrayImage, scaleFactor float64) (*ScanResult, error) {
	if gray.Width < 1 || gray.Height < 1 {
		return nil, ErrDegenerateImage
	}
	if scaleFactor <= 0 {
		scaleFactor = 1
	}

	start := time.Now()
	result := &ScanResult{CandidateCounts: make(map[string]int)}
	filter := NewContourFilter(d.Config.ContourFilter, d.Config.Epsilon, d.Approximator, gray.Width, gray.Height)
	minRawArea := float64(d.Config.MinArea) / (scaleFactor * scaleFactor)

	var outcomes []strategyOutcome

	if outcome, ok := d.runEnhanced(gray, filter, minRawArea); ok {
		outcomes = append(outcomes, outcome)
		result.CandidateCounts[outcome.name] = len(outcome.contours)
	}

	if d.Config.UseFallback {
		if ctxDone(ctx) {
			result.Cancelled = true
			return result, nil
		}
		fb := d.runCanny(strategyCannyFallback, gray, d.Config.FallbackCanny.LowThreshold, d.Config.FallbackCanny.HighThreshold, filter, minRawArea)
		outcomes = append(outcomes, fb)
		result.CandidateCounts[fb.name] = len(fb.contours)

		if ctxDone(ctx) {
			result.Cancelled = true
			return result, nil
		}
		def := d.runCanny(strategyCannyDefault, gray, d.Config.LowThreshold, d.Config.HighThreshold, filter, minRawArea)
		outcomes = append(outcomes, def)
		result.CandidateCounts[def.name] = len(def.contours)
	}

	var winner *strategyOutcome
	for i := range outcomes {
		if outcomes[i].candidate == nil {
			continue
		}
		if winner == nil || outcomes[i].candidate.Score > winner.candidate.Score {
			winner = &outcomes[i]
		}
	}

	result.Elapsed = time.Since(start)

	if winner != nil {
		winner.candidate.Corners = d.CornerOrder.Order(winner.candidate.Corners)
		result.Success = true
		result.Quad = winner.candidate
		result.Strategy = winner.name
		return result, nil
	}

	// Last resort: the single largest raw contour from strategy 2 or 3,
	// whichever produced any contours first (spec.md §4.7, §9).
	for _, name := range []string{strategyCannyFallback, strategyCannyDefault} {
		for _, outcome := range outcomes {
			if outcome.name != name || len(outcome.contours) == 0 {
				continue
			}
			largest := largestContour(outcome.contours)
			result.Success = true
			result.Strategy = "fallback-raw-contour"
			result.Quad = &Quad{
				Corners:    d.CornerOrder.Order(extremeCorners(largest)),
				RawContour: largest,
				Area:       rawContourArea(largest),
			}
			return result, nil
		}
	}

	return result, nil
}

func (d *MultiStrategyDriver) runEnhanced(gray *imaging.GrayImage, filter *ContourFilter, minRawArea float64) (strategyOutcome, bool) {
	contours, err := d.traceEnhanced(gray)
	if err != nil {
		log.Printf("scan: enhanced strategy failed, continuing with fallback strategies: %v", err)
		return strategyOutcome{}, false
	}

	kept := filterByRawArea(contours, minRawArea)
	return strategyOutcome{
		name:      strategyEnhanced,
		contours:  kept,
		candidate: filter.Best(kept),
	}, true
}

// traceEnhanced runs the Enhanced strategy's preprocessing pipeline
// (CLAHE -> box blur -> adaptive threshold -> morphological close) and
// traces the result, recovering from any panic a kernel might raise so the
// driver can fall through to the Canny strategies (spec.md §7's "strategy
// failure" handling).
func (d *MultiStrategyDriver) traceEnhanced(gray *imaging.GrayImage) (contours [][]ContourPoint, err error) {
	defer func() {
		if r := recover(); r != nil {
			contours, err = nil, errPanic(r)
		}
	}()

	enhanced := gray
	if !d.Config.SkipClahe {
		enhanced = d.Kernels.Clahe(gray, d.Config.Clahe.TileGridX, d.Config.Clahe.TileGridY, d.Config.Clahe.ClipLimit)
	}

	blurred := d.Kernels.BoxBlur(enhanced, d.Config.Threshold.BlockSize)
	binary := d.Kernels.AdaptiveThreshold(enhanced, blurred, d.Config.Threshold.Offset, true)
	closed := d.Kernels.MorphologicalClose(binary, d.Config.Morphology.KernelSize, d.Config.Morphology.Iterations)

	return d.Tracer.Trace(closed), nil
}

func (d *MultiStrategyDriver) runCanny(name string, gray *imaging.GrayImage, lowThreshold, highThreshold int, filter *ContourFilter, minRawArea float64) strategyOutcome {
	binary := d.Canny.Detect(gray, lowThreshold, highThreshold, d.Config.Morphology.KernelSize, 0)
	contours := d.Tracer.Trace(binary)
	kept := filterByRawArea(contours, minRawArea)
	return strategyOutcome{
		name:      name,
		contours:  kept,
		candidate: filter.Best(kept),
	}
}

func filterByRawArea(contours [][]ContourPoint, minRawArea float64) [][]ContourPoint {
	kept := make([][]ContourPoint, 0, len(contours))
	for _, c := range contours {
		if rawContourArea(c) >= minRawArea {
			kept = append(kept, c)
		}
	}
	return kept
}

func rawContourArea(contour []ContourPoint) float64 {
	n := len(contour)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += float64(contour[i].X*contour[j].Y - contour[j].X*contour[i].Y)
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2.0
}

func largestContour(contours [][]ContourPoint) []ContourPoint {
	var largest []ContourPoint
	best := -1.0
	for _, c := range contours {
		if a := rawContourArea(c); a > best {
			best = a
			largest = c
		}
	}
	return largest
}

// extremeCorners reduces an arbitrary point set down to four representative
// corners (by extremes of x+y and y-x), the same reduction a CornerOrderer
// would perform given exactly four points. Used for the degenerate
// last-resort fallback, whose raw contour typically has far more than four
// vertices.
func extremeCorners(contour []ContourPoint) [4]Point {
	if len(contour) == 0 {
		return [4]Point{}
	}

	first := Point{X: float64(contour[0].X), Y: float64(contour[0].Y)}
	tl, tr, br, bl := first, first, first, first
	minSum, maxSum := first.X+first.Y, first.X+first.Y
	minDiff, maxDiff := first.Y-first.X, first.Y-first.X

	for _, cp := range contour {
		p := Point{X: float64(cp.X), Y: float64(cp.Y)}
		sum := p.X + p.Y
		diff := p.Y - p.X

		if sum < minSum {
			minSum = sum
			tl = p
		}
		if sum > maxSum {
			maxSum = sum
			br = p
		}
		if diff < minDiff {
			minDiff = diff
			tr = p
		}
		if diff > maxDiff {
			maxDiff = diff
			bl = p
		}
	}

	return [4]Point{tl, tr, br, bl}
}

func ctxDone(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

type panicError struct{ v any }

func (e panicError) Error() string { return fmt.Sprintf("recovered panic: %v", e.v) }

func errPanic(v any) error { return panicError{v: v} }
