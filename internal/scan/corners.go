package scan

// CornerOrderer re-orders a quadrilateral's four corners into a consistent
// TL/TR/BR/BL winding, the convention the rest of the corpus's scan-adjacent
// code uses for perspective-unwarp output. This resolves spec.md §9's open
// question about the unordered "largest raw contour" fallback: the driver
// applies a CornerOrderer to every Quad it returns, including that
// fallback.
type CornerOrderer interface {
	Order(corners [4]Point) [4]Point
}

type sumDiffCornerOrderer struct{}

// NewCornerOrderer returns the standard sum/difference corner orderer: the
// top-left corner has the smallest (x+y), the bottom-right the largest
// (x+y), the top-right the smallest (y-x), and the bottom-left the largest
// (y-x).
func NewCornerOrderer() CornerOrderer {
	return sumDiffCornerOrderer{}
}

func (sumDiffCornerOrderer) Order(corners [4]Point) [4]Point {
	tl, tr, br, bl := corners[0], corners[0], corners[0], corners[0]
	minSum, maxSum := corners[0].X+corners[0].Y, corners[0].X+corners[0].Y
	minDiff, maxDiff := corners[0].Y-corners[0].X, corners[0].Y-corners[0].X

	for _, c := range corners {
		sum := c.X + c.Y
		diff := c.Y - c.X

		if sum < minSum {
			minSum = sum
			tl = c
		}
		if sum > maxSum {
			maxSum = sum
			br = c
		}
		if diff < minDiff {
			minDiff = diff
			tr = c
		}
		if diff > maxDiff {
			maxDiff = diff
			bl = c
		}
	}

	return [4]Point{tl, tr, br, bl}
}
