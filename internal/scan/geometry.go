// Package scan implements multi-strategy detection of a rectangular paper
// document inside a photograph, returning its four corners in the
// processing-resolution frame.
//
// Three independent preprocessing pipelines ("strategies") each attempt to
// produce a candidate quadrilateral; a geometric filter rejects impostors
// and scores the survivors, and the driver picks the best one across all
// three strategies.
package scan

import "math"

// Point is a 2D coordinate with floating-point precision, used for polygon
// vertices once a contour has been approximated down to four corners.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ContourPoint is an integer pixel coordinate, the unit the contour tracer
// and Douglas-Peucker approximator operate in before a candidate is
// promoted to a four-corner Point quadrilateral.
type ContourPoint struct {
	X int
	Y int
}

// Quad is a candidate quadrilateral: exactly four corners in one winding
// order, plus the bookkeeping needed to explain why it scored the way it
// did. Corners are ordered TL, TR, BR, BL by the driver before being
// returned to a caller (see CornerOrderer).
type Quad struct {
	Corners    [4]Point
	RawContour []ContourPoint
	Area       float64
	Epsilon    float64
	AngleScore float64
	Score      float64
}

// polygonArea computes the unsigned area of a closed polygon via the
// shoelace formula.
func polygonArea(pts []Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2.0
}

// isConvex reports whether a polygon is convex: the cross product of each
// pair of consecutive edge vectors must have a consistent sign (ignoring
// zero crossings, which occur at collinear vertices).
func isConvex(pts []Point) bool {
	n := len(pts)
	if n < 3 {
		return false
	}

	sign := 0
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		c := pts[(i+2)%n]

		abx, aby := b.X-a.X, b.Y-a.Y
		bcx, bcy := c.X-b.X, c.Y-b.Y
		cross := abx*bcy - aby*bcx

		if cross == 0 {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if sign != s {
			return false
		}
	}
	return true
}

// interiorAngleDegrees returns the interior angle at vertex b, formed by the
// incident edges a->b and b->c, computed from the dot product of the two
// edge vectors (each pointing away from b).
func interiorAngleDegrees(a, b, c Point) float64 {
	v1x, v1y := a.X-b.X, a.Y-b.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y

	dot := v1x*v2x + v1y*v2y
	mag1 := math.Hypot(v1x, v1y)
	mag2 := math.Hypot(v2x, v2y)
	if mag1 == 0 || mag2 == 0 {
		return 0
	}

	cosTheta := clampFloat(dot/(mag1*mag2), -1, 1)
	return math.Acos(cosTheta) * 180.0 / math.Pi
}

// edgeLengths returns the length of each of the four edges of a
// quadrilateral, in vertex order (edge i connects vertex i to vertex i+1).
func edgeLengths(pts [4]Point) [4]float64 {
	var lens [4]float64
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		lens[i] = math.Hypot(pts[j].X-pts[i].X, pts[j].Y-pts[i].Y)
	}
	return lens
}

// aspectRatio computes width/height from a quadrilateral's edges, using
// edges 0 and 2 as the two "width" sides and edges 1 and 3 as the two
// "height" sides (spec.md §4.6, §9: this assumes the contour tracer
// produces vertices in a stable winding order, which refContourTracer and
// refPolygonApproximator do). Returns 0 if height is zero, signaling the
// caller to reject the candidate.
func aspectRatio(pts [4]Point) float64 {
	lens := edgeLengths(pts)
	width := (lens[0] + lens[2]) / 2.0
	height := (lens[1] + lens[3]) / 2.0
	if height == 0 {
		return 0
	}
	return width / height
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
