package scan

// ContourFilter implements spec.md §4.6: given a raw contour, it tries a
// schedule of polygon-approximation tolerances looking for a valid,
// well-scored quadrilateral.
type ContourFilter struct {
	Config      ContourFilterConfig
	BaseEpsilon float64
	Approximate PolygonApproximator

	imageWidth  int
	imageHeight int
}

// NewContourFilter builds a ContourFilter for an image of the given
// dimensions.
func NewContourFilter(cfg ContourFilterConfig, baseEpsilon float64, approx PolygonApproximator, imageWidth, imageHeight int) *ContourFilter {
	return &ContourFilter{
		Config:      cfg,
		BaseEpsilon: baseEpsilon,
		Approximate: approx,
		imageWidth:  imageWidth,
		imageHeight: imageHeight,
	}
}

// Best runs the per-contour procedure of spec.md §4.6 over every candidate
// contour, returning the single highest-scoring Quad across all of them
// (nil if none survive). Contours with fewer than four points are skipped
// outright.
func (f *ContourFilter) Best(contours [][]ContourPoint) *Quad {
	var winner *Quad

	for _, contour := range contours {
		if len(contour) < 4 {
			continue
		}
		if q := f.bestForContour(contour); q != nil {
			if winner == nil || q.Score > winner.Score {
				winner = q
			}
		}
	}

	return winner
}

// bestForContour tries every epsilon in this filter's schedule against one
// contour, in order, early-exiting once a candidate scores above 0.5 (spec
// §4.6 step 8; see spec §9 for the acknowledged bias this introduces).
func (f *ContourFilter) bestForContour(contour []ContourPoint) *Quad {
	imageArea := float64(f.imageWidth * f.imageHeight)
	if imageArea <= 0 {
		return nil
	}

	var best *Quad

	for _, eps := range f.Config.epsilonSchedule(f.BaseEpsilon) {
		approx := f.Approximate.Approximate(contour, eps)
		if len(approx) != 4 {
			continue
		}

		var pts [4]Point
		for i, p := range approx {
			pts[i] = Point{X: float64(p.X), Y: float64(p.Y)}
		}

		area := polygonArea(pts[:])
		areaRatio := area / imageArea
		if areaRatio < f.Config.MinAreaRatio || areaRatio > f.Config.MaxAreaRatio {
			continue
		}

		if !isConvex(pts[:]) {
			continue
		}

		var angles [4]float64
		angleOK := true
		totalDev := 0.0
		for i := 0; i < 4; i++ {
			prev := pts[(i+3)%4]
			cur := pts[i]
			next := pts[(i+1)%4]
			angle := interiorAngleDegrees(prev, cur, next)
			angles[i] = angle
			if angle < f.Config.MinAngle || angle > f.Config.MaxAngle {
				angleOK = false
			}
			totalDev += absFloat(angle - 90)
		}
		if !angleOK {
			continue
		}

		ratio := aspectRatio(pts)
		if ratio == 0 || ratio < f.Config.MinAspectRatio || ratio > f.Config.MaxAspectRatio {
			continue
		}

		angleScore := 1.0 - (totalDev/4.0)/30.0
		if angleScore < 0 {
			angleScore = 0
		}

		score := f.Config.AreaWeight*areaRatio + f.Config.AngleWeight*angleScore

		candidate := &Quad{
			Corners:    pts,
			RawContour: contour,
			Area:       area,
			Epsilon:    eps,
			AngleScore: angleScore,
			Score:      score,
		}

		if best == nil || candidate.Score > best.Score {
			best = candidate
		}

		if score > 0.5 {
			break
		}
	}

	return best
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
