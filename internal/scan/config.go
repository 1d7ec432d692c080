package scan

// Config gathers every tunable of the detection pipeline into one nested
// struct, grouped the way spec.md §6/§9 clusters them (clahe, threshold,
// morphology, contourFilter, fallbackCanny) rather than scattering defaults
// through call sites.
type Config struct {
	// MinArea is the source-pixel area prefilter applied before a contour
	// ever reaches the geometric filter.
	MinArea int

	// UseFallback enables the Canny-Fallback and Canny-Default strategies.
	UseFallback bool

	// SkipClahe skips the Enhanced strategy's own CLAHE pass, for callers
	// that already applied CLAHE upstream (e.g. during prescaling).
	SkipClahe bool

	Clahe         ClaheConfig
	Threshold     ThresholdConfig
	Morphology    MorphologyConfig
	ContourFilter ContourFilterConfig
	FallbackCanny CannyConfig

	// Epsilon is the base Douglas-Peucker tolerance, as a fraction of
	// contour perimeter, used by strategies that don't supply their own.
	Epsilon float64

	// LowThreshold/HighThreshold are the Canny-Default strategy's
	// thresholds (strategy 3; strategy 2 uses FallbackCanny instead).
	LowThreshold  int
	HighThreshold int
}

// ClaheConfig configures the Enhanced strategy's contrast-limited histogram
// equalization pass (spec.md §4.1).
type ClaheConfig struct {
	ClipLimit float64
	TileGridX int
	TileGridY int
}

// ThresholdConfig configures the Enhanced strategy's adaptive threshold
// pass (spec.md §4.3). BlockSize doubles as the box-blur kernel that
// produces the local mean.
type ThresholdConfig struct {
	BlockSize int
	Offset    float64
}

// MorphologyConfig configures the Enhanced strategy's closing pass
// (spec.md §4.4).
type MorphologyConfig struct {
	KernelSize int
	Iterations int
}

// ContourFilterConfig configures the geometric validity checks and
// composite scorer shared by every strategy (spec.md §4.6).
type ContourFilterConfig struct {
	MinAreaRatio   float64
	MaxAreaRatio   float64
	MinAngle       float64
	MaxAngle       float64
	MinAspectRatio float64
	MaxAspectRatio float64
	AreaWeight     float64
	AngleWeight    float64

	// EpsilonValues is an optional explicit override; nil derives the
	// schedule from Config.Epsilon.
	EpsilonValues []float64
}

// CannyConfig configures one of the two Canny-based strategies.
type CannyConfig struct {
	LowThreshold  int
	HighThreshold int
}

// DefaultConfig returns the configuration spec.md §6's surface table
// specifies as the default for every option.
func DefaultConfig() Config {
	return Config{
		MinArea:     1000,
		UseFallback: true,
		SkipClahe:   false,
		Clahe: ClaheConfig{
			ClipLimit: 2.0,
			TileGridX: 8,
			TileGridY: 8,
		},
		Threshold: ThresholdConfig{
			BlockSize: 21,
			Offset:    12,
		},
		Morphology: MorphologyConfig{
			KernelSize: 5,
			Iterations: 2,
		},
		ContourFilter: ContourFilterConfig{
			MinAreaRatio:   0.15,
			MaxAreaRatio:   0.98,
			MinAngle:       70,
			MaxAngle:       110,
			MinAspectRatio: 0.3,
			MaxAspectRatio: 3.0,
			AreaWeight:     0.4,
			AngleWeight:    0.6,
			EpsilonValues:  nil,
		},
		FallbackCanny: CannyConfig{
			LowThreshold:  30,
			HighThreshold: 90,
		},
		Epsilon:       0.02,
		LowThreshold:  75,
		HighThreshold: 200,
	}
}

// epsilonValues returns the epsilon schedule a contour should be tried
// against: the explicit override if set, otherwise the derived schedule
// [0.5ε, 0.75ε, ε, 1.5ε, 2.0ε] from spec.md §4.6.
func (c ContourFilterConfig) epsilonSchedule(base float64) []float64 {
	if len(c.EpsilonValues) > 0 {
		return c.EpsilonValues
	}
	return []float64{0.5 * base, 0.75 * base, base, 1.5 * base, 2.0 * base}
}
