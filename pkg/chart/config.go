package chart

// Config is the single shared vocabulary for every rendering component:
// chart geometry, zone thresholds per scale, and the zone color palette.
// It is passed explicitly into each component so that the classifier, the
// curve builder, and the composer can never disagree on a constant.
//
// Config values are treated as immutable after creation.
type Config struct {
	// Geometry (user units; pixels in the rendered SVG).
	Width        float64
	Height       float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	// PointCount is the fixed number of representative points per chart.
	// This is a visual-contract constant, not derived from the data.
	PointCount int

	// Tension is the fraction of the horizontal segment distance at which
	// curve control points are placed.
	Tension float64

	// BandOpacity is the fill opacity of the three zone background bands.
	BandOpacity float64

	// Palette maps each capacity band to its display color.
	Palette Palette

	// Scale0100 and Legacy define the two historically used numeric scales.
	// Thresholds live here, once per scale, so chart coloring and summary
	// badges read the same constants.
	Scale0100 ScaleSpec
	Legacy    ScaleSpec

	// Volatility detection constants. One canonical set serves both the
	// exported document and the on-screen preview.
	VolatilityLookback  int     // samples inspected from the end of the series
	VolatilityNoise     float64 // first differences at or below this are noise (canonical units)
	VolatilityCutoff    int     // direction changes above this mark the series volatile
	MinSamples          int     // fewer samples than this is an input error
}

// Palette holds the fixed display color per capacity band.
type Palette struct {
	Resourced string
	Stretched string
	Depleted  string
}

// Color returns the display color for a band.
func (p Palette) Color(b Band) string {
	switch b {
	case BandResourced:
		return p.Resourced
	case BandStretched:
		return p.Stretched
	default:
		return p.Depleted
	}
}

// ScaleSpec defines one numeric scale: its value range and the lower bounds
// of the resourced and stretched bands. Values below the stretched bound are
// depleted.
type ScaleSpec struct {
	Min       float64
	Max       float64
	Resourced float64 // band lower bound, inclusive
	Stretched float64 // band lower bound, inclusive
}

// DefaultConfig returns the engine's visual-contract constants.
//
// The legacy 1.0–3.0 thresholds are the exact images of the 0–100
// thresholds under the canonical conversion, so the two scales can never
// disagree about band membership.
func DefaultConfig() Config {
	return Config{
		Width:        560,
		Height:       220,
		MarginTop:    18,
		MarginRight:  16,
		MarginBottom: 30,
		MarginLeft:   34,

		PointCount:  6,
		Tension:     0.30,
		BandOpacity: 0.16,

		Palette: Palette{
			Resourced: "#2f9e6b",
			Stretched: "#e0a83a",
			Depleted:  "#d2604c",
		},

		Scale0100: ScaleSpec{Min: 0, Max: 100, Resourced: 66, Stretched: 33},
		Legacy:    ScaleSpec{Min: 1, Max: 3, Resourced: 2.32, Stretched: 1.66},

		VolatilityLookback: 30,
		VolatilityNoise:    4.0,
		VolatilityCutoff:   6,
		MinSamples:         2,
	}
}

// PlotWidth returns the horizontal span of the plot area.
func (c Config) PlotWidth() float64 { return c.Width - c.MarginLeft - c.MarginRight }

// PlotHeight returns the vertical span of the plot area.
func (c Config) PlotHeight() float64 { return c.Height - c.MarginTop - c.MarginBottom }

// BaselineY returns the y coordinate of the chart baseline (canonical 0).
func (c Config) BaselineY() float64 { return c.MarginTop + c.PlotHeight() }

// Spec returns the ScaleSpec for a scale.
func (c Config) Spec(s Scale) ScaleSpec {
	if s == ScaleLegacy {
		return c.Legacy
	}
	return c.Scale0100
}
