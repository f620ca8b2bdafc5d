package chart

// Band is one of the three ordered capacity classifications.
// The ordering is meaningful: BandDepleted < BandStretched < BandResourced.
type Band int

const (
	BandDepleted Band = iota
	BandStretched
	BandResourced
)

// String returns the band's display name.
func (b Band) String() string {
	switch b {
	case BandResourced:
		return "resourced"
	case BandStretched:
		return "stretched"
	default:
		return "depleted"
	}
}

// Letter returns the one-letter legend label for the band.
func (b Band) Letter() string {
	switch b {
	case BandResourced:
		return "R"
	case BandStretched:
		return "S"
	default:
		return "D"
	}
}

// Zone is the result of classifying a sample: its band and display color.
type Zone struct {
	Band  Band
	Color string
}

// Classify maps a sample to its capacity zone. The sample is clamped into
// the scale's range first, then compared against the scale's thresholds.
//
// These are the only band thresholds in the engine: chart point coloring and
// summary badge counts both call this function, so they cannot drift apart.
func (c Config) Classify(v float64, s Scale) Zone {
	v = c.Clamp(v, s)
	spec := c.Spec(s)

	band := BandDepleted
	switch {
	case v >= spec.Resourced:
		band = BandResourced
	case v >= spec.Stretched:
		band = BandStretched
	}
	return Zone{Band: band, Color: c.Palette.Color(band)}
}
