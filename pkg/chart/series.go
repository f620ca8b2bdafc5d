package chart

import (
	"github.com/lumenwell/capreport/pkg/errors"
)

// Scale identifies which historical numeric scale a series was recorded on.
// The engine never assumes a unit: every series carries its scale and all
// cross-scale math goes through Canonical.
type Scale string

const (
	// Scale0100 is the current 0–100 capacity scale.
	Scale0100 Scale = "0-100"

	// ScaleLegacy is the retired 1.0–3.0 scale still present in older
	// exports. Kept so archived series remain renderable.
	ScaleLegacy Scale = "legacy"
)

// ParseScale converts a string (config file, CLI flag, JSON input) to a Scale.
func ParseScale(s string) (Scale, error) {
	switch s {
	case string(Scale0100), "":
		return Scale0100, nil
	case string(ScaleLegacy):
		return ScaleLegacy, nil
	}
	return "", errors.New(errors.ErrCodeInvalidScale, "unknown scale: %q (want %q or %q)", s, Scale0100, ScaleLegacy)
}

// Valid reports whether the scale is one of the two known scales.
func (s Scale) Valid() bool {
	return s == Scale0100 || s == ScaleLegacy
}

// Clamp forces a sample into the scale's value range. Out-of-range samples
// are clamped rather than dropped so a bad reading still renders inside the
// visible chart area. The classifier and the y-coordinate mapping both go
// through this same function.
func (c Config) Clamp(v float64, s Scale) float64 {
	spec := c.Spec(s)
	if v < spec.Min {
		return spec.Min
	}
	if v > spec.Max {
		return spec.Max
	}
	return v
}

// Canonical converts a clamped sample to the canonical 0–100 scale.
// This is the engine's only unit conversion: explicit and named, never an
// implicit assumption.
func (c Config) Canonical(v float64, s Scale) float64 {
	v = c.Clamp(v, s)
	spec := c.Spec(s)
	return (v - spec.Min) / (spec.Max - spec.Min) * 100
}

// ValidateSeries checks a series against the engine's minimum data
// requirement. Callers that require a full observation window (e.g. 90
// samples) enforce that policy before invoking the engine; this check only
// rejects series too short to chart at all.
func (c Config) ValidateSeries(series []float64, s Scale) error {
	if !s.Valid() {
		return errors.New(errors.ErrCodeInvalidScale, "unknown scale: %q", s)
	}
	if len(series) < c.MinSamples {
		return errors.New(errors.ErrCodeInsufficientData,
			"series has %d samples, need at least %d", len(series), c.MinSamples)
	}
	return nil
}
