package chart

import "testing"

func TestClassify0100(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		value float64
		want  Band
	}{
		{"deep depleted", 0, BandDepleted},
		{"upper depleted", 32.9, BandDepleted},
		{"stretched lower bound", 33, BandStretched},
		{"mid stretched", 50, BandStretched},
		{"upper stretched", 65.9, BandStretched},
		{"resourced lower bound", 66, BandResourced},
		{"top", 100, BandResourced},
		{"clamped below range", -20, BandDepleted},
		{"clamped above range", 140, BandResourced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.Classify(tt.value, Scale0100)
			if got.Band != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.value, got.Band, tt.want)
			}
			if got.Color != cfg.Palette.Color(tt.want) {
				t.Errorf("Classify(%v) color = %q, want %q", tt.value, got.Color, cfg.Palette.Color(tt.want))
			}
		})
	}
}

func TestClassifyLegacy(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		value float64
		want  Band
	}{
		{1.0, BandDepleted},
		{1.65, BandDepleted},
		{1.66, BandStretched},
		{2.0, BandStretched},
		{2.32, BandResourced},
		{3.0, BandResourced},
	}

	for _, tt := range tests {
		if got := cfg.Classify(tt.value, ScaleLegacy); got.Band != tt.want {
			t.Errorf("Classify(%v, legacy) = %v, want %v", tt.value, got.Band, tt.want)
		}
	}
}

// Band classification must be monotone: a larger value can never land in a
// lower band.
func TestClassifyMonotonicity(t *testing.T) {
	cfg := DefaultConfig()

	for _, scale := range []Scale{Scale0100, ScaleLegacy} {
		spec := cfg.Spec(scale)
		step := (spec.Max - spec.Min) / 200
		prev := cfg.Classify(spec.Min, scale).Band
		for v := spec.Min + step; v <= spec.Max; v += step {
			cur := cfg.Classify(v, scale).Band
			if cur < prev {
				t.Fatalf("scale %s: band dropped from %v to %v at %v", scale, prev, cur, v)
			}
			prev = cur
		}
	}
}

// The legacy thresholds are the exact images of the 0-100 thresholds under
// the canonical conversion; the two scales must agree about every band.
func TestScalesAgreeThroughConversion(t *testing.T) {
	cfg := DefaultConfig()

	// Sampled away from the exact thresholds, where float rounding in the
	// conversion could legitimately flip a band.
	for _, v := range []float64{1.0, 1.2, 1.5, 1.7, 1.9, 2.1, 2.5, 2.8, 3.0} {
		legacy := cfg.Classify(v, ScaleLegacy).Band
		canonical := cfg.Classify(cfg.Canonical(v, ScaleLegacy), Scale0100).Band
		if legacy != canonical {
			t.Fatalf("legacy %v classified %v but canonical image classified %v", v, legacy, canonical)
		}
	}
}

func TestBandLetters(t *testing.T) {
	if BandResourced.Letter() != "R" || BandStretched.Letter() != "S" || BandDepleted.Letter() != "D" {
		t.Error("legend letters must be R/S/D")
	}
}
