package chart

import (
	"math"
	"sort"
)

// Downsample reduces a series to the configured fixed point count.
//
// Two strategies share the work:
//
//   - Calm series use uniform-stride sampling: evenly spaced raw samples,
//     no averaging. The visual contract is "see the real data points", not
//     a statistical summary.
//   - Volatile series use peak/valley-preserving sampling, so an
//     oscillating series keeps its zig-zag shape instead of collapsing
//     toward its mean.
//
// A series no longer than the point count is returned unchanged (as a
// copy). The function is pure: identical input always yields identical
// output.
func (c Config) Downsample(series []float64, s Scale) ([]float64, error) {
	if err := c.ValidateSeries(series, s); err != nil {
		return nil, err
	}

	if len(series) <= c.PointCount {
		out := make([]float64, len(series))
		copy(out, series)
		return out, nil
	}

	var idx []int
	if c.isVolatile(series, s) {
		idx = c.peakValleyIndices(series)
	} else {
		idx = c.uniformIndices(len(series))
	}

	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = series[j]
	}
	return out, nil
}

// isVolatile counts direction changes of successive first differences over
// the lookback window. Differences at or below the noise threshold (in
// canonical units) are ignored; more direction changes than the cutoff mark
// the series volatile.
func (c Config) isVolatile(series []float64, s Scale) bool {
	window := series
	if c.VolatilityLookback > 0 && len(series) > c.VolatilityLookback {
		window = series[len(series)-c.VolatilityLookback:]
	}

	changes := 0
	prevSign := 0
	for i := 1; i < len(window); i++ {
		d := c.Canonical(window[i], s) - c.Canonical(window[i-1], s)
		if math.Abs(d) <= c.VolatilityNoise {
			continue
		}
		sign := 1
		if d < 0 {
			sign = -1
		}
		if prevSign != 0 && sign != prevSign {
			changes++
		}
		prevSign = sign
	}
	return changes > c.VolatilityCutoff
}

// uniformIndices picks PointCount indices evenly spaced across [0, n-1]
// with deterministic rounding.
func (c Config) uniformIndices(n int) []int {
	idx := make([]int, c.PointCount)
	step := float64(n-1) / float64(c.PointCount-1)
	for k := range idx {
		idx[k] = int(math.Round(float64(k) * step))
	}
	return idx
}

// peakValleyIndices keeps the first and last raw sample and fills the
// interior with local maxima and minima spread across the series. Strict
// local extrema alternate peak/valley by construction, so an evenly spaced
// walk over the extrema list preserves the alternation.
func (c Config) peakValleyIndices(series []float64) []int {
	n := len(series)
	interior := c.PointCount - 2

	chosen := make(map[int]struct{}, c.PointCount)
	chosen[0] = struct{}{}
	chosen[n-1] = struct{}{}

	extrema := localExtrema(series)
	switch {
	case len(extrema) <= interior:
		for _, i := range extrema {
			chosen[i] = struct{}{}
		}
	default:
		for j := 0; j < interior; j++ {
			pos := int(math.Round(float64(j) * float64(len(extrema)-1) / float64(interior-1)))
			chosen[extrema[pos]] = struct{}{}
		}
	}

	// Top up with uniform-stride indices if extrema selection collided or
	// the series had too few direction changes.
	for _, i := range c.uniformIndices(n) {
		if len(chosen) == c.PointCount {
			break
		}
		chosen[i] = struct{}{}
	}
	for i := 0; len(chosen) < c.PointCount && i < n; i++ {
		chosen[i] = struct{}{}
	}

	idx := make([]int, 0, len(chosen))
	for i := range chosen {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// localExtrema returns the interior indices where the series changes
// direction. Plateau samples (a zero difference on either side) are not
// extrema.
func localExtrema(series []float64) []int {
	var out []int
	for i := 1; i < len(series)-1; i++ {
		prev := series[i] - series[i-1]
		next := series[i+1] - series[i]
		if prev*next < 0 {
			out = append(out, i)
		}
	}
	return out
}
