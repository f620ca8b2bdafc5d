package chart

import (
	"fmt"
	"strings"
)

// Point is a downsampled representative sample positioned in chart space.
// Points are computed fresh per render call and never persisted.
type Point struct {
	X     float64
	Y     float64
	Value float64 // raw sample value on its original scale
	Zone  Zone
}

// Curve is the smoothed path through a chart's points.
type Curve struct {
	// Stroke is the open path following the points.
	Stroke string
	// Fill is Stroke plus a closing run down to the baseline and back to
	// the first point's x, forming a closed region for area shading.
	Fill string
}

// coord formats a coordinate with the engine's fixed one-decimal precision.
// The fixed precision is what makes curve output byte-reproducible; it is
// not cosmetic.
func coord(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Points positions a downsampled series in chart space: x spread evenly
// across the plot area, y from the canonical value, zone from the
// classifier. Values are clamped by Canonical and Classify with the same
// clamp, so a wild sample can color a point but never draw outside the plot.
func (c Config) Points(samples []float64, s Scale) []Point {
	pts := make([]Point, len(samples))
	span := c.PlotWidth()
	if len(samples) > 1 {
		span /= float64(len(samples) - 1)
	}
	for i, v := range samples {
		pts[i] = Point{
			X:     c.MarginLeft + float64(i)*span,
			Y:     c.YFor(v, s),
			Value: v,
			Zone:  c.Classify(v, s),
		}
	}
	return pts
}

// YFor maps a sample to its y coordinate (SVG y grows downward).
func (c Config) YFor(v float64, s Scale) float64 {
	return c.MarginTop + c.PlotHeight()*(1-c.Canonical(v, s)/100)
}

// BuildCurve converts chart points into a smooth cubic path.
//
// For each segment the control points sit at the tension fraction of the
// horizontal distance from each endpoint, with the vertical offset taken
// from the slope through the neighboring points. At the series boundaries
// the first and last points stand in as their own virtual neighbors, which
// flattens the curve's entry and exit.
func (c Config) BuildCurve(pts []Point) Curve {
	if len(pts) == 0 {
		return Curve{}
	}

	var b strings.Builder
	b.WriteString("M ")
	b.WriteString(coord(pts[0].X))
	b.WriteString(",")
	b.WriteString(coord(pts[0].Y))

	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[max(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[min(i+2, len(pts)-1)]

		dx := p2.X - p1.X
		c1x := p1.X + dx*c.Tension
		c1y := p1.Y + slope(p0, p2)*dx*c.Tension
		c2x := p2.X - dx*c.Tension
		c2y := p2.Y - slope(p1, p3)*dx*c.Tension

		fmt.Fprintf(&b, " C %s,%s %s,%s %s,%s",
			coord(c1x), coord(c1y), coord(c2x), coord(c2y), coord(p2.X), coord(p2.Y))
	}

	stroke := b.String()
	fill := fmt.Sprintf("%s L %s,%s L %s,%s Z",
		stroke,
		coord(pts[len(pts)-1].X), coord(c.BaselineY()),
		coord(pts[0].X), coord(c.BaselineY()))

	return Curve{Stroke: stroke, Fill: fill}
}

// slope is the tangent estimate through two neighboring points.
func slope(a, b Point) float64 {
	if b.X == a.X {
		return 0
	}
	return (b.Y - a.Y) / (b.X - a.X)
}
