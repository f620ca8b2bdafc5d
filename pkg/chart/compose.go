package chart

import (
	"bytes"
	"fmt"
	"time"
)

// Options control per-call chart composition. The zero value renders a
// standalone chart with its own gradient definitions.
type Options struct {
	// IDPrefix namespaces gradient IDs so multiple charts can share one
	// document without duplicate-ID collisions.
	IDPrefix string

	// OmitDefs suppresses the <defs> block. Used when a document has
	// already emitted shared definitions under the same prefix.
	OmitDefs bool

	// WindowStart and WindowEnd bound the observation window. The three
	// month tick labels are derived from WindowStart.
	WindowStart time.Time
	WindowEnd   time.Time
}

// Option mutates composition options.
type Option func(*Options)

// WithIDPrefix namespaces gradient definition IDs.
func WithIDPrefix(prefix string) Option {
	return func(o *Options) { o.IDPrefix = prefix }
}

// WithOmitDefs suppresses gradient definitions for this chart.
func WithOmitDefs() Option {
	return func(o *Options) { o.OmitDefs = true }
}

// WithWindow sets the observation window used for axis labels.
func WithWindow(start, end time.Time) Option {
	return func(o *Options) {
		o.WindowStart = start
		o.WindowEnd = end
	}
}

// Compose assembles the full SVG chart for one capacity series.
//
// Element order is fixed and part of the reproducibility contract: zone
// bands, dashed dividers, axis borders, band legend, area fill, shadow
// stroke, main stroke, point markers, month labels.
func (c Config) Compose(series []float64, s Scale, opts ...Option) (string, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	samples, err := c.Downsample(series, s)
	if err != nil {
		return "", err
	}
	pts := c.Points(samples, s)
	curve := c.BuildCurve(pts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		coord(c.Width), coord(c.Height), c.Width, c.Height)

	if !o.OmitDefs {
		c.RenderDefs(&buf, o.IDPrefix)
	}

	c.renderBands(&buf, s)
	c.renderDividers(&buf, s)
	c.renderAxes(&buf)
	c.renderLegend(&buf, s)

	fmt.Fprintf(&buf, `  <path d="%s" fill="url(#%sfill)" stroke="none"/>`+"\n", curve.Fill, o.IDPrefix)
	fmt.Fprintf(&buf, `  <path d="%s" fill="none" stroke="#1f2933" stroke-opacity="0.25" stroke-width="4.5" stroke-linecap="round"/>`+"\n", curve.Stroke)
	fmt.Fprintf(&buf, `  <path d="%s" fill="none" stroke="url(#%sstroke)" stroke-width="2.5" stroke-linecap="round"/>`+"\n", curve.Stroke, o.IDPrefix)

	c.renderMarkers(&buf, pts)
	c.renderMonthLabels(&buf, o.WindowStart)

	buf.WriteString("</svg>\n")
	return buf.String(), nil
}

// RenderDefs writes the shared gradient definitions under the given ID
// prefix. Documents composing several charts call this once and pass
// WithOmitDefs to each chart.
func (c Config) RenderDefs(buf *bytes.Buffer, prefix string) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <linearGradient id="%sstroke" x1="0" y1="0" x2="0" y2="1">`+"\n", prefix)
	fmt.Fprintf(buf, `      <stop offset="0%%" stop-color="%s"/>`+"\n", c.Palette.Resourced)
	fmt.Fprintf(buf, `      <stop offset="50%%" stop-color="%s"/>`+"\n", c.Palette.Stretched)
	fmt.Fprintf(buf, `      <stop offset="100%%" stop-color="%s"/>`+"\n", c.Palette.Depleted)
	buf.WriteString("    </linearGradient>\n")
	fmt.Fprintf(buf, `    <linearGradient id="%sfill" x1="0" y1="0" x2="0" y2="1">`+"\n", prefix)
	fmt.Fprintf(buf, `      <stop offset="0%%" stop-color="%s" stop-opacity="0.35"/>`+"\n", c.Palette.Resourced)
	fmt.Fprintf(buf, `      <stop offset="50%%" stop-color="%s" stop-opacity="0.25"/>`+"\n", c.Palette.Stretched)
	fmt.Fprintf(buf, `      <stop offset="100%%" stop-color="%s" stop-opacity="0.15"/>`+"\n", c.Palette.Depleted)
	buf.WriteString("    </linearGradient>\n")
	buf.WriteString("  </defs>\n")
}

// bandEdges returns the canonical y coordinates separating the bands:
// top of plot, resourced lower bound, stretched lower bound, baseline.
func (c Config) bandEdges(s Scale) (top, resourced, stretched, bottom float64) {
	spec := c.Spec(s)
	top = c.MarginTop
	resourced = c.MarginTop + c.PlotHeight()*(1-c.Canonical(spec.Resourced, s)/100)
	stretched = c.MarginTop + c.PlotHeight()*(1-c.Canonical(spec.Stretched, s)/100)
	bottom = c.BaselineY()
	return
}

func (c Config) renderBands(buf *bytes.Buffer, s Scale) {
	top, res, str, bottom := c.bandEdges(s)
	x := c.MarginLeft
	w := c.PlotWidth()

	band := func(y0, y1 float64, color string) {
		fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%.2f"/>`+"\n",
			coord(x), coord(y0), coord(w), coord(y1-y0), color, c.BandOpacity)
	}
	band(top, res, c.Palette.Resourced)
	band(res, str, c.Palette.Stretched)
	band(str, bottom, c.Palette.Depleted)
}

func (c Config) renderDividers(buf *bytes.Buffer, s Scale) {
	_, res, str, _ := c.bandEdges(s)
	x0, x1 := c.MarginLeft, c.MarginLeft+c.PlotWidth()

	divider := func(y float64) {
		fmt.Fprintf(buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#9aa5b1" stroke-width="1" stroke-dasharray="4 3"/>`+"\n",
			coord(x0), coord(y), coord(x1), coord(y))
	}
	divider(res)
	divider(str)
}

func (c Config) renderAxes(buf *bytes.Buffer) {
	x0, y0 := c.MarginLeft, c.MarginTop
	x1, y1 := c.MarginLeft+c.PlotWidth(), c.BaselineY()

	fmt.Fprintf(buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#52606d" stroke-width="1"/>`+"\n",
		coord(x0), coord(y0), coord(x0), coord(y1))
	fmt.Fprintf(buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#52606d" stroke-width="1"/>`+"\n",
		coord(x0), coord(y1), coord(x1), coord(y1))
}

func (c Config) renderLegend(buf *bytes.Buffer, s Scale) {
	top, res, str, bottom := c.bandEdges(s)
	x := c.MarginLeft - 22

	entry := func(yCenter float64, b Band) {
		fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="3" fill="%s"/>`+"\n",
			coord(x), coord(yCenter), c.Palette.Color(b))
		fmt.Fprintf(buf, `  <text x="%s" y="%s" font-family="Helvetica, Arial, sans-serif" font-size="8" fill="#52606d">%s</text>`+"\n",
			coord(x+6), coord(yCenter+2.5), b.Letter())
	}
	entry((top+res)/2, BandResourced)
	entry((res+str)/2, BandStretched)
	entry((str+bottom)/2, BandDepleted)
}

func (c Config) renderMarkers(buf *bytes.Buffer, pts []Point) {
	for _, p := range pts {
		fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="5" fill="#1f2933"/>`+"\n", coord(p.X), coord(p.Y))
		fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="3.5" fill="%s"/>`+"\n", coord(p.X), coord(p.Y), p.Zone.Color)
		fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="1.2" fill="#ffffff"/>`+"\n", coord(p.X-1), coord(p.Y-1))
	}
}

// renderMonthLabels writes the three month ticks for the observation
// window, evenly spaced along the baseline. Labels are anchored to the
// first of the start month so a window opening on the 29th-31st cannot
// normalize past a short month and skip it.
func (c Config) renderMonthLabels(buf *bytes.Buffer, start time.Time) {
	y := c.BaselineY() + 16
	for i := 0; i < 3; i++ {
		x := c.MarginLeft + c.PlotWidth()*(float64(i)+0.5)/3
		label := time.Date(start.Year(), start.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC).Format("Jan")
		fmt.Fprintf(buf, `  <text x="%s" y="%s" font-family="Helvetica, Arial, sans-serif" font-size="9" fill="#52606d" text-anchor="middle">%s</text>`+"\n",
			coord(x), coord(y), label)
	}
}
