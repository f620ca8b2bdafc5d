package report

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/lumenwell/capreport/pkg/chart"
	"github.com/lumenwell/capreport/pkg/errors"
)

// gradientPrefix namespaces the shared gradient definitions emitted once
// per document. Charts are composed with the same prefix and their own
// defs suppressed, so a multi-chart document never carries duplicate IDs.
const gradientPrefix = "g-"

// docCSS is the document's complete inline stylesheet. The stylesheet is a
// fixed string: density is selected by a body class, never by editing the
// CSS, so markup stays byte-stable. print-color-adjust keeps the zone band
// colors exact when the external converter prints the document.
const docCSS = `
  * { margin: 0; padding: 0; box-sizing: border-box; print-color-adjust: exact; -webkit-print-color-adjust: exact; }
  body { font-family: Helvetica, Arial, sans-serif; color: #1f2933; background: #ffffff; }
  .page { width: 794px; min-height: 1123px; padding: 48px 56px; page-break-after: always; }
  .page:last-child { page-break-after: auto; }
  h1 { font-size: 22px; margin-bottom: 4px; }
  .subtitle { font-size: 12px; color: #52606d; margin-bottom: 18px; }
  table.meta { border-collapse: collapse; margin-bottom: 22px; font-size: 11px; }
  table.meta th { text-align: left; padding: 3px 14px 3px 0; color: #52606d; font-weight: normal; }
  table.meta td { padding: 3px 0; }
  td.hash { font-family: "Courier New", monospace; font-size: 10px; }
  .badges { font-size: 12px; margin-bottom: 18px; }
  .badges b { font-weight: bold; }
  .grid { display: grid; grid-template-columns: repeat(5, 1fr); gap: 14px; margin-bottom: 22px; }
  .card { border: 1px solid #e4e7eb; border-radius: 4px; padding: 8px; }
  .card svg { width: 100%; height: auto; }
  .card .label { font-size: 10px; margin-bottom: 4px; color: #323f4b; }
  .swatch { display: inline-block; width: 8px; height: 8px; border-radius: 2px; margin-right: 4px; }
  .single { margin-bottom: 22px; }
  .single svg { width: 100%; height: auto; }
  .aggregate { margin-bottom: 22px; }
  .aggregate h2, .narrative h2 { font-size: 14px; margin-bottom: 8px; }
  .narrative p { font-size: 11px; line-height: 1.5; margin-bottom: 10px; }
  .legal { font-size: 9px; color: #52606d; line-height: 1.5; border-top: 1px solid #e4e7eb; padding-top: 10px; }
  body.density-compact .card { padding: 5px; }
  body.density-compact .card .label { font-size: 8px; }
  body.density-compact h1 { font-size: 18px; }
`

// Document describes one artifact to build. The zero value is not usable:
// Config, Scale, Variant and Subjects are required.
type Document struct {
	Config   chart.Config
	Scale    chart.Scale
	Variant  Variant
	Subjects []SubjectRecord

	// Narrative switches the document into dynamic-data substitution mode.
	// When nil, the variant's frozen copy renders instead. The two are
	// never mixed within one document.
	Narrative *Narrative
}

// Build renders the complete document under the given metadata. The output
// is a pure function of the Document value and the metadata: building twice
// yields byte-identical strings.
func (d Document) Build(meta Metadata) (string, error) {
	if !d.Variant.Valid() {
		return "", errors.New(errors.ErrCodeInvalidVariant, "unknown variant: %q", d.Variant)
	}
	if !d.Scale.Valid() {
		return "", errors.New(errors.ErrCodeInvalidScale, "unknown scale: %q", d.Scale)
	}
	if len(d.Subjects) == 0 {
		return "", errors.New(errors.ErrCodeEmptyCohort, "document has no subjects")
	}
	if d.Variant == VariantPersonal && len(d.Subjects) != 1 {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"personal variant requires exactly 1 subject, got %d", len(d.Subjects))
	}
	for _, subj := range d.Subjects {
		if err := subj.Validate(); err != nil {
			return "", err
		}
	}

	plan, err := PlanPages(len(d.Subjects))
	if err != nil {
		return "", err
	}

	charts, err := d.composeCharts(meta)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\"/>\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", d.title())
	fmt.Fprintf(&buf, "<style>%s</style>\n", docCSS)
	buf.WriteString("</head>\n")
	fmt.Fprintf(&buf, "<body class=\"density-%s\">\n", plan.Density)

	d.renderSharedDefs(&buf)

	offset := 0
	for page, count := range plan.Pages {
		buf.WriteString("<section class=\"page\">\n")
		if page == 0 {
			d.renderHeader(&buf, meta)
		}
		d.renderSubjects(&buf, charts, offset, count)
		if page == plan.PageCount-1 {
			d.renderLastPageSections(&buf, charts)
		}
		buf.WriteString("</section>\n")
		offset += count
	}

	buf.WriteString("</body>\n</html>\n")
	return buf.String(), nil
}

// composedCharts carries every chart a document needs, rendered up front so
// pagination only slices.
type composedCharts struct {
	subjects  []string
	aggregate string
}

func (d Document) composeCharts(meta Metadata) (composedCharts, error) {
	opts := []chart.Option{
		chart.WithIDPrefix(gradientPrefix),
		chart.WithOmitDefs(),
		chart.WithWindow(meta.WindowStart, meta.WindowEnd),
	}

	var out composedCharts
	for _, subj := range d.Subjects {
		svg, err := d.Config.Compose(subj.Series, d.Scale, opts...)
		if err != nil {
			return composedCharts{}, errors.Wrap(errors.GetCode(err), err, "subject chart")
		}
		out.subjects = append(out.subjects, svg)
	}

	if d.Variant != VariantPersonal {
		agg := AggregateSeries(d.Config, d.Subjects, d.Scale)
		svg, err := d.Config.Compose(agg, chart.Scale0100, opts...)
		if err != nil {
			return composedCharts{}, errors.Wrap(errors.GetCode(err), err, "aggregate chart")
		}
		out.aggregate = svg
	}
	return out, nil
}

func (d Document) title() string {
	switch d.Variant {
	case VariantTeam:
		return "Team Capacity Report"
	case VariantCohort:
		return "Cohort Capacity Bundle"
	default:
		return "Capacity Report"
	}
}

// renderSharedDefs emits the gradient definitions once, in a zero-size SVG
// block every chart in the document references.
func (d Document) renderSharedDefs(buf *bytes.Buffer) {
	buf.WriteString(`<svg width="0" height="0" aria-hidden="true">` + "\n")
	d.Config.RenderDefs(buf, gradientPrefix)
	buf.WriteString("</svg>\n")
}

// renderHeader writes the title and the chain-of-custody metadata block.
// Field order is fixed.
func (d Document) renderHeader(buf *bytes.Buffer, meta Metadata) {
	fmt.Fprintf(buf, "<h1>%s</h1>\n", d.title())
	fmt.Fprintf(buf, "<p class=\"subtitle\">Protocol %s</p>\n", escape(meta.Protocol))

	buf.WriteString("<table class=\"meta\">\n")
	row := func(label, value string) {
		fmt.Fprintf(buf, "<tr><th>%s</th><td>%s</td></tr>\n", label, value)
	}
	row("Generated", escape(meta.GeneratedAt))
	row("Protocol", escape(meta.Protocol))
	row("Observation window", fmt.Sprintf("%s to %s",
		meta.WindowStart.Format("2006-01-02"), meta.WindowEnd.Format("2006-01-02")))
	row("Status", "Immutable snapshot")
	fmt.Fprintf(buf, "<tr><th>Integrity</th><td class=\"hash\">sha256:%s</td></tr>\n", escape(meta.IntegrityHash))
	row("Artifact", escape(meta.ArtifactID))
	buf.WriteString("</table>\n")

	if d.Variant != VariantPersonal {
		counts := BandCounts(d.Config, d.Subjects, d.Scale)
		fmt.Fprintf(buf, "<p class=\"badges\"><b>R</b> %d &#183; <b>S</b> %d &#183; <b>D</b> %d</p>\n",
			counts[chart.BandResourced], counts[chart.BandStretched], counts[chart.BandDepleted])
	}
}

// renderSubjects writes the subject cards for one page slice.
func (d Document) renderSubjects(buf *bytes.Buffer, charts composedCharts, offset, count int) {
	if d.Variant == VariantPersonal {
		fmt.Fprintf(buf, "<div class=\"single\">\n%s</div>\n", charts.subjects[0])
		return
	}

	buf.WriteString("<div class=\"grid\">\n")
	for i := offset; i < offset+count; i++ {
		buf.WriteString("<div class=\"card\">\n")
		d.renderCardLabel(buf, i)
		buf.WriteString(charts.subjects[i])
		buf.WriteString("</div>\n")
	}
	buf.WriteString("</div>\n")
}

// renderCardLabel writes a subject card's label line. Team documents name
// the subject; cohort documents emit only the color token and a positional
// index, never identifying text.
func (d Document) renderCardLabel(buf *bytes.Buffer, i int) {
	subj := d.Subjects[i]
	swatch := ""
	if subj.ColorToken != "" {
		swatch = fmt.Sprintf(`<span class="swatch" style="background:%s"></span>`, subj.ColorToken)
	}

	if d.Variant == VariantCohort {
		fmt.Fprintf(buf, "<p class=\"label\">%sParticipant %02d</p>\n", swatch, i+1)
		return
	}
	fmt.Fprintf(buf, "<p class=\"label\">%s%s</p>\n", swatch, escape(subj.ID))
}

// renderLastPageSections writes the aggregate chart (team/cohort), the
// narrative, and the legal footer. These render exactly once, on the last
// page only.
func (d Document) renderLastPageSections(buf *bytes.Buffer, charts composedCharts) {
	if charts.aggregate != "" {
		buf.WriteString("<div class=\"aggregate\">\n<h2>Aggregate</h2>\n")
		buf.WriteString(charts.aggregate)
		buf.WriteString("</div>\n")
	}

	n := narrativeFor(d.Variant, d.Narrative)
	buf.WriteString("<div class=\"narrative\">\n")
	fmt.Fprintf(buf, "<h2>%s</h2>\n", escape(n.Severity))
	fmt.Fprintf(buf, "<p>%s</p>\n", escape(n.Summary))
	fmt.Fprintf(buf, "<p>%s</p>\n", escape(n.Trend))
	buf.WriteString("</div>\n")

	fmt.Fprintf(buf, "<p class=\"legal\">%s</p>\n", legalFooter)
}

// escape makes a string safe for embedding in markup.
func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
