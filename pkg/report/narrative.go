package report

// Narrative carries caller-computed narrative fields for dynamic-data
// substitution. When a Narrative is supplied, every templated narrative
// field in the document is sourced from it exclusively; the frozen copy
// below is never mixed in.
type Narrative struct {
	Summary  string // observation-window summary paragraph
	Severity string // severity descriptor embedded in the summary heading
	Trend    string // trend descriptor for the closing sentence
}

// Frozen narrative copy per variant. The wording is part of the rendered
// artifact and therefore part of the reproducibility contract; edit with
// the same care as a layout constant.
var frozenNarratives = map[Variant]Narrative{
	VariantPersonal: {
		Summary: "This report reflects your measured capacity across the full " +
			"observation window. Day-to-day variation is expected; the curve is " +
			"drawn through representative measured values, not a statistical average.",
		Severity: "observation summary",
		Trend:    "Review the banded chart above with your practitioner.",
	},
	VariantTeam: {
		Summary: "This report reflects the measured capacity of each named " +
			"participant across the shared observation window. Individual charts " +
			"are drawn through representative measured values, not averages.",
		Severity: "group observation summary",
		Trend:    "The aggregate curve summarizes the group as a whole.",
	},
	VariantCohort: {
		Summary: "This bundle reflects the measured capacity of an anonymized " +
			"cohort across the shared observation window. Participants are " +
			"referenced by color token only; no identifying information is " +
			"embedded in this artifact.",
		Severity: "cohort observation summary",
		Trend:    "The aggregate curve summarizes the cohort as a whole.",
	},
}

// legalFooter is the fixed legal/disclaimer block rendered once, on the
// last page of every document.
const legalFooter = "This document is a generated snapshot of measured data. " +
	"It is not a diagnosis and is not a substitute for the judgment of a " +
	"qualified practitioner. The integrity hash above binds this rendering " +
	"to its inputs; any modification after generation invalidates the hash. " +
	"Retain with the subject's records for the applicable retention period."

// narrativeFor resolves the narrative for a document: the caller-supplied
// dynamic data when present, otherwise the variant's frozen copy.
func narrativeFor(v Variant, dynamic *Narrative) Narrative {
	if dynamic != nil {
		return *dynamic
	}
	return frozenNarratives[v]
}
