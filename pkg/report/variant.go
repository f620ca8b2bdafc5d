package report

import (
	"github.com/lumenwell/capreport/pkg/chart"
	"github.com/lumenwell/capreport/pkg/errors"
)

// Variant selects which artifact the templater produces. The three
// historical generators collapsed into this one tagged value consumed by a
// single builder.
type Variant string

const (
	// VariantPersonal is the single-subject report.
	VariantPersonal Variant = "personal"

	// VariantTeam is the named-subjects group report.
	VariantTeam Variant = "team"

	// VariantCohort is the anonymized multi-subject bundle. No
	// subject-identifying text may appear in its output; subjects are
	// referenced only by color token and positional index.
	VariantCohort Variant = "cohort"
)

// ParseVariant converts a string (CLI flag, JSON input) to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case string(VariantPersonal), "":
		return VariantPersonal, nil
	case string(VariantTeam):
		return VariantTeam, nil
	case string(VariantCohort):
		return VariantCohort, nil
	}
	return "", errors.New(errors.ErrCodeInvalidVariant,
		"unknown variant: %q (want %q, %q or %q)", s, VariantPersonal, VariantTeam, VariantCohort)
}

// Valid reports whether the variant is one of the three known variants.
func (v Variant) Valid() bool {
	return v == VariantPersonal || v == VariantTeam || v == VariantCohort
}

// SubjectRecord is one subject's input to a document: an opaque identifier,
// a non-identifying color token used as the visual anchor in anonymized
// output, and the subject's measured series.
type SubjectRecord struct {
	ID         string
	ColorToken string
	Series     []float64
}

// Validate checks the record's identifier and color token.
func (r SubjectRecord) Validate() error {
	if err := errors.ValidateSubjectID(r.ID); err != nil {
		return err
	}
	if r.ColorToken != "" {
		if err := errors.ValidateColorToken(r.ColorToken); err != nil {
			return err
		}
	}
	return nil
}

// Current returns the subject's most recent sample.
func (r SubjectRecord) Current() float64 {
	if len(r.Series) == 0 {
		return 0
	}
	return r.Series[len(r.Series)-1]
}

// BandCounts tallies subjects per capacity band using each subject's
// current value. The counts use the same classifier constants as chart
// point coloring, so a summary badge can never disagree with the chart.
func BandCounts(cfg chart.Config, subjects []SubjectRecord, s chart.Scale) map[chart.Band]int {
	counts := make(map[chart.Band]int, 3)
	for _, subj := range subjects {
		counts[cfg.Classify(subj.Current(), s).Band]++
	}
	return counts
}

// AggregateSeries computes the cohort mean series on the canonical scale,
// truncated to the shortest subject series. The aggregate chart on the last
// page of team and cohort documents renders this series.
func AggregateSeries(cfg chart.Config, subjects []SubjectRecord, s chart.Scale) []float64 {
	if len(subjects) == 0 {
		return nil
	}
	n := len(subjects[0].Series)
	for _, subj := range subjects[1:] {
		if len(subj.Series) < n {
			n = len(subj.Series)
		}
	}

	agg := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for _, subj := range subjects {
			sum += cfg.Canonical(subj.Series[i], s)
		}
		agg[i] = sum / float64(len(subjects))
	}
	return agg
}
