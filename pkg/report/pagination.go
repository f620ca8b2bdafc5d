package report

import (
	"github.com/lumenwell/capreport/pkg/errors"
)

// Fixed layout constants for multi-subject documents. These are visual
// contract values, not tunables.
const (
	ItemsPerRow = 5
	RowsPerPage = 2
	// ItemsPerPage is the per-page subject capacity.
	ItemsPerPage = ItemsPerRow * RowsPerPage
)

// Density selects card and font sizing for a whole document. A document is
// rendered entirely in one density; the mode is a pure function of whether
// pagination was required.
type Density string

const (
	DensityStandard Density = "standard"
	DensityCompact  Density = "compact"
)

// Plan describes how subjects are distributed across pages. It is derived
// purely from the subject count and the fixed layout constants, and never
// mutated after computation.
type Plan struct {
	PageCount    int
	ItemsPerPage int
	RowsPerPage  int
	ItemsPerRow  int

	// Pages holds the subject count placed on each page. Every page except
	// the last is fully packed.
	Pages []int

	// Density applies to the whole document.
	Density Density
}

// PlanPages computes the pagination plan for a subject count.
//
// The aggregate summary and legal footer always render once, on the last
// page only; the plan therefore never interleaves a summary page between
// subject pages.
func PlanPages(subjectCount int) (Plan, error) {
	if subjectCount <= 0 {
		return Plan{}, errors.New(errors.ErrCodeEmptyCohort,
			"cannot paginate %d subjects", subjectCount)
	}

	pageCount := (subjectCount + ItemsPerPage - 1) / ItemsPerPage

	pages := make([]int, pageCount)
	remaining := subjectCount
	for i := range pages {
		if remaining >= ItemsPerPage {
			pages[i] = ItemsPerPage
		} else {
			pages[i] = remaining
		}
		remaining -= pages[i]
	}

	density := DensityStandard
	if pageCount > 1 {
		density = DensityCompact
	}

	return Plan{
		PageCount:    pageCount,
		ItemsPerPage: ItemsPerPage,
		RowsPerPage:  RowsPerPage,
		ItemsPerRow:  ItemsPerRow,
		Pages:        pages,
		Density:      density,
	}, nil
}
