package report

import (
	"time"

	"github.com/lumenwell/capreport/pkg/chart"
)

// Frozen inputs for the reference artifact. Every value is a literal: the
// reference document must not depend on the clock, the host, or randomness.
var (
	referenceSeries = []float64{
		72.0, 70.5, 68.0, 71.5, 66.0, 63.5,
		61.0, 64.0, 58.5, 55.0, 57.5, 52.0,
		49.5, 53.0, 47.0, 44.5, 46.0, 42.5,
	}

	referenceMetadata = Metadata{
		GeneratedAt:   "2025-03-31 12:00:00 UTC",
		Protocol:      "CAP-90 v2",
		WindowStart:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:     time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		IntegrityHash: "4f1c7b9a2e6d8350c1a4b7e9d2f60384a5c8e1b4d7f0a3c6e9b2d5f8a1c4e7b0",
		ArtifactID:    "7d2f0c4a-9b1e-4e6d-8a3c-5f7b9d1e3a6c",
	}
)

// ReferenceChecksum is the recorded SHA-256 of the reference document.
// The same bytes are committed at testdata/reference.html; `capreport
// reference --check` verifies against this constant by default. A rendering
// change that moves this value is a breaking change to the artifact
// contract, not a routine constant bump.
const ReferenceChecksum = "4177504b6d10a0c45668dfb34cc2a3ea2e3e66fe5b8c4faf18b5c3671a194c03"

// Reference builds the frozen reference document. Two calls on any host at
// any time return byte-identical strings; drift against the recorded
// checksum is a defect in rendering logic.
func Reference() (string, error) {
	doc := Document{
		Config:  chart.DefaultConfig(),
		Scale:   chart.Scale0100,
		Variant: VariantPersonal,
		Subjects: []SubjectRecord{
			{ID: "reference-subject", Series: referenceSeries},
		},
	}

	stamped, err := Stamp(doc.Build, referenceMetadata)
	if err != nil {
		return "", err
	}
	return stamped.Document, nil
}
