package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/lumenwell/capreport/pkg/chart"
	"github.com/lumenwell/capreport/pkg/errors"
	"github.com/lumenwell/capreport/pkg/report"
)

type export struct {
	Scale    string          `json:"scale"`
	Subjects []exportSubject `json:"subjects"`
}

type exportSubject struct {
	Color  string        `json:"color,omitempty"`
	Points []exportPoint `json:"points"`
}

type exportPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
	Band  string  `json:"band"`
}

// WriteJSON exports the computed chart geometry for each subject: the
// downsampled points with their plot coordinates, raw values, and band
// classification. Subjects are identified by color token only, matching
// the anonymization rules of rendered documents.
func WriteJSON(cfg chart.Config, subjects []report.SubjectRecord, s chart.Scale, w io.Writer) error {
	out := export{Scale: string(s)}

	for _, subj := range subjects {
		samples, err := cfg.Downsample(subj.Series, s)
		if err != nil {
			return errors.Wrap(errors.GetCode(err), err, "subject chart data")
		}

		es := exportSubject{Color: subj.ColorToken}
		for _, p := range cfg.Points(samples, s) {
			es.Points = append(es.Points, exportPoint{
				X:     p.X,
				Y:     p.Y,
				Value: p.Value,
				Band:  p.Zone.Band.String(),
			})
		}
		out.Subjects = append(out.Subjects, es)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode chart data")
	}
	return nil
}

// ExportJSON writes chart data to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(cfg chart.Config, subjects []report.SubjectRecord, s chart.Scale, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(cfg, subjects, s, f)
}
