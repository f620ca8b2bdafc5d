package io

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/lumenwell/capreport/pkg/chart"
	"github.com/lumenwell/capreport/pkg/errors"
	"github.com/lumenwell/capreport/pkg/report"
)

// windowDateFormat is the date form accepted in request windows.
const windowDateFormat = "2006-01-02"

// Input is a decoded and validated document request.
type Input struct {
	Variant     report.Variant
	Scale       chart.Scale
	Protocol    string
	WindowStart time.Time
	WindowEnd   time.Time
	Subjects    []report.SubjectRecord
}

type request struct {
	Variant  string        `json:"variant,omitempty"`
	Scale    string        `json:"scale,omitempty"`
	Protocol string        `json:"protocol"`
	Window   window        `json:"window"`
	Subjects []subjectJSON `json:"subjects"`
}

type window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type subjectJSON struct {
	ID     string    `json:"id"`
	Color  string    `json:"color,omitempty"`
	Series []float64 `json:"series"`
}

// ReadJSON decodes a document request from r.
//
// ReadJSON validates everything it decodes: variant and scale names, window
// dates and ordering, and every subject record. The returned Input is
// independent of r; ReadJSON does not close r.
func ReadJSON(r io.Reader) (Input, error) {
	var req request
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}

	variant, err := report.ParseVariant(req.Variant)
	if err != nil {
		return Input{}, err
	}
	scale, err := chart.ParseScale(req.Scale)
	if err != nil {
		return Input{}, err
	}

	start, err := time.Parse(windowDateFormat, req.Window.Start)
	if err != nil {
		return Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "window start %q", req.Window.Start)
	}
	end, err := time.Parse(windowDateFormat, req.Window.End)
	if err != nil {
		return Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "window end %q", req.Window.End)
	}
	if end.Before(start) {
		return Input{}, errors.New(errors.ErrCodeInvalidInput,
			"window end %s precedes start %s", req.Window.End, req.Window.Start)
	}

	if len(req.Subjects) == 0 {
		return Input{}, errors.New(errors.ErrCodeEmptyCohort, "request has no subjects")
	}

	in := Input{
		Variant:     variant,
		Scale:       scale,
		Protocol:    req.Protocol,
		WindowStart: start,
		WindowEnd:   end,
	}
	for _, s := range req.Subjects {
		rec := report.SubjectRecord{ID: s.ID, ColorToken: s.Color, Series: s.Series}
		if err := rec.Validate(); err != nil {
			return Input{}, errors.Wrap(errors.GetCode(err), err, "subject %q", s.ID)
		}
		in.Subjects = append(in.Subjects, rec)
	}

	return in, nil
}

// ImportJSON reads a document request from the file at path.
func ImportJSON(path string) (Input, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Input{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
