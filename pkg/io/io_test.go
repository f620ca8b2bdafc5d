package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumenwell/capreport/pkg/chart"
	"github.com/lumenwell/capreport/pkg/errors"
	"github.com/lumenwell/capreport/pkg/report"
)

const validRequest = `{
  "variant": "team",
  "scale": "0-100",
  "protocol": "CAP-90 v2",
  "window": {"start": "2025-01-01", "end": "2025-03-31"},
  "subjects": [
    {"id": "s-01", "color": "#2f9e6b", "series": [72, 70.5, 68]},
    {"id": "s-02", "series": [40, 45, 50]}
  ]
}`

func TestReadJSON(t *testing.T) {
	in, err := ReadJSON(strings.NewReader(validRequest))
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}

	if in.Variant != report.VariantTeam {
		t.Errorf("Variant = %q, want team", in.Variant)
	}
	if in.Scale != chart.Scale0100 {
		t.Errorf("Scale = %q, want 0-100", in.Scale)
	}
	if in.Protocol != "CAP-90 v2" {
		t.Errorf("Protocol = %q", in.Protocol)
	}
	if got := in.WindowStart.Format("2006-01-02"); got != "2025-01-01" {
		t.Errorf("WindowStart = %s", got)
	}
	if len(in.Subjects) != 2 {
		t.Fatalf("len(Subjects) = %d, want 2", len(in.Subjects))
	}
	if in.Subjects[0].ColorToken != "#2f9e6b" {
		t.Errorf("ColorToken = %q", in.Subjects[0].ColorToken)
	}
	if len(in.Subjects[1].Series) != 3 {
		t.Errorf("Series length = %d, want 3", len(in.Subjects[1].Series))
	}
}

func TestReadJSONDefaults(t *testing.T) {
	in, err := ReadJSON(strings.NewReader(`{
  "protocol": "p",
  "window": {"start": "2025-01-01", "end": "2025-01-31"},
  "subjects": [{"id": "a", "series": [1, 2]}]
}`))
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	if in.Variant != report.VariantPersonal {
		t.Errorf("Variant = %q, want personal default", in.Variant)
	}
	if in.Scale != chart.Scale0100 {
		t.Errorf("Scale = %q, want 0-100 default", in.Scale)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed", `{`, errors.ErrCodeInvalidInput},
		{"unknown field", `{"protocol": "p", "window": {"start": "2025-01-01", "end": "2025-01-31"}, "subjects": [{"id": "a", "series": [1]}], "extra": 1}`, errors.ErrCodeInvalidInput},
		{"bad variant", `{"variant": "group", "protocol": "p", "window": {"start": "2025-01-01", "end": "2025-01-31"}, "subjects": [{"id": "a", "series": [1]}]}`, errors.ErrCodeInvalidVariant},
		{"bad scale", `{"scale": "percent", "protocol": "p", "window": {"start": "2025-01-01", "end": "2025-01-31"}, "subjects": [{"id": "a", "series": [1]}]}`, errors.ErrCodeInvalidScale},
		{"bad window date", `{"protocol": "p", "window": {"start": "January 1", "end": "2025-01-31"}, "subjects": [{"id": "a", "series": [1]}]}`, errors.ErrCodeInvalidInput},
		{"inverted window", `{"protocol": "p", "window": {"start": "2025-01-31", "end": "2025-01-01"}, "subjects": [{"id": "a", "series": [1]}]}`, errors.ErrCodeInvalidInput},
		{"no subjects", `{"protocol": "p", "window": {"start": "2025-01-01", "end": "2025-01-31"}, "subjects": []}`, errors.ErrCodeEmptyCohort},
		{"bad subject id", `{"protocol": "p", "window": {"start": "2025-01-01", "end": "2025-01-31"}, "subjects": [{"id": "../x", "series": [1]}]}`, errors.ErrCodeInvalidSubject},
		{"bad color", `{"protocol": "p", "window": {"start": "2025-01-01", "end": "2025-01-31"}, "subjects": [{"id": "a", "color": "teal", "series": [1]}]}`, errors.ErrCodeInvalidSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.body))
			if errors.GetCode(err) != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestImportJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "request.json")
	if err := os.WriteFile(path, []byte(validRequest), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON error: %v", err)
	}
	if len(in.Subjects) != 2 {
		t.Errorf("len(Subjects) = %d, want 2", len(in.Subjects))
	}

	_, err = ImportJSON(filepath.Join(dir, "missing.json"))
	if errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestWriteJSON(t *testing.T) {
	cfg := chart.DefaultConfig()
	subjects := []report.SubjectRecord{
		{ID: "hidden-identifier", ColorToken: "#2f9e6b", Series: []float64{80, 50, 20, 70, 40, 60, 30, 90}},
	}

	var buf bytes.Buffer
	if err := WriteJSON(cfg, subjects, chart.Scale0100, &buf); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	var out struct {
		Scale    string `json:"scale"`
		Subjects []struct {
			Color  string `json:"color"`
			Points []struct {
				X     float64 `json:"x"`
				Y     float64 `json:"y"`
				Value float64 `json:"value"`
				Band  string  `json:"band"`
			} `json:"points"`
		} `json:"subjects"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if out.Scale != "0-100" {
		t.Errorf("scale = %q", out.Scale)
	}
	if len(out.Subjects) != 1 {
		t.Fatalf("subjects = %d, want 1", len(out.Subjects))
	}
	if got := len(out.Subjects[0].Points); got != cfg.PointCount {
		t.Errorf("points = %d, want %d", got, cfg.PointCount)
	}
	for _, p := range out.Subjects[0].Points {
		switch p.Band {
		case "resourced", "stretched", "depleted":
		default:
			t.Errorf("unexpected band %q", p.Band)
		}
	}

	// Exports follow the same anonymization rules as rendered documents.
	if strings.Contains(buf.String(), "hidden-identifier") {
		t.Error("export leaks subject ID")
	}
}

func TestWriteJSONShortSeries(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSON(chart.DefaultConfig(), []report.SubjectRecord{{ID: "a", Series: []float64{1}}}, chart.Scale0100, &buf)
	if errors.GetCode(err) != errors.ErrCodeInsufficientData {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeInsufficientData)
	}
}
