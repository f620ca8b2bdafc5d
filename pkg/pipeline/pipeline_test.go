package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lumenwell/capreport/pkg/cache"
	"github.com/lumenwell/capreport/pkg/errors"
	"github.com/lumenwell/capreport/pkg/report"
)

func testOptions() Options {
	series := make([]float64, 12)
	for i := range series {
		series[i] = 40 + float64(i)*2
	}
	return Options{
		Variant:     "personal",
		Protocol:    "CAP-90 v2",
		WindowStart: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		Subjects:    []report.SubjectRecord{{ID: "s-01", Series: series}},
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := testOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}

	if opts.ReportVariant() != report.VariantPersonal {
		t.Errorf("variant = %q", opts.ReportVariant())
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatHTML {
		t.Errorf("Formats = %v, want [html]", opts.Formats)
	}
	if opts.PNGWidth != DefaultPNGWidth {
		t.Errorf("PNGWidth = %d, want %d", opts.PNGWidth, DefaultPNGWidth)
	}
	if opts.Config.Width == 0 {
		t.Error("Config not defaulted")
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		code   errors.Code
	}{
		{"bad variant", func(o *Options) { o.Variant = "group" }, errors.ErrCodeInvalidVariant},
		{"bad scale", func(o *Options) { o.Scale = "percent" }, errors.ErrCodeInvalidScale},
		{"no subjects", func(o *Options) { o.Subjects = nil }, errors.ErrCodeEmptyCohort},
		{"bad format", func(o *Options) { o.Formats = []string{"docx"} }, errors.ErrCodeInvalidFormat},
		{"bad subject", func(o *Options) { o.Subjects[0].ID = "../x" }, errors.ErrCodeInvalidSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			err := opts.ValidateAndSetDefaults()
			if errors.GetCode(err) != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestExecuteHTML(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if !strings.HasPrefix(result.Document, "<!DOCTYPE html>") {
		t.Error("document is not HTML")
	}
	if string(result.Artifacts[FormatHTML]) != result.Document {
		t.Error("html artifact does not match document")
	}
	if result.Stats.SubjectCount != 1 || result.Stats.PageCount != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if len(result.Metadata.IntegrityHash) != 64 {
		t.Errorf("IntegrityHash length = %d", len(result.Metadata.IntegrityHash))
	}
	if result.Metadata.ArtifactID == "" {
		t.Error("ArtifactID not assigned")
	}
	if result.InputHash == "" {
		t.Error("InputHash not computed")
	}
	if !strings.Contains(result.Document, result.Metadata.IntegrityHash) {
		t.Error("document does not embed its integrity hash")
	}
}

func TestExecuteJSONFormat(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	defer runner.Close()

	opts := testOptions()
	opts.Formats = []string{FormatJSON}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &out); err != nil {
		t.Fatalf("json artifact is not valid JSON: %v", err)
	}
}

func TestExecuteDocumentCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	opts := testOptions()

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if first.CacheInfo.DocumentHit {
		t.Error("first run hit the cache")
	}

	second, err := runner.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !second.CacheInfo.DocumentHit {
		t.Error("second run missed the cache")
	}
	if first.Document != second.Document {
		t.Error("cached document differs from original")
	}

	refreshed := testOptions()
	refreshed.Refresh = true
	third, err := runner.Execute(ctx, refreshed)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if third.CacheInfo.DocumentHit {
		t.Error("refresh run hit the cache")
	}

	// The refresh run must replace the cached artifact, not just bypass it.
	fourth, err := runner.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !fourth.CacheInfo.DocumentHit {
		t.Error("run after refresh missed the cache")
	}
	if fourth.Metadata.ArtifactID != third.Metadata.ArtifactID {
		t.Error("run after refresh served the pre-refresh artifact")
	}
}

func TestExecuteReproducible(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	defer runner.Close()

	ctx := context.Background()
	opts := testOptions()
	opts.GeneratedAt = "2025-03-31 12:00:00 UTC"
	opts.IntegrityHash = strings.Repeat("ef", 32)
	opts.ArtifactID = "11111111-2222-3333-4444-555555555555"

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if first.Document != second.Document {
		t.Error("identical inputs produced different documents")
	}
}

func TestInputHashSensitivity(t *testing.T) {
	base := testOptions()
	h1, err := inputHash(base)
	if err != nil {
		t.Fatal(err)
	}

	changed := testOptions()
	changed.Subjects[0].Series[0] += 0.5
	h2, err := inputHash(changed)
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("input hash insensitive to series change")
	}

	same := testOptions()
	h3, err := inputHash(same)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h3 {
		t.Error("input hash not deterministic")
	}
}
