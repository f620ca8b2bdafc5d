// Package pipeline provides the document-generation pipeline shared by the
// CLI and the preview server.
//
// The pipeline has three stages:
//
//  1. Build: compose charts, paginate, template, and stamp the document
//  2. Export: convert the stamped HTML to print formats (PDF, PNG)
//  3. Archive: optionally store the stamped artifact for retention
//
// Centralizing the stages in a Runner keeps caching and instrumentation
// identical across entry points.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Variant:  "personal",
//	    Scale:    "0-100",
//	    Protocol: "CAP-90 v2",
//	    Subjects: subjects,
//	    Formats:  []string{"html", "pdf"},
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	stdio "io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lumenwell/capreport/pkg/cache"
	"github.com/lumenwell/capreport/pkg/chart"
	"github.com/lumenwell/capreport/pkg/errors"
	"github.com/lumenwell/capreport/pkg/report"
)

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatPDF:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// DefaultPNGWidth is the viewport width for PNG export, matching the
// document's fixed page width.
const DefaultPNGWidth = 794

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for preview-server requests.
type Options struct {
	// Document options
	Variant     string                 `json:"variant"`
	Scale       string                 `json:"scale,omitempty"`
	Protocol    string                 `json:"protocol"`
	WindowStart time.Time              `json:"window_start"`
	WindowEnd   time.Time              `json:"window_end"`
	Subjects    []report.SubjectRecord `json:"subjects"`
	Narrative   *report.Narrative      `json:"narrative,omitempty"`

	// Metadata overrides. Empty fields are filled at stamp time; supplying
	// all three reproduces a prior artifact byte-for-byte.
	GeneratedAt   string `json:"generated_at,omitempty"`
	IntegrityHash string `json:"integrity_hash,omitempty"`
	ArtifactID    string `json:"artifact_id,omitempty"`

	// Export options
	Formats  []string `json:"formats,omitempty"`
	PNGWidth int      `json:"png_width,omitempty"`

	// Refresh bypasses the cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Config chart.Config `json:"-"`
	Logger *log.Logger  `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`

	variant report.Variant
	scale   chart.Scale
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the stamped HTML artifact.
	Document string

	// Metadata is the chain-of-custody block embedded in the document.
	Metadata report.Metadata

	// InputHash is the content hash of the pipeline inputs.
	InputHash string

	// Artifacts contains converted outputs keyed by format. The html format
	// maps to the bytes of Document.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SubjectCount int
	PageCount    int
	BuildTime    time.Duration
	ExportTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DocumentHit bool // Whether the stamped document came from cache
	ExportHit   bool // Whether all converted artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: html, pdf, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	variant, err := report.ParseVariant(o.Variant)
	if err != nil {
		return err
	}
	o.variant = variant

	scale, err := chart.ParseScale(o.Scale)
	if err != nil {
		return err
	}
	o.scale = scale

	if len(o.Subjects) == 0 {
		return errors.New(errors.ErrCodeEmptyCohort, "no subjects supplied")
	}
	for _, s := range o.Subjects {
		if err := s.Validate(); err != nil {
			return err
		}
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Config.Width == 0 {
		o.Config = chart.DefaultConfig()
	}
	if o.PNGWidth == 0 {
		o.PNGWidth = DefaultPNGWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(stdio.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// ReportVariant returns the parsed variant. Valid only after
// ValidateAndSetDefaults.
func (o *Options) ReportVariant() report.Variant { return o.variant }

// ChartScale returns the parsed scale. Valid only after
// ValidateAndSetDefaults.
func (o *Options) ChartScale() chart.Scale { return o.scale }

// Metadata assembles the stamping metadata from the options.
func (o *Options) Metadata() report.Metadata {
	return report.Metadata{
		GeneratedAt:   o.GeneratedAt,
		Protocol:      o.Protocol,
		WindowStart:   o.WindowStart,
		WindowEnd:     o.WindowEnd,
		IntegrityHash: o.IntegrityHash,
		ArtifactID:    o.ArtifactID,
	}
}

// DocumentKeyOpts returns cache key options for the build stage.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Variant:  string(o.variant),
		Scale:    string(o.scale),
		Protocol: o.Protocol,
		Dynamic:  o.Narrative != nil,
	}
}
