package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lumenwell/capreport/pkg/cache"
	"github.com/lumenwell/capreport/pkg/errors"
	capio "github.com/lumenwell/capreport/pkg/io"
	"github.com/lumenwell/capreport/pkg/observability"
	"github.com/lumenwell/capreport/pkg/render"
	"github.com/lumenwell/capreport/pkg/report"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and preview server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	inputHash, err := inputHash(opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		InputHash: inputHash,
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	stamped, plan, buildHit, err := r.BuildWithCacheInfo(ctx, opts, inputHash)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "build")
	}
	result.Document = stamped.Document
	result.Metadata = stamped.Metadata
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.SubjectCount = len(opts.Subjects)
	result.Stats.PageCount = plan.PageCount
	result.CacheInfo.DocumentHit = buildHit

	opts.Logger.Info("built document",
		"variant", opts.Variant,
		"subjects", len(opts.Subjects),
		"pages", plan.PageCount,
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	// Stage 2: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, stamped, opts)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "export")
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	opts.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"cached", exportHit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// BuildWithCacheInfo stamps the document with caching and returns cache
// hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options, inputHash string) (report.Stamped, report.Plan, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return report.Stamped{}, report.Plan{}, false, err
	}
	r.applyLogger(&opts)

	plan, err := report.PlanPages(len(opts.Subjects))
	if err != nil {
		return report.Stamped{}, report.Plan{}, false, err
	}

	cacheKey := r.Keyer.DocumentKey(inputHash, opts.DocumentKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached report.Stamped
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "document")
				return cached, plan, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	doc := report.Document{
		Config:    opts.Config,
		Scale:     opts.ChartScale(),
		Variant:   opts.ReportVariant(),
		Subjects:  opts.Subjects,
		Narrative: opts.Narrative,
	}

	observability.Pipeline().OnComposeStart(ctx, opts.Variant, len(opts.Subjects))
	observability.Pipeline().OnDocumentStart(ctx, opts.Variant, plan.PageCount)
	start := time.Now()

	stamped, err := report.Stamp(doc.Build, opts.Metadata())

	observability.Pipeline().OnComposeComplete(ctx, opts.Variant, len(opts.Subjects), time.Since(start), err)
	observability.Pipeline().OnDocumentComplete(ctx, opts.Variant, len(stamped.Document), time.Since(start), err)
	if err != nil {
		return report.Stamped{}, report.Plan{}, false, err
	}

	// Always store, including on refresh: a refreshed run must replace the
	// cached artifact so later runs serve the rebuilt document.
	if data, err := json.Marshal(stamped); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument) == nil {
			observability.Cache().OnCacheSet(ctx, "document", len(data))
		}
	}

	return stamped, plan, false, nil
}

// ExportWithCacheInfo converts the stamped document to the requested
// formats with caching and returns cache hit info.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, stamped report.Stamped, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	docHash := cache.Hash([]byte(stamped.Document))

	// Try to get all converted formats from cache. HTML and JSON are cheap
	// derivations and never cached separately.
	artifacts := make(map[string][]byte)
	allCached := true
	for _, format := range opts.Formats {
		switch format {
		case FormatHTML:
			artifacts[format] = []byte(stamped.Document)
		case FormatPDF, FormatPNG:
			cacheKey := r.Keyer.ExportKey(docHash, format)
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "export")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "export")
				allCached = false
			}
		case FormatJSON:
			data, err := chartData(opts)
			if err != nil {
				return nil, false, err
			}
			artifacts[format] = data
		}
	}
	if allCached {
		return artifacts, cachedConversions(opts.Formats), nil
	}

	observability.Pipeline().OnExportStart(ctx, opts.Formats)
	start := time.Now()

	var exportErr error
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}

		var data []byte
		switch format {
		case FormatPDF:
			data, exportErr = render.ToPDF(ctx, stamped.Document)
		case FormatPNG:
			data, exportErr = render.ToPNG(ctx, stamped.Document, opts.PNGWidth)
		}
		if exportErr != nil {
			break
		}

		artifacts[format] = data
		cacheKey := r.Keyer.ExportKey(docHash, format)
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLExport) == nil {
			observability.Cache().OnCacheSet(ctx, "export", len(data))
		}
	}

	observability.Pipeline().OnExportComplete(ctx, opts.Formats, time.Since(start), exportErr)
	if exportErr != nil {
		return nil, false, exportErr
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// cachedConversions reports whether the format list contains any format
// that goes through the external converter. A run with no conversions has
// nothing to hit, so ExportHit stays false.
func cachedConversions(formats []string) bool {
	for _, f := range formats {
		if f == FormatPDF || f == FormatPNG {
			return true
		}
	}
	return false
}

// inputHash computes the content hash binding a run to its inputs: every
// field that affects document bytes participates.
func inputHash(opts Options) (string, error) {
	payload := struct {
		Variant     string                 `json:"variant"`
		Scale       string                 `json:"scale"`
		Protocol    string                 `json:"protocol"`
		WindowStart time.Time              `json:"window_start"`
		WindowEnd   time.Time              `json:"window_end"`
		Subjects    []report.SubjectRecord `json:"subjects"`
		Narrative   *report.Narrative      `json:"narrative,omitempty"`
		GeneratedAt string                 `json:"generated_at,omitempty"`
		Hash        string                 `json:"integrity_hash,omitempty"`
		ArtifactID  string                 `json:"artifact_id,omitempty"`
	}{
		Variant:     opts.Variant,
		Scale:       opts.Scale,
		Protocol:    opts.Protocol,
		WindowStart: opts.WindowStart,
		WindowEnd:   opts.WindowEnd,
		Subjects:    opts.Subjects,
		Narrative:   opts.Narrative,
		GeneratedAt: opts.GeneratedAt,
		Hash:        opts.IntegrityHash,
		ArtifactID:  opts.ArtifactID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash pipeline inputs")
	}
	return cache.Hash(data), nil
}

// chartData renders the JSON chart-data export for the run's subjects.
func chartData(opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := capio.WriteJSON(opts.Config, opts.Subjects, opts.ChartScale(), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
