package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenwell/capreport/pkg/archive"
	capio "github.com/lumenwell/capreport/pkg/io"
	"github.com/lumenwell/capreport/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output   string // output file (single format) or base path (multiple)
	variant  string // variant override: personal, team, cohort
	scale    string // scale override: 0-100, legacy
	formats  string // comma-separated output formats
	noCache  bool   // disable the artifact cache
	refresh  bool   // bypass cached artifacts and re-render
	doStore  bool   // archive the stamped artifact
	pngWidth int    // viewport width for png export
}

// newGenerateCmd creates the generate command for building report documents
// from JSON request files.
func newGenerateCmd(cfg Config) *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [request.json]",
		Short: "Build a report document from a request file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "override the request's variant: personal, team, cohort")
	cmd.Flags().StringVar(&opts.scale, "scale", "", "override the request's scale: 0-100, legacy")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): html (default), pdf, png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if a cached artifact exists")
	cmd.Flags().BoolVar(&opts.doStore, "archive", false, "store the stamped artifact in the configured archive")
	cmd.Flags().IntVar(&opts.pngWidth, "png-width", 0, "viewport width for png export")

	return cmd
}

func runGenerate(cmd *cobra.Command, requestPath string, cfg Config, opts *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	in, err := capio.ImportJSON(requestPath)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Variant:     string(in.Variant),
		Scale:       string(in.Scale),
		Protocol:    in.Protocol,
		WindowStart: in.WindowStart,
		WindowEnd:   in.WindowEnd,
		Subjects:    in.Subjects,
		Formats:     parseFormats(opts.formats, cfg),
		PNGWidth:    opts.pngWidth,
		Refresh:     opts.refresh,
		Logger:      logger,
	}
	if opts.variant != "" {
		popts.Variant = opts.variant
	}
	if opts.scale != "" {
		popts.Scale = opts.scale
	}
	if popts.PNGWidth == 0 {
		popts.PNGWidth = cfg.PNGWidth
	}

	runner, err := newRunner(ctx, cfg, opts.noCache, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result, popts.Formats, opts.output, requestPath)
	if err != nil {
		return err
	}

	if opts.doStore {
		if err := archiveResult(cmd, cfg, popts, result); err != nil {
			return err
		}
	}

	prog.done(fmt.Sprintf("Generated %s report", popts.Variant))
	printSuccess("Report generated")
	printStats(result.Stats.SubjectCount, result.Stats.PageCount, result.CacheInfo.DocumentHit)
	printDetail("Artifact: %s", result.Metadata.ArtifactID)
	printDetail("Integrity: sha256:%s", result.Metadata.IntegrityHash)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each rendered format to disk and returns the
// written paths. With one format, --output names the file directly; with
// several, it is a base path getting per-format extensions.
func writeArtifacts(result *pipeline.Result, formats []string, output, requestPath string) ([]string, error) {
	// Single format with an explicit extensioned output: use it verbatim.
	if output != "" && len(formats) == 1 && filepath.Ext(output) != "" {
		if err := os.WriteFile(output, result.Artifacts[formats[0]], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
		return []string{output}, nil
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(requestPath, filepath.Ext(requestPath)) + "-report"
	}

	var paths []string
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// archiveResult stores the stamped document in the configured archive.
func archiveResult(cmd *cobra.Command, cfg Config, popts pipeline.Options, result *pipeline.Result) error {
	ctx := cmd.Context()

	store, err := newArchive(ctx, cfg)
	if err != nil {
		return err
	}
	if store == nil {
		printInfo("Archiving skipped: no archive backend configured")
		return nil
	}
	defer store.Close(ctx)

	rec := archive.Record{
		ArtifactID:    result.Metadata.ArtifactID,
		Variant:       popts.Variant,
		Protocol:      popts.Protocol,
		Scale:         popts.Scale,
		GeneratedAt:   result.Metadata.GeneratedAt,
		IntegrityHash: result.Metadata.IntegrityHash,
		Format:        pipeline.FormatHTML,
		StoredAt:      time.Now().UTC(),
	}
	if err := store.Put(ctx, rec, []byte(result.Document)); err != nil {
		return err
	}
	printDetail("Archived: %s", rec.ArtifactID)
	return nil
}
