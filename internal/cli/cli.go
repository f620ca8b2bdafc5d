package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lumenwell/capreport/pkg/archive"
	"github.com/lumenwell/capreport/pkg/cache"
	"github.com/lumenwell/capreport/pkg/errors"
	"github.com/lumenwell/capreport/pkg/pipeline"
)

// newRunner creates a pipeline runner for CLI use.
func newRunner(ctx context.Context, cfg Config, noCache bool, logger *log.Logger) (*pipeline.Runner, error) {
	c, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c, nil, logger), nil
}

// newCache builds the cache backend selected by config. Backend failures
// for the file backend degrade to a null cache; redis failures are
// reported, since the user asked for a shared cache explicitly.
func newCache(ctx context.Context, cfg Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// newArchive builds the archive backend selected by config. Returns nil
// when archiving is disabled.
func newArchive(ctx context.Context, cfg Config) (archive.Store, error) {
	switch cfg.Archive.Backend {
	case "", "none":
		return nil, nil
	case "file":
		dir := cfg.Archive.Dir
		if dir == "" {
			cacheHome, err := cacheDir()
			if err != nil {
				return nil, err
			}
			dir = cacheHome + "-archive"
		}
		return archive.NewFileStore(dir)
	case "mongo":
		return archive.NewMongoStore(ctx, archive.MongoConfig{
			URI:      cfg.Archive.MongoURI,
			Database: cfg.Archive.MongoDatabase,
		})
	}
	return nil, errors.New(errors.ErrCodeInvalidInput,
		"unknown archive backend: %q (want file, mongo or none)", cfg.Archive.Backend)
}

// parseFormats parses a comma-separated format string into a slice.
// If empty, the config default applies.
func parseFormats(s string, cfg Config) []string {
	if s == "" {
		return cfg.Formats
	}
	return strings.Split(s, ",")
}
