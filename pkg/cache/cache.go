// Package cache provides caching for rendered report artifacts.
//
// The engine itself is a pure transformation, so caching sits entirely
// outside the core: the pipeline Runner hashes its inputs, asks the cache
// for a previously rendered document, and stores fresh renders on a miss.
//
// Backends:
//   - file: on-disk cache for CLI usage
//   - redis: shared cache for multi-instance preview deployments
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present (a miss is not an error).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per artifact type. Documents and exports are derived purely
// from their inputs, so long TTLs are safe; eviction is about disk, not
// staleness.
const (
	TTLDocument = 7 * 24 * time.Hour
	TTLChart    = 7 * 24 * time.Hour
	TTLExport   = 24 * time.Hour
)

// DocumentKeyOpts captures every input that affects rendered document bytes.
// Two option sets with any differing field must produce different keys.
type DocumentKeyOpts struct {
	Variant  string // personal, team, cohort
	Scale    string // 0-100 or legacy
	Protocol string // protocol name embedded in the metadata block
	Dynamic  bool   // dynamic-data substitution mode
}

// ChartKeyOpts captures inputs that affect a single chart's markup.
type ChartKeyOpts struct {
	Scale    string
	IDPrefix string
	OmitDefs bool
}

// Keyer generates cache keys for the different artifact types.
// Implementations must be deterministic: the same inputs always produce
// the same key.
type Keyer interface {
	// DocumentKey generates a key for a fully stamped document.
	DocumentKey(inputHash string, opts DocumentKeyOpts) string

	// ChartKey generates a key for a single composed chart.
	ChartKey(seriesHash string, opts ChartKeyOpts) string

	// ExportKey generates a key for a converted artifact (pdf, png).
	ExportKey(documentHash, format string) string
}

// DefaultKeyer generates hash-based keys with type prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key for a fully stamped document.
func (k *DefaultKeyer) DocumentKey(inputHash string, opts DocumentKeyOpts) string {
	return hashKey("doc", inputHash, opts)
}

// ChartKey generates a key for a single composed chart.
func (k *DefaultKeyer) ChartKey(seriesHash string, opts ChartKeyOpts) string {
	return hashKey("chart", seriesHash, opts)
}

// ExportKey generates a key for a converted artifact.
func (k *DefaultKeyer) ExportKey(documentHash, format string) string {
	return hashKey("export", documentHash, format)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
