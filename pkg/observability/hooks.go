// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution, cache operations, and document
// export.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core engine dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnComposeStart(ctx, variant, subjectCount)
//	// ... compose charts ...
//	observability.Pipeline().OnComposeComplete(ctx, variant, chartCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the document-generation pipeline.
type PipelineHooks interface {
	// Compose events (downsample + classify + chart markup)
	OnComposeStart(ctx context.Context, variant string, subjectCount int)
	OnComposeComplete(ctx context.Context, variant string, chartCount int, duration time.Duration, err error)

	// Document events (templating + pagination + stamping)
	OnDocumentStart(ctx context.Context, variant string, pageCount int)
	OnDocumentComplete(ctx context.Context, variant string, bytes int, duration time.Duration, err error)

	// Export events (external converter boundary)
	OnExportStart(ctx context.Context, formats []string)
	OnExportComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Archive Hooks
// =============================================================================

// ArchiveHooks receives events from artifact-archive operations.
type ArchiveHooks interface {
	// OnArchivePut records a stored artifact.
	OnArchivePut(ctx context.Context, backend, artifactID string, size int)

	// OnArchiveError records a failed archive operation.
	OnArchiveError(ctx context.Context, backend string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnComposeStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnComposeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnDocumentStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnDocumentComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnExportStart(context.Context, []string)                               {}
func (NoopPipelineHooks) OnExportComplete(context.Context, []string, time.Duration, error)      {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopArchiveHooks is a no-op implementation of ArchiveHooks.
type NoopArchiveHooks struct{}

func (NoopArchiveHooks) OnArchivePut(context.Context, string, string, int) {}
func (NoopArchiveHooks) OnArchiveError(context.Context, string, error)     {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	archiveHooks  ArchiveHooks  = NoopArchiveHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetArchiveHooks registers custom archive hooks.
// This should be called once at application startup before any archive operations.
func SetArchiveHooks(h ArchiveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		archiveHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Archive returns the registered archive hooks.
func Archive() ArchiveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return archiveHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	archiveHooks = NoopArchiveHooks{}
}
