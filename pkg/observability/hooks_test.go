package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	composeStarts int
	exportDone    int
}

func (h *recordingPipelineHooks) OnComposeStart(ctx context.Context, variant string, n int) {
	h.composeStarts++
}

func (h *recordingPipelineHooks) OnExportComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	h.exportDone++
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits, misses int
}

func (h *recordingCacheHooks) OnCacheHit(ctx context.Context, keyType string)  { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(ctx context.Context, keyType string) { h.misses++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	// Must not panic.
	ctx := context.Background()
	Pipeline().OnComposeStart(ctx, "cohort", 20)
	Pipeline().OnDocumentComplete(ctx, "cohort", 1024, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "document")
	Archive().OnArchivePut(ctx, "file", "abc", 10)
}

func TestSetAndGetHooks(t *testing.T) {
	defer Reset()

	ph := &recordingPipelineHooks{}
	ch := &recordingCacheHooks{}
	SetPipelineHooks(ph)
	SetCacheHooks(ch)

	ctx := context.Background()
	Pipeline().OnComposeStart(ctx, "personal", 1)
	Pipeline().OnComposeStart(ctx, "team", 3)
	Pipeline().OnExportComplete(ctx, []string{"pdf"}, time.Second, nil)
	Cache().OnCacheHit(ctx, "document")
	Cache().OnCacheMiss(ctx, "document")
	Cache().OnCacheMiss(ctx, "chart")

	if ph.composeStarts != 2 {
		t.Errorf("composeStarts = %d, want 2", ph.composeStarts)
	}
	if ph.exportDone != 1 {
		t.Errorf("exportDone = %d, want 1", ph.exportDone)
	}
	if ch.hits != 1 || ch.misses != 2 {
		t.Errorf("hits/misses = %d/%d, want 1/2", ch.hits, ch.misses)
	}
}

func TestSetNilKeepsExisting(t *testing.T) {
	defer Reset()

	ph := &recordingPipelineHooks{}
	SetPipelineHooks(ph)
	SetPipelineHooks(nil)

	Pipeline().OnComposeStart(context.Background(), "personal", 1)
	if ph.composeStarts != 1 {
		t.Errorf("nil registration should keep the previous hooks, composeStarts = %d", ph.composeStarts)
	}
}

func TestReset(t *testing.T) {
	ph := &recordingPipelineHooks{}
	SetPipelineHooks(ph)
	Reset()

	Pipeline().OnComposeStart(context.Background(), "personal", 1)
	if ph.composeStarts != 0 {
		t.Errorf("after Reset, custom hooks should not receive events")
	}
}
