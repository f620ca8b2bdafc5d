package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before set
	_, hit, err := c.Get(ctx, "doc:abc")
	if err != nil || hit {
		t.Fatalf("expected clean miss, hit=%v err=%v", hit, err)
	}

	// Round-trip
	want := []byte("<html>report</html>")
	if err := c.Set(ctx, "doc:abc", want, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, hit, err := c.Get(ctx, "doc:abc")
	if err != nil || !hit {
		t.Fatalf("expected hit, hit=%v err=%v", hit, err)
	}
	if string(got) != string(want) {
		t.Errorf("Get = %q, want %q", got, want)
	}

	// Expired entries are treated as misses
	if err := c.Set(ctx, "doc:ttl", want, -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "doc:ttl"); hit {
		t.Error("expired entry should be a miss")
	}

	// Delete
	if err := c.Delete(ctx, "doc:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "doc:abc"); hit {
		t.Error("deleted entry should be a miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "doc:missing"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	opts := DocumentKeyOpts{Variant: "cohort", Scale: "0-100", Protocol: "rhythm90"}
	k1 := k.DocumentKey("hash1", opts)
	k2 := k.DocumentKey("hash1", opts)
	if k1 != k2 {
		t.Error("DocumentKey should be deterministic")
	}

	// Any differing field must change the key
	variants := []DocumentKeyOpts{
		{Variant: "personal", Scale: "0-100", Protocol: "rhythm90"},
		{Variant: "cohort", Scale: "legacy", Protocol: "rhythm90"},
		{Variant: "cohort", Scale: "0-100", Protocol: "other"},
		{Variant: "cohort", Scale: "0-100", Protocol: "rhythm90", Dynamic: true},
	}
	for i, v := range variants {
		if k.DocumentKey("hash1", v) == k1 {
			t.Errorf("opts[%d] should produce a distinct key", i)
		}
	}

	if k.DocumentKey("hash2", opts) == k1 {
		t.Error("different input hash should produce a distinct key")
	}

	if k.ChartKey("h", ChartKeyOpts{IDPrefix: "a"}) == k.ChartKey("h", ChartKeyOpts{IDPrefix: "b"}) {
		t.Error("ChartKey should depend on IDPrefix")
	}

	if k.ExportKey("h", "pdf") == k.ExportKey("h", "png") {
		t.Error("ExportKey should depend on format")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "proto:alpha:")

	key := scoped.DocumentKey("h", DocumentKeyOpts{Variant: "personal"})
	if key[:len("proto:alpha:")] != "proto:alpha:" {
		t.Errorf("scoped key missing prefix: %q", key)
	}
	if key == inner.DocumentKey("h", DocumentKeyOpts{Variant: "personal"}) {
		t.Error("scoped key should differ from inner key")
	}

	// Should use DefaultKeyer when inner is nil
	fallback := NewScopedKeyer(nil, "p:")
	if fallback.ExportKey("h", "pdf") == "" {
		t.Error("nil inner should fall back to DefaultKeyer")
	}
}
