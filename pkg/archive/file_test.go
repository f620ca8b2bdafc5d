package archive

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/lumenwell/capreport/pkg/errors"
)

func testRecord(id string, storedAt time.Time) Record {
	return Record{
		ArtifactID:    id,
		Variant:       "personal",
		Protocol:      "CAP-90 v2",
		Scale:         "0-100",
		GeneratedAt:   "2025-03-31 12:00:00 UTC",
		IntegrityHash: "deadbeef",
		Format:        "html",
		StoredAt:      storedAt,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close(context.Background())

	ctx := context.Background()
	data := []byte("<!DOCTYPE html><html></html>")
	rec := testRecord("artifact-1", time.Now().UTC())

	if err := store.Put(ctx, rec, data); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, gotData, err := store.Get(ctx, "artifact-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ArtifactID != rec.ArtifactID || got.Protocol != rec.Protocol {
		t.Errorf("record = %+v", got)
	}
	if got.Size != len(data) {
		t.Errorf("Size = %d, want %d", got.Size, len(data))
	}
	if !bytes.Equal(gotData, data) {
		t.Error("data round-trip mismatch")
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = store.Get(context.Background(), "nope")
	if errors.GetCode(err) != errors.ErrCodeNotFound {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeNotFound)
	}
}

func TestFileStoreList(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		rec := testRecord(id, base.Add(time.Duration(i)*time.Hour))
		if err := store.Put(ctx, rec, []byte(id)); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	if records[0].ArtifactID != "new" || records[2].ArtifactID != "old" {
		t.Errorf("order = %s, %s, %s", records[0].ArtifactID, records[1].ArtifactID, records[2].ArtifactID)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}
}

func TestFileStoreBadArtifactID(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for _, id := range []string{"", "../escape", "a/b"} {
		if err := store.Put(ctx, testRecord(id, time.Now()), nil); errors.GetCode(err) != errors.ErrCodeInvalidInput {
			t.Errorf("Put(%q) code = %q, want %q", id, errors.GetCode(err), errors.ErrCodeInvalidInput)
		}
	}
}
