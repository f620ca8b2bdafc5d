package archive

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lumenwell/capreport/pkg/errors"
	"github.com/lumenwell/capreport/pkg/observability"
)

// FileStore archives artifacts in a directory: one metadata file and one
// data file per artifact, named by artifact ID.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based archive in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create archive directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Put stores an artifact with its record.
func (s *FileStore) Put(ctx context.Context, rec Record, data []byte) error {
	if err := validateArtifactID(rec.ArtifactID); err != nil {
		return err
	}
	rec.Size = len(data)

	meta, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode archive record")
	}
	if err := os.WriteFile(s.metaPath(rec.ArtifactID), meta, 0o644); err != nil {
		observability.Archive().OnArchiveError(ctx, "file", err)
		return errors.Wrap(errors.ErrCodeInternal, err, "write archive record")
	}
	if err := os.WriteFile(s.dataPath(rec.ArtifactID), data, 0o644); err != nil {
		observability.Archive().OnArchiveError(ctx, "file", err)
		return errors.Wrap(errors.ErrCodeInternal, err, "write archive data")
	}

	observability.Archive().OnArchivePut(ctx, "file", rec.ArtifactID, len(data))
	return nil
}

// Get retrieves an archived artifact by ID.
func (s *FileStore) Get(ctx context.Context, artifactID string) (Record, []byte, error) {
	if err := validateArtifactID(artifactID); err != nil {
		return Record{}, nil, err
	}

	meta, err := os.ReadFile(s.metaPath(artifactID))
	if os.IsNotExist(err) {
		return Record{}, nil, errors.New(errors.ErrCodeNotFound, "artifact %s not archived", artifactID)
	}
	if err != nil {
		return Record{}, nil, errors.Wrap(errors.ErrCodeInternal, err, "read archive record")
	}

	var rec Record
	if err := json.Unmarshal(meta, &rec); err != nil {
		return Record{}, nil, errors.Wrap(errors.ErrCodeInternal, err, "decode archive record")
	}

	data, err := os.ReadFile(s.dataPath(artifactID))
	if err != nil {
		return Record{}, nil, errors.Wrap(errors.ErrCodeInternal, err, "read archive data")
	}
	return rec, data, nil
}

// List returns up to limit records, most recently stored first.
func (s *FileStore) List(ctx context.Context, limit int) ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read archive directory")
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		meta, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(meta, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StoredAt.After(records[j].StoredAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Close is a no-op for file storage.
func (s *FileStore) Close(ctx context.Context) error { return nil }

func (s *FileStore) metaPath(artifactID string) string {
	return filepath.Join(s.dir, artifactID+".json")
}

func (s *FileStore) dataPath(artifactID string) string {
	return filepath.Join(s.dir, artifactID+".html")
}

// validateArtifactID rejects IDs that cannot safely name files.
func validateArtifactID(id string) error {
	if id == "" {
		return errors.New(errors.ErrCodeInvalidInput, "artifact id cannot be empty")
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return errors.New(errors.ErrCodeInvalidInput, "artifact id contains invalid characters: %q", id)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
