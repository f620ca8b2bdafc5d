// Package archive provides retention storage for stamped artifacts.
//
// Rendered documents are immutable snapshots; clinics keep them for the
// applicable retention period. The Store interface supports:
//   - file: directory-per-archive storage for CLI usage
//   - mongo: shared storage for multi-instance preview deployments
//
// Records are looked up by artifact ID, the UUID stamped into the document's
// metadata block.
package archive

import (
	"context"
	"time"
)

// Record is the metadata stored alongside an archived artifact. It mirrors
// the document's chain-of-custody block so an archive can be audited without
// parsing document bytes.
type Record struct {
	ArtifactID    string    `json:"artifact_id" bson:"artifact_id"`
	Variant       string    `json:"variant" bson:"variant"`
	Protocol      string    `json:"protocol" bson:"protocol"`
	Scale         string    `json:"scale" bson:"scale"`
	GeneratedAt   string    `json:"generated_at" bson:"generated_at"`
	IntegrityHash string    `json:"integrity_hash" bson:"integrity_hash"`
	Format        string    `json:"format" bson:"format"`
	Size          int       `json:"size" bson:"size"`
	StoredAt      time.Time `json:"stored_at" bson:"stored_at"`
}

// Store is the interface for artifact-archive backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores an artifact with its record. Storing an artifact ID that
	// already exists overwrites the previous entry.
	Put(ctx context.Context, rec Record, data []byte) error

	// Get retrieves an archived artifact by ID.
	Get(ctx context.Context, artifactID string) (Record, []byte, error)

	// List returns up to limit records, most recently stored first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
