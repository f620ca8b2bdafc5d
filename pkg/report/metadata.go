package report

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumenwell/capreport/pkg/cache"
	"github.com/lumenwell/capreport/pkg/errors"
)

// TimestampFormat is the fixed generation-time format embedded in every
// document: UTC, second precision, explicit zone suffix.
const TimestampFormat = "2006-01-02 15:04:05 UTC"

// hashPlaceholder occupies the integrity-hash slot while the hash of the
// document is being computed. It has the same length as the final hex
// digest so substitution never shifts layout.
const hashPlaceholder = "0000000000000000000000000000000000000000000000000000000000000000"

// Metadata is the chain-of-custody block stamped into every document.
type Metadata struct {
	// GeneratedAt is the formatted generation timestamp. Left empty, Stamp
	// fills it from the current UTC time; the frozen reference path supplies
	// it verbatim.
	GeneratedAt string

	// Protocol names the measurement protocol the series was captured under.
	Protocol string

	// WindowStart and WindowEnd bound the observation window.
	WindowStart time.Time
	WindowEnd   time.Time

	// IntegrityHash is the document content hash. Left empty, Stamp computes
	// it; the frozen reference path supplies it verbatim.
	IntegrityHash string

	// ArtifactID identifies this generation. Left empty, Stamp assigns a
	// UUID; the frozen reference path supplies it verbatim.
	ArtifactID string
}

// Stamped is the result of stamping: the final document string and the
// metadata that was embedded in it.
type Stamped struct {
	Document string
	Metadata Metadata
}

// Stamp runs a document builder under the given metadata, filling in any
// field the caller left empty.
//
// With all fields supplied (the golden-master path) the output is a pure
// function of its inputs: the builder runs once and the supplied values are
// embedded verbatim. With fields left empty, Stamp reads the clock for
// GeneratedAt, assigns a fresh ArtifactID, and computes IntegrityHash as
// the SHA-256 of the document rendered with a placeholder in the hash slot.
func Stamp(build func(Metadata) (string, error), meta Metadata) (Stamped, error) {
	if build == nil {
		return Stamped{}, errors.New(errors.ErrCodeInternal, "stamp: nil document builder")
	}

	if meta.GeneratedAt == "" {
		meta.GeneratedAt = time.Now().UTC().Format(TimestampFormat)
	}
	if meta.ArtifactID == "" {
		meta.ArtifactID = uuid.NewString()
	}

	if meta.IntegrityHash != "" {
		doc, err := build(meta)
		if err != nil {
			return Stamped{}, err
		}
		return Stamped{Document: doc, Metadata: meta}, nil
	}

	// Render with the placeholder, hash that rendering, then substitute.
	withPlaceholder := meta
	withPlaceholder.IntegrityHash = hashPlaceholder
	doc, err := build(withPlaceholder)
	if err != nil {
		return Stamped{}, err
	}

	meta.IntegrityHash = cache.Hash([]byte(doc))
	doc = strings.Replace(doc, hashPlaceholder, meta.IntegrityHash, 1)

	return Stamped{Document: doc, Metadata: meta}, nil
}
