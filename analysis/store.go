package analysis

import (
	"context"
	"fmt"
)

// PersistenceError reports that the durable store rejected an insert or
// select. It propagates unchanged to the caller; there is no in-memory
// fallback cache.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Query selects records by file reference plus optional narrowing fields.
// Empty fields match anything.
type Query struct {
	FileReference   string
	OwnerReference  string
	StemLabel       string
	AnalysisVersion string
}

// Matches reports whether the record satisfies the query
func (q Query) Matches(rec *Record) bool {
	if q.FileReference != "" && rec.FileReference != q.FileReference {
		return false
	}
	if q.OwnerReference != "" && rec.OwnerReference != q.OwnerReference {
		return false
	}
	if q.StemLabel != "" && rec.StemLabel != q.StemLabel {
		return false
	}
	if q.AnalysisVersion != "" && rec.AnalysisVersion != q.AnalysisVersion {
		return false
	}
	return true
}

// RecordStore is the durable cache behind the manager. Every write is a
// fresh insert; reads follow "most recent createdAt wins". Duplicate
// (file, stem, version) rows are legal and expected under the documented
// check-then-insert race.
type RecordStore interface {
	// Insert persists a new record, assigning its ID when empty
	Insert(ctx context.Context, rec *Record) error

	// Latest returns the most recent record matching the query, or nil
	// without error when none matches
	Latest(ctx context.Context, q Query) (*Record, error)

	// LatestBatch returns the most recent record per file reference,
	// preserving input order and skipping files without a match
	LatestBatch(ctx context.Context, fileReferences []string, q Query) ([]*Record, error)
}
