package analysis

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process RecordStore for tests and ephemeral
// deployments. It honors the same most-recent-wins read contract as the
// durable backends.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
	nextID  int
}

// NewMemoryStore creates an empty in-memory record store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert appends a copy of the record, assigning a sequential ID when empty
func (s *MemoryStore) Insert(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("mem-%d", s.nextID)
	}
	stored := *rec
	s.records = append(s.records, &stored)
	return nil
}

// Latest returns the most recent matching record, or nil when none matches
func (s *MemoryStore) Latest(ctx context.Context, q Query) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestLocked(q), nil
}

// LatestBatch returns the most recent record per file reference in input
// order, skipping files without a match
func (s *MemoryStore) LatestBatch(ctx context.Context, fileReferences []string, q Query) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*Record{}
	for _, fileRef := range fileReferences {
		fileQuery := q
		fileQuery.FileReference = fileRef
		if rec := s.latestLocked(fileQuery); rec != nil {
			results = append(results, rec)
		}
	}
	return results, nil
}

func (s *MemoryStore) latestLocked(q Query) *Record {
	var best *Record
	for _, rec := range s.records {
		if !q.Matches(rec) {
			continue
		}
		if best == nil || !rec.CreatedAt.Before(best.CreatedAt) {
			best = rec
		}
	}
	if best == nil {
		return nil
	}
	found := *best
	return &found
}
