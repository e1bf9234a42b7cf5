package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/dgraph-io/badger/v3"
)

// BadgerStore is an embedded RecordStore for single-node deployments that
// carry no MongoDB. Records are stored as JSON under a per-file key prefix;
// most-recent-wins is resolved by scanning the file's records, which stay
// few per file in practice.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a record store over an open Badger database
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// OpenBadgerStore opens the database at dir and wraps it
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the underlying database
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func recordKey(rec *Record) []byte {
	return fmt.Appendf(nil, "rec/%s/%020d/%s", rec.FileReference, rec.CreatedAt.UnixNano(), rec.ID)
}

func filePrefix(fileReference string) []byte {
	return fmt.Appendf(nil, "rec/%s/", fileReference)
}

// Insert persists a new record, deriving an ID from its key fields and
// creation time when empty
func (s *BadgerStore) Insert(ctx context.Context, rec *Record) error {
	// Keys order by the zero-padded creation nanos; a zero CreatedAt would
	// render negative and sort its key before every stamped one
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.ID == "" {
		seed := fmt.Sprintf("%s|%s|%s|%d", rec.FileReference, rec.StemLabel, rec.AnalysisVersion, rec.CreatedAt.UnixNano())
		rec.ID = fmt.Sprintf("%016x", xxhash.ChecksumString64(seed))
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return &PersistenceError{Op: "insert", Err: err}
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec), value)
	})
	if err != nil {
		return &PersistenceError{Op: "insert", Err: err}
	}
	return nil
}

// Latest returns the most recent matching record, or nil when none matches
func (s *BadgerStore) Latest(ctx context.Context, q Query) (*Record, error) {
	var best *Record
	err := s.db.View(func(txn *badger.Txn) error {
		found, err := s.latestInTxn(txn, q)
		best = found
		return err
	})
	if err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	return best, nil
}

// LatestBatch returns the most recent record per file reference in input
// order
func (s *BadgerStore) LatestBatch(ctx context.Context, fileReferences []string, q Query) ([]*Record, error) {
	results := []*Record{}
	err := s.db.View(func(txn *badger.Txn) error {
		for _, fileRef := range fileReferences {
			fileQuery := q
			fileQuery.FileReference = fileRef
			rec, err := s.latestInTxn(txn, fileQuery)
			if err != nil {
				return err
			}
			if rec != nil {
				results = append(results, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	return results, nil
}

func (s *BadgerStore) latestInTxn(txn *badger.Txn, q Query) (*Record, error) {
	if q.FileReference == "" {
		return nil, fmt.Errorf("file reference required for badger lookup")
	}

	opts := badger.DefaultIteratorOptions
	opts.Prefix = filePrefix(q.FileReference)
	// Keys embed the creation timestamp, so reverse iteration visits the
	// newest record first
	opts.Reverse = true
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := append(filePrefix(q.FileReference), 0xff)
	for it.Seek(seek); it.Valid(); it.Next() {
		var rec Record
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
		if err != nil {
			return nil, err
		}
		if q.Matches(&rec) {
			return &rec, nil
		}
	}
	return nil, nil
}
