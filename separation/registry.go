// Package separation drives the external stem-separation batch tool and
// tracks its jobs. The tool is a black box; its stem outputs feed the
// analysis engine like any other audio buffer.
package separation

import (
	"sync"
	"time"
)

// JobStatus is the lifecycle state of a separation job
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job tracks one separation run and the stem files it produced
type Job struct {
	ID        string            `json:"id"`
	Status    JobStatus         `json:"status"`
	InputPath string            `json:"inputPath"`
	Stems     map[string]string `json:"stems,omitempty"` // stem label -> output path
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// JobStore holds separation jobs by id. Injected rather than a process-wide
// map so tests can substitute their own.
type JobStore interface {
	Get(id string) (*Job, bool)
	Put(job *Job)
}

// MemoryJobStore is a mutex-guarded in-memory JobStore
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewMemoryJobStore creates an empty in-memory job store
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*Job)}
}

// Get returns a copy of the job with the given id
func (s *MemoryJobStore) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	found := *job
	return &found, true
}

// Put stores a copy of the job, stamping its update time
func (s *MemoryJobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *job
	stored.UpdatedAt = time.Now().UTC()
	s.jobs[stored.ID] = &stored
}
