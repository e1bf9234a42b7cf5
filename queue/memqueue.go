package queue

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryQueue is an in-process Queue for tests and single-node deployments
type MemoryQueue struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	nextID int
}

// NewMemoryQueue creates an empty in-memory job queue
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{jobs: make(map[string]*Job)}
}

// Enqueue adds a pending job and returns its ID
func (q *MemoryQueue) Enqueue(ownerReference, fileReference, stemLabel string) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	id := fmt.Sprintf("job-%d", q.nextID)
	q.jobs[id] = &Job{
		ID:             id,
		OwnerReference: ownerReference,
		FileReference:  fileReference,
		StemLabel:      stemLabel,
		Status:         StatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	return id
}

// Get returns a copy of the job, or nil when unknown
func (q *MemoryQueue) Get(id string) *Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return nil
	}
	found := *job
	return &found
}

// DequeuePending claims the oldest pending job
func (q *MemoryQueue) DequeuePending(ctx context.Context) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := make([]*Job, 0, len(q.jobs))
	for _, job := range q.jobs {
		if job.Status == StatusPending {
			pending = append(pending, job)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	job := pending[0]
	job.Status = StatusProcessing
	claimed := *job
	return &claimed, nil
}

// Complete marks the job completed
func (q *MemoryQueue) Complete(ctx context.Context, id string) error {
	return q.setStatus(id, StatusCompleted, "")
}

// Fail marks the job failed with an error note
func (q *MemoryQueue) Fail(ctx context.Context, id, message string) error {
	return q.setStatus(id, StatusFailed, message)
}

func (q *MemoryQueue) setStatus(id string, status Status, message string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return fmt.Errorf("unknown job: %s", id)
	}
	job.Status = status
	job.Error = message
	return nil
}
