// Package queue carries the analysis job contract and the polling worker
// that drains it.
package queue

import (
	"context"
	"time"
)

// Status is the lifecycle state of an analysis job
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job is the queue-table row shape the engine consumes. The row itself is
// owned by the surrounding service; the engine only moves pending rows
// through processing to completed or failed.
type Job struct {
	ID             string    `json:"id"`
	OwnerReference string    `json:"ownerReference"`
	FileReference  string    `json:"fileReference"`
	StemLabel      string    `json:"stemLabel"`
	Status         Status    `json:"status"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Queue is the engine's view of the job table
type Queue interface {
	// DequeuePending atomically claims the oldest pending job, marking it
	// processing. Returns nil without error when no job is pending.
	DequeuePending(ctx context.Context) (*Job, error)

	// Complete marks the job completed
	Complete(ctx context.Context, id string) error

	// Fail marks the job failed with an error note
	Fail(ctx context.Context, id, message string) error
}
