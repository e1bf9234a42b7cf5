package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueueFIFO(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	first := q.Enqueue("user-1", "file-a", "master")
	second := q.Enqueue("user-1", "file-b", "master")

	job, err := q.DequeuePending(ctx)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, first, job.ID)
	assert.Equal(t, "file-a", job.FileReference)
	assert.Equal(t, StatusProcessing, job.Status)

	job, err = q.DequeuePending(ctx)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, second, job.ID)

	// Nothing pending left
	job, err = q.DequeuePending(ctx)
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestMemoryQueueStatusTransitions(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	id := q.Enqueue("user-1", "file-a", "master")
	_, err := q.DequeuePending(ctx)
	require.NoError(t, err)

	require.NoError(t, q.Complete(ctx, id))
	job := q.Get(id)
	require.NotNil(t, job)
	assert.Equal(t, StatusCompleted, job.Status)

	require.NoError(t, q.Fail(ctx, id, "boom"))
	job = q.Get(id)
	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
}

func TestMemoryQueueUnknownJob(t *testing.T) {
	q := NewMemoryQueue()

	assert.Error(t, q.Complete(context.Background(), "missing"))
	assert.Error(t, q.Fail(context.Background(), "missing", "x"))
	assert.Nil(t, q.Get("missing"))
}
