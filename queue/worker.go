package queue

import (
	"context"
	"time"

	"github.com/stemwave/analysis/analysis"
	"github.com/stemwave/analysis/logging"
	"github.com/stemwave/analysis/storage"
)

// DefaultPollInterval is how long the worker sleeps when no job is pending
const DefaultPollInterval = 5 * time.Second

// defaultStemLabel is assumed when a queue row carries no stem
const defaultStemLabel = "master"

// Worker drains the job queue one job at a time: claim the oldest pending
// row, fetch the raw audio from object storage, run it through the cache
// manager, and mark the row completed or failed. A failing job never crashes
// the loop.
type Worker struct {
	queue    Queue
	store    storage.Storage
	manager  *analysis.Manager
	interval time.Duration
	logger   logging.Logger
}

// NewWorker creates a polling worker. A non-positive interval falls back to
// DefaultPollInterval.
func NewWorker(q Queue, store storage.Storage, manager *analysis.Manager, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Worker{
		queue:    q,
		store:    store,
		manager:  manager,
		interval: interval,
		logger: logging.WithFields(logging.Fields{
			"component": "queue_worker",
		}),
	}
}

// Run polls until the context is canceled. Each claimed job is processed to
// completion before the next poll.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("queue worker started", logging.Fields{
		"poll_interval": w.interval.String(),
	})

	for {
		processed, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error(err, "queue poll failed")
		}

		if processed {
			// Drain eagerly while jobs are pending
			continue
		}

		select {
		case <-ctx.Done():
			w.logger.Info("queue worker stopped")
			return ctx.Err()
		case <-time.After(w.interval):
		}
	}
}

// RunOnce claims and processes at most one job. It reports whether a job was
// claimed; job-level failures are recorded on the row, not returned.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.queue.DequeuePending(ctx)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	logger := w.logger.WithFields(logging.Fields{
		"job_id":   job.ID,
		"file_ref": job.FileReference,
	})
	logger.Info("processing analysis job")

	if err := w.process(ctx, job); err != nil {
		logger.Error(err, "analysis job failed")
		if failErr := w.queue.Fail(ctx, job.ID, err.Error()); failErr != nil {
			logger.Error(failErr, "marking job failed")
		}
		return true, nil
	}

	if err := w.queue.Complete(ctx, job.ID); err != nil {
		logger.Error(err, "marking job completed")
	}
	return true, nil
}

func (w *Worker) process(ctx context.Context, job *Job) error {
	audio, err := w.store.Get(ctx, job.FileReference)
	if err != nil {
		return err
	}

	stem := job.StemLabel
	if stem == "" {
		stem = defaultStemLabel
	}

	_, created, err := w.manager.EnsureAnalyzed(ctx, job.FileReference, job.OwnerReference, stem, analysis.VersionServer, audio)
	if err != nil {
		return err
	}
	if !created {
		w.logger.Debug("analysis already cached, skipping", logging.Fields{
			"job_id": job.ID,
		})
	}
	return nil
}
