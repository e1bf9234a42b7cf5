// Package ingest holds the intake surfaces that publish analysis work into
// the cache manager: the synchronous upload path and client-computed-results
// submission. The queue worker, the third surface, lives in package queue.
// Each surface does its own idempotence check against the durable store; no
// in-memory state is shared between them.
package ingest

import (
	"context"

	"github.com/stemwave/analysis/analysis"
	"github.com/stemwave/analysis/logging"
)

// UploadService is the synchronous upload intake: analysis runs on the
// caller's request and any extraction failure is a hard error on that
// request.
type UploadService struct {
	manager *analysis.Manager
	logger  logging.Logger
}

// NewUploadService creates the upload intake over the cache manager
func NewUploadService(manager *analysis.Manager) *UploadService {
	return &UploadService{
		manager: manager,
		logger: logging.WithFields(logging.Fields{
			"component": "upload_ingest",
		}),
	}
}

// ProcessUpload analyzes the uploaded buffer with compute-once semantics:
// an existing record for (fileReference, stemLabel) at the server version is
// returned as-is instead of recomputing.
func (s *UploadService) ProcessUpload(ctx context.Context, fileReference, ownerReference, stemLabel string, audio []byte) (*analysis.Record, error) {
	rec, created, err := s.manager.EnsureAnalyzed(ctx, fileReference, ownerReference, stemLabel, analysis.VersionServer, audio)
	if err != nil {
		return nil, err
	}
	if !created {
		s.logger.Debug("serving cached analysis for upload", logging.Fields{
			"file_ref":  fileReference,
			"record_id": rec.ID,
		})
	}
	return rec, nil
}
