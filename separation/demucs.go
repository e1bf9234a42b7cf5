package separation

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/stemwave/analysis/logging"
)

// stemFiles maps the separator's fixed output names to the stem labels the
// analysis engine caches under
var stemFiles = map[string]string{
	"vocals.wav": "vocals",
	"drums.wav":  "drums",
	"bass.wav":   "bass",
	"other.wav":  "other",
}

// Separator invokes the external demucs batch tool and records job progress
// in the injected store
type Separator struct {
	binPath string
	outRoot string
	store   JobStore
	logger  logging.Logger
}

// NewSeparator creates a separator writing tool output under outRoot
func NewSeparator(binPath, outRoot string, store JobStore) *Separator {
	if binPath == "" {
		binPath = "demucs"
	}
	return &Separator{
		binPath: binPath,
		outRoot: outRoot,
		store:   store,
		logger: logging.WithFields(logging.Fields{
			"component": "stem_separator",
		}),
	}
}

// Separate runs the tool on inputPath, tracking the job under jobID. On
// success the job carries a stem-label -> file-path map for the engine to
// analyze.
func (s *Separator) Separate(ctx context.Context, jobID, inputPath string) (*Job, error) {
	job := &Job{
		ID:        jobID,
		Status:    JobRunning,
		InputPath: inputPath,
		CreatedAt: time.Now().UTC(),
	}
	s.store.Put(job)

	logger := s.logger.WithFields(logging.Fields{
		"job_id": jobID,
		"input":  inputPath,
	})
	logger.Info("starting stem separation")

	stems, err := s.run(ctx, inputPath)
	if err != nil {
		job.Status = JobFailed
		job.Error = err.Error()
		s.store.Put(job)
		logger.Error(err, "stem separation failed")
		return job, err
	}

	job.Status = JobCompleted
	job.Stems = stems
	s.store.Put(job)
	logger.Info("stem separation completed", logging.Fields{
		"num_stems": len(stems),
	})
	return job, nil
}

func (s *Separator) run(ctx context.Context, inputPath string) (map[string]string, error) {
	cmd := exec.CommandContext(ctx, s.binPath, "-o", s.outRoot, inputPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("demucs: %w: %s", err, string(output))
	}

	// Output lands at <outRoot>/<model>/<track>/<stem>.wav with one model
	// and one track directory per run
	modelDir, err := singleChildDir(s.outRoot)
	if err != nil {
		return nil, fmt.Errorf("demucs output not found: %w", err)
	}
	trackDir, err := singleChildDir(filepath.Join(s.outRoot, modelDir))
	if err != nil {
		return nil, fmt.Errorf("demucs track dir not found: %w", err)
	}

	stems := make(map[string]string, len(stemFiles))
	for file, label := range stemFiles {
		path := filepath.Join(s.outRoot, modelDir, trackDir, file)
		if _, statErr := os.Stat(path); statErr != nil {
			s.logger.Warn("missing separator stem", logging.Fields{
				"stem": file,
			})
			continue
		}
		stems[label] = path
	}
	if len(stems) == 0 {
		return nil, fmt.Errorf("separator produced no stems")
	}
	return stems, nil
}

func singleChildDir(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return entry.Name(), nil
		}
	}
	return "", fmt.Errorf("no subdirectory under %s", root)
}
