package analysis

import (
	"context"
	"time"

	"github.com/stemwave/analysis/extract"
	"github.com/stemwave/analysis/logging"
	"github.com/stemwave/analysis/transcode"
	"github.com/stemwave/analysis/waveform"
)

// PCMDecoder converts an arbitrary compressed/container audio buffer into a
// PCM container buffer
type PCMDecoder interface {
	DecodeToPCM(ctx context.Context, raw []byte) ([]byte, error)
}

// Manager orchestrates decode -> extract + summarize -> persist, and serves
// cached lookups. It is the single consumer every intake surface publishes
// into; coordination between surfaces happens only through the durable
// store.
type Manager struct {
	decoder    PCMDecoder
	extractor  *extract.Extractor
	summarizer *waveform.Summarizer
	store      RecordStore
	logger     logging.Logger
}

// NewManager creates an analysis cache manager over the given decoder and
// record store
func NewManager(decoder PCMDecoder, store RecordStore) *Manager {
	return &Manager{
		decoder:    decoder,
		extractor:  extract.NewExtractor(),
		summarizer: waveform.NewSummarizer(),
		store:      store,
		logger: logging.WithFields(logging.Fields{
			"component": "analysis_manager",
		}),
	}
}

// AnalyzeAndCache runs the full pipeline over the raw audio buffer and
// persists a new record. It never checks for an existing record; callers
// that want compute-once semantics use EnsureAnalyzed. Decode failure aborts
// before any persistence, and a store rejection surfaces unchanged.
func (m *Manager) AnalyzeAndCache(ctx context.Context, fileReference, ownerReference, stemLabel string, audio []byte) (*Record, error) {
	logger := m.logger.WithFields(logging.Fields{
		"function": "AnalyzeAndCache",
		"file_ref": fileReference,
		"stem":     stemLabel,
	})

	startTime := time.Now()

	if tags := transcode.ReadEmbeddedTags(audio); tags != (transcode.EmbeddedTags{}) {
		logger.Info("embedded tags detected", logging.Fields{
			"title":  tags.Title,
			"artist": tags.Artist,
			"album":  tags.Album,
			"genre":  tags.Genre,
		})
	}

	pcm, err := m.decoder.DecodeToPCM(ctx, audio)
	if err != nil {
		logger.Error(err, "transcode failed")
		return nil, err
	}

	samples, err := transcode.ReadPCMSamples(pcm)
	if err != nil {
		logger.Error(err, "PCM parse failed")
		return nil, err
	}

	series, err := m.extractor.Extract(samples)
	if err != nil {
		logger.Error(err, "feature extraction failed")
		return nil, err
	}

	// Waveform generation soft-degrades internally and never fails
	wf := m.summarizer.Summarize(pcm)

	names := make([]string, 0, len(series))
	for _, name := range extract.FeatureNames() {
		if _, ok := series[name]; ok {
			names = append(names, name)
		}
	}

	rec := &Record{
		FileReference:         fileReference,
		OwnerReference:        ownerReference,
		StemLabel:             stemLabel,
		AnalysisVersion:       VersionServer,
		SampleRate:            extract.SampleRate,
		DurationSeconds:       wf.DurationSeconds,
		FrameSize:             extract.HopLength,
		FeatureSeries:         series,
		Waveform:              wf,
		ExtractedFeatureNames: names,
		AnalysisDurationMs:    time.Since(startTime).Milliseconds(),
		CreatedAt:             time.Now().UTC(),
	}

	if err := m.store.Insert(ctx, rec); err != nil {
		logger.Error(err, "record insert failed")
		return nil, err
	}

	logger.Info("analysis cached", logging.Fields{
		"record_id":   rec.ID,
		"duration_s":  rec.DurationSeconds,
		"analysis_ms": rec.AnalysisDurationMs,
		"synthetic":   wf.Synthetic,
	})

	return rec, nil
}

// GetCached fetches the most recent matching record, filtered by owner.
// Guest identities never have persisted records, so guest lookups
// short-circuit to nil.
func (m *Manager) GetCached(ctx context.Context, fileReference, ownerReference, stemLabel string) (*Record, error) {
	if IsGuestOwner(ownerReference) {
		return nil, nil
	}
	return m.store.Latest(ctx, Query{
		FileReference:  fileReference,
		OwnerReference: ownerReference,
		StemLabel:      stemLabel,
	})
}

// GetBatchCached bulk-fetches the most recent record per file reference.
// Returns an empty list, never nil, for no matches or a guest owner.
func (m *Manager) GetBatchCached(ctx context.Context, fileReferences []string, ownerReference, stemLabel string) ([]*Record, error) {
	if IsGuestOwner(ownerReference) {
		return []*Record{}, nil
	}
	return m.store.LatestBatch(ctx, fileReferences, Query{
		OwnerReference: ownerReference,
		StemLabel:      stemLabel,
	})
}

// EnsureAnalyzed is the check-then-insert helper intake surfaces use for
// compute-once semantics: it looks up (fileReference, stemLabel) pinned to
// the version and only analyzes when nothing exists. The check is not atomic
// against concurrent callers; two simultaneous requests may both compute and
// both insert, and readers resolve that as most-recent-wins.
func (m *Manager) EnsureAnalyzed(ctx context.Context, fileReference, ownerReference, stemLabel, version string, audio []byte) (*Record, bool, error) {
	existing, err := m.store.Latest(ctx, Query{
		FileReference:   fileReference,
		StemLabel:       stemLabel,
		AnalysisVersion: version,
	})
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	rec, err := m.AnalyzeAndCache(ctx, fileReference, ownerReference, stemLabel, audio)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Store exposes the underlying record store to intake surfaces that insert
// pre-built records (client-computed results)
func (m *Manager) Store() RecordStore {
	return m.store
}
