package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stemwave/analysis/analysis"
	"github.com/stemwave/analysis/logging"
	"github.com/stemwave/analysis/waveform"
)

// ClientWaveform is the waveform payload a client computation submits
type ClientWaveform struct {
	Points          []float64         `json:"points" validate:"required,min=1"`
	SampleRate      int               `json:"sampleRate" validate:"required,gt=0"`
	DurationSeconds float64           `json:"durationSeconds" validate:"gte=0"`
	Markers         []waveform.Marker `json:"markers"`
}

// ClientSubmission is a fully-formed analysis computed by a trusted client.
// It is validated structurally, not numerically: the engine checks shape and
// equal series lengths, not descriptor values.
type ClientSubmission struct {
	FileReference      string               `json:"fileReference" validate:"required"`
	OwnerReference     string               `json:"ownerReference" validate:"required"`
	StemLabel          string               `json:"stemLabel" validate:"required"`
	SampleRate         int                  `json:"sampleRate" validate:"required,gt=0"`
	DurationSeconds    float64              `json:"durationSeconds" validate:"gte=0"`
	FrameSize          int                  `json:"frameSize" validate:"required,gt=0"`
	FeatureSeries      map[string][]float64 `json:"featureSeries" validate:"required,min=1"`
	Waveform           ClientWaveform       `json:"waveform" validate:"required"`
	AnalysisDurationMs int64                `json:"analysisDurationMs" validate:"gte=0"`
}

// ClientIngestor accepts client-computed analysis records, applying the same
// check-then-insert idempotence rule as server-computed ones
type ClientIngestor struct {
	manager  *analysis.Manager
	validate *validator.Validate
	logger   logging.Logger
}

// NewClientIngestor creates the client-results intake over the cache manager
func NewClientIngestor(manager *analysis.Manager) *ClientIngestor {
	return &ClientIngestor{
		manager:  manager,
		validate: validator.New(),
		logger: logging.WithFields(logging.Fields{
			"component": "client_ingest",
		}),
	}
}

// Submit validates and inserts a client-computed record. An existing record
// for (fileReference, stemLabel) at the client version short-circuits the
// insert; the bool reports whether a new record was created.
func (ci *ClientIngestor) Submit(ctx context.Context, sub *ClientSubmission) (*analysis.Record, bool, error) {
	if err := ci.validate.Struct(sub); err != nil {
		return nil, false, fmt.Errorf("invalid client submission: %w", err)
	}

	seriesLen := -1
	for name, values := range sub.FeatureSeries {
		if seriesLen == -1 {
			seriesLen = len(values)
			continue
		}
		if len(values) != seriesLen {
			return nil, false, fmt.Errorf("invalid client submission: series %q has length %d, want %d", name, len(values), seriesLen)
		}
	}

	store := ci.manager.Store()
	existing, err := store.Latest(ctx, analysis.Query{
		FileReference:   sub.FileReference,
		StemLabel:       sub.StemLabel,
		AnalysisVersion: analysis.VersionClient,
	})
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		ci.logger.Debug("client analysis already cached", logging.Fields{
			"file_ref":  sub.FileReference,
			"record_id": existing.ID,
		})
		return existing, false, nil
	}

	names := make([]string, 0, len(sub.FeatureSeries))
	for name := range sub.FeatureSeries {
		names = append(names, name)
	}

	markers := sub.Waveform.Markers
	if markers == nil {
		markers = []waveform.Marker{}
	}

	rec := &analysis.Record{
		FileReference:   sub.FileReference,
		OwnerReference:  sub.OwnerReference,
		StemLabel:       sub.StemLabel,
		AnalysisVersion: analysis.VersionClient,
		SampleRate:      sub.SampleRate,
		DurationSeconds: sub.DurationSeconds,
		FrameSize:       sub.FrameSize,
		FeatureSeries:   sub.FeatureSeries,
		Waveform: &waveform.Waveform{
			Points:          sub.Waveform.Points,
			SampleRate:      sub.Waveform.SampleRate,
			DurationSeconds: sub.Waveform.DurationSeconds,
			Markers:         markers,
		},
		ExtractedFeatureNames: names,
		AnalysisDurationMs:    sub.AnalysisDurationMs,
		CreatedAt:             time.Now().UTC(),
	}

	if err := store.Insert(ctx, rec); err != nil {
		return nil, false, err
	}

	ci.logger.Info("client analysis cached", logging.Fields{
		"file_ref":  sub.FileReference,
		"record_id": rec.ID,
	})
	return rec, true, nil
}
