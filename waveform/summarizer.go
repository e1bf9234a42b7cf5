package waveform

import (
	"math/rand"

	"github.com/stemwave/analysis/logging"
	"github.com/stemwave/analysis/transcode"
)

const (
	// maxPoints bounds the downsampled envelope length
	maxPoints = 2000

	fallbackPoints     = 1000
	fallbackDuration   = 10.0
	fallbackSampleRate = 44100
	fallbackAmplitude  = 0.05
)

// Marker is a reserved hook for future beat/onset/peak/drop annotations.
// Summaries currently always carry an empty marker list, but the shape is
// part of the persisted schema and must stay forward compatible.
type Marker struct {
	Time      float64 `json:"time" bson:"time"`
	Type      string  `json:"type" bson:"type"`
	Intensity float64 `json:"intensity" bson:"intensity"`
	Frequency float64 `json:"frequency,omitempty" bson:"frequency,omitempty"`
}

// Waveform is a bounded-length amplitude envelope plus a duration and
// sample-rate summary for UI rendering.
type Waveform struct {
	Points          []float64 `json:"points" bson:"points"`
	SampleRate      int       `json:"sampleRate" bson:"sampleRate"`
	DurationSeconds float64   `json:"durationSeconds" bson:"durationSeconds"`
	Markers         []Marker  `json:"markers" bson:"markers"`

	// Synthetic marks a fallback envelope for observability. Debug only,
	// never persisted; the public shape of real and fallback waveforms is
	// identical.
	Synthetic bool `json:"-" bson:"-"`
}

// Summarizer produces downsampled waveform envelopes from PCM container
// buffers, independent of the feature extractor's frame grid.
type Summarizer struct {
	logger logging.Logger
}

// NewSummarizer creates a new waveform summarizer
func NewSummarizer() *Summarizer {
	return &Summarizer{
		logger: logging.WithFields(logging.Fields{
			"component": "waveform_summarizer",
		}),
	}
}

// Summarize decodes the PCM container and returns its downsampled envelope.
// A buffer that cannot be decoded as valid PCM degrades to a synthetic
// placeholder rather than failing: a malformed waveform must never block
// feature-series caching.
func (s *Summarizer) Summarize(pcm []byte) *Waveform {
	container, err := transcode.ParseContainer(pcm)
	if err != nil {
		s.logger.Warn("PCM parse failed, emitting synthetic waveform", logging.Fields{
			"error": err.Error(),
		})
		return s.synthetic()
	}

	samples := container.Samples()
	sampleRate := int(container.Format.SampleRate)
	if len(samples) == 0 || sampleRate <= 0 {
		s.logger.Warn("empty PCM stream, emitting synthetic waveform", logging.Fields{
			"num_samples": len(samples),
			"sample_rate": sampleRate,
		})
		return s.synthetic()
	}

	stride := len(samples) / maxPoints
	if stride < 1 {
		stride = 1
	}

	points := make([]float64, 0, len(samples)/stride+1)
	for i := 0; i < len(samples); i += stride {
		points = append(points, float64(samples[i])/32768.0)
	}

	return &Waveform{
		Points:          points,
		SampleRate:      sampleRate,
		DurationSeconds: float64(len(samples)) / float64(sampleRate),
		Markers:         []Marker{},
	}
}

// synthetic emits the low-amplitude placeholder envelope used when a buffer
// has no readable PCM
func (s *Summarizer) synthetic() *Waveform {
	points := make([]float64, fallbackPoints)
	for i := range points {
		points[i] = rand.Float64()*2*fallbackAmplitude - fallbackAmplitude
	}
	return &Waveform{
		Points:          points,
		SampleRate:      fallbackSampleRate,
		DurationSeconds: fallbackDuration,
		Markers:         []Marker{},
		Synthetic:       true,
	}
}
