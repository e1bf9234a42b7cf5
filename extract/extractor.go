package extract

import (
	"fmt"

	"github.com/stemwave/analysis/logging"
	"github.com/stemwave/analysis/spectral"
)

const (
	// FrameSize is the fixed analysis frame length in samples
	FrameSize = 1024
	// HopLength advances the frame grid by half a frame (50% overlap)
	HopLength = 512
	// SampleRate is assumed for every frequency-axis computation; it is not
	// re-derived from the decoded stream
	SampleRate = 44100

	rolloffThreshold = 0.85
	numMFCC          = 13
)

// ExtractionError reports an unexpected failure inside the feature loop
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("feature extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor computes the fixed set of framed descriptors over a sample
// buffer. It is a pure, deterministic function of its input: identical
// buffers always yield identical series.
type Extractor struct {
	fft       *spectral.FFT
	centroid  *spectral.SpectralCentroid
	rolloff   *spectral.SpectralRolloff
	flatness  *spectral.SpectralFlatness
	spread    *spectral.SpectralSpread
	loudness  *spectral.Loudness
	sharpness *spectral.PerceptualSharpness
	mfcc      *spectral.MFCC
	chroma    *spectral.Chroma
	rms       *spectral.RMS
	energy    *spectral.Energy
	zcr       *spectral.ZeroCrossingRate
	logger    logging.Logger
}

// NewExtractor creates a feature extractor with the fixed 44.1kHz frame grid
func NewExtractor() *Extractor {
	return &Extractor{
		fft:       spectral.NewFFT(),
		centroid:  spectral.NewSpectralCentroid(SampleRate),
		rolloff:   spectral.NewSpectralRolloff(SampleRate, rolloffThreshold),
		flatness:  spectral.NewSpectralFlatness(),
		spread:    spectral.NewSpectralSpread(SampleRate),
		loudness:  spectral.NewLoudness(SampleRate),
		sharpness: spectral.NewPerceptualSharpness(SampleRate),
		mfcc:      spectral.NewMFCC(SampleRate, numMFCC),
		chroma:    spectral.NewChroma(SampleRate),
		rms:       spectral.NewRMS(),
		energy:    spectral.NewEnergy(),
		zcr:       spectral.NewZeroCrossingRate(),
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}
}

// FeatureNames returns the full ordered set of series names Extract produces
func FeatureNames() []string {
	names := []string{
		"rms", "spectralCentroid", "spectralRolloff", "spectralFlatness",
		"spectralSpread", "zcr", "loudness", "energy",
	}
	for i := range numMFCC {
		names = append(names, fmt.Sprintf("mfcc_%d", i))
	}
	names = append(names, "perceptualSpread", "perceptualSharpness")
	for i := range 12 {
		names = append(names, fmt.Sprintf("chroma_%d", i))
	}
	return names
}

// Extract computes every named feature series over the sample buffer. All
// series have equal length, one value per frame, each independently
// normalized to [0, 1]. A buffer shorter than one frame yields empty series.
func (e *Extractor) Extract(samples []int16) (result map[string][]float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExtractionError{Err: fmt.Errorf("feature loop panic: %v", r)}
		}
	}()

	series := make(map[string][]float64, len(FeatureNames()))
	for _, name := range FeatureNames() {
		series[name] = []float64{}
	}

	frame := make([]float64, FrameSize)
	numFrames := 0
	for i := 0; i+FrameSize <= len(samples); i += HopLength {
		for j := range FrameSize {
			frame[j] = float64(samples[i+j]) / 32768.0
		}

		// One transform per frame, shared across every spectral descriptor
		spectrum := e.fft.Magnitudes(frame)

		centroid := e.centroid.Compute(spectrum)
		spread := e.spread.Compute(spectrum, centroid)

		series["rms"] = append(series["rms"], e.rms.Compute(frame))
		series["spectralCentroid"] = append(series["spectralCentroid"], centroid)
		series["spectralRolloff"] = append(series["spectralRolloff"], e.rolloff.Compute(spectrum))
		series["spectralFlatness"] = append(series["spectralFlatness"], e.flatness.Compute(spectrum))
		series["spectralSpread"] = append(series["spectralSpread"], spread)
		series["zcr"] = append(series["zcr"], e.zcr.Compute(frame))
		series["loudness"] = append(series["loudness"], e.loudness.Compute(spectrum))
		series["energy"] = append(series["energy"], e.energy.Compute(frame))

		coeffs := e.mfcc.Compute(spectrum)
		for c, v := range coeffs {
			name := fmt.Sprintf("mfcc_%d", c)
			series[name] = append(series[name], v)
		}

		denominator := centroid
		if denominator < 1 {
			denominator = 1
		}
		series["perceptualSpread"] = append(series["perceptualSpread"], spread/denominator)
		series["perceptualSharpness"] = append(series["perceptualSharpness"], e.sharpness.Compute(spectrum))

		chroma := e.chroma.Compute(spectrum)
		for c, v := range chroma {
			name := fmt.Sprintf("chroma_%d", c)
			series[name] = append(series[name], v)
		}

		numFrames++
	}

	for name, values := range series {
		series[name] = normalizeSeries(values)
	}

	e.logger.Debug("feature extraction completed", logging.Fields{
		"num_samples": len(samples),
		"num_frames":  numFrames,
		"num_series":  len(series),
	})

	return series, nil
}
