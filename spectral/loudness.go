package spectral

import "math"

// Loudness computes a magnitude-weighted loudness sum using a simplified
// A-weighting curve: a linear ramp below 1kHz and a logarithmic decay above.
// Not calibrated against IEC 61672; the extractor only needs relative frame
// ordering since every series is min-max normalized afterwards.
type Loudness struct {
	sampleRate int
	freqBins   []float64
}

// NewLoudness creates a new loudness calculator
func NewLoudness(sampleRate int) *Loudness {
	return &Loudness{sampleRate: sampleRate}
}

// Compute calculates the weighted loudness of a single magnitude spectrum
func (l *Loudness) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	if len(l.freqBins) != len(spectrum) {
		l.freqBins = binFrequencies(len(spectrum), l.sampleRate)
	}

	sum := 0.0
	for i := range spectrum {
		sum += aWeight(l.freqBins[i]) * spectrum[i]
	}
	return sum
}

// aWeight ramps linearly from 0 at DC to 1 at 1kHz, then decays with the log
// of frequency above it
func aWeight(freq float64) float64 {
	if freq < 1000 {
		return freq / 1000.0
	}
	return 1.0 / (1.0 + math.Log10(freq/1000.0))
}
