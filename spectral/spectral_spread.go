package spectral

import "math"

// SpectralSpread computes the magnitude-weighted standard deviation of
// frequency around the spectral centroid
type SpectralSpread struct {
	sampleRate int
	freqBins   []float64
}

// NewSpectralSpread creates a new spectral spread calculator
func NewSpectralSpread(sampleRate int) *SpectralSpread {
	return &SpectralSpread{sampleRate: sampleRate}
}

// Compute calculates spectral spread for a single magnitude spectrum around
// the given centroid frequency
func (ss *SpectralSpread) Compute(spectrum []float64, centroid float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	if len(ss.freqBins) != len(spectrum) {
		ss.freqBins = binFrequencies(len(spectrum), ss.sampleRate)
	}

	variance := 0.0
	totalMagnitude := 0.0
	for i := range spectrum {
		deviation := ss.freqBins[i] - centroid
		variance += deviation * deviation * spectrum[i]
		totalMagnitude += spectrum[i]
	}

	if totalMagnitude == 0 {
		return 0
	}
	return math.Sqrt(variance / totalMagnitude)
}
