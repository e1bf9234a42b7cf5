package spectral

import "math"

// minMagnitude floors magnitudes before the log so a silent bin cannot
// produce -Inf
const minMagnitude = 1e-10

// SpectralFlatness computes spectral flatness (Wiener entropy): geometric
// mean of bin magnitudes over arithmetic mean. Noise-like content scores
// high, tonal content low.
type SpectralFlatness struct{}

// NewSpectralFlatness creates a new spectral flatness calculator
func NewSpectralFlatness() *SpectralFlatness {
	return &SpectralFlatness{}
}

// Compute calculates spectral flatness for a single magnitude spectrum
func (sf *SpectralFlatness) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	logSum := 0.0
	arithmeticSum := 0.0
	for _, magnitude := range spectrum {
		logSum += math.Log(math.Max(magnitude, minMagnitude))
		arithmeticSum += magnitude
	}

	arithmeticMean := arithmeticSum / float64(len(spectrum))
	if arithmeticMean <= 0 {
		return 0.0
	}

	geometricMean := math.Exp(logSum / float64(len(spectrum)))
	return geometricMean / arithmeticMean
}
