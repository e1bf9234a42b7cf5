package spectral

// SpectralRolloff computes the spectral rolloff frequency: the lowest bin at
// which cumulative squared-magnitude energy reaches the threshold share of
// the total.
type SpectralRolloff struct {
	sampleRate int
	threshold  float64
	freqBins   []float64
}

// NewSpectralRolloff creates a new spectral rolloff calculator with the given
// energy threshold (0.85 for the 85th percentile used by the extractor)
func NewSpectralRolloff(sampleRate int, threshold float64) *SpectralRolloff {
	return &SpectralRolloff{sampleRate: sampleRate, threshold: threshold}
}

// Compute calculates spectral rolloff for a single magnitude spectrum. Falls
// back to Nyquist when the threshold is never reached.
func (sr *SpectralRolloff) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	if len(sr.freqBins) != len(spectrum) {
		sr.freqBins = binFrequencies(len(spectrum), sr.sampleRate)
	}

	totalEnergy := 0.0
	for _, mag := range spectrum {
		totalEnergy += mag * mag
	}

	targetEnergy := sr.threshold * totalEnergy
	cumulativeEnergy := 0.0
	for i := range spectrum {
		cumulativeEnergy += spectrum[i] * spectrum[i]
		if cumulativeEnergy >= targetEnergy {
			return sr.freqBins[i]
		}
	}

	return float64(sr.sampleRate) / 2
}
