package spectral

// sharpnessCapHz caps the frequency-increasing sharpness weight; everything
// above 10kHz contributes at full weight
const sharpnessCapHz = 10000.0

// PerceptualSharpness computes a magnitude-weighted mean of a
// frequency-increasing weight, normalized by total magnitude. Bright frames
// score near 1, dull frames near 0.
type PerceptualSharpness struct {
	sampleRate int
	freqBins   []float64
}

// NewPerceptualSharpness creates a new perceptual sharpness calculator
func NewPerceptualSharpness(sampleRate int) *PerceptualSharpness {
	return &PerceptualSharpness{sampleRate: sampleRate}
}

// Compute calculates perceptual sharpness for a single magnitude spectrum
func (ps *PerceptualSharpness) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	if len(ps.freqBins) != len(spectrum) {
		ps.freqBins = binFrequencies(len(spectrum), ps.sampleRate)
	}

	weighted := 0.0
	totalMagnitude := 0.0
	for i := range spectrum {
		weight := ps.freqBins[i] / sharpnessCapHz
		if weight > 1.0 {
			weight = 1.0
		}
		weighted += weight * spectrum[i]
		totalMagnitude += spectrum[i]
	}

	if totalMagnitude == 0 {
		return 0
	}
	return weighted / totalMagnitude
}
