package spectral

import "math"

const (
	// melFilterSpacing spaces the simplified filter centers at i*200 mel
	melFilterSpacing = 200.0
	// melFilterSigma is the width of the Gaussian kernel around each center
	melFilterSigma = 100.0
)

// MFCC computes simplified mel-cepstral coefficients: for each mel-spaced
// Gaussian filter the magnitude spectrum is weight-summed over mel frequency
// and the coefficient is the log of that sum. No DCT stage; the coefficients
// are filter-bank log energies, which is what the visualization consumers
// were tuned against.
type MFCC struct {
	sampleRate int
	numCoeffs  int
	freqBins   []float64
	melBins    []float64
}

// NewMFCC creates a new MFCC calculator producing numCoeffs coefficients
func NewMFCC(sampleRate, numCoeffs int) *MFCC {
	return &MFCC{sampleRate: sampleRate, numCoeffs: numCoeffs}
}

// HzToMel converts frequency in Hz to mel scale
func HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// Compute calculates the coefficient vector for a single magnitude spectrum
func (m *MFCC) Compute(spectrum []float64) []float64 {
	coeffs := make([]float64, m.numCoeffs)
	if len(spectrum) == 0 {
		for i := range coeffs {
			coeffs[i] = math.Log(minMagnitude)
		}
		return coeffs
	}

	if len(m.freqBins) != len(spectrum) {
		m.freqBins = binFrequencies(len(spectrum), m.sampleRate)
		m.melBins = make([]float64, len(spectrum))
		for i, freq := range m.freqBins {
			m.melBins[i] = HzToMel(freq)
		}
	}

	for c := range m.numCoeffs {
		center := float64(c) * melFilterSpacing
		sum := 0.0
		for i, magnitude := range spectrum {
			deviation := m.melBins[i] - center
			weight := math.Exp(-(deviation * deviation) / (2 * melFilterSigma * melFilterSigma))
			sum += weight * magnitude
		}
		coeffs[c] = math.Log(math.Max(sum, minMagnitude))
	}

	return coeffs
}
