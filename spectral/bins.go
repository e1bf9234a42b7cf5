package spectral

// binFrequencies pre-calculates the center frequency of each magnitude bin.
// Bin i of an N-point transform sits at i * sampleRate / N, with N = 2 *
// numBins.
func binFrequencies(numBins, sampleRate int) []float64 {
	freqs := make([]float64, numBins)
	fftLength := float64(numBins * 2)
	for i := range numBins {
		freqs[i] = float64(i) * float64(sampleRate) / fftLength
	}
	return freqs
}
