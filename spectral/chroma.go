package spectral

import "math"

const (
	chromaBins    = 12
	chromaRefFreq = 440.0 // A4 reference for pitch-class folding
)

// Chroma folds a magnitude spectrum into a 12-bin pitch-class vector: each
// bin's magnitude accumulates into round(12*log2(freq/440)) mod 12. The
// final vector is normalized by its own max.
type Chroma struct {
	sampleRate int
	freqBins   []float64
	pitchClass []int
}

// NewChroma creates a new chroma calculator
func NewChroma(sampleRate int) *Chroma {
	return &Chroma{sampleRate: sampleRate}
}

// Bins returns the number of pitch classes in the output vector
func (c *Chroma) Bins() int {
	return chromaBins
}

// Compute calculates the chroma vector for a single magnitude spectrum
func (c *Chroma) Compute(spectrum []float64) []float64 {
	chroma := make([]float64, chromaBins)
	if len(spectrum) == 0 {
		return chroma
	}

	if len(c.freqBins) != len(spectrum) {
		c.initPitchClasses(len(spectrum))
	}

	for i, magnitude := range spectrum {
		if c.pitchClass[i] < 0 {
			continue // DC carries no pitch
		}
		chroma[c.pitchClass[i]] += magnitude
	}

	maxVal := 0.0
	for _, v := range chroma {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal > 0 {
		for i := range chroma {
			chroma[i] /= maxVal
		}
	}

	return chroma
}

func (c *Chroma) initPitchClasses(numBins int) {
	c.freqBins = binFrequencies(numBins, c.sampleRate)
	c.pitchClass = make([]int, numBins)
	for i, freq := range c.freqBins {
		if freq <= 0 {
			c.pitchClass[i] = -1
			continue
		}
		pc := int(math.Round(chromaBins*math.Log2(freq/chromaRefFreq))) % chromaBins
		if pc < 0 {
			pc += chromaBins
		}
		c.pitchClass[i] = pc
	}
}
