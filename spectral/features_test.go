package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 44100

func TestSpectralCentroidZeroMagnitude(t *testing.T) {
	sc := NewSpectralCentroid(testSampleRate)
	assert.Zero(t, sc.Compute(make([]float64, 512)))
	assert.Zero(t, sc.Compute([]float64{}))
}

func TestSpectralCentroidSingleBin(t *testing.T) {
	sc := NewSpectralCentroid(testSampleRate)

	spectrum := make([]float64, 512)
	spectrum[100] = 3.5

	// All mass in one bin puts the centroid exactly at its frequency
	expected := 100.0 * testSampleRate / 1024.0
	assert.InDelta(t, expected, sc.Compute(spectrum), 1e-9)
}

func TestSpectralRolloffThreshold(t *testing.T) {
	sr := NewSpectralRolloff(testSampleRate, 0.85)

	spectrum := make([]float64, 512)
	spectrum[10] = 1.0
	assert.InDelta(t, 10.0*testSampleRate/1024.0, sr.Compute(spectrum), 1e-9)
}

func TestSpectralRolloffNyquistFallback(t *testing.T) {
	// A threshold above 1 is never reached, forcing the Nyquist fallback
	sr := NewSpectralRolloff(testSampleRate, 1.5)

	spectrum := make([]float64, 512)
	for i := range spectrum {
		spectrum[i] = 1.0
	}
	assert.InDelta(t, 22050.0, sr.Compute(spectrum), 1e-9)
}

func TestSpectralFlatnessUniformSpectrum(t *testing.T) {
	sf := NewSpectralFlatness()

	spectrum := make([]float64, 256)
	for i := range spectrum {
		spectrum[i] = 0.7
	}

	// Geometric and arithmetic means coincide for a flat spectrum
	assert.InDelta(t, 1.0, sf.Compute(spectrum), 1e-9)
}

func TestSpectralFlatnessSilence(t *testing.T) {
	sf := NewSpectralFlatness()
	assert.Zero(t, sf.Compute(make([]float64, 256)))
}

func TestSpectralSpreadSingleBin(t *testing.T) {
	ss := NewSpectralSpread(testSampleRate)
	sc := NewSpectralCentroid(testSampleRate)

	spectrum := make([]float64, 512)
	spectrum[50] = 2.0

	centroid := sc.Compute(spectrum)
	assert.InDelta(t, 0.0, ss.Compute(spectrum, centroid), 1e-6)
}

func TestLoudnessWeighting(t *testing.T) {
	assert.Zero(t, aWeight(0))
	assert.InDelta(t, 0.5, aWeight(500), 1e-9)
	assert.InDelta(t, 1.0, aWeight(1000), 1e-9)
	assert.Less(t, aWeight(10000), 1.0)
	assert.Greater(t, aWeight(10000), 0.0)
}

func TestPerceptualSharpnessBrightVsDull(t *testing.T) {
	ps := NewPerceptualSharpness(testSampleRate)

	dull := make([]float64, 512)
	dull[5] = 1.0
	bright := make([]float64, 512)
	bright[400] = 1.0

	assert.Greater(t, ps.Compute(bright), ps.Compute(dull))
	assert.LessOrEqual(t, ps.Compute(bright), 1.0)
}

func TestMFCCVectorShape(t *testing.T) {
	m := NewMFCC(testSampleRate, 13)

	spectrum := make([]float64, 512)
	for i := range spectrum {
		spectrum[i] = math.Exp(-float64(i) / 40.0)
	}

	coeffs := m.Compute(spectrum)
	require.Len(t, coeffs, 13)

	// Silence floors every coefficient at log of the minimum magnitude
	silent := m.Compute(make([]float64, 512))
	require.Len(t, silent, 13)
	for _, c := range silent {
		assert.InDelta(t, math.Log(1e-10), c, 1e-9)
	}
}

func TestChromaFoldingAndNormalization(t *testing.T) {
	c := NewChroma(testSampleRate)

	spectrum := make([]float64, 512)
	for i := 1; i < len(spectrum); i++ {
		spectrum[i] = float64(i % 7)
	}

	chroma := c.Compute(spectrum)
	require.Len(t, chroma, 12)

	maxVal := 0.0
	for _, v := range chroma {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		if v > maxVal {
			maxVal = v
		}
	}
	assert.InDelta(t, 1.0, maxVal, 1e-9)
}

func TestChromaSilence(t *testing.T) {
	c := NewChroma(testSampleRate)
	for _, v := range c.Compute(make([]float64, 512)) {
		assert.Zero(t, v)
	}
}

func TestRMSKnownFrame(t *testing.T) {
	r := NewRMS()
	assert.InDelta(t, 0.5, r.Compute([]float64{0.5, -0.5, 0.5, -0.5}), 1e-9)
	assert.Zero(t, r.Compute(nil))
}

func TestEnergyKnownFrame(t *testing.T) {
	e := NewEnergy()
	assert.InDelta(t, 0.25, e.Compute([]float64{0.5, -0.5}), 1e-9)
}

func TestZeroCrossingRate(t *testing.T) {
	z := NewZeroCrossingRate()

	// Alternating signs cross at every pair
	assert.InDelta(t, 1.0, z.Compute([]float64{1, -1, 1, -1, 1}), 1e-9)
	// Constant sign never crosses
	assert.Zero(t, z.Compute([]float64{1, 1, 1, 1}))
	assert.Zero(t, z.Compute([]float64{1}))
}
