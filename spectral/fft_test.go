package spectral

import (
	"math"
	"testing"

	dspfft "github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagnitudesBaseCases(t *testing.T) {
	fft := NewFFT()

	assert.Empty(t, fft.Magnitudes([]float64{}))

	single := []float64{0.42}
	assert.Equal(t, single, fft.Magnitudes(single))
}

func TestMagnitudesNonPowerOfTwo(t *testing.T) {
	fft := NewFFT()

	for _, n := range []int{3, 5, 6, 7, 100, 1000} {
		frame := make([]float64, n)
		for i := range frame {
			frame[i] = math.Sin(float64(i))
		}

		bins := fft.Magnitudes(frame)
		require.Len(t, bins, n/2, "n=%d", n)
		for _, v := range bins {
			assert.Zero(t, v, "n=%d", n)
		}
	}
}

func TestMagnitudesBinCount(t *testing.T) {
	fft := NewFFT()

	frame := make([]float64, 1024)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 44100)
	}

	bins := fft.Magnitudes(frame)

	// Half the bin count of the reference transform over the same frame
	reference := dspfft.FFTReal(frame)
	assert.Len(t, bins, len(reference)/2)
}

func TestMagnitudesDeterministic(t *testing.T) {
	fft := NewFFT()

	frame := make([]float64, 256)
	for i := range frame {
		frame[i] = math.Sin(2*math.Pi*float64(i)/64) + 0.25*math.Cos(2*math.Pi*float64(i)/16)
	}

	first := fft.Magnitudes(frame)
	second := fft.Magnitudes(frame)
	assert.Equal(t, first, second)
}

func TestMagnitudesSilence(t *testing.T) {
	fft := NewFFT()

	bins := fft.Magnitudes(make([]float64, 512))
	require.Len(t, bins, 256)
	for _, v := range bins {
		assert.Zero(t, v)
	}
}

func TestMagnitudesNonNegative(t *testing.T) {
	fft := NewFFT()

	frame := make([]float64, 128)
	for i := range frame {
		frame[i] = math.Sin(float64(i)*0.7) - 0.5
	}

	for _, v := range fft.Magnitudes(frame) {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}
