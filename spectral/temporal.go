package spectral

import "math"

// Time-domain descriptors over one frame of samples already normalized to
// [-1, 1].

// RMS computes the root-mean-square amplitude of a frame
type RMS struct{}

// NewRMS creates a new RMS calculator
func NewRMS() *RMS {
	return &RMS{}
}

// Compute calculates RMS for a single frame
func (r *RMS) Compute(frame []float64) float64 {
	if len(frame) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range frame {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// Energy computes the mean squared amplitude of a frame
type Energy struct{}

// NewEnergy creates a new energy calculator
func NewEnergy() *Energy {
	return &Energy{}
}

// Compute calculates mean squared amplitude for a single frame
func (e *Energy) Compute(frame []float64) float64 {
	if len(frame) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range frame {
		sum += v * v
	}
	return sum / float64(len(frame))
}

// ZeroCrossingRate computes the fraction of adjacent sample pairs that
// change sign
type ZeroCrossingRate struct{}

// NewZeroCrossingRate creates a new zero-crossing rate calculator
func NewZeroCrossingRate() *ZeroCrossingRate {
	return &ZeroCrossingRate{}
}

// Compute calculates the zero-crossing rate for a single frame
func (z *ZeroCrossingRate) Compute(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame)-1)
}
