package extract

import "gonum.org/v1/gonum/floats"

// normalizeSeries rescales a raw series linearly into [0, 1]. A constant
// nonzero series maps to 0.5 everywhere so "present but flat" is not
// confused with "absent"; a constant zero-or-negative series maps to zeros.
func normalizeSeries(values []float64) []float64 {
	if len(values) == 0 {
		return values
	}

	minVal := floats.Min(values)
	maxVal := floats.Max(values)

	normalized := make([]float64, len(values))
	if maxVal == minVal {
		if maxVal > 0 {
			for i := range normalized {
				normalized[i] = 0.5
			}
		}
		return normalized
	}

	span := maxVal - minVal
	for i, v := range values {
		normalized[i] = (v - minVal) / span
	}
	return normalized
}
