package drive

import "math"

// Mean calculates the average of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MaxFloat returns the maximum value and its index, or (-Inf, -1) when the
// slice holds no number. NaN values are skipped. Ties keep the first
// occurrence.
func MaxFloat(values []float64) (float64, int) {
	maxVal, idx := math.Inf(-1), -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if idx == -1 || v > maxVal {
			maxVal, idx = v, i
		}
	}
	return maxVal, idx
}
