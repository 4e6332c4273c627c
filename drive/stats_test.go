package drive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, -2.0, Mean([]float64{-1, -3}))
}

func TestMaxFloat(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		values  []float64
		wantVal float64
		wantIdx int
	}{
		{"empty", nil, math.Inf(-1), -1},
		{"single", []float64{-4}, -4, 0},
		{"ties keep first", []float64{-5, -1, -1}, -1, 1},
		{"all -Inf", []float64{math.Inf(-1), math.Inf(-1)}, math.Inf(-1), 0},
		{"leading NaN", []float64{nan, -10, -5}, -5, 2},
		{"NaN between", []float64{-10, nan, -20}, -10, 0},
		{"only NaN", []float64{nan, nan}, math.Inf(-1), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, idx := MaxFloat(tt.values)
			assert.Equal(t, tt.wantVal, val)
			assert.Equal(t, tt.wantIdx, idx)
		})
	}
}
