package climatology

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSummarize(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name     string
		grid     *mat.Dense
		expected Summary
	}{
		{
			name:     "constant",
			grid:     mat.NewDense(2, 2, []float64{3, 3, 3, 3}),
			expected: Summary{Min: 3, Max: 3, Mean: 3, StdDev: 0, Valid: 4},
		},
		{
			name:     "with land mask",
			grid:     mat.NewDense(2, 3, []float64{nan, 20, 24, 22, nan, nan}),
			expected: Summary{Min: 20, Max: 24, Mean: 22, StdDev: 2, Valid: 3, Missing: 3},
		},
		{
			name:     "single cell",
			grid:     mat.NewDense(1, 1, []float64{27.25}),
			expected: Summary{Min: 27.25, Max: 27.25, Mean: 27.25, Valid: 1},
		},
		{
			name:     "all land",
			grid:     mat.NewDense(1, 2, []float64{nan, nan}),
			expected: Summary{Missing: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.grid)
			if got.Valid != tt.expected.Valid || got.Missing != tt.expected.Missing {
				t.Errorf("counts = %d valid / %d missing, expected %d / %d",
					got.Valid, got.Missing, tt.expected.Valid, tt.expected.Missing)
			}
			check := func(name string, g, e float64) {
				if math.Abs(g-e) > 1e-12 {
					t.Errorf("%s = %v, expected %v", name, g, e)
				}
			}
			check("Min", got.Min, tt.expected.Min)
			check("Max", got.Max, tt.expected.Max)
			check("Mean", got.Mean, tt.expected.Mean)
			check("StdDev", got.StdDev, tt.expected.StdDev)
		})
	}
}
