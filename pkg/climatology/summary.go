package climatology

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Summary holds basic statistics of a grid. NaN cells, typically land in
// an SST field, are counted as missing and left out of the statistics.
type Summary struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	Valid   int     `json:"valid"`
	Missing int     `json:"missing"`
}

// Summarize computes a Summary of g. A grid with no valid cells returns
// zero statistics.
func Summarize(g mat.Matrix) Summary {
	rows, cols := g.Dims()
	vals := make([]float64, 0, rows*cols)
	var s Summary
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := g.At(i, j)
			if math.IsNaN(v) {
				s.Missing++
				continue
			}
			vals = append(vals, v)
		}
	}

	s.Valid = len(vals)
	if s.Valid == 0 {
		return s
	}

	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Mean = stat.Mean(vals, nil)
	if s.Valid > 1 {
		s.StdDev = stat.StdDev(vals, nil)
	}
	return s
}
