package climatology

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Daily returns the climatology grid for a YYYY-MM-DD date.
func (f *Field) Daily(date string) (*mat.Dense, error) {
	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return f.DailyAt(t), nil
}

// DailyAt returns the climatology grid for the calendar date of t. The
// result is always a new matrix.
func (f *Field) DailyAt(t time.Time) *mat.Dense {
	b := NewBracket(t)
	if b.Exact {
		return mat.DenseCopyOf(f.slice(b.Start.Month()))
	}

	a := f.slice(b.Start.Month())
	next := f.slice(b.End.Month())

	// fraction*(B-A) + A
	var out mat.Dense
	out.Sub(next, a)
	out.Scale(b.Fraction, &out)
	out.Add(&out, a)
	return &out
}

// PointAt returns a single cell of the grid DailyAt(t) would produce.
func (f *Field) PointAt(t time.Time, row, col int) (float64, error) {
	if row < 0 || row >= f.rows || col < 0 || col >= f.cols {
		return 0, fmt.Errorf("%w: cell (%d, %d) outside %dx%d grid", ErrInvalidInput, row, col, f.rows, f.cols)
	}

	b := NewBracket(t)
	a := f.slice(b.Start.Month()).At(row, col)
	if b.Exact {
		return a, nil
	}
	next := f.slice(b.End.Month()).At(row, col)
	// The conversion keeps the compiler from fusing into an FMA, so the
	// result matches DailyAt bit for bit.
	return float64(b.Fraction*(next-a)) + a, nil
}

// InterpolateDaily computes the daily climatology for date from a raw
// month × lat × lon array, January first.
func InterpolateDaily(data [][][]float64, date string) ([][]float64, error) {
	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	f, err := NewField(data)
	if err != nil {
		return nil, err
	}

	return ToRows(f.DailyAt(t)), nil
}

// ToRows copies a matrix into a row-major [][]float64.
func ToRows(m mat.Matrix) [][]float64 {
	rows, _ := m.Dims()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}
