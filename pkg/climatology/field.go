package climatology

import (
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"
)

// MonthsPerYear is the number of slices in a climatology field.
const MonthsPerYear = 12

// Field is a monthly climatology: one rows×cols grid per calendar month,
// January first. Rows index latitude and columns index longitude.
type Field struct {
	months [MonthsPerYear]*mat.Dense
	rows   int
	cols   int

	fpOnce sync.Once
	fp     string
}

// NewField builds a Field from a month × lat × lon array. The data is
// copied.
func NewField(data [][][]float64) (*Field, error) {
	if len(data) != MonthsPerYear {
		return nil, fmt.Errorf("%w: expected %d monthly slices, got %d", ErrInvalidInput, MonthsPerYear, len(data))
	}

	months := make([]*mat.Dense, MonthsPerYear)
	for m, slice := range data {
		if len(slice) == 0 || len(slice[0]) == 0 {
			return nil, fmt.Errorf("%w: month %d is empty", ErrInvalidInput, m+1)
		}
		rows, cols := len(slice), len(slice[0])
		vals := make([]float64, 0, rows*cols)
		for r, row := range slice {
			if len(row) != cols {
				return nil, fmt.Errorf("%w: month %d row %d has %d columns, expected %d",
					ErrInvalidInput, m+1, r, len(row), cols)
			}
			vals = append(vals, row...)
		}
		months[m] = mat.NewDense(rows, cols, vals)
	}

	return newField(months)
}

// NewFieldFromDense builds a Field from 12 monthly matrices, January
// first. The matrices are copied.
func NewFieldFromDense(months []*mat.Dense) (*Field, error) {
	if len(months) != MonthsPerYear {
		return nil, fmt.Errorf("%w: expected %d monthly slices, got %d", ErrInvalidInput, MonthsPerYear, len(months))
	}

	copies := make([]*mat.Dense, MonthsPerYear)
	for m, d := range months {
		if d == nil || d.IsEmpty() {
			return nil, fmt.Errorf("%w: month %d is empty", ErrInvalidInput, m+1)
		}
		copies[m] = mat.DenseCopyOf(d)
	}

	return newField(copies)
}

// newField takes ownership of months.
func newField(months []*mat.Dense) (*Field, error) {
	f := &Field{}
	f.rows, f.cols = months[0].Dims()
	for m, d := range months {
		r, c := d.Dims()
		if r != f.rows || c != f.cols {
			return nil, fmt.Errorf("%w: month %d is %dx%d, expected %dx%d",
				ErrInvalidInput, m+1, r, c, f.rows, f.cols)
		}
		f.months[m] = d
	}
	return f, nil
}

// Dims returns the spatial shape shared by every monthly slice.
func (f *Field) Dims() (rows, cols int) {
	return f.rows, f.cols
}

// Month returns a copy of the slice for m. It panics if m is not a
// calendar month.
func (f *Field) Month(m time.Month) *mat.Dense {
	return mat.DenseCopyOf(f.months[m-1])
}

func (f *Field) slice(m time.Month) *mat.Dense {
	return f.months[m-1]
}
