package climatology

import (
	"errors"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"
)

// monthValueField returns a field whose slice for month M is filled with M.
func monthValueField(t *testing.T, rows, cols int) *Field {
	t.Helper()
	data := make([][][]float64, MonthsPerYear)
	for m := range data {
		data[m] = make([][]float64, rows)
		for r := range data[m] {
			data[m][r] = make([]float64, cols)
			for c := range data[m][r] {
				data[m][r][c] = float64(m + 1)
			}
		}
	}
	f, err := NewField(data)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	return f
}

// seasonalField returns a field whose cells differ both by month and by
// position, so that slices are never accidentally equal.
func seasonalField(t *testing.T, rows, cols int) *Field {
	t.Helper()
	months := make([]*mat.Dense, MonthsPerYear)
	for m := range months {
		d := mat.NewDense(rows, cols, nil)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				d.Set(r, c, 20+float64(m)*0.75+float64(r)*0.1-float64(c)*0.05)
			}
		}
		months[m] = d
	}
	f, err := NewFieldFromDense(months)
	if err != nil {
		t.Fatalf("NewFieldFromDense: %v", err)
	}
	return f
}

func TestNewFieldValidation(t *testing.T) {
	square := func(n int) [][]float64 {
		s := make([][]float64, n)
		for i := range s {
			s[i] = make([]float64, n)
		}
		return s
	}
	months := func(n int, slice func(m int) [][]float64) [][][]float64 {
		d := make([][][]float64, n)
		for m := range d {
			d[m] = slice(m)
		}
		return d
	}

	tests := []struct {
		name string
		data [][][]float64
	}{
		{"no months", nil},
		{"six months", months(6, func(int) [][]float64 { return square(2) })},
		{"thirteen months", months(13, func(int) [][]float64 { return square(2) })},
		{"empty slice", months(12, func(m int) [][]float64 {
			if m == 4 {
				return [][]float64{}
			}
			return square(2)
		})},
		{"ragged rows", months(12, func(m int) [][]float64 {
			s := square(3)
			if m == 7 {
				s[1] = s[1][:2]
			}
			return s
		})},
		{"mismatched shape", months(12, func(m int) [][]float64 {
			if m == 11 {
				return square(3)
			}
			return square(2)
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewField(tt.data)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("NewField error = %v, expected ErrInvalidInput", err)
			}
		})
	}
}

func TestNewFieldFromDenseValidation(t *testing.T) {
	good := func() []*mat.Dense {
		ms := make([]*mat.Dense, MonthsPerYear)
		for i := range ms {
			ms[i] = mat.NewDense(2, 3, nil)
		}
		return ms
	}

	withNil := good()
	withNil[3] = nil

	mismatched := good()
	mismatched[5] = mat.NewDense(3, 2, nil)

	tests := []struct {
		name   string
		months []*mat.Dense
	}{
		{"too few", good()[:6]},
		{"nil month", withNil},
		{"empty month", append(good()[:11], &mat.Dense{})},
		{"mismatched", mismatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFieldFromDense(tt.months); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("NewFieldFromDense error = %v, expected ErrInvalidInput", err)
			}
		})
	}

	f, err := NewFieldFromDense(good())
	if err != nil {
		t.Fatalf("NewFieldFromDense: %v", err)
	}
	if r, c := f.Dims(); r != 2 || c != 3 {
		t.Errorf("Dims = %dx%d, expected 2x3", r, c)
	}
}

func TestFieldCopiesInput(t *testing.T) {
	months := make([]*mat.Dense, MonthsPerYear)
	for i := range months {
		months[i] = mat.NewDense(1, 1, []float64{float64(i)})
	}
	f, err := NewFieldFromDense(months)
	if err != nil {
		t.Fatalf("NewFieldFromDense: %v", err)
	}

	months[0].Set(0, 0, 99)
	if got := f.Month(time.January).At(0, 0); got != 0 {
		t.Errorf("field changed with its source matrix: got %v, expected 0", got)
	}
}

func TestMonthReturnsCopy(t *testing.T) {
	f := monthValueField(t, 2, 2)

	f.Month(time.June).Set(0, 0, -1)
	if got := f.Month(time.June).At(0, 0); got != 6 {
		t.Errorf("field changed through Month: got %v, expected 6", got)
	}
	got, err := f.PointAt(time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC), 0, 0)
	if err != nil || got != 6 {
		t.Errorf("PointAt = %v, %v; expected 6", got, err)
	}
}
