package climatology

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"
)

func TestMidpointIdentity(t *testing.T) {
	f := seasonalField(t, 4, 5)
	for _, year := range []int{1900, 1999, 2000, 2023, 2024} {
		for m := time.January; m <= time.December; m++ {
			ds := fmt.Sprintf("%04d-%02d-15", year, m)
			got, err := f.Daily(ds)
			if err != nil {
				t.Fatalf("Daily(%s): %v", ds, err)
			}
			if !mat.Equal(got, f.Month(m)) {
				t.Errorf("Daily(%s) differs from the %s slice", ds, m)
			}
		}
	}
}

func TestContinuity(t *testing.T) {
	f := monthValueField(t, 2, 2)
	for m := time.January; m <= time.December; m++ {
		prevMonth := (m+10)%12 + 1
		nextMonth := m%12 + 1

		cases := []struct {
			day  int
			a, b float64
		}{
			{14, float64(prevMonth), float64(m)},
			{16, float64(m), float64(nextMonth)},
		}
		for _, c := range cases {
			got := f.DailyAt(date(2023, m, c.day))
			lo, hi := math.Min(c.a, c.b), math.Max(c.a, c.b)
			v := got.At(1, 1)
			if !(v > lo && v < hi) {
				t.Errorf("%s %d: value %v not strictly inside (%v, %v)", m, c.day, v, lo, hi)
			}
		}
	}
}

func TestContinuityIdenticalSlices(t *testing.T) {
	data := make([][][]float64, MonthsPerYear)
	for m := range data {
		data[m] = [][]float64{{28.5}}
	}
	f, err := NewField(data)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	for _, ds := range []string{"2023-06-14", "2023-06-16"} {
		got, err := f.Daily(ds)
		if err != nil {
			t.Fatalf("Daily(%s): %v", ds, err)
		}
		if got.At(0, 0) != 28.5 {
			t.Errorf("Daily(%s) = %v, expected 28.5", ds, got.At(0, 0))
		}
	}
}

func TestMonotonicSweep(t *testing.T) {
	f := seasonalField(t, 3, 3)
	for _, year := range []int{2023, 2024} {
		for m := time.January; m <= time.December; m++ {
			lastDay := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
			a := f.Month(m).At(2, 1)
			b := f.Month(m%12+1).At(2, 1)

			prevFrac := 0.0
			prevVal := a
			for day := AnchorDay + 1; day <= lastDay; day++ {
				d := date(year, m, day)
				br := NewBracket(d)
				if br.Fraction <= prevFrac || br.Fraction >= 1 {
					t.Errorf("%v: fraction %v not in (%v, 1)", d.Format(DateLayout), br.Fraction, prevFrac)
				}
				v := f.DailyAt(d).At(2, 1)
				if (b > a && v <= prevVal) || (b < a && v >= prevVal) {
					t.Errorf("%v: value %v does not move from %v toward %v", d.Format(DateLayout), v, prevVal, b)
				}
				prevFrac, prevVal = br.Fraction, v
			}
		}
	}
}

func TestYearRollover(t *testing.T) {
	f := monthValueField(t, 2, 3)
	got, err := f.Daily("2023-01-05")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}

	b := NewBracket(date(2023, time.January, 5))
	if b.Start.Month() != time.December || b.Start.Year() != 2022 {
		t.Errorf("previous anchor = %v, expected 2022-12-15", b.Start)
	}
	if b.TotalDays != 31 {
		t.Errorf("TotalDays = %d, expected 31", b.TotalDays)
	}

	frac := 21.0 / 31.0
	expected := float64(frac*(1.0-12.0)) + 12.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if v := got.At(i, j); v != expected {
				t.Errorf("cell (%d,%d) = %v, expected %v", i, j, v, expected)
			}
		}
	}
}

func TestLeapYearFebruary(t *testing.T) {
	f := monthValueField(t, 1, 1)
	tests := []struct {
		date      string
		elapsed   float64
		totalDays float64
		from, to  float64
	}{
		{"2024-02-10", 26, 31, 1, 2},
		{"2023-02-10", 26, 31, 1, 2},
		{"2024-02-20", 5, 29, 2, 3},
		{"2023-02-20", 5, 28, 2, 3},
		{"2024-03-10", 24, 29, 2, 3},
		{"2023-03-10", 23, 28, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := f.Daily(tt.date)
			if err != nil {
				t.Fatalf("Daily: %v", err)
			}
			frac := tt.elapsed / tt.totalDays
			expected := float64(frac*(tt.to-tt.from)) + tt.from
			if v := got.At(0, 0); v != expected {
				t.Errorf("value = %v, expected %v", v, expected)
			}
		})
	}
}

func TestConcreteExample(t *testing.T) {
	f := monthValueField(t, 3, 4)
	got, err := f.Daily("2023-03-23")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}

	frac := 8.0 / 31.0
	expected := float64(frac*(4.0-3.0)) + 3.0
	if math.Abs(expected-3.258) > 0.001 {
		t.Fatalf("bad expectation %v", expected)
	}
	r, c := got.Dims()
	if r != 3 || c != 4 {
		t.Fatalf("result is %dx%d, expected 3x4", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := got.At(i, j); v != expected {
				t.Errorf("cell (%d,%d) = %v, expected %v", i, j, v, expected)
			}
		}
	}
}

func TestDailyErrors(t *testing.T) {
	f := monthValueField(t, 1, 1)
	for _, ds := range []string{"2023-13-05", "2023-02-30", "", "03/23/2023"} {
		if _, err := f.Daily(ds); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("Daily(%q) error = %v, expected ErrInvalidDate", ds, err)
		}
	}
}

func TestDailyDoesNotAliasField(t *testing.T) {
	f := seasonalField(t, 2, 2)
	orig := f.Month(time.May).At(0, 0)

	got, err := f.Daily("2023-05-15")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	got.Set(0, 0, -999)

	if v := f.Month(time.May).At(0, 0); v != orig {
		t.Errorf("field slice modified through result: got %v, expected %v", v, orig)
	}
}

func TestNaNPropagates(t *testing.T) {
	months := make([]*mat.Dense, MonthsPerYear)
	for m := range months {
		months[m] = mat.NewDense(1, 2, []float64{math.NaN(), float64(m)})
	}
	f, err := NewFieldFromDense(months)
	if err != nil {
		t.Fatalf("NewFieldFromDense: %v", err)
	}
	got := f.DailyAt(date(2023, time.August, 20))
	if !math.IsNaN(got.At(0, 0)) {
		t.Errorf("masked cell = %v, expected NaN", got.At(0, 0))
	}
	if math.IsNaN(got.At(0, 1)) {
		t.Errorf("ocean cell is NaN")
	}
}

func TestPointAt(t *testing.T) {
	f := seasonalField(t, 3, 4)
	for _, d := range []time.Time{
		date(2023, time.January, 5),
		date(2023, time.March, 15),
		date(2024, time.February, 29),
		date(2023, time.December, 31),
	} {
		grid := f.DailyAt(d)
		for i := 0; i < 3; i++ {
			for j := 0; j < 4; j++ {
				v, err := f.PointAt(d, i, j)
				if err != nil {
					t.Fatalf("PointAt: %v", err)
				}
				if v != grid.At(i, j) {
					t.Errorf("%v (%d,%d): PointAt = %v, grid = %v", d.Format(DateLayout), i, j, v, grid.At(i, j))
				}
			}
		}
	}

	for _, cell := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 4}} {
		if _, err := f.PointAt(date(2023, time.June, 1), cell[0], cell[1]); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("PointAt(%v) error = %v, expected ErrInvalidInput", cell, err)
		}
	}
}

func TestInterpolateDaily(t *testing.T) {
	data := make([][][]float64, MonthsPerYear)
	for m := range data {
		data[m] = [][]float64{
			{float64(m + 1), 10 * float64(m+1)},
			{math.NaN(), -float64(m + 1)},
		}
	}

	got, err := InterpolateDaily(data, "2023-03-23")
	if err != nil {
		t.Fatalf("InterpolateDaily: %v", err)
	}
	if len(got) != 2 || len(got[0]) != 2 || len(got[1]) != 2 {
		t.Fatalf("result shape = %d rows, expected 2x2", len(got))
	}

	frac := 8.0 / 31.0
	expected := [][]float64{
		{float64(frac*(4-3)) + 3, float64(frac*(40-30)) + 30},
		{math.NaN(), float64(frac*(-4 - -3)) - 3},
	}
	for i := range expected {
		for j := range expected[i] {
			e, g := expected[i][j], got[i][j]
			if math.IsNaN(e) != math.IsNaN(g) || (!math.IsNaN(e) && e != g) {
				t.Errorf("cell (%d,%d) = %v, expected %v", i, j, g, e)
			}
		}
	}

	if data[2][0][0] != 3 {
		t.Errorf("input modified: %v", data[2][0][0])
	}

	if _, err := InterpolateDaily(data, "2023-13-05"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad month error = %v, expected ErrInvalidDate", err)
	}
	if _, err := InterpolateDaily(data[:6], "2023-03-05"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("six month error = %v, expected ErrInvalidInput", err)
	}
}
