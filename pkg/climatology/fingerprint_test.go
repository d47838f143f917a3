package climatology

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func constantField(t *testing.T, rows, cols int, v float64) *Field {
	t.Helper()
	months := make([]*mat.Dense, MonthsPerYear)
	for m := range months {
		d := mat.NewDense(rows, cols, nil)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				d.Set(r, c, v)
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

func TestFingerprint(t *testing.T) {
	base := constantField(t, 2, 3, 20)

	if got := constantField(t, 2, 3, 20).Fingerprint(); got != base.Fingerprint() {
		t.Errorf("equal fields have different fingerprints: %s and %s", got, base.Fingerprint())
	}
	if len(base.Fingerprint()) != 64 {
		t.Errorf("fingerprint %q is not a hex SHA-256 digest", base.Fingerprint())
	}

	tests := []struct {
		name  string
		other *Field
	}{
		{"values", constantField(t, 2, 3, 30)},
		{"shape", constantField(t, 3, 2, 20)},
	}
	for _, tt := range tests {
		if tt.other.Fingerprint() == base.Fingerprint() {
			t.Errorf("fields differing in %s share a fingerprint", tt.name)
		}
	}
}

func TestFingerprintNaNPayload(t *testing.T) {
	a := constantField(t, 1, 1, math.NaN())
	b := constantField(t, 1, 1, math.Float64frombits(0x7ff8000000000001))
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("NaN cells with different payloads changed the fingerprint")
	}
}
