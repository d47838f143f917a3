package climatology

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"time"
)

// canonicalNaN stands in for every NaN payload so land masks hash the same
// however they were produced.
var canonicalNaN = math.Float64bits(math.NaN())

// Fingerprint returns a hex SHA-256 digest of the field's shape and values.
// Two fields with equal shape and equal values, NaN cells included, have
// the same fingerprint.
func (f *Field) Fingerprint() string {
	f.fpOnce.Do(func() {
		h := sha256.New()
		var buf [8]byte

		binary.LittleEndian.PutUint64(buf[:], uint64(f.rows))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(f.cols))
		h.Write(buf[:])

		for m := time.January; m <= time.December; m++ {
			s := f.slice(m)
			for r := 0; r < f.rows; r++ {
				for c := 0; c < f.cols; c++ {
					v := s.At(r, c)
					bits := math.Float64bits(v)
					if math.IsNaN(v) {
						bits = canonicalNaN
					}
					binary.LittleEndian.PutUint64(buf[:], bits)
					h.Write(buf[:])
				}
			}
		}
		f.fp = hex.EncodeToString(h.Sum(nil))
	})
	return f.fp
}
