// Package climatology computes daily climatology grids from a 12-month
// climatology field.
//
// Each monthly slice is treated as the value at the 15th of its month. A
// date between two anchors is served by linear interpolation between the
// two bracketing slices, weighted by the number of calendar days elapsed
// since the earlier anchor. The 15th itself returns the monthly slice
// unchanged.
//
// Everything here is pure: a Field is immutable once built and every
// result is a new allocation, so a single Field can be shared by any
// number of goroutines.
package climatology
