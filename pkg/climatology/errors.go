package climatology

import "errors"

var (
	// ErrInvalidDate is returned for date strings that do not parse as
	// YYYY-MM-DD or that name an impossible calendar date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInput is returned when a climatology field does not have
	// 12 monthly slices of a single, non-empty shape.
	ErrInvalidInput = errors.New("invalid climatology field")
)
