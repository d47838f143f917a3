package climatology

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// DateLayout is the accepted date format (YYYY-MM-DD).
	DateLayout = "2006-01-02"

	// AnchorDay is the day of month each monthly slice represents.
	AnchorDay = 15
)

// ParseDate parses a YYYY-MM-DD string as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

// Anchor returns the anchor date (the 15th) of the given month.
func Anchor(year int, month time.Month) time.Time {
	return time.Date(year, month, AnchorDay, 0, 0, 0, 0, time.UTC)
}

// Anchors returns the anchors of the month before t, the month of t, and
// the month after t. The year rolls over at December and January.
func Anchors(t time.Time) (prev, mid, next time.Time) {
	mid = Anchor(t.Year(), t.Month())
	return mid.AddDate(0, -1, 0), mid, mid.AddDate(0, 1, 0)
}

// Bracket describes the pair of anchors surrounding a date and the
// interpolation weight of the later one.
type Bracket struct {
	Start       time.Time
	End         time.Time
	TotalDays   int
	ElapsedDays int
	Fraction    float64

	// Exact is set when the date falls on an anchor. Start and End are then
	// the same date and no fraction is computed.
	Exact bool
}

// NewBracket selects the anchors around t. Only the calendar date of t is
// used; the time of day and location are ignored.
func NewBracket(t time.Time) Bracket {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	prev, mid, next := Anchors(t)

	switch {
	case t.Day() > AnchorDay:
		return span(mid, next, t)
	case t.Day() < AnchorDay:
		return span(prev, mid, t)
	default:
		return Bracket{Start: mid, End: mid, Exact: true}
	}
}

func span(d1, d2, t time.Time) Bracket {
	total := daysBetween(d1, d2)
	elapsed := daysBetween(d1, t)
	return Bracket{
		Start:       d1,
		End:         d2,
		TotalDays:   total,
		ElapsedDays: elapsed,
		Fraction:    float64(elapsed) / float64(total),
	}
}

// daysBetween counts whole days from a to b using Julian day numbers.
func daysBetween(a, b time.Time) int {
	return int(math.Round(julian.TimeToJD(b) - julian.TimeToJD(a)))
}

// IsLeapYear reports whether t falls in a Gregorian leap year.
func IsLeapYear(t time.Time) bool {
	return julian.LeapYearGregorian(t.Year())
}
