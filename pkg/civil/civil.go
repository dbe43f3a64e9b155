// Package civil provides calendar-day arithmetic in named civil time zones.
// ALL instants handed to this package are expected to be UTC; conversion to
// a civil date happens exactly once, here, via the IANA zone database.
// Mixing raw instants and calendar days shifts results by one day near zone
// boundaries, so every other package works in Day units only.
package civil

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeZone is returned when a zone name is not present in the IANA
// database. Callers must treat it as a fatal configuration problem.
var ErrInvalidTimeZone = errors.New("invalid time zone")

// Day is a (year, month, day) triple with no time-of-day or zone component.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// Date converts an instant to the calendar day it falls on in the named zone.
// Two instants map to the same Day iff they share a civil date in that zone.
func Date(t time.Time, zone string) (Day, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidTimeZone, zone)
	}
	year, month, day := t.In(loc).Date()
	return Day{Year: year, Month: month, Day: day}, nil
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// midnightUTC anchors the day at a fixed instant so day arithmetic can lean
// on the standard library's date normalization. The UTC anchor is an
// implementation detail and never escapes this package.
func (d Day) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns b minus a in whole calendar days. The result is
// negative when b precedes a, and DaysBetween(a, b) == -DaysBetween(b, a).
func DaysBetween(a, b Day) int {
	return int(b.midnightUTC().Sub(a.midnightUTC()) / (24 * time.Hour))
}

// AddDays returns the day n calendar days after d (before, for negative n).
func (d Day) AddDays(n int) Day {
	year, month, day := d.midnightUTC().AddDate(0, 0, n).Date()
	return Day{Year: year, Month: month, Day: day}
}

// Before reports whether d falls strictly before other.
func (d Day) Before(other Day) bool {
	return DaysBetween(d, other) > 0
}

// After reports whether d falls strictly after other.
func (d Day) After(other Day) bool {
	return DaysBetween(d, other) < 0
}
