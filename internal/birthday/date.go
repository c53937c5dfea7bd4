// Package birthday holds the domain core: the birthday date value, the
// calendar arithmetic on it, the tracked record model, and the derived
// statistics. Everything here is pure; "today" is always an explicit input.
package birthday

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-birthday-server/internal/config"
)

// ErrMalformedDate is returned when a date string matches neither the
// YYYY-MM-DD nor the --MM-DD encoding, or encodes an impossible month/day.
var ErrMalformedDate = errors.New(config.ErrMalformedDateText)

// Date is a calendar month/day pair, optionally bound to a year.
//
// The year-less variant models contacts whose birth year is unknown; it still
// recurs annually but has no defined age. Modelling this as an explicit flag
// instead of a sentinel prefix in a string keeps prefix-sniffing bugs out of
// the rest of the codebase.
type Date struct {
	Month     time.Month
	Day       int
	Year      int // meaningful only when YearKnown
	YearKnown bool
}

// ParseDate decodes the canonical text form: "YYYY-MM-DD" when the year is
// known, "--MM-DD" when it is not. Any other shape, or a month/day pair that
// does not exist on the calendar, yields ErrMalformedDate.
func ParseDate(text string) (Date, error) {
	if t, err := time.Parse(config.DateFormatNoYearD, text); err == nil {
		d := Date{Month: t.Month(), Day: t.Day()}
		if !d.valid() {
			return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, text)
		}
		return d, nil
	}

	t, err := time.Parse(config.DateFormatFullDash, text)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, text)
	}
	d := Date{Month: t.Month(), Day: t.Day(), Year: t.Year(), YearKnown: true}
	if !d.valid() {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, text)
	}
	return d, nil
}

// String renders the canonical text form. ParseDate(d.String()) == d for
// every valid date.
func (d Date) String() string {
	if !d.YearKnown {
		return fmt.Sprintf("--%02d-%02d", int(d.Month), d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as its canonical string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes the canonical string form.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrMalformedDate, string(data))
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// valid reports whether the month/day pair exists on the calendar.
// For year-less dates Feb 29 is accepted (the year it recurs in may be a
// leap year); for dated values the actual year decides.
func (d Date) valid() bool {
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	if d.Day < 1 {
		return false
	}
	year := d.Year
	if !d.YearKnown {
		year = config.DefaultLeapYear
	}
	return d.Day <= daysInMonth(year, d.Month)
}

// daysInMonth exploits time.Date normalization: day 0 of the next month is
// the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
