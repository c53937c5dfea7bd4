package birthday

import "time"

// Leap-day rule: Go's time.Date normalizes Feb 29 to Mar 1 in non-leap years,
// so a Feb 29 birthday is observed on Mar 1 when the target year has no
// Feb 29. Age and next-occurrence both derive from the same normalization,
// which keeps the two in agreement: on Feb 28 the year has not incremented
// yet, on Mar 1 it has.

// AgeOn computes whole years elapsed from the birth date to today.
// The second return value is false when the birth year is unknown; age is
// undefined in that case, not zero.
func (d Date) AgeOn(today time.Time) (int, bool) {
	if !d.YearKnown {
		return 0, false
	}

	observed := observedDate(today.Year(), d, today.Location())
	age := today.Year() - d.Year
	if monthDayBefore(today.Month(), today.Day(), observed.Month(), observed.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age, true
}

// DaysUntil returns the inclusive day count from today to the next
// occurrence of the birthday. 0 means today is the occurrence day. The year
// field is ignored entirely; only month and day drive recurrence.
func (d Date) DaysUntil(today time.Time) int {
	next := d.NextOccurrence(today)
	// Both endpoints are re-anchored in UTC so DST transitions in the host
	// location cannot shorten a calendar day.
	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// NextOccurrence determines the date the birthday next recurs, relative to
// today: this year's occurrence if it is today or later, otherwise next
// year's.
func (d Date) NextOccurrence(today time.Time) time.Time {
	loc := today.Location()
	candidate := observedDate(today.Year(), d, loc)

	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	if candidate.Before(todayStart) {
		candidate = observedDate(today.Year()+1, d, loc)
	}
	return candidate
}

// observedDate projects the birthday into the given year. time.Date
// normalization moves Feb 29 to Mar 1 when the year is not a leap year.
func observedDate(year int, d Date, loc *time.Location) time.Time {
	return time.Date(year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// monthDayBefore reports whether (m1, d1) precedes (m2, d2) in the calendar.
func monthDayBefore(m1 time.Month, d1 int, m2 time.Month, d2 int) bool {
	if m1 != m2 {
		return m1 < m2
	}
	return d1 < d2
}
