package birthday

import (
	"time"

	"github.com/tartampluch/go-birthday-server/internal/config"
)

// Stats summarizes the full record set relative to a reference date.
// It is derived, never stored; recompute on every request.
type Stats struct {
	TotalRecords       int `json:"totalRecords"`
	UpcomingBirthdays  int `json:"upcomingBirthdays"`
	RecordsWithoutYear int `json:"recordsWithoutYear"`
	ThisMonthBirthdays int `json:"thisMonthBirthdays"`
}

// ComputeStats folds the record set into a Stats value. Pure: no mutation,
// no I/O, no clock reads.
func ComputeStats(records []Record, today time.Time) Stats {
	s := Stats{TotalRecords: len(records)}

	for _, r := range records {
		if !r.BirthDate.YearKnown {
			s.RecordsWithoutYear++
		}
		if r.BirthDate.Month == today.Month() {
			s.ThisMonthBirthdays++
		}
		if r.BirthDate.DaysUntil(today) <= config.UpcomingWindowDays {
			s.UpcomingBirthdays++
		}
	}
	return s
}
