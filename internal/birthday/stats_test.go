package birthday_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-birthday-server/internal/birthday"
)

func record(t *testing.T, id int, birth string) birthday.Record {
	t.Helper()
	return birthday.Record{
		ID:        id,
		FirstName: "Test",
		LastName:  "Person",
		BirthDate: date(t, birth),
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := birthday.ComputeStats(nil, day(2024, time.March, 10))
	assert.Equal(t, birthday.Stats{}, stats)
}

func TestComputeStats(t *testing.T) {
	// Today: March 10, 2024. Months {3, 3, 7}; one record without a year;
	// two records within the 7-day window (Mar 15 and Mar 17), one exactly
	// on the boundary day.
	records := []birthday.Record{
		record(t, 1, "1990-03-15"),
		record(t, 2, "--03-17"),
		record(t, 3, "1985-07-04"),
	}
	today := day(2024, time.March, 10)

	stats := birthday.ComputeStats(records, today)

	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, 2, stats.ThisMonthBirthdays, "Months {3,3,7} with today in March")
	assert.Equal(t, 1, stats.RecordsWithoutYear)
	assert.Equal(t, 2, stats.UpcomingBirthdays, "Mar 15 (5 days) and Mar 17 (7 days, inclusive boundary)")
}

func TestComputeStats_UpcomingBoundary(t *testing.T) {
	// 8 days out is no longer upcoming.
	records := []birthday.Record{record(t, 1, "--03-18")}
	stats := birthday.ComputeStats(records, day(2024, time.March, 10))
	assert.Equal(t, 0, stats.UpcomingBirthdays)

	// Today itself counts.
	records = []birthday.Record{record(t, 1, "--03-10")}
	stats = birthday.ComputeStats(records, day(2024, time.March, 10))
	assert.Equal(t, 1, stats.UpcomingBirthdays)
}

// TestComputeStats_Invariants checks the structural bounds over a spread of
// record sets: no partial count can exceed the total.
func TestComputeStats_Invariants(t *testing.T) {
	sets := [][]birthday.Record{
		nil,
		{record(t, 1, "--01-01")},
		{record(t, 1, "1990-06-15"), record(t, 2, "--06-15"), record(t, 3, "2000-12-31")},
		{record(t, 1, "--02-29"), record(t, 2, "1996-02-29")},
	}

	for _, records := range sets {
		for _, today := range []time.Time{
			day(2024, time.January, 1),
			day(2024, time.June, 14),
			day(2025, time.December, 31),
		} {
			stats := birthday.ComputeStats(records, today)
			assert.LessOrEqual(t, stats.UpcomingBirthdays, stats.TotalRecords)
			assert.LessOrEqual(t, stats.RecordsWithoutYear, stats.TotalRecords)
			assert.LessOrEqual(t, stats.ThisMonthBirthdays, stats.TotalRecords)
		}
	}
}
