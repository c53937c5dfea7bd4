package engine_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-birthday-server/internal/birthday"
	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/engine"
	"github.com/tartampluch/go-birthday-server/internal/store"
)

// -----------------------------------------------------------------------------
// Mocks & Helpers
// -----------------------------------------------------------------------------

// MockFetcher simulates network vCard retrieval.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	args := m.Called(ctx, url)
	// Return nil interface safely
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func newStore(t *testing.T, dates ...string) *store.BirthdayStore {
	t.Helper()
	s := store.NewBirthdayStore(MockClock{CurrentTime: time.Now()})
	for i, text := range dates {
		d, err := birthday.ParseDate(text)
		require.NoError(t, err)
		s.Create(birthday.Fields{
			FirstName: "Person",
			LastName:  string(rune('A' + i)),
			BirthDate: d,
		})
	}
	return s
}

func newGenerator(records *store.BirthdayStore, reminders *store.ReminderStore, now time.Time) *engine.Generator {
	return &engine.Generator{
		Records:   records,
		Reminders: reminders,
		Clock:     MockClock{CurrentTime: now},
	}
}

// -----------------------------------------------------------------------------
// Generator
// -----------------------------------------------------------------------------

func TestGenerate_EmptyStoreYieldsStub(t *testing.T) {
	gen := newGenerator(newStore(t), store.NewReminderStore(),
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	ics, err := gen.Generate()

	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(ics),
		"Empty feed must still be a valid VCALENDAR")
}

func TestGenerate_YearRange(t *testing.T) {
	// Scenario: one record with a known year. With Now in 2025 the feed must
	// carry events for 2024, 2025 and 2026.
	gen := newGenerator(newStore(t, "1990-03-15"), store.NewReminderStore(),
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	ics, err := gen.Generate()
	require.NoError(t, err)

	icsStr := string(ics)
	assert.Contains(t, icsStr, "BEGIN:VCALENDAR")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20240315")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20250315")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20260315")
	assert.Equal(t, 3, strings.Count(icsStr, "BEGIN:VEVENT"))
}

func TestGenerate_SkipsYearsBeforeBirth(t *testing.T) {
	// Born in the current year: the previous-year event must be skipped.
	gen := newGenerator(newStore(t, "2025-04-01"), store.NewReminderStore(),
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	ics, err := gen.Generate()
	require.NoError(t, err)

	icsStr := string(ics)
	assert.NotContains(t, icsStr, "DTSTART;VALUE=DATE:20240401")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20250401")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20260401")
	assert.Equal(t, 2, strings.Count(icsStr, "BEGIN:VEVENT"))
}

func TestGenerate_YearlessRecordGetsAllThreeYears(t *testing.T) {
	gen := newGenerator(newStore(t, "--12-31"), store.NewReminderStore(),
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	ics, err := gen.Generate()
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(string(ics), "BEGIN:VEVENT"))
}

func TestGenerate_LeaplingNormalizesToMarchFirst(t *testing.T) {
	// 2025 is NOT a leap year. Feb 29 -> March 1 in Go's time.Date normalization.
	gen := newGenerator(newStore(t, "2000-02-29"), store.NewReminderStore(),
		time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC))

	ics, err := gen.Generate()
	require.NoError(t, err)

	icsStr := string(ics)
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20240229", "2024 is a leap year")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20250301", "2025 observes on March 1st")
}

func TestGenerate_AlarmsFollowReminderSettings(t *testing.T) {
	records := newStore(t, "--07-04")
	reminders := store.NewReminderStore()
	gen := newGenerator(records, reminders, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	// Defaults: one week, one day, on the day — three alarms per event.
	ics, err := gen.Generate()
	require.NoError(t, err)
	icsStr := string(ics)
	assert.Equal(t, 9, strings.Count(icsStr, "BEGIN:VALARM"), "3 events x 3 default alarms")
	assert.Contains(t, icsStr, "TRIGGER:"+config.TriggerOneWeek)
	assert.Contains(t, icsStr, "TRIGGER:"+config.TriggerOnDay)
	assert.NotContains(t, icsStr, "TRIGGER:"+config.TriggerOneMonth)

	// Flip everything off: no alarms at all.
	off := false
	reminders.Replace(store.ReminderPatch{
		OneWeekBefore: &off,
		OneDayBefore:  &off,
		OnBirthday:    &off,
	})
	ics, err = gen.Generate()
	require.NoError(t, err)
	assert.NotContains(t, string(ics), "BEGIN:VALARM")
}

func TestGenerate_UsesInjectedSummary(t *testing.T) {
	gen := newGenerator(newStore(t, "1990-03-15"), store.NewReminderStore(),
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	gen.FormatSummary = func(name string, age int, yearKnown bool) string {
		assert.True(t, yearKnown)
		return name + " turns this many"
	}

	ics, err := gen.Generate()
	require.NoError(t, err)
	assert.Contains(t, string(ics), "SUMMARY:Person A turns this many")
}

func TestGenerate_StableUIDsAcrossRuns(t *testing.T) {
	records := newStore(t, "1990-03-15")
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	first, err := newGenerator(records, store.NewReminderStore(), now).Generate()
	require.NoError(t, err)
	second, err := newGenerator(records, store.NewReminderStore(), now).Generate()
	require.NoError(t, err)

	uids := func(ics []byte) []string {
		var out []string
		for _, line := range strings.Split(string(ics), "\r\n") {
			if strings.HasPrefix(line, "UID:") {
				out = append(out, line)
			}
		}
		return out
	}
	require.Len(t, uids(first), 3)
	assert.Equal(t, uids(first), uids(second),
		"Calendar clients match events across refreshes by UID")
}

// -----------------------------------------------------------------------------
// Importer
// -----------------------------------------------------------------------------

const sampleVCards = `BEGIN:VCARD
VERSION:3.0
FN:John Doe
BDAY:2000-01-01
NOTE:met at work
END:VCARD
BEGIN:VCARD
VERSION:4.0
FN:No Birthday
END:VCARD
BEGIN:VCARD
VERSION:4.0
FN:Yearless Friend
BDAY:--07-04
END:VCARD`

func TestImportStream(t *testing.T) {
	records := newStore(t)
	im := &engine.Importer{Store: records}

	res, err := im.ImportStream(context.Background(), strings.NewReader(sampleVCards))

	require.NoError(t, err)
	assert.Equal(t, engine.ImportResult{Imported: 2, Skipped: 1}, res)

	list := records.List()
	require.Len(t, list, 2)
	// List is calendar-ordered: Jan 1 before Jul 4.
	assert.Equal(t, "John", list[0].FirstName)
	assert.Equal(t, "Doe", list[0].LastName)
	assert.Equal(t, "met at work", list[0].Comment)
	assert.True(t, list[0].HasYear)
	assert.Equal(t, "Yearless", list[1].FirstName)
	assert.False(t, list[1].HasYear)
}

func TestImportStream_DateFormats(t *testing.T) {
	tests := []struct {
		name string
		bday string
		want string
	}{
		{name: "Dashed", bday: "1985-05-20", want: "1985-05-20"},
		{name: "Basic", bday: "19850520", want: "1985-05-20"},
		{name: "With time", bday: "1985-05-20T10:00:00Z", want: "1985-05-20"},
		{name: "Truncated dashed", bday: "--05-20", want: "--05-20"},
		{name: "Truncated basic", bday: "--0520", want: "--05-20"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := newStore(t)
			im := &engine.Importer{Store: records}
			card := "BEGIN:VCARD\nVERSION:3.0\nFN:Test Person\nBDAY:" + tc.bday + "\nEND:VCARD"

			res, err := im.ImportStream(context.Background(), strings.NewReader(card))

			require.NoError(t, err)
			require.Equal(t, 1, res.Imported)
			assert.Equal(t, tc.want, records.List()[0].BirthDate.String())
		})
	}
}

func TestImportStream_SingleTokenName(t *testing.T) {
	records := newStore(t)
	im := &engine.Importer{Store: records}
	card := "BEGIN:VCARD\nVERSION:3.0\nFN:Madonna\nBDAY:--08-16\nEND:VCARD"

	_, err := im.ImportStream(context.Background(), strings.NewReader(card))

	require.NoError(t, err)
	r := records.List()[0]
	assert.Equal(t, "Madonna", r.FirstName)
	assert.Empty(t, r.LastName)
}

func TestImportStream_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	im := &engine.Importer{Store: newStore(t)}
	_, err := im.ImportStream(ctx, strings.NewReader(sampleVCards))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportURL(t *testing.T) {
	mockFetcher := new(MockFetcher)
	mockFetcher.On("Fetch", mock.Anything, "http://example.com/book.vcf").
		Return(io.NopCloser(strings.NewReader(sampleVCards)), nil)

	records := newStore(t)
	im := &engine.Importer{Store: records, Fetcher: mockFetcher}

	res, err := im.ImportURL(context.Background(), "http://example.com/book.vcf")

	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	mockFetcher.AssertExpectations(t)
}

func TestImportURL_NoFetcher(t *testing.T) {
	im := &engine.Importer{Store: newStore(t)}

	_, err := im.ImportURL(context.Background(), "http://example.com/book.vcf")

	assert.EqualError(t, err, config.ErrFetcherMissing)
}
