// Package engine turns the record set into interchange formats: an
// iCalendar feed of upcoming birthdays and a vCard import path.
package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"

	"github.com/tartampluch/go-birthday-server/internal/birthday"
	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/store"
)

// RecordLister supplies the records to export. Satisfied by *store.BirthdayStore.
type RecordLister interface {
	List() []birthday.Record
}

// ReminderGetter supplies the reminder schedule that maps to VALARMs.
// Satisfied by *store.ReminderStore.
type ReminderGetter interface {
	Get() store.ReminderSettings
}

// Generator renders the current record set as an iCalendar object.
type Generator struct {
	Records   RecordLister
	Reminders ReminderGetter
	Clock     birthday.Clock

	// FormatSummary injects localized event titles into the engine.
	FormatSummary func(name string, age int, yearKnown bool) string
}

// Generate builds the full ICS document. Events are emitted for the
// previous, current, and next year of every record so calendar clients can
// scroll in either direction without an immediate re-sync; years before a
// known birth year are skipped. Alarms follow the reminder settings.
func (g *Generator) Generate() ([]byte, error) {
	start := time.Now()
	now := g.Clock.Now()

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Birthdays are local-calendar facts; only the DTSTAMP is in UTC.
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	triggers := alarmTriggers(g.Reminders.Get())
	records := g.Records.List()

	total := 0
	for _, r := range records {
		for _, e := range g.recordEvents(r, now, triggers) {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
			total++
		}
	}

	// An empty calendar must still be a valid VCALENDAR so clients do not
	// flag the feed as broken.
	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyTotal, len(records),
		config.LogKeyCount, total,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// recordEvents generates the per-year events for one record.
func (g *Generator) recordEvents(r birthday.Record, now time.Time, triggers []string) []*ical.Event {
	currentYear := now.Year()
	targetYears := []int{currentYear - 1, currentYear, currentYear + 1}
	loc := now.Location()
	uidBase := recordUID(r)

	var events []*ical.Event
	for _, y := range targetYears {
		if r.BirthDate.YearKnown && y < r.BirthDate.Year {
			continue
		}

		age := 0
		if r.BirthDate.YearKnown {
			age = y - r.BirthDate.Year
		}

		summary := fmt.Sprintf(config.FallbackSummary, r.DisplayName())
		if g.FormatSummary != nil {
			summary = g.FormatSummary(r.DisplayName(), age, r.BirthDate.YearKnown)
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)

		// Feb 29 normalizes to Mar 1 in non-leap years here too.
		eventDate := time.Date(y, r.BirthDate.Month, r.BirthDate.Day, 0, 0, 0, 0, loc)
		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		for _, trigger := range triggers {
			addAlarm(event, trigger, summary)
		}

		events = append(events, event)
	}
	return events
}

// alarmTriggers maps the reminder toggles onto RFC 5545 trigger durations.
func alarmTriggers(s store.ReminderSettings) []string {
	var triggers []string
	if s.OneMonthBefore {
		triggers = append(triggers, config.TriggerOneMonth)
	}
	if s.OneWeekBefore {
		triggers = append(triggers, config.TriggerOneWeek)
	}
	if s.ThreeDaysBefore {
		triggers = append(triggers, config.TriggerThreeDays)
	}
	if s.OneDayBefore {
		triggers = append(triggers, config.TriggerOneDay)
	}
	if s.OnBirthday {
		triggers = append(triggers, config.TriggerOnDay)
	}
	return triggers
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// recordUID derives a stable event UID base from the record identity, so
// calendar clients keep events matched across refreshes.
func recordUID(r birthday.Record) string {
	input := fmt.Sprintf(config.FormatHashInput, r.DisplayName(), r.BirthDate.String(), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}
