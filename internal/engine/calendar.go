package engine

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-milestone/internal/config"
)

// MilestoneEvent describes one all-day VEVENT on a milestone date.
type MilestoneEvent struct {
	UID     string
	Summary string
	Date    CalendarDate

	// Trigger is an optional ISO 8601 duration (e.g. "-P1D") for a DISPLAY alarm.
	Trigger string
}

// EventUID derives a stable identifier from the contact name, birth date and age.
// The same inputs always map to the same UID so calendar clients update
// events in place instead of duplicating them.
func EventUID(name string, birth CalendarDate, ageYears int) string {
	input := fmt.Sprintf(config.FormatHashInput, config.UIDSalt, name, birth, ageYears)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(input)).String() + config.UIDDomainSuffix
}

// EncodeCalendar renders events as an iCalendar document stamped with now.
// An empty event list yields a minimal valid VCALENDAR so that clients do not
// flag the feed as broken.
func EncodeCalendar(events []MilestoneEvent, now time.Time) ([]byte, error) {
	if len(events) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, ev := range events {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, ev.UID)
		event.Props.SetText(config.PropSummary, ev.Summary)
		event.Props.Set(dtStampProp)

		// All-day event: VALUE=DATE, the time zone does not matter.
		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(ev.Date.Time(time.UTC))
		event.Props.Set(dtStartProp)

		if ev.Trigger != "" {
			addAlarm(event, ev.Trigger, ev.Summary)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set the value directly to avoid a "VALUE=TEXT" parameter.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
