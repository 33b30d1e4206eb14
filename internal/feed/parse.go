package feed

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/ruxxl/meetbot/internal/domain"
)

// Parse decodes an ICS payload into event definitions. A block that cannot
// produce a usable definition (missing or malformed DTSTART, bad RRULE) is
// skipped so one broken event does not lose the whole feed.
func Parse(body []byte, n Normalizer) ([]domain.Event, error) {
	dec := ical.NewDecoder(bytes.NewReader(body))

	var events []domain.Event
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode ics: %w", err)
		}
		events = append(events, ParseCalendar(cal, n)...)
	}
	return events, nil
}

// ParseCalendar extracts event definitions from one decoded calendar.
// CalDAV responses arrive as decoded calendars, so this is shared between
// the HTTP feed and the CalDAV source.
func ParseCalendar(cal *ical.Calendar, n Normalizer) []domain.Event {
	var events []domain.Event
	for _, ve := range cal.Events() {
		ev, err := parseEvent(ve, n)
		if err != nil {
			log.Printf("Skipping event: %v", err)
			continue
		}
		events = append(events, ev)
	}
	return events
}

func parseEvent(ve ical.Event, n Normalizer) (domain.Event, error) {
	var out domain.Event

	if p := ve.Props.Get(ical.PropSummary); p != nil {
		out.Title = p.Value
	}

	startProp := ve.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return out, fmt.Errorf("event %q: missing DTSTART", out.Title)
	}

	// Floating and date-only values land in the feed's default zone here.
	start, err := startProp.DateTime(n.Default)
	if err != nil {
		return out, fmt.Errorf("event %q: bad DTSTART: %w", out.Title, err)
	}
	out.Start = n.Normalize(start)
	out.AllDay = startProp.Params.Get(ical.ParamValue) == string(ical.ValueDate) ||
		!strings.Contains(startProp.Value, "T")

	// Recurrence is kept as the raw RRULE value; expansion happens later,
	// bounded by the scheduler's window. Validate here so a malformed rule
	// drops only this block.
	if p := ve.Props.Get(ical.PropRecurrenceRule); p != nil && p.Value != "" {
		if _, err := rrule.StrToRRule(p.Value); err != nil {
			return out, fmt.Errorf("event %q: bad RRULE: %w", out.Title, err)
		}
		out.Recurrence = p.Value
	}

	// ATTENDEE may appear zero, one or many times; always produce a slice.
	for _, p := range ve.Props.Values(ical.PropAttendee) {
		if v := strings.TrimSpace(p.Value); v != "" {
			out.Attendees = append(out.Attendees, v)
		}
	}

	return out, nil
}
