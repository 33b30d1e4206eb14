package domain

import "time"

// Event is the parsed, time-independent definition of a meeting from the
// calendar feed. Definitions are re-created on every fetch cycle and never
// diffed against a previous fetch.
type Event struct {
	Title      string
	Start      time.Time // first (or only) occurrence, reference timezone
	AllDay     bool      // DTSTART carried only a date component
	Recurrence string    // raw RRULE value, empty for non-recurring events
	Attendees  []string  // raw identities, possibly empty, never nil-vs-scalar
}

// Recurring reports whether the definition carries a recurrence rule.
func (e Event) Recurring() bool {
	return e.Recurrence != ""
}

// Occurrence is one concrete, dated instance of an Event's meeting time.
type Occurrence struct {
	Event Event
	Start time.Time
}

// Key identifies an occurrence across fetch cycles. The feed has no stable
// event IDs, so identity is the (title, exact start instant) pair.
func (o Occurrence) Key() string {
	return o.Event.Title + "|" + o.Start.UTC().Format(time.RFC3339)
}

// FormatStart returns the start for display in the given zone.
func (o Occurrence) FormatStart(loc *time.Location) string {
	if o.Event.AllDay {
		return o.Start.In(loc).Format("02.01.2006")
	}
	return o.Start.In(loc).Format("15:04")
}
