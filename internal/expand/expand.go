package expand

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/ruxxl/meetbot/internal/domain"
)

// Window is the bounded time band around "now" inside which concrete
// occurrences may be materialized. Both ends are inclusive: it is a
// lookbehind/lookahead band, not the alert interval itself.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether an instant falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Occurrences expands one event definition into the concrete start instants
// that fall inside the window.
//
// A non-recurring definition yields at most one occurrence. A recurring one
// is evaluated only within the window: the rule may be unbounded, so the
// expansion itself is bounded rather than generated in full and filtered.
func Occurrences(ev domain.Event, win Window) ([]domain.Occurrence, error) {
	if !ev.Recurring() {
		if !win.Contains(ev.Start) {
			return nil, nil
		}
		return []domain.Occurrence{{Event: ev, Start: ev.Start}}, nil
	}

	r, err := rrule.StrToRRule(ev.Recurrence)
	if err != nil {
		return nil, fmt.Errorf("event %q: parse RRULE: %w", ev.Title, err)
	}
	r.DTStart(ev.Start)

	var (
		out  []domain.Occurrence
		seen = make(map[int64]struct{})
	)
	for _, start := range r.Between(win.Start, win.End, true) {
		start = start.In(ev.Start.Location())

		// Guard against the same nominal occurrence surfacing twice.
		if _, dup := seen[start.UnixNano()]; dup {
			continue
		}
		seen[start.UnixNano()] = struct{}{}

		out = append(out, domain.Occurrence{Event: ev, Start: start})
	}
	return out, nil
}
