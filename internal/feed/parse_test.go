package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	almaty = time.FixedZone("UTC+5", 5*60*60)
)

// ics joins VCALENDAR lines with the CRLF endings the format requires.
func ics(lines ...string) []byte {
	all := append([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//EN",
	}, lines...)
	all = append(all, "END:VCALENDAR", "")
	return []byte(strings.Join(all, "\r\n"))
}

func TestParseFloatingTimeGetsDefaultZone(t *testing.T) {
	body := ics(
		"BEGIN:VEVENT",
		"UID:ev-1",
		"SUMMARY:Standup",
		"DTSTART:20260302T090000",
		"END:VEVENT",
	)

	events, err := Parse(body, NewNormalizer(almaty, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "Standup", ev.Title)
	assert.False(t, ev.AllDay)
	// 09:00 Almaty == 04:00 UTC.
	assert.True(t, ev.Start.Equal(time.Date(2026, 3, 2, 4, 0, 0, 0, time.UTC)))
}

func TestParseDateOnlyIsMidnightLocal(t *testing.T) {
	body := ics(
		"BEGIN:VEVENT",
		"UID:ev-2",
		"SUMMARY:Holiday",
		"DTSTART;VALUE=DATE:20260308",
		"END:VEVENT",
	)

	events, err := Parse(body, NewNormalizer(almaty, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.True(t, ev.AllDay)

	// Formatting back into the feed's zone yields midnight, regardless of
	// the reference zone's offset.
	local := ev.Start.In(almaty)
	assert.Equal(t, 0, local.Hour())
	assert.Equal(t, 0, local.Minute())
	assert.Equal(t, 8, local.Day())
}

func TestParseExplicitUTCZoneKept(t *testing.T) {
	body := ics(
		"BEGIN:VEVENT",
		"UID:ev-3",
		"SUMMARY:Demo",
		"DTSTART:20260302T060000Z",
		"END:VEVENT",
	)

	events, err := Parse(body, NewNormalizer(almaty, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Start.Equal(time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)))
}

func TestParseAttendeesAlwaysSlice(t *testing.T) {
	body := ics(
		"BEGIN:VEVENT",
		"UID:ev-4",
		"SUMMARY:Planning",
		"DTSTART:20260302T110000Z",
		"ATTENDEE:mailto:alice@example.com",
		"ATTENDEE:mailto:bob@example.com",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:ev-5",
		"SUMMARY:Solo",
		"DTSTART:20260302T120000Z",
		"END:VEVENT",
	)

	events, err := Parse(body, NewNormalizer(almaty, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, []string{"mailto:alice@example.com", "mailto:bob@example.com"}, events[0].Attendees)
	assert.Empty(t, events[1].Attendees)
}

func TestParseRecurrenceKeptRaw(t *testing.T) {
	body := ics(
		"BEGIN:VEVENT",
		"UID:ev-6",
		"SUMMARY:Standup",
		"DTSTART:20260302T090000Z",
		"RRULE:FREQ=DAILY",
		"END:VEVENT",
	)

	events, err := Parse(body, NewNormalizer(almaty, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Recurring())
	assert.Equal(t, "FREQ=DAILY", events[0].Recurrence)
}

func TestParseSkipsUnusableBlocks(t *testing.T) {
	// One block without DTSTART and one with a malformed RRULE: both are
	// dropped, the valid block survives.
	body := ics(
		"BEGIN:VEVENT",
		"UID:ev-7",
		"SUMMARY:No start",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:ev-8",
		"SUMMARY:Bad rule",
		"DTSTART:20260302T090000Z",
		"RRULE:FREQ=SOMETIMES",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:ev-9",
		"SUMMARY:Good",
		"DTSTART:20260302T100000Z",
		"END:VEVENT",
	)

	events, err := Parse(body, NewNormalizer(almaty, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Good", events[0].Title)
}
