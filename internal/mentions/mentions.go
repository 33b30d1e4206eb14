package mentions

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// NoAttendees is rendered when an event lists nobody; the alert message
// always carries an attendees line.
const NoAttendees = "не указаны"

// Table maps raw attendee identities (work emails) to chat @mentions.
type Table map[string]string

// Load reads the identity→mention table from a JSON file. An empty path
// yields an empty table: every identity then passes through unchanged.
func Load(path string) (Table, error) {
	if path == "" {
		return Table{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mentions file: %w", err)
	}

	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse mentions file: %w", err)
	}
	return t, nil
}

// Resolve maps raw identities to display strings. The mailto: scheme marker
// is stripped first; identities missing from the table pass through as-is
// rather than being dropped.
func (t Table) Resolve(raw []string) []string {
	if len(raw) == 0 {
		return []string{NoAttendees}
	}

	out := make([]string, 0, len(raw))
	for _, a := range raw {
		id := strings.TrimSpace(strings.ReplaceAll(a, "mailto:", ""))
		if mention, ok := t[id]; ok {
			out = append(out, mention)
			continue
		}
		out = append(out, id)
	}
	return out
}
