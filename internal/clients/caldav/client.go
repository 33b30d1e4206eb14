package caldav

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/emersion/go-webdav/caldav"

	"github.com/ruxxl/meetbot/internal/domain"
	"github.com/ruxxl/meetbot/internal/feed"
)

// Source queries VEVENTs from a CalDAV calendar. It is the feed backend for
// calendars that do not publish a private ICS export URL; unlike the ICS
// export, the query is bounded server-side to the expansion window.
type Source struct {
	client       *caldav.Client
	calendarPath string
	normalizer   feed.Normalizer
}

func NewSource(baseURL, username, password, calendarPath string, n feed.Normalizer) (*Source, error) {
	if calendarPath == "" {
		return nil, fmt.Errorf("calendar path not specified")
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: username,
			password: password,
		},
		Timeout: 30 * time.Second,
	}

	client, err := caldav.NewClient(httpClient, baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	return &Source{
		client:       client,
		calendarPath: calendarPath,
		normalizer:   n,
	}, nil
}

// basicAuthTransport adds Basic Auth to HTTP requests
type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return http.DefaultTransport.RoundTrip(req)
}

// Events returns event definitions for VEVENTs intersecting [from, to].
func (s *Source) Events(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	query := &caldav.CalendarQuery{
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: from,
					End:   to,
				},
			},
		},
	}

	objects, err := s.client.QueryCalendar(ctx, s.calendarPath, query)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}

	var events []domain.Event
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		events = append(events, feed.ParseCalendar(obj.Data, s.normalizer)...)
	}

	return events, nil
}
