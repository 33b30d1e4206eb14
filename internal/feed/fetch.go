package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ruxxl/meetbot/internal/domain"
)

// Source produces event definitions for one polling cycle. from/to let
// server-side backends (CalDAV) bound their query; the plain ICS export
// returns the whole feed regardless.
type Source interface {
	Events(ctx context.Context, from, to time.Time) ([]domain.Event, error)
}

// HTTPSource downloads the ICS export on every cycle. There is no local
// caching: the feed is small and definitions are re-created each poll.
type HTTPSource struct {
	url        string
	client     *http.Client
	normalizer Normalizer
}

func NewHTTPSource(url string, n Normalizer) *HTTPSource {
	return &HTTPSource{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		normalizer: n,
	}
}

func (s *HTTPSource) Events(ctx context.Context, _, _ time.Time) ([]domain.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch ics: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ics body: %w", err)
	}

	return Parse(body, s.normalizer)
}
