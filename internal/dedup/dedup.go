package dedup

import (
	"sync"
	"time"
)

const defaultRetention = 24 * time.Hour

// Store remembers which occurrences have already been announced, so the
// same series re-fetched on every polling cycle triggers each alert once.
//
// Entries are evicted once their start instant ages past the retention
// window, keeping the set bounded for long-lived processes. The store is
// owned by a scheduler instance and safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	retention time.Duration
	sent      map[string]time.Time // occurrence key -> start instant
}

func NewStore(retention time.Duration) *Store {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Store{
		retention: retention,
		sent:      make(map[string]time.Time),
	}
}

// Seen reports whether the occurrence was already announced.
func (s *Store) Seen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sent[key]
	return ok
}

// Record marks an occurrence as announced. The scheduler calls this only
// after a confirmed send, so a failed delivery stays unrecorded and is
// retried while the occurrence is still due.
func (s *Store) Record(key string, start time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[key] = start
}

// Sweep evicts entries whose start instant lies further in the past than
// the retention window.
func (s *Store) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, start := range s.sent {
		if now.Sub(start) > s.retention {
			delete(s.sent, key)
		}
	}
}

// Len returns the number of recorded occurrences.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}
