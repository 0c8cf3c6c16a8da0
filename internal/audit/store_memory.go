package audit

import (
	"context"
	"sync"
)

// maxRetainedEvents bounds the sink in broker-less deployments, where the
// process would otherwise accumulate events for its whole lifetime.
const maxRetainedEvents = 1000

// InMemoryStore collects events in order of arrival, keeping only the most
// recent ones. Used by unit tests and when no database-backed outbox is wired.
type InMemoryStore struct {
	mu     sync.Mutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) > maxRetainedEvents {
		// Drop the oldest; copy so the backing array does not pin dropped events.
		trimmed := make([]Event, maxRetainedEvents)
		copy(trimmed, s.events[len(s.events)-maxRetainedEvents:])
		s.events = trimmed
	}
	return nil
}

// Events returns a snapshot of everything appended so far.
func (s *InMemoryStore) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
