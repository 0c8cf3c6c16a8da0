package authlockout

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// InMemoryStore is a single-process lockout store for tests and deployments
// without Redis.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *InMemoryStore) RecordFailure(_ context.Context, identifier string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[identifier]
	if !ok || s.now().After(entry.expiresAt) {
		entry = &memoryEntry{expiresAt: s.now().Add(window)}
		s.entries[identifier] = entry
	}
	entry.count++
	return entry.count, nil
}

func (s *InMemoryStore) Failures(_ context.Context, identifier string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[identifier]
	if !ok || s.now().After(entry.expiresAt) {
		return 0, nil
	}
	return entry.count, nil
}

func (s *InMemoryStore) Clear(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, identifier)
	return nil
}
