package user

import (
	"context"
	"sync"
	"time"

	"anuragmeds/internal/auth/models"
	"anuragmeds/pkg/platform/sentinel"
)

// InMemory is a map-backed user store for unit tests and local development.
// It mirrors the PostgresStore contract, including the unique-email conflict.
type InMemory struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*models.User
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[int64]*models.User)}
}

func (s *InMemory) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Email != "" {
		for _, existing := range s.byID {
			if existing.Email == u.Email {
				return sentinel.ErrConflict
			}
		}
	}

	s.nextID++
	u.ID = s.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.byID {
		if u.Email != "" && u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
