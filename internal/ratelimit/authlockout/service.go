// Package authlockout throttles credential guessing: repeated failed logins
// for one identifier lock that identifier out for a cooldown window.
package authlockout

import (
	"context"
	"log/slog"
	"time"

	dErrors "anuragmeds/pkg/domain-errors"
)

// Store tracks failure counts per identifier inside a rolling window.
type Store interface {
	// RecordFailure increments the failure count and returns the new total.
	RecordFailure(ctx context.Context, identifier string, window time.Duration) (int64, error)
	// Failures returns the current count inside the window.
	Failures(ctx context.Context, identifier string) (int64, error)
	// Clear resets the count, typically after a successful login.
	Clear(ctx context.Context, identifier string) error
}

const (
	maxFailures = 5
	window      = 15 * time.Minute
)

// Service applies the lockout policy. Store errors degrade open: a broken
// lockout backend must not take logins down with it.
type Service struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Check returns an unauthorized error when the identifier is locked.
func (s *Service) Check(ctx context.Context, identifier string) error {
	count, err := s.store.Failures(ctx, identifier)
	if err != nil {
		s.logger.WarnContext(ctx, "auth lockout check failed, allowing login attempt", "error", err)
		return nil
	}
	if count >= maxFailures {
		return dErrors.New(dErrors.CodeUnauthorized, "too many failed login attempts, try again later")
	}
	return nil
}

// RecordFailure notes one failed attempt for the identifier.
func (s *Service) RecordFailure(ctx context.Context, identifier string) {
	if _, err := s.store.RecordFailure(ctx, identifier, window); err != nil {
		s.logger.WarnContext(ctx, "auth lockout record failed", "error", err)
	}
}

// Clear resets the identifier after a successful login.
func (s *Service) Clear(ctx context.Context, identifier string) {
	if err := s.store.Clear(ctx, identifier); err != nil {
		s.logger.WarnContext(ctx, "auth lockout clear failed", "error", err)
	}
}
