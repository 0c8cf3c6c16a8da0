package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"anuragmeds/internal/audit"
	"anuragmeds/internal/auth/models"
	"anuragmeds/internal/auth/secrets"
	"anuragmeds/internal/platform/metrics"
	dErrors "anuragmeds/pkg/domain-errors"
	"anuragmeds/pkg/platform/sentinel"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type TokenIssuer interface {
	IssueToken(userID int64, email string, role string) (string, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Lockout throttles repeated failed logins per identifier.
type Lockout interface {
	Check(ctx context.Context, identifier string) error
	RecordFailure(ctx context.Context, identifier string)
	Clear(ctx context.Context, identifier string)
}

// Service orchestrates registration, login, and identity lookups.
type Service struct {
	users          UserStore
	tokens         TokenIssuer
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	lockout        Lockout
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLockout(l Lockout) Option {
	return func(s *Service) {
		s.lockout = l
	}
}

// New constructs a Service.
func New(users UserStore, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{users: users, tokens: tokens}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// RegisterRequest carries the caller-supplied registration fields.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// Register creates an account and mints its first session token. A duplicate
// email yields a conflict, never a second account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, string, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return nil, "", dErrors.New(dErrors.CodeValidation, "email and password are required")
	}

	hash, err := secrets.Hash(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		Name:         strings.TrimSpace(req.Name),
		Role:         models.RoleUser,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, "", dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	token, err := s.tokens.IssueToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.logAudit(ctx, audit.EventUserRegistered, user.ID, user.Email, "created")
	s.metrics.IncrementUsersCreated()

	return user, token, nil
}

// Login verifies credentials and mints a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", dErrors.New(dErrors.CodeValidation, "email and password are required")
	}

	if s.lockout != nil {
		if err := s.lockout.Check(ctx, email); err != nil {
			return nil, "", err
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.loginFailed(ctx, email)
			return nil, "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		s.loginFailed(ctx, email)
		return nil, "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.IssueToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	if s.lockout != nil {
		s.lockout.Clear(ctx, email)
	}
	s.logAudit(ctx, audit.EventUserLogin, user.ID, user.Email, "ok")
	s.metrics.IncrementLogin("ok")

	return user, token, nil
}

// Whoami re-reads the caller's identity record from ground truth.
func (s *Service) Whoami(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

func (s *Service) loginFailed(ctx context.Context, email string) {
	if s.lockout != nil {
		s.lockout.RecordFailure(ctx, email)
	}
	s.logAudit(ctx, audit.EventUserLoginFailed, 0, email, "rejected")
	s.metrics.IncrementLogin("failed")
}

// logAudit emits an audit event; failures are logged, never surfaced.
func (s *Service) logAudit(ctx context.Context, action string, userID int64, subject, outcome string) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		UserID:  userID,
		Action:  action,
		Subject: subject,
		Outcome: outcome,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}
