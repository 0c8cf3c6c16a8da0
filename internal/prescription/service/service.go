package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"anuragmeds/internal/audit"
	authModels "anuragmeds/internal/auth/models"
	"anuragmeds/internal/platform/metrics"
	"anuragmeds/internal/prescription/models"
	dErrors "anuragmeds/pkg/domain-errors"
	"anuragmeds/pkg/platform/sentinel"
)

type Store interface {
	Create(ctx context.Context, p *models.Prescription, file []byte) error
	ListByOwner(ctx context.Context, userID int64) ([]models.Prescription, error)
	ListAll(ctx context.Context, limit int) ([]models.Prescription, error)
	FindMeta(ctx context.Context, id int64) (*models.Prescription, error)
	FindFile(ctx context.Context, id int64) (*models.File, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service is the record visibility resolver: every read dispatches over the
// caller's role, and ownership is checked before file bytes leave the store.
type Service struct {
	store          Store
	adminListLimit int
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
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

func New(store Store, adminListLimit int, opts ...Option) *Service {
	s := &Service{store: store, adminListLimit: adminListLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// List returns the records the caller may see, newest first. Admins get the
// most recent records system-wide, capped; everyone else gets exactly their
// own, uncapped.
func (s *Service) List(ctx context.Context, caller authModels.Identity) ([]models.Prescription, error) {
	if caller.Anonymous() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	var (
		records []models.Prescription
		err     error
	)
	switch caller.Role {
	case authModels.RoleAdmin:
		records, err = s.store.ListAll(ctx, s.adminListLimit)
	default:
		records, err = s.store.ListByOwner(ctx, caller.ID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list prescriptions")
	}
	return records, nil
}

// Create stores a new record. Ownership binds to the caller when one is
// authenticated; anonymous submissions stay orphaned from the start.
func (s *Service) Create(ctx context.Context, caller authModels.Identity, req models.CreateRequest) (int64, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.FullName == "" || req.Phone == "" {
		return 0, dErrors.New(dErrors.CodeValidation, "fullName and phone are required")
	}

	p := &models.Prescription{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  strings.TrimSpace(req.Address),
		FileName: req.FileName,
		FileMime: req.FileMime,
	}
	if !caller.Anonymous() {
		ownerID := caller.ID
		p.UserID = &ownerID
	}

	if err := s.store.Create(ctx, p, req.FileData); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create prescription")
	}

	s.logAudit(ctx, audit.EventPrescriptionStored, caller.ID, p.FileName)
	s.metrics.IncrementPrescriptionsCreated()

	return p.ID, nil
}

// FetchFile returns the stored document for a record. Admins may fetch any
// record's file; other callers only files of records they own.
func (s *Service) FetchFile(ctx context.Context, id int64, caller authModels.Identity) (*models.File, error) {
	meta, err := s.store.FindMeta(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "prescription not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load prescription")
	}

	if !caller.Role.IsAdmin() {
		if meta.UserID == nil || *meta.UserID != caller.ID {
			return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to access this prescription")
		}
	}

	file, err := s.store.FindFile(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "prescription has no attached file")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load prescription file")
	}
	return file, nil
}

func (s *Service) logAudit(ctx context.Context, action string, userID int64, subject string) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		UserID:  userID,
		Action:  action,
		Subject: subject,
		Outcome: "ok",
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}
