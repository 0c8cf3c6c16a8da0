package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"anuragmeds/internal/prescription/models"
	"anuragmeds/pkg/platform/sentinel"
)

// PostgresStore persists prescription records in PostgreSQL.
// This store is pure I/O; visibility rules live in the service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a record and fills in the generated id and creation time.
// File columns stay NULL when no file was attached.
func (s *PostgresStore) Create(ctx context.Context, p *models.Prescription, file []byte) error {
	query := `
		INSERT INTO prescriptions (user_id, full_name, phone, address, file_name, file_mime, file_size, file_data)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)
		RETURNING id, created_at
	`
	var size any
	var data any
	if file != nil {
		size = len(file)
		data = file
	}
	err := s.db.QueryRowContext(ctx, query,
		p.UserID, p.FullName, p.Phone, p.Address, p.FileName, p.FileMime, size, data,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create prescription: %w", err)
	}
	if file != nil {
		p.FileSize = int64(len(file))
	}
	return nil
}

// ListByOwner returns every record owned by the given user, newest first.
func (s *PostgresStore) ListByOwner(ctx context.Context, userID int64) ([]models.Prescription, error) {
	query := `
		SELECT id, user_id, COALESCE(full_name, ''), COALESCE(phone, ''), COALESCE(address, ''),
		       COALESCE(file_name, ''), COALESCE(file_mime, ''), COALESCE(file_size, 0), created_at
		FROM prescriptions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions by owner: %w", err)
	}
	defer rows.Close()
	return scanPrescriptions(rows, false)
}

// ListAll returns the most recent records system-wide, joined with owner
// contact details where the owner still exists. The limit bounds response
// size; truncation is not an error.
func (s *PostgresStore) ListAll(ctx context.Context, limit int) ([]models.Prescription, error) {
	query := `
		SELECT p.id, p.user_id, COALESCE(p.full_name, ''), COALESCE(p.phone, ''), COALESCE(p.address, ''),
		       COALESCE(p.file_name, ''), COALESCE(p.file_mime, ''), COALESCE(p.file_size, 0), p.created_at,
		       u.name, u.phone
		FROM prescriptions p
		LEFT JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()
	return scanPrescriptions(rows, true)
}

// FindMeta returns a record without its file bytes.
func (s *PostgresStore) FindMeta(ctx context.Context, id int64) (*models.Prescription, error) {
	query := `
		SELECT id, user_id, COALESCE(full_name, ''), COALESCE(phone, ''), COALESCE(address, ''),
		       COALESCE(file_name, ''), COALESCE(file_mime, ''), COALESCE(file_size, 0), created_at
		FROM prescriptions
		WHERE id = $1
	`
	var p models.Prescription
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.Address,
		&p.FileName, &p.FileMime, &p.FileSize, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find prescription: %w", err)
	}
	return &p, nil
}

// FindFile returns the stored document for a record. A record without
// attached bytes reports not found.
func (s *PostgresStore) FindFile(ctx context.Context, id int64) (*models.File, error) {
	query := `
		SELECT COALESCE(file_name, ''), COALESCE(file_mime, ''), file_data
		FROM prescriptions
		WHERE id = $1
	`
	var f models.File
	err := s.db.QueryRowContext(ctx, query, id).Scan(&f.Name, &f.Mime, &f.Bytes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find prescription file: %w", err)
	}
	if f.Bytes == nil {
		return nil, sentinel.ErrNotFound
	}
	return &f, nil
}

func scanPrescriptions(rows *sql.Rows, withOwner bool) ([]models.Prescription, error) {
	out := make([]models.Prescription, 0)
	for rows.Next() {
		var p models.Prescription
		dest := []any{
			&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.Address,
			&p.FileName, &p.FileMime, &p.FileSize, &p.CreatedAt,
		}
		if withOwner {
			dest = append(dest, &p.OwnerName, &p.OwnerPhone)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan prescription: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
