package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"anuragmeds/internal/auth/models"
	"anuragmeds/pkg/platform/sentinel"
)

// PostgresStore persists user identity records in PostgreSQL.
// This store is pure I/O; credential checks and role rules live in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const uniqueViolation = "23505"

// Create inserts a new user and fills in the generated id and creation time.
// A duplicate email surfaces as sentinel.ErrConflict.
func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (email, phone, name, role, password_hash)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		u.Email, u.Phone, u.Name, string(u.Role), u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(name, ''), role, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(name, ''), role, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Phone, &u.Name, &role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = models.ParseRole(role)
	return &u, nil
}
