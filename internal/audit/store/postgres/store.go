// Package postgres implements audit.Store using the transactional outbox
// pattern. Events are written to the outbox table and published to Kafka by
// the outbox worker.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"anuragmeds/internal/audit"
)

type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// outboxPayload is the JSON structure published to Kafka.
type outboxPayload struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	UserID    int64  `json:"user_id,omitempty"`
	Action    string `json:"action"`
	Subject   string `json:"subject,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Append writes an audit event to the outbox table for Kafka publishing.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(outboxPayload{
		ID:        event.ID,
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		UserID:    event.UserID,
		Action:    event.Action,
		Subject:   event.Subject,
		Outcome:   event.Outcome,
		RequestID: event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	query := `
		INSERT INTO audit_outbox (event_id, action, payload, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.db.ExecContext(ctx, query, event.ID, event.Action, payload, event.Timestamp); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// PendingBatch returns up to limit unpublished events in insertion order.
func (s *Store) PendingBatch(ctx context.Context, limit int) ([]OutboxRow, error) {
	query := `
		SELECT id, event_id, action, payload
		FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY id
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending audit events: %w", err)
	}
	defer rows.Close()

	var batch []OutboxRow
	for rows.Next() {
		var row OutboxRow
		if err := rows.Scan(&row.ID, &row.EventID, &row.Action, &row.Payload); err != nil {
			return nil, fmt.Errorf("scan audit outbox row: %w", err)
		}
		batch = append(batch, row)
	}
	return batch, rows.Err()
}

// MarkPublished records that the given outbox rows reached the broker.
func (s *Store) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE audit_outbox
		SET published_at = NOW()
		WHERE id = ANY($1)
	`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("mark audit events published: %w", err)
	}
	return nil
}

// OutboxRow is one pending outbox entry.
type OutboxRow struct {
	ID      int64
	EventID string
	Action  string
	Payload []byte
}
