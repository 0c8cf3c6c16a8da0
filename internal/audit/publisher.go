package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"anuragmeds/internal/platform/middleware"
)

// Store is the persistence contract for audit events. The postgres
// implementation is an outbox drained to Kafka by the worker; the memory
// implementation is a plain sink for tests and broker-less deployments.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	if base.RequestID == "" {
		base.RequestID = middleware.GetRequestID(ctx)
	}
	return p.store.Append(ctx, base)
}
