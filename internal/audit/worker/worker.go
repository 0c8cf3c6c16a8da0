// Package worker drains the audit outbox to Kafka. The outbox table is the
// durable hand-off: business transactions never wait on the broker, and a
// broker outage only delays publication.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	outbox "anuragmeds/internal/audit/store/postgres"
)

const (
	pollInterval = 5 * time.Second
	batchSize    = 100
)

// Worker periodically publishes pending outbox rows to the audit topic.
type Worker struct {
	store  *outbox.Store
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

func New(store *outbox.Store, client *kgo.Client, topic string, logger *slog.Logger) *Worker {
	return &Worker{store: store, client: client, topic: topic, logger: logger}
}

// EnsureTopic creates the audit topic when it does not exist yet. Safe to
// call on every startup.
func (w *Worker) EnsureTopic(ctx context.Context) error {
	adm := kadm.NewClient(w.client)
	resp, err := adm.CreateTopics(ctx, 1, 1, nil, w.topic)
	if err != nil {
		return err
	}
	for _, res := range resp {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			w.logger.Warn("audit topic creation", "topic", res.Topic, "error", res.Err)
		}
	}
	return nil
}

// Run polls the outbox until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.publishPending(ctx); err != nil {
				// Publication is retried on the next tick; never crash the
				// process over the audit pipeline.
				w.logger.ErrorContext(ctx, "audit outbox publish failed", "error", err)
			}
		}
	}
}

func (w *Worker) publishPending(ctx context.Context) error {
	batch, err := w.store.PendingBatch(ctx, batchSize)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}

	records := make([]*kgo.Record, 0, len(batch))
	for _, row := range batch {
		records = append(records, &kgo.Record{
			Topic: w.topic,
			Key:   []byte(row.Action),
			Value: row.Payload,
		})
	}

	if err := w.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return err
	}

	ids := make([]int64, 0, len(batch))
	for _, row := range batch {
		ids = append(ids, row.ID)
	}
	return w.store.MarkPublished(ctx, ids)
}
