package contracts

import (
	"context"
	"time"
)

// OutboxEvent is a persisted domain event awaiting relay.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
	CreatedAt   time.Time
	RetryCount  int64
}

// OutboxRepository is the relay's view of the outbox.
type OutboxRepository interface {
	// FetchPending returns up to limit pending events, oldest first.
	FetchPending(ctx context.Context, limit int) ([]*OutboxEvent, error)

	// MarkCompleted records a successful publish.
	MarkCompleted(ctx context.Context, eventID string) error

	// MarkRetry records a failed publish attempt; the event is parked as
	// failed once its retry count reaches maxRetries.
	MarkRetry(ctx context.Context, event *OutboxEvent, maxRetries int64, reason string) error

	// CountProcessedBefore counts events in status processed before cutoff.
	CountProcessedBefore(ctx context.Context, status string, cutoff time.Time) (int64, error)

	// DeleteProcessedBefore removes events in status processed before cutoff
	// and returns how many were removed.
	DeleteProcessedBefore(ctx context.Context, status string, cutoff time.Time) (int64, error)
}

// EventPublisher delivers relayed events to the notification transport.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte) error
}
