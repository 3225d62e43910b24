// Package relay forwards committed outbox events to the event publisher.
package relay

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
)

// Default relay settings.
const (
	DefaultBatchSize  = 100
	DefaultMaxRetries = 5
)

// Config tunes a Relay.
type Config struct {
	BatchSize  int
	MaxRetries int64
}

// Relay publishes pending outbox events at least once.
type Relay struct {
	outbox    contracts.OutboxRepository
	publisher contracts.EventPublisher
	cfg       Config
	metrics   *metrics.MetricsManager
	logger    *zap.Logger
}

// New creates a Relay. Zero config values take the defaults; m may be nil.
func New(
	outbox contracts.OutboxRepository,
	publisher contracts.EventPublisher,
	cfg Config,
	m *metrics.MetricsManager,
	logger *zap.Logger,
) *Relay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &Relay{
		outbox:    outbox,
		publisher: publisher,
		cfg:       cfg,
		metrics:   m,
		logger:    logger,
	}
}

// RunOnce publishes one batch and returns how many events were delivered.
// A failed publish is recorded on the event and does not stop the batch.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	events, err := r.outbox.FetchPending(ctx, r.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pending events: %w", err)
	}

	published := 0
	for _, event := range events {
		if err := r.publisher.Publish(ctx, event.EventType, []byte(event.Payload)); err != nil {
			r.logger.Warn("Failed to publish outbox event",
				zap.String("event_id", event.EventID),
				zap.String("event_type", event.EventType),
				zap.Int64("retry_count", event.RetryCount),
				zap.Error(err),
			)
			if r.metrics != nil {
				r.metrics.OutboxFailedTotal.Inc()
			}
			if err := r.outbox.MarkRetry(ctx, event, r.cfg.MaxRetries, err.Error()); err != nil {
				return published, fmt.Errorf("failed to record retry for %s: %w", event.EventID, err)
			}
			continue
		}

		if err := r.outbox.MarkCompleted(ctx, event.EventID); err != nil {
			return published, fmt.Errorf("failed to mark %s completed: %w", event.EventID, err)
		}
		published++
		if r.metrics != nil {
			r.metrics.OutboxPublishedTotal.Inc()
		}
	}

	return published, nil
}

// Run polls every interval until ctx is cancelled.
func (r *Relay) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("Outbox relay started", zap.Duration("interval", interval), zap.Int("batch_size", r.cfg.BatchSize))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("Outbox relay batch failed", zap.Error(err))
			}
		}
	}
}
