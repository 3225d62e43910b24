package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/models/m_outbox"
	"github.com/light-bringer/advert-catalog/internal/pkg/committer"
	"github.com/light-bringer/advert-catalog/internal/pkg/query"
)

// OutboxRepo implements OutboxRepository for Spanner.
type OutboxRepo struct {
	client    *spanner.Client
	committer *committer.Committer
	model     *m_outbox.Model
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo(client *spanner.Client, c *committer.Committer) *OutboxRepo {
	return &OutboxRepo{
		client:    client,
		committer: c,
		model:     m_outbox.NewModel(),
	}
}

var _ contracts.OutboxRepository = (*OutboxRepo)(nil)

// FetchPending returns the oldest pending events.
func (r *OutboxRepo) FetchPending(ctx context.Context, limit int) ([]*contracts.OutboxEvent, error) {
	stmt := query.From(m_outbox.TableName).
		Select(
			m_outbox.EventID,
			m_outbox.EventType,
			m_outbox.AggregateID,
			m_outbox.Payload,
			m_outbox.Status,
			m_outbox.CreatedAt,
			m_outbox.RetryCount,
		).
		Where(query.Eq(m_outbox.Status, m_outbox.StatusPending)).
		OrderBy(m_outbox.CreatedAt, query.Asc).
		Limit(int64(limit)).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var events []*contracts.OutboxEvent
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate outbox events: %w", err)
		}

		var (
			event   contracts.OutboxEvent
			payload spanner.NullJSON
		)
		if err := row.Columns(
			&event.EventID,
			&event.EventType,
			&event.AggregateID,
			&payload,
			&event.Status,
			&event.CreatedAt,
			&event.RetryCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		if payload.Valid {
			event.Payload = payload.String()
		}
		events = append(events, &event)
	}

	return events, nil
}

// MarkCompleted records a successful publish.
func (r *OutboxRepo) MarkCompleted(ctx context.Context, eventID string) error {
	plan := committer.NewPlan()
	plan.Add(r.model.CompletedMut(eventID))
	return r.committer.Apply(ctx, plan)
}

// MarkRetry records a failed attempt and parks the event after maxRetries.
func (r *OutboxRepo) MarkRetry(ctx context.Context, event *contracts.OutboxEvent, maxRetries int64, reason string) error {
	plan := committer.NewPlan()
	plan.Add(r.model.RetryMut(event.EventID, event.RetryCount+1, maxRetries, reason))
	return r.committer.Apply(ctx, plan)
}

// CountProcessedBefore counts events in status processed before cutoff.
func (r *OutboxRepo) CountProcessedBefore(ctx context.Context, status string, cutoff time.Time) (int64, error) {
	iter := r.client.Single().Query(ctx, processedBefore("SELECT COUNT(*)", status, cutoff))
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count outbox events: %w", err)
	}

	var count int64
	if err := row.Column(0, &count); err != nil {
		return 0, fmt.Errorf("failed to parse count: %w", err)
	}
	return count, nil
}

// DeleteProcessedBefore removes events in status processed before cutoff.
// Runs as partitioned DML so large backlogs do not hit mutation limits.
func (r *OutboxRepo) DeleteProcessedBefore(ctx context.Context, status string, cutoff time.Time) (int64, error) {
	count, err := r.client.PartitionedUpdate(ctx, processedBefore("DELETE", status, cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete outbox events: %w", err)
	}
	return count, nil
}

func processedBefore(verb, status string, cutoff time.Time) spanner.Statement {
	return spanner.Statement{
		SQL: verb + " FROM " + m_outbox.TableName +
			" WHERE " + m_outbox.Status + " = @status AND " + m_outbox.ProcessedAt + " < @cutoff",
		Params: map[string]interface{}{
			"status": status,
			"cutoff": cutoff,
		},
	}
}
