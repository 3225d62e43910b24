package m_outbox

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the outbox_events table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a pending outbox event.
// created_at is the commit timestamp of the record change it accompanies.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			EventID,
			EventType,
			AggregateID,
			Payload,
			Status,
			CreatedAt,
			RetryCount,
		},
		[]interface{}{
			data.EventID,
			data.EventType,
			data.AggregateID,
			data.Payload,
			StatusPending,
			spanner.CommitTimestamp,
			int64(0),
		},
	)
}

// CompletedMut marks an event as relayed.
func (m *Model) CompletedMut(eventID string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{EventID, Status, ProcessedAt, ErrorMessage},
		[]interface{}{eventID, StatusCompleted, spanner.CommitTimestamp, spanner.NullString{}},
	)
}

// RetryMut records a failed publish attempt. The event stays pending until
// retryCount reaches maxRetries, then it is parked as failed with
// processed_at set so cleanup can age it out.
func (m *Model) RetryMut(eventID string, retryCount, maxRetries int64, reason string) *spanner.Mutation {
	columns := []string{EventID, Status, RetryCount, ErrorMessage}
	values := []interface{}{eventID, StatusPending, retryCount, spanner.NullString{StringVal: reason, Valid: true}}

	if retryCount >= maxRetries {
		values[1] = StatusFailed
		columns = append(columns, ProcessedAt)
		values = append(values, spanner.CommitTimestamp)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting an outbox event.
func (m *Model) DeleteMut(eventID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{eventID})
}
