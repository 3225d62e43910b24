package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/models/m_outbox"
)

// NewTestAdvert builds an available for_sale advert owned by ownerID.
// The returned aggregate still carries its creation event.
func NewTestAdvert(t *testing.T, ownerID, title, price string, publishedAt time.Time) *domain.Advert {
	t.Helper()

	amount, err := domain.ParseMoney(price)
	require.NoError(t, err)

	id := uuid.New().String()
	a, err := domain.NewAdvert(domain.NewAdvertParams{
		ID:          id,
		Title:       title,
		Slug:        domain.Slugify(title),
		Description: "Test advert description",
		ImageRef:    "photos/" + id + ".png",
		Price:       amount,
		Category:    string(domain.CategoryForSale),
		Tags:        []string{"sport"},
		OwnerID:     ownerID,
	}, publishedAt)
	require.NoError(t, err, "failed to build test advert")

	return a
}

// AssertOutboxEvent verifies an outbox event of eventType exists for aggregateID.
func AssertOutboxEvent(t *testing.T, client *spanner.Client, eventType, aggregateID string) {
	t.Helper()

	iter := client.Single().Query(context.Background(), spanner.Statement{
		SQL: "SELECT " + m_outbox.EventID + " FROM " + m_outbox.TableName +
			" WHERE " + m_outbox.EventType + " = @eventType AND " + m_outbox.AggregateID + " = @aggregateID",
		Params: map[string]interface{}{"eventType": eventType, "aggregateID": aggregateID},
	})
	defer iter.Stop()

	_, err := iter.Next()
	require.NoError(t, err, "outbox event %s not found for %s", eventType, aggregateID)
}

// CreateTestOutboxEvent inserts a pending outbox event directly.
func CreateTestOutboxEvent(t *testing.T, client *spanner.Client, eventType, aggregateID string) string {
	t.Helper()

	eventID := uuid.New().String()
	mutation := m_outbox.NewModel().InsertMut(&m_outbox.Data{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     spanner.NullJSON{Value: map[string]string{"advertId": aggregateID}, Valid: true},
	})
	_, err := client.Apply(context.Background(), []*spanner.Mutation{mutation})
	require.NoError(t, err, "failed to create test outbox event")

	return eventID
}
