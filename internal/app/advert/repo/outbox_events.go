package repo

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/models/m_outbox"
)

// enrichEvents converts the aggregate's pending domain events into outbox
// events with ids and JSON payloads.
func enrichEvents(events []domain.DomainEvent) ([]*contracts.OutboxEvent, error) {
	out := make([]*contracts.OutboxEvent, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize %s event: %w", event.EventType(), err)
		}
		out = append(out, &contracts.OutboxEvent{
			EventID:     uuid.New().String(),
			EventType:   event.EventType(),
			AggregateID: event.AggregateID(),
			Payload:     string(payload),
			Status:      m_outbox.StatusPending,
		})
	}
	return out, nil
}
