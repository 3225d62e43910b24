package domain

import "time"

// Event types written to the outbox.
const (
	EventAdvertCreated       = "advert.created"
	EventAdvertUpdated       = "advert.updated"
	EventAdvertStatusChanged = "advert.status_changed"
	EventAdvertDeleted       = "advert.deleted"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// AdvertCreatedEvent is emitted when an advert is published.
type AdvertCreatedEvent struct {
	AdvertID    string    `json:"advert_id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Price       *Money    `json:"price"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	PublishedAt time.Time `json:"published_at"`
}

func (e *AdvertCreatedEvent) EventType() string   { return EventAdvertCreated }
func (e *AdvertCreatedEvent) AggregateID() string { return e.AdvertID }

// AdvertUpdatedEvent is emitted when an edit changes at least one field.
type AdvertUpdatedEvent struct {
	AdvertID  string    `json:"advert_id"`
	OwnerID   string    `json:"owner_id"`
	Fields    []string  `json:"fields"`
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *AdvertUpdatedEvent) EventType() string   { return EventAdvertUpdated }
func (e *AdvertUpdatedEvent) AggregateID() string { return e.AdvertID }

// AdvertStatusChangedEvent is emitted on every applied status transition.
type AdvertStatusChangedEvent struct {
	AdvertID  string    `json:"advert_id"`
	OwnerID   string    `json:"owner_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

func (e *AdvertStatusChangedEvent) EventType() string   { return EventAdvertStatusChanged }
func (e *AdvertStatusChangedEvent) AggregateID() string { return e.AdvertID }

// AdvertDeletedEvent is emitted when an advert is hard deleted.
type AdvertDeletedEvent struct {
	AdvertID  string    `json:"advert_id"`
	OwnerID   string    `json:"owner_id"`
	ImageRef  string    `json:"image_ref"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e *AdvertDeletedEvent) EventType() string   { return EventAdvertDeleted }
func (e *AdvertDeletedEvent) AggregateID() string { return e.AdvertID }
