package domain

import (
	"strings"
	"time"
)

// Field names for change tracking. They match the storage column names.
const (
	FieldTitle       = "title"
	FieldSlug        = "slug"
	FieldDescription = "description"
	FieldImageRef    = "image_ref"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldTags        = "tags"
	FieldStatus      = "status"
)

// Advert is the aggregate root for a catalog listing.
// id, ownerID and publishedAt never change after creation.
type Advert struct {
	id          string
	title       string
	slug        string
	description string
	imageRef    string
	price       *Money
	category    Category
	tags        []string
	ownerID     string
	publishedAt time.Time
	status      Status

	// Change tracking for optimized repository updates
	changes *ChangeTracker

	// Domain events to be written to the outbox
	events []DomainEvent
}

// NewAdvertParams holds the inputs for publishing an advert.
type NewAdvertParams struct {
	ID          string
	Title       string
	Slug        string
	Description string
	ImageRef    string
	Price       *Money
	Category    string
	Tags        []string
	OwnerID     string
}

// NewAdvert creates a new Advert aggregate with status available.
func NewAdvert(p NewAdvertParams, now time.Time) (*Advert, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if p.ImageRef == "" {
		return nil, ErrImageRequired
	}
	if err := ValidatePrice(p.Price); err != nil {
		return nil, err
	}
	category, ok := ParseCategory(p.Category)
	if !ok {
		return nil, ErrInvalidCategory
	}

	a := &Advert{
		id:          p.ID,
		title:       title,
		slug:        p.Slug,
		description: p.Description,
		imageRef:    p.ImageRef,
		price:       p.Price.Copy(),
		category:    category,
		tags:        NormalizeTags(p.Tags),
		ownerID:     p.OwnerID,
		publishedAt: now,
		status:      StatusAvailable,
		changes:     NewChangeTracker(),
		events:      make([]DomainEvent, 0),
	}

	a.changes.MarkDirty(
		FieldTitle, FieldSlug, FieldDescription, FieldImageRef,
		FieldPrice, FieldCategory, FieldTags, FieldStatus,
	)

	a.recordEvent(&AdvertCreatedEvent{
		AdvertID:    a.id,
		OwnerID:     a.ownerID,
		Title:       a.title,
		Slug:        a.slug,
		Category:    string(a.category),
		Price:       a.price.Copy(),
		Tags:        a.Tags(),
		Status:      string(a.status),
		PublishedAt: a.publishedAt,
	})

	return a, nil
}

// Snapshot is the flat persisted form of an Advert.
type Snapshot struct {
	ID          string
	Title       string
	Slug        string
	Description string
	ImageRef    string
	Price       *Money
	Category    Category
	Tags        []string
	OwnerID     string
	PublishedAt time.Time
	Status      Status
}

// ReconstructAdvert reconstitutes an Advert from storage.
func ReconstructAdvert(s Snapshot) *Advert {
	price := s.Price
	if price == nil {
		price = NewMoneyFromRat(nil)
	}
	return &Advert{
		id:          s.ID,
		title:       s.Title,
		slug:        s.Slug,
		description: s.Description,
		imageRef:    s.ImageRef,
		price:       price.Copy(),
		category:    s.Category,
		tags:        copyTags(s.Tags),
		ownerID:     s.OwnerID,
		publishedAt: s.PublishedAt,
		status:      s.Status,
		changes:     NewChangeTracker(),
		events:      make([]DomainEvent, 0),
	}
}

// Snapshot returns a deep copy of the advert's state.
func (a *Advert) Snapshot() Snapshot {
	return Snapshot{
		ID:          a.id,
		Title:       a.title,
		Slug:        a.slug,
		Description: a.description,
		ImageRef:    a.imageRef,
		Price:       a.price.Copy(),
		Category:    a.category,
		Tags:        a.Tags(),
		OwnerID:     a.ownerID,
		PublishedAt: a.publishedAt,
		Status:      a.status,
	}
}

// Getters
func (a *Advert) ID() string                  { return a.id }
func (a *Advert) Title() string               { return a.title }
func (a *Advert) Slug() string                { return a.slug }
func (a *Advert) Description() string         { return a.description }
func (a *Advert) ImageRef() string            { return a.imageRef }
func (a *Advert) Price() *Money               { return a.price.Copy() }
func (a *Advert) Category() Category          { return a.category }
func (a *Advert) Tags() []string              { return copyTags(a.tags) }
func (a *Advert) OwnerID() string             { return a.ownerID }
func (a *Advert) PublishedAt() time.Time      { return a.publishedAt }
func (a *Advert) Status() Status              { return a.status }
func (a *Advert) Changes() *ChangeTracker     { return a.changes }
func (a *Advert) DomainEvents() []DomainEvent { return a.events }

// Rename changes the title together with its slug. A title equal to the
// current one is a no-op and keeps the slug.
func (a *Advert) Rename(title, slug string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if title == a.title {
		return nil
	}
	a.title = title
	a.slug = slug
	a.changes.MarkDirty(FieldTitle, FieldSlug)
	return nil
}

// SetDescription updates the description.
func (a *Advert) SetDescription(description string) {
	if description == a.description {
		return
	}
	a.description = description
	a.changes.MarkDirty(FieldDescription)
}

// SetPrice updates the price.
func (a *Advert) SetPrice(price *Money) error {
	if err := ValidatePrice(price); err != nil {
		return err
	}
	if price.Equal(a.price) {
		return nil
	}
	a.price = price.Copy()
	a.changes.MarkDirty(FieldPrice)
	return nil
}

// SetCategory updates the category from its wire name.
func (a *Advert) SetCategory(name string) error {
	category, ok := ParseCategory(name)
	if !ok {
		return ErrInvalidCategory
	}
	if category == a.category {
		return nil
	}
	a.category = category
	a.changes.MarkDirty(FieldCategory)
	return nil
}

// SetTags replaces the whole tag set.
func (a *Advert) SetTags(tags []string) {
	a.tags = NormalizeTags(tags)
	a.changes.MarkDirty(FieldTags)
}

// ReplaceImage points the advert at a new stored image and returns the
// previous reference so the caller can release it.
func (a *Advert) ReplaceImage(ref string) (string, error) {
	if ref == "" {
		return "", ErrImageRequired
	}
	old := a.imageRef
	a.imageRef = ref
	a.changes.MarkDirty(FieldImageRef)
	return old, nil
}

// MarkEdited records an update event when any field changed.
func (a *Advert) MarkEdited(now time.Time) {
	if !a.changes.HasChanges() {
		return
	}
	a.recordEvent(&AdvertUpdatedEvent{
		AdvertID:  a.id,
		OwnerID:   a.ownerID,
		Fields:    a.changes.DirtyFields(),
		Slug:      a.slug,
		UpdatedAt: now,
	})
}

// ChangeStatus applies a status transition. Only the status field is marked
// dirty; a rejected transition leaves the advert untouched.
func (a *Advert) ChangeStatus(target string, now time.Time) error {
	if err := Transition(a.status, target).Err(); err != nil {
		return err
	}
	from := a.status
	a.status = Status(target)
	a.changes.MarkDirty(FieldStatus)

	a.recordEvent(&AdvertStatusChangedEvent{
		AdvertID:  a.id,
		OwnerID:   a.ownerID,
		From:      string(from),
		To:        target,
		ChangedAt: now,
	})
	return nil
}

// MarkDeleted records the deletion event.
func (a *Advert) MarkDeleted(now time.Time) {
	a.recordEvent(&AdvertDeletedEvent{
		AdvertID:  a.id,
		OwnerID:   a.ownerID,
		ImageRef:  a.imageRef,
		DeletedAt: now,
	})
}

// recordEvent adds a domain event to the list of events.
func (a *Advert) recordEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// ClearEvents clears all recorded domain events (called after persisting).
func (a *Advert) ClearEvents() {
	a.events = make([]DomainEvent, 0)
}

// NormalizeTags trims tags, drops empty entries and removes duplicates while
// keeping the first occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// ValidatePrice checks that price is present, non-negative and storable.
func ValidatePrice(price *Money) error {
	if price == nil {
		return ErrInvalidPrice
	}
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if !price.FitsStorage() {
		return ErrInvalidPrice
	}
	return nil
}

func copyTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
