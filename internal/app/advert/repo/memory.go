package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/models/m_advert"
	"github.com/light-bringer/advert-catalog/internal/models/m_outbox"
	"github.com/light-bringer/advert-catalog/internal/pkg/clock"
	"github.com/light-bringer/advert-catalog/internal/pkg/query"
)

// MemoryStore keeps adverts and their outbox in process memory.
// It implements both AdvertRepository and OutboxRepository and evaluates
// query builders with the same semantics as the Spanner statements.
type MemoryStore struct {
	mu      sync.RWMutex
	adverts map[string]domain.Snapshot
	outbox  []*memoryEvent
	clock   clock.Clock
}

type memoryEvent struct {
	event       contracts.OutboxEvent
	processedAt time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		adverts: make(map[string]domain.Snapshot),
		clock:   clk,
	}
}

var (
	_ contracts.AdvertRepository = (*MemoryStore)(nil)
	_ contracts.OutboxRepository = (*MemoryStore)(nil)
)

// Find filters, orders and windows the stored adverts.
// Ties in the ORDER BY column are broken by advert id.
func (s *MemoryStore) Find(ctx context.Context, q *query.Builder) ([]*domain.Advert, error) {
	s.mu.RLock()
	matched := s.match(q)
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return q.Less(matched[i], matched[j])
	})

	limit, offset := q.Window()
	if offset < 0 {
		offset = 0
	}
	if offset >= int64(len(matched)) {
		return []*domain.Advert{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < int64(len(matched)) {
		matched = matched[:limit]
	}

	adverts := make([]*domain.Advert, 0, len(matched))
	for _, rec := range matched {
		adverts = append(adverts, domain.ReconstructAdvert(rec.snapshot))
	}
	return adverts, nil
}

// Count returns the number of stored adverts matching q.
func (s *MemoryStore) Count(ctx context.Context, q *query.Builder) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.match(q))), nil
}

// GetByID returns a detached copy of the advert.
func (s *MemoryStore) GetByID(ctx context.Context, advertID string) (*domain.Advert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.adverts[advertID]
	if !ok {
		return nil, domain.ErrAdvertNotFound
	}
	return domain.ReconstructAdvert(snap), nil
}

// GetBySlug returns the advert with the slug.
func (s *MemoryStore) GetBySlug(ctx context.Context, slug string) (*domain.Advert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, snap := range s.adverts {
		if snap.Slug == slug {
			return domain.ReconstructAdvert(snap), nil
		}
	}
	return nil, domain.ErrAdvertNotFound
}

// GetOwner returns the owner id of the advert.
func (s *MemoryStore) GetOwner(ctx context.Context, advertID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.adverts[advertID]
	if !ok {
		return "", false, nil
	}
	return snap.OwnerID, true, nil
}

// SlugExists reports whether an advert other than exceptID uses slug.
func (s *MemoryStore) SlugExists(ctx context.Context, slug, exceptID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slugTaken(slug, exceptID), nil
}

// Insert stores the advert and its pending events.
func (s *MemoryStore) Insert(ctx context.Context, advert *domain.Advert) error {
	events, err := enrichEvents(advert.DomainEvents())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.adverts[advert.ID()]; exists {
		return fmt.Errorf("advert %s already exists", advert.ID())
	}
	if s.slugTaken(advert.Slug(), "") {
		return domain.ErrSlugTaken
	}

	s.adverts[advert.ID()] = advert.Snapshot()
	s.appendEvents(events)

	advert.Changes().Clear()
	advert.ClearEvents()
	return nil
}

// Update applies only the dirty fields onto the stored record, so
// concurrent edits of different fields both survive.
func (s *MemoryStore) Update(ctx context.Context, advert *domain.Advert) error {
	events, err := enrichEvents(advert.DomainEvents())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.adverts[advert.ID()]
	if !ok {
		return domain.ErrAdvertNotFound
	}

	changes := advert.Changes()
	if changes.Dirty(domain.FieldSlug) && s.slugTaken(advert.Slug(), advert.ID()) {
		return domain.ErrSlugTaken
	}

	if changes.Dirty(domain.FieldTitle) {
		stored.Title = advert.Title()
	}
	if changes.Dirty(domain.FieldSlug) {
		stored.Slug = advert.Slug()
	}
	if changes.Dirty(domain.FieldDescription) {
		stored.Description = advert.Description()
	}
	if changes.Dirty(domain.FieldImageRef) {
		stored.ImageRef = advert.ImageRef()
	}
	if changes.Dirty(domain.FieldPrice) {
		stored.Price = advert.Price()
	}
	if changes.Dirty(domain.FieldCategory) {
		stored.Category = advert.Category()
	}
	if changes.Dirty(domain.FieldTags) {
		stored.Tags = advert.Tags()
	}
	if changes.Dirty(domain.FieldStatus) {
		stored.Status = advert.Status()
	}

	s.adverts[advert.ID()] = stored
	s.appendEvents(events)

	changes.Clear()
	advert.ClearEvents()
	return nil
}

// Delete removes the advert. Deleting a missing advert is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, advert *domain.Advert) error {
	events, err := enrichEvents(advert.DomainEvents())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.adverts, advert.ID())
	s.appendEvents(events)

	advert.ClearEvents()
	return nil
}

// FetchPending returns up to limit pending events, oldest first.
func (s *MemoryStore) FetchPending(ctx context.Context, limit int) ([]*contracts.OutboxEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*contracts.OutboxEvent, 0)
	for _, e := range s.outbox {
		if len(out) >= limit {
			break
		}
		if e.event.Status == m_outbox.StatusPending {
			copied := e.event
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MarkCompleted records a successful publish.
func (s *MemoryStore) MarkCompleted(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.findEvent(eventID); e != nil {
		e.event.Status = m_outbox.StatusCompleted
		e.processedAt = s.clock.Now()
	}
	return nil
}

// MarkRetry records a failed attempt.
func (s *MemoryStore) MarkRetry(ctx context.Context, event *contracts.OutboxEvent, maxRetries int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findEvent(event.EventID)
	if e == nil {
		return nil
	}
	e.event.RetryCount = event.RetryCount + 1
	if e.event.RetryCount >= maxRetries {
		e.event.Status = m_outbox.StatusFailed
		e.processedAt = s.clock.Now()
	}
	return nil
}

// CountProcessedBefore counts events in status processed before cutoff.
func (s *MemoryStore) CountProcessedBefore(ctx context.Context, status string, cutoff time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, e := range s.outbox {
		if e.event.Status == status && !e.processedAt.IsZero() && e.processedAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

// DeleteProcessedBefore removes events in status processed before cutoff.
func (s *MemoryStore) DeleteProcessedBefore(ctx context.Context, status string, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.outbox[:0]
	var removed int64
	for _, e := range s.outbox {
		if e.event.Status == status && !e.processedAt.IsZero() && e.processedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.outbox = kept
	return removed, nil
}

// match returns the records satisfying q, ordered by id. Caller holds mu.
func (s *MemoryStore) match(q *query.Builder) []advertRecord {
	out := make([]advertRecord, 0, len(s.adverts))
	for _, snap := range s.adverts {
		rec := advertRecord{snapshot: snap}
		if q.Matches(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].snapshot.ID < out[j].snapshot.ID
	})
	return out
}

// slugTaken reports whether an advert other than exceptID uses slug. Caller holds mu.
func (s *MemoryStore) slugTaken(slug, exceptID string) bool {
	for id, snap := range s.adverts {
		if id != exceptID && snap.Slug == slug {
			return true
		}
	}
	return false
}

// appendEvents stamps and queues events. Caller holds mu.
func (s *MemoryStore) appendEvents(events []*contracts.OutboxEvent) {
	now := s.clock.Now()
	for _, event := range events {
		event.CreatedAt = now
		s.outbox = append(s.outbox, &memoryEvent{event: *event})
	}
}

// findEvent returns the queued event with id. Caller holds mu.
func (s *MemoryStore) findEvent(eventID string) *memoryEvent {
	for _, e := range s.outbox {
		if e.event.EventID == eventID {
			return e
		}
	}
	return nil
}

// advertRecord exposes a snapshot under its storage column names.
type advertRecord struct {
	snapshot domain.Snapshot
}

func (r advertRecord) Field(name string) (interface{}, bool) {
	s := r.snapshot
	switch name {
	case m_advert.AdvertID:
		return s.ID, true
	case m_advert.Title:
		return s.Title, true
	case m_advert.Slug:
		return s.Slug, true
	case m_advert.Description:
		return s.Description, true
	case m_advert.ImageRef:
		return s.ImageRef, true
	case m_advert.Price:
		return s.Price.Rat(), true
	case m_advert.Category:
		return string(s.Category), true
	case m_advert.Tags:
		return s.Tags, true
	case m_advert.OwnerID:
		return s.OwnerID, true
	case m_advert.PublishedAt:
		return s.PublishedAt, true
	case m_advert.Status:
		return string(s.Status), true
	}
	return nil, false
}
