package contracts

import (
	"context"

	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/pkg/query"
)

// AdvertRepository is the single persistence collaborator for adverts.
// Writes persist the aggregate's pending domain events to the outbox in the
// same commit and then clear them.
type AdvertRepository interface {
	// Find returns the adverts matching q, honouring its order and window.
	Find(ctx context.Context, q *query.Builder) ([]*domain.Advert, error)

	// Count returns how many adverts match q, ignoring order and window.
	Count(ctx context.Context, q *query.Builder) (int64, error)

	// GetByID returns domain.ErrAdvertNotFound when the advert does not exist.
	GetByID(ctx context.Context, advertID string) (*domain.Advert, error)

	// GetBySlug returns domain.ErrAdvertNotFound when no advert has the slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Advert, error)

	// GetOwner loads only the owner of an advert.
	GetOwner(ctx context.Context, advertID string) (ownerID string, found bool, err error)

	// SlugExists reports whether an advert other than exceptID uses slug.
	// An empty exceptID checks every advert.
	SlugExists(ctx context.Context, slug, exceptID string) (bool, error)

	// Insert stores a new advert. A slug collision returns domain.ErrSlugTaken.
	Insert(ctx context.Context, advert *domain.Advert) error

	// Update persists the dirty fields of advert.
	// Returns domain.ErrAdvertNotFound if the advert was deleted meanwhile.
	Update(ctx context.Context, advert *domain.Advert) error

	// Delete removes the advert.
	Delete(ctx context.Context, advert *domain.Advert) error
}
