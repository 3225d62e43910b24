package access

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
)

// OwnerLookup loads only the owner of an advert.
type OwnerLookup interface {
	GetOwner(ctx context.Context, advertID string) (ownerID string, found bool, err error)
}

// Gate decides whether the caller owns an advert.
type Gate struct {
	owners OwnerLookup
}

// NewGate creates a Gate.
func NewGate(owners OwnerLookup) *Gate {
	return &Gate{owners: owners}
}

// IsOwner reports whether the caller on ctx owns advertID. A missing advert
// is "not owner". The only errors are domain.ErrUnauthenticated when ctx has
// no caller and lookup failures.
func (g *Gate) IsOwner(ctx context.Context, advertID string) (bool, error) {
	callerID, ok := CallerFrom(ctx)
	if !ok {
		return false, domain.ErrUnauthenticated
	}

	ownerID, found, err := g.owners.GetOwner(ctx, advertID)
	if err != nil {
		return false, fmt.Errorf("failed to load advert owner: %w", err)
	}
	if !found {
		return false, nil
	}
	return ownerID == callerID, nil
}

// Authorize resolves the caller's right to modify advertID. Checks run in a
// fixed order: identity, id format, then the IsOwner verdict. Only a negative
// verdict loads the advert again to tell domain.ErrAdvertNotFound from
// domain.ErrNotOwner.
func (g *Gate) Authorize(ctx context.Context, advertID string) error {
	if _, ok := CallerFrom(ctx); !ok {
		return domain.ErrUnauthenticated
	}
	if _, err := uuid.Parse(advertID); err != nil {
		return domain.ErrInvalidAdvertID
	}

	owns, err := g.IsOwner(ctx, advertID)
	if err != nil {
		return err
	}
	if owns {
		return nil
	}

	_, found, err := g.owners.GetOwner(ctx, advertID)
	if err != nil {
		return fmt.Errorf("failed to load advert: %w", err)
	}
	if !found {
		return domain.ErrAdvertNotFound
	}
	return domain.ErrNotOwner
}
