package get_advert

import (
	"context"
	"errors"
	"fmt"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
)

// Request contains the slug to look up.
type Request struct {
	Slug string
}

// Result is the advert with its author. Author is nil when the directory
// does not know the owner.
type Result struct {
	Advert *domain.Advert
	Author *contracts.Account
}

// Query handles the get advert by slug query.
type Query struct {
	repo      contracts.AdvertRepository
	directory contracts.AccountDirectory
}

// NewQuery creates a new get advert query.
func NewQuery(repo contracts.AdvertRepository, directory contracts.AccountDirectory) *Query {
	return &Query{
		repo:      repo,
		directory: directory,
	}
}

// Execute returns the advert with the slug in any status, or nil when none has it.
func (q *Query) Execute(ctx context.Context, req *Request) (*Result, error) {
	advert, err := q.repo.GetBySlug(ctx, req.Slug)
	if errors.Is(err, domain.ErrAdvertNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	author, _, err := q.directory.LookupByID(ctx, advert.OwnerID())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}
	return &Result{Advert: advert, Author: author}, nil
}
