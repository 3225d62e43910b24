package list_owner_adverts

import (
	"context"
	"fmt"
	"strings"

	"github.com/light-bringer/advert-catalog/internal/app/advert/catalog"
	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
)

// Request contains the owner's public name plus filters and pagination.
type Request struct {
	OwnerName string
	Filter    catalog.RawFilter
	Page      int
	Limit     int
}

// Query lists one owner's adverts in every status.
type Query struct {
	directory    contracts.AccountDirectory
	reader       *catalog.Reader
	defaultLimit int
}

// NewQuery creates a new list owner adverts query.
func NewQuery(directory contracts.AccountDirectory, reader *catalog.Reader, defaultLimit int) *Query {
	return &Query{
		directory:    directory,
		reader:       reader,
		defaultLimit: defaultLimit,
	}
}

// Execute resolves the owner and reads their page.
// Returns domain.ErrOwnerNotFound for unknown names.
func (q *Query) Execute(ctx context.Context, req *Request) (*catalog.Page, error) {
	name := strings.TrimSpace(req.OwnerName)
	if name == "" {
		return nil, domain.ErrOwnerNotFound
	}

	ownerID, found, err := q.directory.LookupByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}
	if !found {
		return nil, domain.ErrOwnerNotFound
	}

	predicate := catalog.BuildQuery(catalog.ParseFilter(req.Filter), catalog.OwnerScope(ownerID))
	return q.reader.Read(ctx, predicate, catalog.PageRequest{Page: req.Page, Limit: req.Limit}, q.defaultLimit)
}
