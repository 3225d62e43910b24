package list_adverts

import (
	"context"

	"github.com/light-bringer/advert-catalog/internal/app/advert/catalog"
)

// Request contains filtering and pagination parameters.
type Request struct {
	Filter catalog.RawFilter
	Page   int
	Limit  int
}

// Query handles the global catalog listing. Sold adverts are hidden.
type Query struct {
	reader       *catalog.Reader
	defaultLimit int
}

// NewQuery creates a new list adverts query.
func NewQuery(reader *catalog.Reader, defaultLimit int) *Query {
	return &Query{
		reader:       reader,
		defaultLimit: defaultLimit,
	}
}

// Execute retrieves one page of the public catalog.
func (q *Query) Execute(ctx context.Context, req *Request) (*catalog.Page, error) {
	predicate := catalog.BuildQuery(catalog.ParseFilter(req.Filter), catalog.PublicScope())
	return q.reader.Read(ctx, predicate, catalog.PageRequest{Page: req.Page, Limit: req.Limit}, q.defaultLimit)
}
