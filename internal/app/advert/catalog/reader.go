package catalog

import (
	"context"
	"fmt"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/pkg/query"
)

// Finder is the part of the repository the reader needs.
type Finder interface {
	Find(ctx context.Context, q *query.Builder) ([]*domain.Advert, error)
	Count(ctx context.Context, q *query.Builder) (int64, error)
}

// PageRequest asks for a 1-based page. Values below 1 select the defaults.
type PageRequest struct {
	Page  int
	Limit int
}

// Page is one window of a listing. Authors is keyed by owner id.
type Page struct {
	Items      []*domain.Advert
	Authors    map[string]*contracts.Account
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// Reader runs a predicate as a count plus a windowed find.
// The two reads are independent and not snapshot consistent.
type Reader struct {
	repo     Finder
	authors  contracts.AccountDirectory
	maxLimit int
}

// NewReader creates a Reader capping page size at maxLimit. A nil authors
// directory leaves Page.Authors empty.
func NewReader(repo Finder, authors contracts.AccountDirectory, maxLimit int) *Reader {
	return &Reader{repo: repo, authors: authors, maxLimit: maxLimit}
}

// Read returns the requested page of q. defaultLimit applies when the
// request has no usable limit.
func (r *Reader) Read(ctx context.Context, q *query.Builder, req PageRequest, defaultLimit int) (*Page, error) {
	page, limit := r.normalize(req, defaultLimit)

	total, err := r.repo.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to count adverts: %w", err)
	}

	result := &Page{
		Items:      []*domain.Advert{},
		Authors:    map[string]*contracts.Account{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	// Past the end: nothing to fetch, and page*limit could overflow.
	if page > result.TotalPages {
		return result, nil
	}

	items, err := r.repo.Find(ctx, q.Limit(int64(limit)).Offset(int64(page-1)*int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to find adverts: %w", err)
	}
	result.Items = items

	if result.Authors, err = ResolveAuthors(ctx, r.authors, items...); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Reader) normalize(req PageRequest, defaultLimit int) (page, limit int) {
	page = req.Page
	if page < 1 {
		page = 1
	}
	limit = req.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if r.maxLimit > 0 && limit > r.maxLimit {
		limit = r.maxLimit
	}
	if limit < 1 {
		limit = 1
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
