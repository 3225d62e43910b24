// Package catalog turns listing filters into storage predicates and reads
// paginated pages of adverts.
package catalog

import (
	"strings"

	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/models/m_advert"
	"github.com/light-bringer/advert-catalog/internal/pkg/query"
)

// RawFilter holds listing filters exactly as the caller sent them.
type RawFilter struct {
	Text     string
	Tags     string // comma-separated
	MinPrice string
	MaxPrice string
	Category string
	Sort     string // "asc" for oldest first; anything else is newest first
}

// Filter is a parsed set of listing filters. Zero values mean "absent".
type Filter struct {
	Text     string
	Tags     []string
	MinPrice *domain.Money
	MaxPrice *domain.Money
	Category domain.Category
	Sort     query.Direction
}

// ParseFilter converts raw input into a Filter. It never fails: empty text,
// unparseable price bounds and unknown categories are treated as absent.
func ParseFilter(raw RawFilter) Filter {
	f := Filter{
		Text: strings.TrimSpace(raw.Text),
		Tags: domain.NormalizeTags(strings.Split(raw.Tags, ",")),
		Sort: query.Desc,
	}

	if m, err := domain.ParseMoney(raw.MinPrice); err == nil {
		f.MinPrice = m
	}
	if m, err := domain.ParseMoney(raw.MaxPrice); err == nil {
		f.MaxPrice = m
	}
	if c, ok := domain.ParseCategory(strings.TrimSpace(raw.Category)); ok {
		f.Category = c
	}
	if strings.EqualFold(strings.TrimSpace(raw.Sort), "asc") {
		f.Sort = query.Asc
	}

	return f
}

// Scope selects which adverts a listing may see.
type Scope struct {
	ownerID     string
	includeSold bool
}

// PublicScope is the global catalog: every owner, sold adverts hidden.
func PublicScope() Scope {
	return Scope{}
}

// OwnerScope is one owner's adverts in every status.
func OwnerScope(ownerID string) Scope {
	return Scope{ownerID: ownerID, includeSold: true}
}

// BuildQuery translates a filter and scope into a predicate ordered by
// publish date. Filter kinds combine with AND.
func BuildQuery(f Filter, scope Scope) *query.Builder {
	q := query.From(m_advert.TableName)

	if scope.ownerID != "" {
		q = q.Where(query.Eq(m_advert.OwnerID, scope.ownerID))
	}
	if !scope.includeSold {
		q = q.Where(query.Ne(m_advert.Status, string(domain.StatusSold)))
	}
	if f.Text != "" {
		q = q.Where(query.ContainsFold(f.Text, m_advert.Title, m_advert.Description))
	}
	if len(f.Tags) > 0 {
		q = q.Where(query.Overlaps(m_advert.Tags, f.Tags))
	}
	if f.MinPrice != nil {
		q = q.Where(query.Gte(m_advert.Price, f.MinPrice.Rat()))
	}
	if f.MaxPrice != nil {
		q = q.Where(query.Lte(m_advert.Price, f.MaxPrice.Rat()))
	}
	if f.Category != "" {
		q = q.Where(query.Eq(m_advert.Category, string(f.Category)))
	}

	return q.OrderBy(m_advert.PublishedAt, f.Sort)
}
