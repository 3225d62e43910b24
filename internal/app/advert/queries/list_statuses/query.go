package list_statuses

import "github.com/light-bringer/advert-catalog/internal/app/advert/domain"

// Query lists every advert status.
type Query struct{}

// NewQuery creates a new list statuses query.
func NewQuery() *Query {
	return &Query{}
}

// Execute returns the statuses in display order.
func (q *Query) Execute() []domain.Status {
	return domain.Statuses()
}
