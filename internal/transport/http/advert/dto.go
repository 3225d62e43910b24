package advert

import (
	"time"

	"github.com/light-bringer/advert-catalog/internal/app/advert/catalog"
	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
)

// AdvertResponse is the wire form of an advert.
type AdvertResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       *domain.Money   `json:"price"`
	Category    string          `json:"category"`
	Tags        []string        `json:"tags"`
	Owner       string          `json:"owner"`
	Author      *AuthorResponse `json:"author"`
	PublishedAt time.Time       `json:"publishedAt"`
	Status      string          `json:"status"`
}

// AuthorResponse is the public profile of an advert's owner.
type AuthorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// PageResponse is one page of a listing.
type PageResponse struct {
	Items      []AdvertResponse `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

func toAdvertResponse(a *domain.Advert, author *contracts.Account) AdvertResponse {
	resp := AdvertResponse{
		ID:          a.ID(),
		Title:       a.Title(),
		Slug:        a.Slug(),
		Description: a.Description(),
		Image:       a.ImageRef(),
		Price:       a.Price(),
		Category:    string(a.Category()),
		Tags:        a.Tags(),
		Owner:       a.OwnerID(),
		PublishedAt: a.PublishedAt(),
		Status:      string(a.Status()),
	}
	if author != nil {
		resp.Author = &AuthorResponse{ID: author.ID, Name: author.Name, Email: author.Email}
	}
	return resp
}

func toPageResponse(p *catalog.Page) PageResponse {
	items := make([]AdvertResponse, 0, len(p.Items))
	for _, a := range p.Items {
		items = append(items, toAdvertResponse(a, p.Authors[a.OwnerID()]))
	}
	return PageResponse{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		TotalPages: p.TotalPages,
	}
}
