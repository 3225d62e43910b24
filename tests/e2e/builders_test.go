package e2e

import (
	"bytes"
	"context"

	"github.com/light-bringer/advert-catalog/internal/app/advert/access"
	"github.com/light-bringer/advert-catalog/internal/app/advert/images"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/create_advert"
)

// png is the smallest byte sequence sniffed as image/png.
var png = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// as returns a context whose caller is accountID.
func as(accountID string) context.Context {
	return access.WithCaller(context.Background(), accountID)
}

func pngUpload(filename string) *images.Upload {
	return &images.Upload{Filename: filename, Size: int64(len(png)), Body: bytes.NewReader(png)}
}

// AdvertBuilder helps create adverts for tests with a fluent interface
type AdvertBuilder struct {
	title       string
	description string
	price       string
	category    string
	tags        []string
}

// NewAdvertBuilder creates a new builder with default values
func NewAdvertBuilder() *AdvertBuilder {
	return &AdvertBuilder{
		title:       "Test Advert",
		description: "Default Description",
		price:       "100",
		category:    "for_sale",
		tags:        []string{"misc"},
	}
}

// WithTitle sets the advert title
func (b *AdvertBuilder) WithTitle(title string) *AdvertBuilder {
	b.title = title
	return b
}

// WithPrice sets the advert price
func (b *AdvertBuilder) WithPrice(price string) *AdvertBuilder {
	b.price = price
	return b
}

// WithCategory sets the advert category
func (b *AdvertBuilder) WithCategory(category string) *AdvertBuilder {
	b.category = category
	return b
}

// WithTags sets the advert tags
func (b *AdvertBuilder) WithTags(tags ...string) *AdvertBuilder {
	b.tags = tags
	return b
}

// Build creates the create_advert.Request with a fresh PNG upload
func (b *AdvertBuilder) Build() *create_advert.Request {
	return &create_advert.Request{
		Title:       b.title,
		Description: b.description,
		Price:       b.price,
		Category:    b.category,
		Tags:        b.tags,
		Image:       pngUpload("photo.png"),
	}
}

// stored reports whether the object store holds key.
func stored(suite *Services, key string) bool {
	_, ok := suite.Objects.Get(key)
	return ok
}
