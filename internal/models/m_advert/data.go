package m_advert

import (
	"math/big"
	"time"
)

// Data represents the database model for the adverts table.
type Data struct {
	AdvertID    string    `spanner:"advert_id"`
	Title       string    `spanner:"title"`
	Slug        string    `spanner:"slug"`
	Description string    `spanner:"description"`
	ImageRef    string    `spanner:"image_ref"`
	Price       big.Rat   `spanner:"price"`
	Category    string    `spanner:"category"`
	Tags        []string  `spanner:"tags"`
	OwnerID     string    `spanner:"owner_id"`
	PublishedAt time.Time `spanner:"published_at"`
	Status      string    `spanner:"status"`
}
