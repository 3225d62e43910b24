package m_advert

// Field name constants for the adverts table.
const (
	TableName = "adverts"

	// SlugIndex is the unique secondary index on Slug.
	SlugIndex = "adverts_by_slug"

	AdvertID    = "advert_id"
	Title       = "title"
	Slug        = "slug"
	Description = "description"
	ImageRef    = "image_ref"
	Price       = "price"
	Category    = "category"
	Tags        = "tags"
	OwnerID     = "owner_id"
	PublishedAt = "published_at"
	Status      = "status"
	UpdatedAt   = "updated_at"
)

// Columns lists every column read back into Data, in struct order.
func Columns() []string {
	return []string{
		AdvertID,
		Title,
		Slug,
		Description,
		ImageRef,
		Price,
		Category,
		Tags,
		OwnerID,
		PublishedAt,
		Status,
	}
}
