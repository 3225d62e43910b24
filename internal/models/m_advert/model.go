package m_advert

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the adverts table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an advert.
// Insert (not InsertOrUpdate) so a duplicate id or slug fails the commit.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
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
			UpdatedAt,
		},
		[]interface{}{
			data.AdvertID,
			data.Title,
			data.Slug,
			data.Description,
			data.ImageRef,
			data.Price,
			data.Category,
			data.Tags,
			data.OwnerID,
			data.PublishedAt,
			data.Status,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific advert fields.
// The updates map should contain column names as keys and new values.
func (m *Model) UpdateMut(advertID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+2)
	values := make([]interface{}, 0, len(updates)+2)

	columns = append(columns, AdvertID)
	values = append(values, advertID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	columns = append(columns, UpdatedAt)
	values = append(values, spanner.CommitTimestamp)

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting an advert (hard delete).
func (m *Model) DeleteMut(advertID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{advertID})
}
