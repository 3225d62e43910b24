package get_advert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/advert-catalog/internal/adapter/accounts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/app/advert/repo"
	"github.com/light-bringer/advert-catalog/internal/pkg/clock"
)

func insert(t *testing.T, store *repo.MemoryStore, id, slug, owner string) *domain.Advert {
	t.Helper()
	price, _ := domain.ParseMoney("5")
	a, err := domain.NewAdvert(domain.NewAdvertParams{
		ID: id, Title: "Red bike", Slug: slug, ImageRef: "photos/" + id + ".jpg",
		Price: price, Category: "wanted", OwnerID: owner,
	}, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, store.Insert(context.Background(), a))
	return a
}

func TestQuery_Execute(t *testing.T) {
	store := repo.NewMemoryStore(clock.NewRealClock())
	a := insert(t, store, "a1", "red-bike", "u1")
	require.NoError(t, a.ChangeStatus("sold", time.Now().UTC()))
	require.NoError(t, store.Update(context.Background(), a))

	dir, err := accounts.ParseStaticDirectory("alice:u1:alice@example.com")
	require.NoError(t, err)
	q := NewQuery(store, dir)

	found, err := q.Execute(context.Background(), &Request{Slug: "red-bike"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.StatusSold, found.Advert.Status())
	require.NotNil(t, found.Author)
	assert.Equal(t, "alice", found.Author.Name)
	assert.Equal(t, "alice@example.com", found.Author.Email)

	missing, err := q.Execute(context.Background(), &Request{Slug: "blue-bike"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQuery_UnknownAuthor(t *testing.T) {
	store := repo.NewMemoryStore(clock.NewRealClock())
	insert(t, store, "a1", "red-bike", "u9")

	found, err := NewQuery(store, accounts.NewStaticDirectory(nil)).Execute(context.Background(), &Request{Slug: "red-bike"})

	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.Author)
}
