package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/advert-catalog/internal/app/advert/catalog"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/get_advert"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/list_adverts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/list_owner_adverts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/change_status"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/delete_advert"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/edit_advert"
	"github.com/light-bringer/advert-catalog/internal/models/m_advert"
	"github.com/light-bringer/advert-catalog/internal/models/m_outbox"
	"github.com/light-bringer/advert-catalog/tests/testutil"
)

func TestAdvertLifecycle(t *testing.T) {
	suite, cleanup := setupTest(t)
	defer cleanup()

	// Create
	created, err := suite.CreateAdvert.Execute(as(alice), NewAdvertBuilder().WithTitle("Mountain Bike").WithPrice("250.50").Build())
	require.NoError(t, err)
	assert.Equal(t, "mountain-bike", created.Slug())
	assert.Equal(t, alice, created.OwnerID())
	assert.Equal(t, domain.StatusAvailable, created.Status())
	originalImage := created.ImageRef()
	assert.True(t, stored(suite, originalImage))

	// Read by slug
	got, err := suite.GetAdvert.Execute(as(""), &get_advert.Request{Slug: "mountain-bike"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "250.5", got.Advert.Price().String())
	require.NotNil(t, got.Author)
	assert.Equal(t, "alice", got.Author.Name)

	// Edit title and image
	edited, err := suite.EditAdvert.Execute(as(alice), &edit_advert.Request{
		AdvertID: created.ID(),
		Title:    "Gravel Bike",
		Image:    pngUpload("new.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "gravel-bike", edited.Slug())
	assert.NotEqual(t, originalImage, edited.ImageRef())
	assert.False(t, stored(suite, originalImage), "old image released after edit")

	// Reserve, then sell
	_, err = suite.ChangeStatus.Execute(as(alice), &change_status.Request{AdvertID: created.ID(), Status: "reserved"})
	require.NoError(t, err)
	sold, err := suite.ChangeStatus.Execute(as(alice), &change_status.Request{AdvertID: created.ID(), Status: "sold"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSold, sold.Status())

	// Sold is terminal
	_, err = suite.ChangeStatus.Execute(as(alice), &change_status.Request{AdvertID: created.ID(), Status: "available"})
	assert.ErrorIs(t, err, domain.ErrStatusTerminal)

	// Delete
	require.NoError(t, suite.DeleteAdvert.Execute(as(alice), &delete_advert.Request{AdvertID: created.ID()}))
	require.NoError(t, suite.Runner.Wait(context.Background()))
	assert.False(t, stored(suite, edited.ImageRef()))

	got, err = suite.GetAdvert.Execute(as(""), &get_advert.Request{Slug: "gravel-bike"})
	require.NoError(t, err)
	assert.Nil(t, got)

	testutil.AssertRowCount(t, suite.Client, m_advert.TableName, 0)
	// created, updated, two status changes, deleted
	testutil.AssertRowCount(t, suite.Client, m_outbox.TableName, 5)
}

func TestOwnershipIsEnforced(t *testing.T) {
	suite, cleanup := setupTest(t)
	defer cleanup()

	created, err := suite.CreateAdvert.Execute(as(alice), NewAdvertBuilder().WithTitle("Guitar").Build())
	require.NoError(t, err)

	_, err = suite.EditAdvert.Execute(as(bob), &edit_advert.Request{AdvertID: created.ID(), Title: "Stolen"})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = suite.ChangeStatus.Execute(as(bob), &change_status.Request{AdvertID: created.ID(), Status: "sold"})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	err = suite.DeleteAdvert.Execute(as(bob), &delete_advert.Request{AdvertID: created.ID()})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	err = suite.DeleteAdvert.Execute(as(""), &delete_advert.Request{AdvertID: created.ID()})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	err = suite.DeleteAdvert.Execute(as(alice), &delete_advert.Request{AdvertID: "not-a-uuid"})
	assert.ErrorIs(t, err, domain.ErrInvalidAdvertID)

	testutil.AssertRowCount(t, suite.Client, m_advert.TableName, 1)
}

func TestCatalogListing(t *testing.T) {
	suite, clk, cleanup := setupTestWithMockClock(t)
	defer cleanup()

	create := func(owner string, b *AdvertBuilder) *domain.Advert {
		clk.Advance(time.Minute)
		a, err := suite.CreateAdvert.Execute(as(owner), b.Build())
		require.NoError(t, err)
		return a
	}

	create(alice, NewAdvertBuilder().WithTitle("Red Bicycle").WithPrice("80").WithTags("sport", "outdoor"))
	create(alice, NewAdvertBuilder().WithTitle("Blue Kayak").WithPrice("300").WithTags("water"))
	sold := create(bob, NewAdvertBuilder().WithTitle("Green Tent").WithPrice("120").WithTags("outdoor"))
	create(bob, NewAdvertBuilder().WithTitle("Looking for skis").WithCategory("wanted").WithPrice("0"))

	_, err := suite.ChangeStatus.Execute(as(bob), &change_status.Request{AdvertID: sold.ID(), Status: "sold"})
	require.NoError(t, err)

	t.Run("sold adverts are hidden from the catalog", func(t *testing.T) {
		page, err := suite.ListAdverts.Execute(as(""), &list_adverts.Request{Page: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "Looking for skis", page.Items[0].Title(), "newest first")
	})

	t.Run("filters combine", func(t *testing.T) {
		page, err := suite.ListAdverts.Execute(as(""), &list_adverts.Request{
			Filter: catalog.RawFilter{Tags: "outdoor,water", MinPrice: "50", Category: "for_sale", Sort: "asc"},
			Page:   1,
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Red Bicycle", page.Items[0].Title())
		assert.Equal(t, "Blue Kayak", page.Items[1].Title())
	})

	t.Run("owner listing includes sold adverts", func(t *testing.T) {
		page, err := suite.ListOwnerAdverts.Execute(as(""), &list_owner_adverts.Request{OwnerName: "bob", Page: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := suite.ListAdverts.Execute(as(""), &list_adverts.Request{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalPages)
		assert.Len(t, page.Items, 1)
	})
}
