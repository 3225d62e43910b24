package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransition verifies the full transition matrix.
func TestTransition(t *testing.T) {
	// From\To    | Available | Reserved | Sold | bogus
	// -----------|-----------|----------|------|------
	// Available  | =         | ✓        | ✓    | ?
	// Reserved   | ✓         | =        | ✓    | ?
	// Sold       | ✗         | ✗        | ✗    | ?
	tests := []struct {
		from   Status
		target string
		want   Verdict
	}{
		{StatusAvailable, "available", Unchanged},
		{StatusAvailable, "reserved", Allowed},
		{StatusAvailable, "sold", Allowed},
		{StatusReserved, "available", Allowed},
		{StatusReserved, "reserved", Unchanged},
		{StatusReserved, "sold", Allowed},
		{StatusSold, "available", Terminal},
		{StatusSold, "reserved", Terminal},
		{StatusSold, "sold", Terminal},
		{StatusAvailable, "bogus", UnknownTarget},
		{StatusSold, "bogus", UnknownTarget},
		{StatusAvailable, "", UnknownTarget},
		{StatusAvailable, "Sold", UnknownTarget},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"→"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.from, tt.target))
		})
	}
}

func TestVerdict_Err(t *testing.T) {
	assert.NoError(t, Allowed.Err())
	assert.ErrorIs(t, UnknownTarget.Err(), ErrUnknownStatus)
	assert.ErrorIs(t, Unchanged.Err(), ErrStatusUnchanged)
	assert.ErrorIs(t, Terminal.Err(), ErrStatusTerminal)
}

func TestStatuses(t *testing.T) {
	assert.Equal(t, []Status{StatusAvailable, StatusReserved, StatusSold}, Statuses())

	st, ok := ParseStatus("reserved")
	assert.True(t, ok)
	assert.Equal(t, StatusReserved, st)

	_, ok = ParseStatus("archived")
	assert.False(t, ok)
}

func TestAdvert_ChangeStatus(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("allowed transition marks only status dirty", func(t *testing.T) {
		a := reconstructed(StatusAvailable)

		err := a.ChangeStatus("sold", now)

		require.NoError(t, err)
		assert.Equal(t, StatusSold, a.Status())
		assert.Equal(t, []string{FieldStatus}, a.Changes().DirtyFields())
		require.Len(t, a.DomainEvents(), 1)
		event := a.DomainEvents()[0].(*AdvertStatusChangedEvent)
		assert.Equal(t, "available", event.From)
		assert.Equal(t, "sold", event.To)
	})

	t.Run("sold is terminal", func(t *testing.T) {
		a := reconstructed(StatusSold)

		err := a.ChangeStatus("available", now)

		assert.ErrorIs(t, err, ErrStatusTerminal)
		assert.Equal(t, StatusSold, a.Status())
		assert.False(t, a.Changes().HasChanges())
		assert.Empty(t, a.DomainEvents())
	})

	t.Run("same status is rejected", func(t *testing.T) {
		a := reconstructed(StatusReserved)

		err := a.ChangeStatus("reserved", now)

		assert.ErrorIs(t, err, ErrStatusUnchanged)
		assert.False(t, a.Changes().HasChanges())
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		a := reconstructed(StatusAvailable)

		err := a.ChangeStatus("archived", now)

		assert.ErrorIs(t, err, ErrUnknownStatus)
		assert.Equal(t, StatusAvailable, a.Status())
	})
}

func reconstructed(status Status) *Advert {
	price, _ := ParseMoney("10")
	return ReconstructAdvert(Snapshot{
		ID:          "a1",
		Title:       "Red bike",
		Slug:        "red-bike",
		ImageRef:    "photos/a.jpg",
		Price:       price,
		Category:    CategoryForSale,
		Tags:        []string{"sport"},
		OwnerID:     "u1",
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:      status,
	})
}
