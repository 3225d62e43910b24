package usecasetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
)

func TestSeed_LeavesOutboxEmpty(t *testing.T) {
	f := New(t)

	f.Seed(t, "u1", "Red Bike", domain.StatusAvailable)
	f.Seed(t, "u1", "Blue Bike", domain.StatusSold)

	pending, err := f.Store.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, int64(2), f.Total(t))
}
