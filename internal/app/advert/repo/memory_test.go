package repo

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/models/m_advert"
	"github.com/light-bringer/advert-catalog/internal/models/m_outbox"
	"github.com/light-bringer/advert-catalog/internal/pkg/clock"
	"github.com/light-bringer/advert-catalog/internal/pkg/query"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newAdvert(t *testing.T, id, title, price string, publishedAt time.Time) *domain.Advert {
	t.Helper()
	p, err := domain.ParseMoney(price)
	require.NoError(t, err)
	a, err := domain.NewAdvert(domain.NewAdvertParams{
		ID:       id,
		Title:    title,
		Slug:     domain.Slugify(title),
		ImageRef: "photos/" + id + ".jpg",
		Price:    p,
		Category: "for_sale",
		Tags:     []string{"misc"},
		OwnerID:  "owner-1",
	}, publishedAt)
	require.NoError(t, err)
	return a
}

func seeded(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(clock.NewMockClock(t0))
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, newAdvert(t, "a1", "Red bike", "100", t0)))
	require.NoError(t, store.Insert(ctx, newAdvert(t, "a2", "Blue bike", "150", t0.Add(time.Hour))))
	require.NoError(t, store.Insert(ctx, newAdvert(t, "a3", "Green lamp", "200", t0.Add(2*time.Hour))))
	return store
}

func ids(adverts []*domain.Advert) []string {
	out := make([]string, 0, len(adverts))
	for _, a := range adverts {
		out = append(out, a.ID())
	}
	return out
}

func TestMemoryStore_FindFiltersOrdersAndWindows(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	q := query.From(m_advert.TableName).
		Where(query.ContainsFold("BIKE", m_advert.Title, m_advert.Description)).
		OrderBy(m_advert.PublishedAt, query.Desc)

	all, err := store.Find(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a1"}, ids(all))

	page, err := store.Find(ctx, q.Limit(1).Offset(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, ids(page))

	past, err := store.Find(ctx, q.Limit(1).Offset(5))
	require.NoError(t, err)
	assert.Empty(t, past)

	negative, err := store.Find(ctx, q.Limit(1).Offset(-4))
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, ids(negative))

	total, err := store.Count(ctx, q.Limit(1).Offset(5))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestMemoryStore_PriceBounds(t *testing.T) {
	store := seeded(t)

	q := query.From(m_advert.TableName).
		Where(query.Gte(m_advert.Price, big.NewRat(100, 1))).
		Where(query.Lte(m_advert.Price, big.NewRat(150, 1))).
		OrderBy(m_advert.PublishedAt, query.Asc)

	got, err := store.Find(context.Background(), q)

	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, ids(got))
}

func TestMemoryStore_ReturnsDetachedCopies(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	a, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	a.SetDescription("changed without saving")

	again, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "", again.Description())
}

func TestMemoryStore_UpdateWritesOnlyDirtyFields(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	first, _ := store.GetByID(ctx, "a1")
	second, _ := store.GetByID(ctx, "a1")

	first.SetDescription("with bell")
	require.NoError(t, store.Update(ctx, first))

	require.NoError(t, second.ChangeStatus("reserved", t0))
	require.NoError(t, store.Update(ctx, second))

	stored, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "with bell", stored.Description())
	assert.Equal(t, domain.StatusReserved, stored.Status())
	assert.False(t, second.Changes().HasChanges())
	assert.Empty(t, second.DomainEvents())
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	a, _ := store.GetByID(ctx, "a1")
	require.NoError(t, store.Delete(ctx, a))

	a.SetDescription("late edit")
	assert.ErrorIs(t, store.Update(ctx, a), domain.ErrAdvertNotFound)
}

func TestMemoryStore_SlugUniqueness(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	err := store.Insert(ctx, newAdvert(t, "a4", "Red bike", "1", t0))
	assert.ErrorIs(t, err, domain.ErrSlugTaken)

	exists, err := store.SlugExists(ctx, "red-bike", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.SlugExists(ctx, "red-bike", "a1")
	require.NoError(t, err)
	assert.False(t, exists, "holder excluded")

	a2, _ := store.GetByID(ctx, "a2")
	require.NoError(t, a2.Rename("Red bike", "red-bike"))
	assert.ErrorIs(t, store.Update(ctx, a2), domain.ErrSlugTaken)

	bySlug, err := store.GetBySlug(ctx, "blue-bike")
	require.NoError(t, err)
	assert.Equal(t, "a2", bySlug.ID())

	_, err = store.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrAdvertNotFound)
}

func TestMemoryStore_GetOwner(t *testing.T) {
	store := seeded(t)

	owner, found, err := store.GetOwner(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "owner-1", owner)

	_, found, err = store.GetOwner(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Outbox(t *testing.T) {
	clk := clock.NewMockClock(t0)
	store := NewMemoryStore(clk)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newAdvert(t, "a1", "Red bike", "100", t0)))
	require.NoError(t, store.Insert(ctx, newAdvert(t, "a2", "Blue bike", "100", t0)))

	pending, err := store.FetchPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, domain.EventAdvertCreated, pending[0].EventType)
	assert.Equal(t, "a1", pending[0].AggregateID)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(pending[0].Payload), &payload))
	assert.Equal(t, "red-bike", payload["slug"])

	limited, err := store.FetchPending(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, store.MarkCompleted(ctx, pending[0].EventID))
	require.NoError(t, store.MarkRetry(ctx, pending[1], 1, "nats down"))

	remaining, err := store.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	clk.Advance(48 * time.Hour)
	n, err := store.CountProcessedBefore(ctx, m_outbox.StatusCompleted, clk.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	removed, err := store.DeleteProcessedBefore(ctx, m_outbox.StatusFailed, clk.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	n, err = store.CountProcessedBefore(ctx, m_outbox.StatusFailed, clk.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
