// Package usecasetest wires in-memory collaborators for interactor tests.
package usecasetest

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/light-bringer/advert-catalog/internal/adapter/storage/memstore"
	"github.com/light-bringer/advert-catalog/internal/app/advert/access"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/app/advert/images"
	"github.com/light-bringer/advert-catalog/internal/app/advert/repo"
	"github.com/light-bringer/advert-catalog/internal/models/m_advert"
	"github.com/light-bringer/advert-catalog/internal/pkg/background"
	"github.com/light-bringer/advert-catalog/internal/pkg/clock"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
	"github.com/light-bringer/advert-catalog/internal/pkg/query"
)

// PNG is the smallest byte sequence sniffed as image/png.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// Fixture bundles the collaborators an interactor needs.
type Fixture struct {
	Store   *repo.MemoryStore
	Objects *memstore.Store
	Images  *images.Service
	Gate    *access.Gate
	Runner  *background.Runner
	Clock   *clock.MockClock
	Metrics *metrics.MetricsManager
	Logger  *zap.Logger
	Logs    *observer.ObservedLogs
}

// New creates a Fixture with the clock at 2024-01-01 UTC.
func New(t *testing.T) *Fixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	store := repo.NewMemoryStore(clk)
	objects := memstore.New()
	m := metrics.NewMetricsManager("test")
	runner := background.NewRunner(logger, m, time.Second)

	return &Fixture{
		Store:   store,
		Objects: objects,
		Images:  images.NewService(objects, runner, m, logger),
		Gate:    access.NewGate(store),
		Runner:  runner,
		Clock:   clk,
		Metrics: m,
		Logger:  logger,
		Logs:    logs,
	}
}

// As returns a context carrying accountID as the caller.
func As(accountID string) context.Context {
	return access.WithCaller(context.Background(), accountID)
}

// Image returns a PNG upload.
func Image(filename string) *images.Upload {
	return &images.Upload{Filename: filename, Size: int64(len(PNG)), Body: bytes.NewReader(PNG)}
}

// Seed stores an advert owned by ownerID with its image under photos/<id>.png.
// The seeding events are marked completed, so the outbox starts empty.
func (f *Fixture) Seed(t *testing.T, ownerID, title string, status domain.Status) *domain.Advert {
	t.Helper()
	ctx := context.Background()

	id := uuid.New().String()
	imageRef := images.KeyPrefix + id + ".png"
	require.NoError(t, f.Objects.Put(ctx, imageRef, bytes.NewReader(PNG), int64(len(PNG)), "image/png"))

	price, err := domain.ParseMoney("10")
	require.NoError(t, err)
	a, err := domain.NewAdvert(domain.NewAdvertParams{
		ID:       id,
		Title:    title,
		Slug:     domain.Slugify(title),
		ImageRef: imageRef,
		Price:    price,
		Category: string(domain.CategoryForSale),
		Tags:     []string{"sport"},
		OwnerID:  ownerID,
	}, f.Clock.Tick(time.Minute))
	require.NoError(t, err)
	if status != domain.StatusAvailable {
		require.NoError(t, a.ChangeStatus(string(status), f.Clock.Now()))
	}
	require.NoError(t, f.Store.Insert(ctx, a))

	seededEvents, err := f.Store.FetchPending(ctx, 100)
	require.NoError(t, err)
	for _, event := range seededEvents {
		require.NoError(t, f.Store.MarkCompleted(ctx, event.EventID))
	}

	return a
}

// Reload reads the stored advert back.
func (f *Fixture) Reload(t *testing.T, advertID string) *domain.Advert {
	t.Helper()
	a, err := f.Store.GetByID(context.Background(), advertID)
	require.NoError(t, err)
	return a
}

// Total counts every stored advert.
func (f *Fixture) Total(t *testing.T) int64 {
	t.Helper()
	n, err := f.Store.Count(context.Background(), query.From(m_advert.TableName))
	require.NoError(t, err)
	return n
}

// Drain waits for background tasks.
func (f *Fixture) Drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.Runner.Wait(ctx))
}
