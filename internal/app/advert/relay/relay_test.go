package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/app/advert/repo"
	"github.com/light-bringer/advert-catalog/internal/models/m_outbox"
	"github.com/light-bringer/advert-catalog/internal/pkg/clock"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
)

type published struct {
	eventType string
	payload   string
}

type recordingPublisher struct {
	sent []published
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{eventType, string(payload)})
	return nil
}

func seed(t *testing.T, store *repo.MemoryStore, clk *clock.MockClock, titles ...string) {
	t.Helper()
	price, err := domain.ParseMoney("1")
	require.NoError(t, err)
	for _, title := range titles {
		a, err := domain.NewAdvert(domain.NewAdvertParams{
			ID: title, Title: title, Slug: domain.Slugify(title), ImageRef: "photos/" + title,
			Price: price, Category: "wanted", OwnerID: "u1",
		}, clk.Tick(time.Second))
		require.NoError(t, err)
		require.NoError(t, store.Insert(context.Background(), a))
	}
}

func TestRelay_PublishesAndCompletes(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	store := repo.NewMemoryStore(clk)
	seed(t, store, clk, "lamp", "desk")
	pub := &recordingPublisher{}
	m := metrics.NewMetricsManager("test")

	r := New(store, pub, Config{}, m, zap.NewNop())
	n, err := r.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, pub.sent, 2)
	assert.Equal(t, domain.EventAdvertCreated, pub.sent[0].eventType)
	assert.Contains(t, pub.sent[0].payload, `"slug":"lamp"`)

	pending, err := store.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboxPublishedTotal))

	completed, err := store.CountProcessedBefore(context.Background(), m_outbox.StatusCompleted, clk.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(2), completed)
}

func TestRelay_RetriesThenParksEvent(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	store := repo.NewMemoryStore(clk)
	seed(t, store, clk, "lamp")
	pub := &recordingPublisher{err: errors.New("nats: no responders")}
	m := metrics.NewMetricsManager("test")

	r := New(store, pub, Config{MaxRetries: 2}, m, zap.NewNop())

	n, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	pending, err := store.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), pending[0].RetryCount)

	_, err = r.RunOnce(context.Background())
	require.NoError(t, err)

	pending, err = store.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboxFailedTotal))

	failed, err := store.CountProcessedBefore(context.Background(), m_outbox.StatusFailed, clk.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), failed)
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	store := repo.NewMemoryStore(clock.NewRealClock())
	r := New(store, &recordingPublisher{}, Config{}, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
