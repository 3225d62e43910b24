package e2e

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/adapter/accounts"
	"github.com/light-bringer/advert-catalog/internal/adapter/storage/memstore"
	"github.com/light-bringer/advert-catalog/internal/app/advert/access"
	"github.com/light-bringer/advert-catalog/internal/app/advert/catalog"
	"github.com/light-bringer/advert-catalog/internal/app/advert/images"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/get_advert"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/list_adverts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/list_owner_adverts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/repo"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/change_status"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/create_advert"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/delete_advert"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/edit_advert"
	"github.com/light-bringer/advert-catalog/internal/pkg/background"
	"github.com/light-bringer/advert-catalog/internal/pkg/clock"
	"github.com/light-bringer/advert-catalog/internal/pkg/committer"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
	"github.com/light-bringer/advert-catalog/tests/testutil"
)

const (
	alice   = "acc-alice"
	bob     = "acc-bob"
	maxPage = 50
)

// Services holds all use cases and queries for E2E tests.
type Services struct {
	// Commands
	CreateAdvert *create_advert.Interactor
	EditAdvert   *edit_advert.Interactor
	ChangeStatus *change_status.Interactor
	DeleteAdvert *delete_advert.Interactor

	// Queries
	GetAdvert        *get_advert.Query
	ListAdverts      *list_adverts.Query
	ListOwnerAdverts *list_owner_adverts.Query

	// Infrastructure
	Objects *memstore.Store
	Runner  *background.Runner
	Clock   clock.Clock
	Client  *spanner.Client
}

// setupTest wires every use case against the Spanner emulator.
func setupTest(t *testing.T) (*Services, func()) {
	return setupWithClock(t, clock.NewRealClock())
}

// setupTestWithMockClock initializes services with a controllable mock clock.
func setupTestWithMockClock(t *testing.T) (*Services, *clock.MockClock, func()) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	services, cleanup := setupWithClock(t, mockClock)
	return services, mockClock, cleanup
}

func setupWithClock(t *testing.T, clk clock.Clock) (*Services, func()) {
	t.Helper()

	client, cleanup := testutil.SetupSpannerTest(t)

	logger := zap.NewNop()
	m := metrics.NewMetricsManager("e2e")
	runner := background.NewRunner(logger, m, 5*time.Second)
	objects := memstore.New()
	imageService := images.NewService(objects, runner, m, logger)

	adverts := repo.NewAdvertRepo(client, committer.NewCommitter(client))
	gate := access.NewGate(adverts)
	directory := accounts.NewStaticDirectory(map[string]string{"alice": alice, "bob": bob})
	reader := catalog.NewReader(adverts, directory, maxPage)

	services := &Services{
		CreateAdvert:     create_advert.NewInteractor(adverts, imageService, clk, m, logger),
		EditAdvert:       edit_advert.NewInteractor(adverts, gate, imageService, clk, m, logger),
		ChangeStatus:     change_status.NewInteractor(adverts, gate, clk, m, logger),
		DeleteAdvert:     delete_advert.NewInteractor(adverts, gate, imageService, clk, m, logger),
		GetAdvert:        get_advert.NewQuery(adverts, directory),
		ListAdverts:      list_adverts.NewQuery(reader, 20),
		ListOwnerAdverts: list_owner_adverts.NewQuery(directory, reader, 20),
		Objects:          objects,
		Runner:           runner,
		Clock:            clk,
		Client:           client,
	}

	return services, func() {
		_ = runner.Wait(context.Background())
		cleanup()
	}
}
