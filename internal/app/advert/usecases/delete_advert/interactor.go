package delete_advert

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/app/advert/access"
	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/images"
	"github.com/light-bringer/advert-catalog/internal/pkg/clock"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
)

// Request contains the advert to delete.
type Request struct {
	AdvertID string
}

// Interactor handles the delete advert use case.
type Interactor struct {
	repo    contracts.AdvertRepository
	gate    *access.Gate
	images  *images.Service
	clock   clock.Clock
	metrics *metrics.MetricsManager
	logger  *zap.Logger
}

// NewInteractor creates a new delete advert interactor.
func NewInteractor(
	repo contracts.AdvertRepository,
	gate *access.Gate,
	images *images.Service,
	clock clock.Clock,
	m *metrics.MetricsManager,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:    repo,
		gate:    gate,
		images:  images,
		clock:   clock,
		metrics: m,
		logger:  logger,
	}
}

// Execute removes the advert. Its image is released in the background and
// the outcome of that release never reaches the caller.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if err := i.gate.Authorize(ctx, req.AdvertID); err != nil {
		return err
	}

	advert, err := i.repo.GetByID(ctx, req.AdvertID)
	if err != nil {
		return err
	}

	advert.MarkDeleted(i.clock.Now())
	if err := i.repo.Delete(ctx, advert); err != nil {
		return fmt.Errorf("failed to delete advert: %w", err)
	}

	i.images.ReleaseDetached(advert.ImageRef(), advert.ID())

	if i.metrics != nil {
		i.metrics.AdvertDeletesTotal.Inc()
	}
	i.logger.Info("Advert deleted", zap.String("advert_id", advert.ID()))

	return nil
}
