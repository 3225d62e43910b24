package change_status

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/app/advert/access"
	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/pkg/clock"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
)

// Request contains the advert and its requested status.
type Request struct {
	AdvertID string
	Status   string
}

// Interactor handles the change status use case.
type Interactor struct {
	repo    contracts.AdvertRepository
	gate    *access.Gate
	clock   clock.Clock
	metrics *metrics.MetricsManager
	logger  *zap.Logger
}

// NewInteractor creates a new change status interactor.
func NewInteractor(
	repo contracts.AdvertRepository,
	gate *access.Gate,
	clock clock.Clock,
	m *metrics.MetricsManager,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:    repo,
		gate:    gate,
		clock:   clock,
		metrics: m,
		logger:  logger,
	}
}

// Execute moves the advert to req.Status. Only the status column is written.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Advert, error) {
	if err := i.gate.Authorize(ctx, req.AdvertID); err != nil {
		return nil, err
	}

	advert, err := i.repo.GetByID(ctx, req.AdvertID)
	if err != nil {
		return nil, err
	}

	from := advert.Status()
	if err := advert.ChangeStatus(req.Status, i.clock.Now()); err != nil {
		return nil, err
	}

	if err := i.repo.Update(ctx, advert); err != nil {
		return nil, fmt.Errorf("failed to change status: %w", err)
	}

	if i.metrics != nil {
		i.metrics.StatusChangesTotal.WithLabelValues(string(advert.Status())).Inc()
	}
	i.logger.Info("Advert status changed",
		zap.String("advert_id", advert.ID()),
		zap.String("from", string(from)),
		zap.String("to", string(advert.Status())),
	)

	return advert, nil
}
