package create_advert

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/app/advert/access"
	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/app/advert/images"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases"
	"github.com/light-bringer/advert-catalog/internal/pkg/clock"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
)

// Request contains the data to publish an advert.
type Request struct {
	Title       string
	Description string
	Price       string
	Category    string
	Tags        []string
	Image       *images.Upload
}

// Interactor handles the create advert use case.
type Interactor struct {
	repo    contracts.AdvertRepository
	images  *images.Service
	clock   clock.Clock
	metrics *metrics.MetricsManager
	logger  *zap.Logger
}

// NewInteractor creates a new create advert interactor.
func NewInteractor(
	repo contracts.AdvertRepository,
	images *images.Service,
	clock clock.Clock,
	m *metrics.MetricsManager,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:    repo,
		images:  images,
		clock:   clock,
		metrics: m,
		logger:  logger,
	}
}

// Execute publishes an advert owned by the caller on ctx.
//
// Fields are validated before the image is uploaded. The image is stored
// first; if the record cannot be written the image is released in the
// background.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Advert, error) {
	ownerID, ok := access.CallerFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	price, err := domain.ParseMoney(req.Price)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidatePrice(price); err != nil {
		return nil, err
	}
	if _, ok := domain.ParseCategory(req.Category); !ok {
		return nil, domain.ErrInvalidCategory
	}

	imageRef, err := i.images.Store(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	var advert *domain.Advert
	err = usecases.WithSlugRetry(ctx, i.repo, title, "", func(slug string) error {
		a, err := domain.NewAdvert(domain.NewAdvertParams{
			ID:          uuid.New().String(),
			Title:       title,
			Slug:        slug,
			Description: req.Description,
			ImageRef:    imageRef,
			Price:       price,
			Category:    req.Category,
			Tags:        req.Tags,
			OwnerID:     ownerID,
		}, i.clock.Now())
		if err != nil {
			return err
		}
		if err := i.repo.Insert(ctx, a); err != nil {
			return err
		}
		advert = a
		return nil
	})
	if err != nil {
		i.images.ReleaseDetached(imageRef, "")
		return nil, fmt.Errorf("failed to create advert: %w", err)
	}

	if i.metrics != nil {
		i.metrics.AdvertsCreatedTotal.Inc()
	}
	i.logger.Info("Advert created",
		zap.String("advert_id", advert.ID()),
		zap.String("owner_id", ownerID),
		zap.String("slug", advert.Slug()),
	)

	return advert, nil
}
