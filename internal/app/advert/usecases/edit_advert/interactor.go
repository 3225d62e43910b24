package edit_advert

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/app/advert/access"
	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/app/advert/images"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases"
	"github.com/light-bringer/advert-catalog/internal/pkg/clock"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
)

// Request contains the fields to change. Empty strings and a nil Tags slice
// keep the stored value; a non-nil Tags slice replaces the whole set.
type Request struct {
	AdvertID    string
	Title       string
	Description string
	Price       string
	Category    string
	Tags        []string
	Image       *images.Upload
}

// Interactor handles the edit advert use case.
type Interactor struct {
	repo    contracts.AdvertRepository
	gate    *access.Gate
	images  *images.Service
	clock   clock.Clock
	metrics *metrics.MetricsManager
	logger  *zap.Logger
}

// NewInteractor creates a new edit advert interactor.
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

// Execute applies the edit for the advert's owner.
//
// A new image is stored before the record is updated. The previous image is
// released after the update commits; a failed release is logged and does not
// undo the edit.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Advert, error) {
	if err := i.gate.Authorize(ctx, req.AdvertID); err != nil {
		return nil, err
	}

	advert, err := i.repo.GetByID(ctx, req.AdvertID)
	if err != nil {
		return nil, err
	}

	var price *domain.Money
	if req.Price != "" {
		if price, err = domain.ParseMoney(req.Price); err != nil {
			return nil, err
		}
		if err := domain.ValidatePrice(price); err != nil {
			return nil, err
		}
	}
	if req.Category != "" {
		if _, ok := domain.ParseCategory(req.Category); !ok {
			return nil, domain.ErrInvalidCategory
		}
	}

	var newImage string
	if req.Image != nil {
		if newImage, err = i.images.Store(ctx, req.Image); err != nil {
			return nil, err
		}
	}
	oldImage := advert.ImageRef()

	edit := func(a *domain.Advert, slug string) error {
		if slug != "" {
			if err := a.Rename(req.Title, slug); err != nil {
				return err
			}
		}
		if req.Description != "" {
			a.SetDescription(req.Description)
		}
		if price != nil {
			if err := a.SetPrice(price); err != nil {
				return err
			}
		}
		if req.Category != "" {
			if err := a.SetCategory(req.Category); err != nil {
				return err
			}
		}
		if req.Tags != nil {
			a.SetTags(req.Tags)
		}
		if newImage != "" {
			if _, err := a.ReplaceImage(newImage); err != nil {
				return err
			}
		}
		a.MarkEdited(i.clock.Now())
		return i.repo.Update(ctx, a)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" || title == advert.Title() {
		err = edit(advert, "")
	} else {
		attempt := 0
		err = usecases.WithSlugRetry(ctx, i.repo, title, req.AdvertID, func(slug string) error {
			attempt++
			if attempt > 1 {
				// the failed attempt already applied its changes to advert
				fresh, err := i.repo.GetByID(ctx, req.AdvertID)
				if err != nil {
					return err
				}
				advert = fresh
			}
			return edit(advert, slug)
		})
	}
	if err != nil {
		i.images.ReleaseDetached(newImage, req.AdvertID)
		return nil, fmt.Errorf("failed to edit advert: %w", err)
	}

	if newImage != "" {
		i.images.Release(ctx, oldImage, req.AdvertID)
	}

	if i.metrics != nil {
		i.metrics.AdvertUpdatesTotal.Inc()
	}
	i.logger.Info("Advert edited",
		zap.String("advert_id", advert.ID()),
		zap.String("slug", advert.Slug()),
	)

	return advert, nil
}
