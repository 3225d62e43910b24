package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/models/m_advert"
	"github.com/light-bringer/advert-catalog/internal/models/m_outbox"
	"github.com/light-bringer/advert-catalog/internal/pkg/committer"
	"github.com/light-bringer/advert-catalog/internal/pkg/query"
)

// AdvertRepo implements AdvertRepository for Spanner.
type AdvertRepo struct {
	client      *spanner.Client
	committer   *committer.Committer
	model       *m_advert.Model
	outboxModel *m_outbox.Model
}

// NewAdvertRepo creates a new AdvertRepo.
func NewAdvertRepo(client *spanner.Client, c *committer.Committer) *AdvertRepo {
	return &AdvertRepo{
		client:      client,
		committer:   c,
		model:       m_advert.NewModel(),
		outboxModel: m_outbox.NewModel(),
	}
}

var _ contracts.AdvertRepository = (*AdvertRepo)(nil)

// Find runs q with the full advert column list.
func (r *AdvertRepo) Find(ctx context.Context, q *query.Builder) ([]*domain.Advert, error) {
	stmt := q.Select(m_advert.Columns()...).Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	adverts := make([]*domain.Advert, 0)
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query adverts: %w", err)
		}

		var data m_advert.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse advert: %w", err)
		}
		adverts = append(adverts, dataToDomain(&data))
	}

	return adverts, nil
}

// Count runs the COUNT(*) form of q.
func (r *AdvertRepo) Count(ctx context.Context, q *query.Builder) (int64, error) {
	iter := r.client.Single().Query(ctx, q.Count().Build())
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count adverts: %w", err)
	}

	var total int64
	if err := row.Column(0, &total); err != nil {
		return 0, fmt.Errorf("failed to parse count: %w", err)
	}
	return total, nil
}

// GetByID retrieves an advert by ID, reconstructing the domain aggregate.
func (r *AdvertRepo) GetByID(ctx context.Context, advertID string) (*domain.Advert, error) {
	row, err := r.client.Single().ReadRow(ctx, m_advert.TableName, spanner.Key{advertID}, m_advert.Columns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrAdvertNotFound
		}
		return nil, fmt.Errorf("failed to read advert: %w", err)
	}

	var data m_advert.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse advert: %w", err)
	}
	return dataToDomain(&data), nil
}

// GetBySlug retrieves an advert by its slug.
func (r *AdvertRepo) GetBySlug(ctx context.Context, slug string) (*domain.Advert, error) {
	q := query.From(m_advert.TableName).
		Where(query.Eq(m_advert.Slug, slug)).
		Limit(1)

	adverts, err := r.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(adverts) == 0 {
		return nil, domain.ErrAdvertNotFound
	}
	return adverts[0], nil
}

// GetOwner reads only the owner column.
func (r *AdvertRepo) GetOwner(ctx context.Context, advertID string) (string, bool, error) {
	row, err := r.client.Single().ReadRow(ctx, m_advert.TableName, spanner.Key{advertID}, []string{m_advert.OwnerID})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read advert owner: %w", err)
	}

	var ownerID string
	if err := row.Column(0, &ownerID); err != nil {
		return "", false, fmt.Errorf("failed to parse advert owner: %w", err)
	}
	return ownerID, true, nil
}

// SlugExists looks the slug up through the unique slug index. The holder
// exceptID does not count.
func (r *AdvertRepo) SlugExists(ctx context.Context, slug, exceptID string) (bool, error) {
	row, err := r.client.Single().ReadRowUsingIndex(ctx, m_advert.TableName, m_advert.SlugIndex, spanner.Key{slug}, []string{m_advert.AdvertID})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check slug: %w", err)
	}

	var holderID string
	if err := row.Column(0, &holderID); err != nil {
		return false, fmt.Errorf("failed to parse slug holder: %w", err)
	}
	return holderID != exceptID, nil
}

// Insert writes the advert and its creation events in one commit.
func (r *AdvertRepo) Insert(ctx context.Context, advert *domain.Advert) error {
	plan := committer.NewPlan()
	plan.Add(r.model.InsertMut(domainToData(advert)))

	if err := r.addEvents(plan, advert); err != nil {
		return err
	}

	if err := r.committer.Apply(ctx, plan); err != nil {
		if spanner.ErrCode(err) == codes.AlreadyExists {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("failed to insert advert: %w", err)
	}

	advert.Changes().Clear()
	advert.ClearEvents()
	return nil
}

// Update writes only the dirty fields plus pending events.
func (r *AdvertRepo) Update(ctx context.Context, advert *domain.Advert) error {
	plan := committer.NewPlan()
	plan.Add(r.model.UpdateMut(advert.ID(), dirtyUpdates(advert)))

	if err := r.addEvents(plan, advert); err != nil {
		return err
	}

	if err := r.committer.Apply(ctx, plan); err != nil {
		switch spanner.ErrCode(err) {
		case codes.NotFound:
			return domain.ErrAdvertNotFound
		case codes.AlreadyExists:
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("failed to update advert: %w", err)
	}

	advert.Changes().Clear()
	advert.ClearEvents()
	return nil
}

// Delete removes the advert row and writes its deletion events.
func (r *AdvertRepo) Delete(ctx context.Context, advert *domain.Advert) error {
	plan := committer.NewPlan()
	plan.Add(r.model.DeleteMut(advert.ID()))

	if err := r.addEvents(plan, advert); err != nil {
		return err
	}

	if err := r.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to delete advert: %w", err)
	}

	advert.ClearEvents()
	return nil
}

func (r *AdvertRepo) addEvents(plan *committer.CommitPlan, advert *domain.Advert) error {
	events, err := enrichEvents(advert.DomainEvents())
	if err != nil {
		return err
	}
	for _, event := range events {
		plan.Add(r.outboxModel.InsertMut(&m_outbox.Data{
			EventID:     event.EventID,
			EventType:   event.EventType,
			AggregateID: event.AggregateID,
			Payload:     spanner.NullJSON{Value: json.RawMessage(event.Payload), Valid: true},
		}))
	}
	return nil
}

// dirtyUpdates maps the advert's dirty fields to column values.
func dirtyUpdates(advert *domain.Advert) map[string]interface{} {
	changes := advert.Changes()
	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldTitle) {
		updates[m_advert.Title] = advert.Title()
	}
	if changes.Dirty(domain.FieldSlug) {
		updates[m_advert.Slug] = advert.Slug()
	}
	if changes.Dirty(domain.FieldDescription) {
		updates[m_advert.Description] = advert.Description()
	}
	if changes.Dirty(domain.FieldImageRef) {
		updates[m_advert.ImageRef] = advert.ImageRef()
	}
	if changes.Dirty(domain.FieldPrice) {
		updates[m_advert.Price] = *advert.Price().Rat()
	}
	if changes.Dirty(domain.FieldCategory) {
		updates[m_advert.Category] = string(advert.Category())
	}
	if changes.Dirty(domain.FieldTags) {
		updates[m_advert.Tags] = advert.Tags()
	}
	if changes.Dirty(domain.FieldStatus) {
		updates[m_advert.Status] = string(advert.Status())
	}

	return updates
}

func domainToData(advert *domain.Advert) *m_advert.Data {
	return &m_advert.Data{
		AdvertID:    advert.ID(),
		Title:       advert.Title(),
		Slug:        advert.Slug(),
		Description: advert.Description(),
		ImageRef:    advert.ImageRef(),
		Price:       *advert.Price().Rat(),
		Category:    string(advert.Category()),
		Tags:        advert.Tags(),
		OwnerID:     advert.OwnerID(),
		PublishedAt: advert.PublishedAt(),
		Status:      string(advert.Status()),
	}
}

func dataToDomain(data *m_advert.Data) *domain.Advert {
	return domain.ReconstructAdvert(domain.Snapshot{
		ID:          data.AdvertID,
		Title:       data.Title,
		Slug:        data.Slug,
		Description: data.Description,
		ImageRef:    data.ImageRef,
		Price:       domain.NewMoneyFromRat(&data.Price),
		Category:    domain.Category(data.Category),
		Tags:        data.Tags,
		OwnerID:     data.OwnerID,
		PublishedAt: data.PublishedAt,
		Status:      domain.Status(data.Status),
	})
}
