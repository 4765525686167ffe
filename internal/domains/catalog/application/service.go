package application

import (
	"context"

	"github.com/shopspring/decimal"

	types "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
	"github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

// Service orchestrates the catalog bounded context use cases.
type Service struct {
	repo        ports.Repository
	idempotency ports.IdempotencyStore
}

// ServiceOption customizes optional service collaborators.
type ServiceOption func(*Service)

// WithIdempotencyStore enables replay-safe offer creation for retried requests.
func WithIdempotencyStore(store ports.IdempotencyStore) ServiceOption {
	return func(s *Service) {
		s.idempotency = store
	}
}

// NewService wires the catalog service with its dependencies.
func NewService(repo ports.Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOffer validates the three-tier rule and persists the aggregate
// atomically. Any detail failure aborts the whole create. With an idempotency
// store configured, a retried key replays the original result.
func (s *Service) CreateOffer(ctx context.Context, input types.CreateOfferInput) (*types.OfferProjection, error) {
	if s.idempotency != nil && input.IdempotencyKey != "" {
		existing, err := s.replayCreate(ctx, input)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}
	details := make([]domain.OfferDetail, 0, len(input.Details))
	for _, in := range input.Details {
		detail, err := domain.NewOfferDetail(in.Title, in.Revisions, in.DeliveryTimeInDays, in.Price, in.Features, in.Tier)
		if err != nil {
			return nil, mapError(err)
		}
		details = append(details, *detail)
	}
	offer, err := domain.NewOffer(input.OwnerID, input.Title, input.Description, input.Image, details)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, offer)
	if err != nil {
		return nil, mapError(err)
	}
	result := fromProjection(saved)
	if s.idempotency != nil && input.IdempotencyKey != "" && result != nil && result.Offer != nil {
		if err := s.rememberCreate(ctx, input, result.Offer.ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// replayCreate returns the previously created offer when the key is known with
// an identical payload, nil when the key is new.
func (s *Service) replayCreate(ctx context.Context, input types.CreateOfferInput) (*types.OfferProjection, error) {
	hash, err := FingerprintCreateOffer(input)
	if err != nil {
		return nil, err
	}
	record, err := s.idempotency.Get(ctx, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	if record.RequestHash != hash {
		return nil, mapError(ports.ErrIdempotencyConflict)
	}
	return s.GetByID(ctx, types.OfferIdentifier{ID: record.OfferID})
}

func (s *Service) rememberCreate(ctx context.Context, input types.CreateOfferInput, offerID int64) error {
	hash, err := FingerprintCreateOffer(input)
	if err != nil {
		return err
	}
	_, err = s.idempotency.Save(ctx, ports.IdempotencyRecord{
		Key:         input.IdempotencyKey,
		RequestHash: hash,
		OfferID:     offerID,
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

// UpdateOffer applies a partial update. Detail patches match existing packages
// by tier; absent tiers stay untouched. The owner never changes.
func (s *Service) UpdateOffer(ctx context.Context, input types.UpdateOfferInput) (*types.OfferProjection, error) {
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	offer := current.Entity
	if input.Title != nil {
		if err := offer.Retitle(*input.Title); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Description != nil {
		offer.UpdateDescription(*input.Description)
	}
	if input.Image != nil {
		offer.UpdateImage(*input.Image)
	}
	for _, patch := range input.Details {
		if !domain.ValidTier(patch.Tier) {
			return nil, mapError(domain.ErrInvalidTier)
		}
		detail := offer.DetailByTier(patch.Tier)
		if detail == nil {
			return nil, ports.ErrDetailNotFound
		}
		if err := applyDetailPatch(detail, patch.Title, patch.Revisions, patch.DeliveryTimeInDays, patch.Price, patch.Features); err != nil {
			return nil, mapError(err)
		}
	}
	saved, err := s.repo.Save(ctx, offer)
	if err != nil {
		return nil, mapError(err)
	}
	return fromProjection(saved), nil
}

// GetByID loads a single offer aggregate.
func (s *Service) GetByID(ctx context.Context, input types.OfferIdentifier) (*types.OfferProjection, error) {
	result, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return fromProjection(result), nil
}

// List returns the offers matching the filter in the requested order.
func (s *Service) List(ctx context.Context, filter ports.ListFilter) ([]*types.OfferProjection, error) {
	if !ports.ValidOrdering(filter.Ordering) {
		return nil, mapError(ports.ErrUnknownOrdering)
	}
	results, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	projections := make([]*types.OfferProjection, 0, len(results))
	for _, result := range results {
		projections = append(projections, fromProjection(result))
	}
	return projections, nil
}

// Delete removes an offer and, by cascade, its packages.
func (s *Service) Delete(ctx context.Context, input types.OfferIdentifier) error {
	if err := s.repo.Delete(ctx, input.ID); err != nil {
		return mapError(err)
	}
	return nil
}

// Count reports the catalog size for the platform aggregate.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// GetDetail loads a single pricing package.
func (s *Service) GetDetail(ctx context.Context, id int64) (*domain.OfferDetail, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return detail, nil
}

// UpdateDetail mutates one package addressed by its own id. Tier and owning
// offer are immutable.
func (s *Service) UpdateDetail(ctx context.Context, input types.UpdateDetailInput) (*domain.OfferDetail, error) {
	detail, err := s.repo.GetDetail(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := applyDetailPatch(detail, input.Title, input.Revisions, input.DeliveryTimeInDays, input.Price, input.Features); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveDetail(ctx, detail)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteDetail removes a single package. The remaining packages of the offer
// are left as they are.
func (s *Service) DeleteDetail(ctx context.Context, id int64) error {
	if err := s.repo.DeleteDetail(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

func applyDetailPatch(detail *domain.OfferDetail, title *string, revisions, deliveryDays *int, price *decimal.Decimal, features *[]string) error {
	if title != nil {
		if err := detail.Retitle(*title); err != nil {
			return err
		}
	}
	if revisions != nil {
		if err := detail.SetRevisions(*revisions); err != nil {
			return err
		}
	}
	if deliveryDays != nil {
		if err := detail.SetDeliveryTime(*deliveryDays); err != nil {
			return err
		}
	}
	if price != nil {
		if err := detail.SetPrice(*price); err != nil {
			return err
		}
	}
	if features != nil {
		detail.ReplaceFeatures(*features)
	}
	return nil
}

func fromProjection(p *projection.Projection[*domain.Offer]) *types.OfferProjection {
	if p == nil {
		return nil
	}
	return types.NewOfferProjection(p.Entity, p.Metadata.CreatedAt, p.Metadata.UpdatedAt)
}

var _ ports.Service = (*Service)(nil)
