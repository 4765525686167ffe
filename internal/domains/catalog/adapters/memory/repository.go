package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type offerRecord struct {
	offer     *domain.Offer
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory offer persistence adapter.
type Repository struct {
	mu           sync.RWMutex
	offers       map[int64]*offerRecord
	nextOfferID  int64
	nextDetailID int64
	clock        func() time.Time
}

func NewRepository() *Repository {
	return &Repository{offers: map[int64]*offerRecord{}, clock: time.Now}
}

// WithClock overrides the timestamp source, useful in tests.
func (r *Repository) WithClock(clock func() time.Time) {
	if clock != nil {
		r.clock = clock
	}
}

func (r *Repository) Save(_ context.Context, offer *domain.Offer) (*projection.Projection[*domain.Offer], error) {
	if offer == nil {
		return nil, errors.New("offer is nil")
	}
	clone := offer.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock()
	if clone.ID == 0 {
		r.nextOfferID++
		clone.ID = r.nextOfferID
	} else if clone.ID > r.nextOfferID {
		r.nextOfferID = clone.ID
	}
	for i := range clone.Details {
		clone.Details[i].OfferID = clone.ID
		if clone.Details[i].ID == 0 {
			r.nextDetailID++
			clone.Details[i].ID = r.nextDetailID
		} else if clone.Details[i].ID > r.nextDetailID {
			r.nextDetailID = clone.Details[i].ID
		}
	}
	record, exists := r.offers[clone.ID]
	createdAt := now
	if exists {
		createdAt = record.createdAt
	}
	r.offers[clone.ID] = &offerRecord{offer: clone, createdAt: createdAt, updatedAt: now}
	return projection.New(clone.Clone(), createdAt, now), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*projection.Projection[*domain.Offer], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.offers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projection.New(record.offer.Clone(), record.createdAt, record.updatedAt), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.offers, id)
	return nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*projection.Projection[*domain.Offer], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]*offerRecord, 0, len(r.offers))
	for _, record := range r.offers {
		if matches(record.offer, filter) {
			records = append(records, record)
		}
	}
	sortRecords(records, filter.Ordering)
	list := make([]*projection.Projection[*domain.Offer], 0, len(records))
	for _, record := range records {
		list = append(list, projection.New(record.offer.Clone(), record.createdAt, record.updatedAt))
	}
	return list, nil
}

func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.offers)), nil
}

func (r *Repository) GetDetail(_ context.Context, id int64) (*domain.OfferDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	detail := r.findDetail(id)
	if detail == nil {
		return nil, ports.ErrDetailNotFound
	}
	return detail.Clone(), nil
}

func (r *Repository) SaveDetail(_ context.Context, detail *domain.OfferDetail) (*domain.OfferDetail, error) {
	if detail == nil {
		return nil, errors.New("detail is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.offers[detail.OfferID]
	if !ok {
		return nil, ports.ErrDetailNotFound
	}
	for i := range record.offer.Details {
		if record.offer.Details[i].ID == detail.ID {
			clone := detail.Clone()
			// Tier and owning offer never change through this path.
			clone.Tier = record.offer.Details[i].Tier
			clone.OfferID = record.offer.Details[i].OfferID
			record.offer.Details[i] = *clone
			record.updatedAt = r.clock()
			return clone.Clone(), nil
		}
	}
	return nil, ports.ErrDetailNotFound
}

func (r *Repository) DeleteDetail(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.offers {
		for i := range record.offer.Details {
			if record.offer.Details[i].ID == id {
				record.offer.Details = append(record.offer.Details[:i], record.offer.Details[i+1:]...)
				record.updatedAt = r.clock()
				return nil
			}
		}
	}
	return ports.ErrDetailNotFound
}

func (r *Repository) findDetail(id int64) *domain.OfferDetail {
	for _, record := range r.offers {
		for i := range record.offer.Details {
			if record.offer.Details[i].ID == id {
				return &record.offer.Details[i]
			}
		}
	}
	return nil
}

func matches(offer *domain.Offer, filter ports.ListFilter) bool {
	if filter.CreatorID != nil && offer.OwnerID != *filter.CreatorID {
		return false
	}
	if filter.MinPrice != nil {
		any := false
		for i := range offer.Details {
			if offer.Details[i].Price.LessThanOrEqual(*filter.MinPrice) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	if filter.MaxDeliveryTime != nil {
		any := false
		for i := range offer.Details {
			if offer.Details[i].DeliveryTimeInDays <= *filter.MaxDeliveryTime {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		needle := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(offer.Title), needle) &&
			!strings.Contains(strings.ToLower(offer.Description), needle) {
			return false
		}
	}
	return true
}

func sortRecords(records []*offerRecord, ordering ports.Ordering) {
	switch ordering {
	case ports.OrderMinPriceAsc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].offer.MinPrice().LessThan(records[j].offer.MinPrice())
		})
	case ports.OrderMinPriceDesc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[j].offer.MinPrice().LessThan(records[i].offer.MinPrice())
		})
	case ports.OrderUpdatedAtDesc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[j].updatedAt.Before(records[i].updatedAt)
		})
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].updatedAt.Before(records[j].updatedAt)
		})
	}
}
