package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Simon-Kral/Coderr/internal/domains/orders/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/orders/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type orderRecord struct {
	order     *domain.Order
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*orderRecord
	nextID int64
	clock  func() time.Time
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*orderRecord{}, clock: time.Now}
}

// WithClock overrides the timestamp source, useful in tests.
func (r *Repository) WithClock(clock func() time.Time) {
	if clock != nil {
		r.clock = clock
	}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	clone := order.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	record, exists := r.orders[clone.ID]
	createdAt := now
	if exists {
		createdAt = record.createdAt
	}
	r.orders[clone.ID] = &orderRecord{order: clone, createdAt: createdAt, updatedAt: now}
	return projection.New(clone.Clone(), createdAt, now), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projection.New(record.order.Clone(), record.createdAt, record.updatedAt), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*domain.Order) bool { return true }), nil
}

func (r *Repository) ListFor(_ context.Context, accountID int64) ([]*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(order *domain.Order) bool {
		return order.CustomerID == accountID || order.BusinessID == accountID
	}), nil
}

func (r *Repository) CountByBusinessAndStatus(_ context.Context, businessAccountID int64, status domain.Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, record := range r.orders {
		if record.order.BusinessID == businessAccountID && record.order.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *Repository) collect(keep func(*domain.Order) bool) []*projection.Projection[*domain.Order] {
	records := make([]*orderRecord, 0, len(r.orders))
	for _, record := range r.orders {
		if keep(record.order) {
			records = append(records, record)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].createdAt.Equal(records[j].createdAt) {
			return records[i].order.ID > records[j].order.ID
		}
		return records[j].createdAt.Before(records[i].createdAt)
	})
	list := make([]*projection.Projection[*domain.Order], 0, len(records))
	for _, record := range records {
		list = append(list, projection.New(record.order.Clone(), record.createdAt, record.updatedAt))
	}
	return list
}
