package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Simon-Kral/Coderr/internal/domains/reviews/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/reviews/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type reviewRecord struct {
	review    *domain.Review
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory review persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	reviews map[int64]*reviewRecord
	nextID  int64
	clock   func() time.Time
}

func NewRepository() *Repository {
	return &Repository{reviews: map[int64]*reviewRecord{}, clock: time.Now}
}

// WithClock overrides the timestamp source, useful in tests.
func (r *Repository) WithClock(clock func() time.Time) {
	if clock != nil {
		r.clock = clock
	}
}

func (r *Repository) Save(_ context.Context, review *domain.Review) (*projection.Projection[*domain.Review], error) {
	if review == nil {
		return nil, errors.New("review is nil")
	}
	clone := review.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, record := range r.reviews {
		if id != clone.ID &&
			record.review.ReviewerID == clone.ReviewerID &&
			record.review.BusinessID == clone.BusinessID {
			return nil, ports.ErrDuplicateReview
		}
	}
	now := r.clock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	record, exists := r.reviews[clone.ID]
	createdAt := now
	if exists {
		createdAt = record.createdAt
	}
	r.reviews[clone.ID] = &reviewRecord{review: clone, createdAt: createdAt, updatedAt: now}
	return projection.New(clone.Clone(), createdAt, now), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*projection.Projection[*domain.Review], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.reviews[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projection.New(record.review.Clone(), record.createdAt, record.updatedAt), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*projection.Projection[*domain.Review], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]*reviewRecord, 0, len(r.reviews))
	for _, record := range r.reviews {
		if filter.BusinessID != nil && record.review.BusinessID != *filter.BusinessID {
			continue
		}
		if filter.ReviewerID != nil && record.review.ReviewerID != *filter.ReviewerID {
			continue
		}
		records = append(records, record)
	}
	sortRecords(records, filter.Ordering)
	list := make([]*projection.Projection[*domain.Review], 0, len(records))
	for _, record := range records {
		list = append(list, projection.New(record.review.Clone(), record.createdAt, record.updatedAt))
	}
	return list, nil
}

func (r *Repository) ExistsForPair(_ context.Context, reviewerID, businessID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.reviews {
		if record.review.ReviewerID == reviewerID && record.review.BusinessID == businessID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.reviews)), nil
}

func (r *Repository) AverageRating(_ context.Context) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.reviews) == 0 {
		return 0, nil
	}
	var sum int
	for _, record := range r.reviews {
		sum += record.review.Rating
	}
	return float64(sum) / float64(len(r.reviews)), nil
}

func sortRecords(records []*reviewRecord, ordering ports.Ordering) {
	switch ordering {
	case ports.OrderRatingAsc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].review.Rating < records[j].review.Rating
		})
	case ports.OrderRatingDesc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[j].review.Rating < records[i].review.Rating
		})
	case ports.OrderUpdatedAtAsc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].updatedAt.Before(records[j].updatedAt)
		})
	default:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].updatedAt.Equal(records[j].updatedAt) {
				return records[i].review.ID > records[j].review.ID
			}
			return records[j].updatedAt.Before(records[i].updatedAt)
		})
	}
}
