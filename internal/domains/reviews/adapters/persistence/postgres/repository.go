package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Simon-Kral/Coderr/internal/domains/reviews/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/reviews/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists reviews in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&reviewRecord{})
	}
	return repo
}

type reviewRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	BusinessID  int64     `gorm:"column:business_id;uniqueIndex:idx_reviewer_business;not null"`
	ReviewerID  int64     `gorm:"column:reviewer_id;uniqueIndex:idx_reviewer_business;not null"`
	Rating      int       `gorm:"column:rating;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at;index"`
}

func (reviewRecord) TableName() string { return "reviews" }

// Save inserts or updates a review. The unique (reviewer, business) index is
// the concurrency backstop for the one-review-per-business rule.
func (r *Repository) Save(ctx context.Context, review *domain.Review) (*projection.Projection[*domain.Review], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if review == nil {
		return nil, errors.New("review is nil")
	}
	record := toRecord(review)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ports.ErrDuplicateReview
			}
			return nil, err
		}
		return r.GetByID(ctx, record.ID)
	}
	result := r.db.WithContext(ctx).Model(&reviewRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"rating":      record.Rating,
			"description": record.Description,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a review by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Review], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record reviewRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Delete removes a review row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&reviewRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List applies the filter and ordering in SQL.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*projection.Projection[*domain.Review], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&reviewRecord{})
	if filter.BusinessID != nil {
		query = query.Where("business_id = ?", *filter.BusinessID)
	}
	if filter.ReviewerID != nil {
		query = query.Where("reviewer_id = ?", *filter.ReviewerID)
	}
	query = query.Order(orderClause(filter.Ordering))
	var records []reviewRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Review], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

// ExistsForPair reports whether the reviewer already reviewed the business.
func (r *Repository) ExistsForPair(ctx context.Context, reviewerID, businessID int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&reviewRecord{}).
		Where("reviewer_id = ? AND business_id = ?", reviewerID, businessID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count reports the total number of reviews.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&reviewRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AverageRating reports the mean star rating, zero without reviews.
func (r *Repository) AverageRating(ctx context.Context) (float64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var average *float64
	err := r.db.WithContext(ctx).Model(&reviewRecord{}).
		Select("AVG(rating)").Scan(&average).Error
	if err != nil {
		return 0, err
	}
	if average == nil {
		return 0, nil
	}
	return *average, nil
}

func orderClause(ordering ports.Ordering) string {
	switch ordering {
	case ports.OrderRatingAsc:
		return "rating ASC"
	case ports.OrderRatingDesc:
		return "rating DESC"
	case ports.OrderUpdatedAtAsc:
		return "updated_at ASC"
	default:
		return "updated_at DESC, id DESC"
	}
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres reviews repository not configured")
	}
	return nil
}

func toRecord(review *domain.Review) reviewRecord {
	return reviewRecord{
		ID:          review.ID,
		BusinessID:  review.BusinessID,
		ReviewerID:  review.ReviewerID,
		Rating:      review.Rating,
		Description: review.Description,
	}
}

func (r reviewRecord) toProjection() *projection.Projection[*domain.Review] {
	review := &domain.Review{
		ID:          r.ID,
		BusinessID:  r.BusinessID,
		ReviewerID:  r.ReviewerID,
		Rating:      r.Rating,
		Description: r.Description,
	}
	return projection.New(review, r.CreatedAt, r.UpdatedAt)
}
