package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Simon-Kral/Coderr/internal/domains/orders/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/orders/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return repo
}

type orderRecord struct {
	ID            int64 `gorm:"primaryKey;column:id"`
	CustomerID    int64 `gorm:"column:customer_id;index;not null"`
	BusinessID    int64 `gorm:"column:business_id;index;not null"`
	OfferID       int64 `gorm:"column:offer_id"`
	OfferDetailID int64 `gorm:"column:offer_detail_id"`

	Title              string          `gorm:"column:title"`
	Revisions          int             `gorm:"column:revisions"`
	DeliveryTimeInDays int             `gorm:"column:delivery_time_in_days"`
	Price              decimal.Decimal `gorm:"column:price;type:numeric(15,2)"`
	Features           pq.StringArray  `gorm:"column:features;type:text[]"`
	OfferType          string          `gorm:"column:offer_type;type:varchar(16)"`

	Status    string    `gorm:"column:status;type:varchar(16);index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Save inserts a new order or updates the status of an existing one. The
// snapshot columns are only written on insert.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return r.GetByID(ctx, record.ID)
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"status":     record.Status,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Delete removes an order row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns every order, newest first.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toProjections(records), nil
}

// ListFor returns orders where the account is the customer or the business side.
func (r *Repository) ListFor(ctx context.Context, accountID int64) ([]*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	err := r.db.WithContext(ctx).
		Where("customer_id = ? OR business_id = ?", accountID, accountID).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toProjections(records), nil
}

// CountByBusinessAndStatus counts orders on the business side of an account in
// the given state.
func (r *Repository) CountByBusinessAndStatus(ctx context.Context, businessAccountID int64, status domain.Status) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("business_id = ? AND status = ?", businessAccountID, string(status)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres orders repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:                 order.ID,
		CustomerID:         order.CustomerID,
		BusinessID:         order.BusinessID,
		OfferID:            order.OfferID,
		OfferDetailID:      order.OfferDetailID,
		Title:              order.Title,
		Revisions:          order.Revisions,
		DeliveryTimeInDays: order.DeliveryTimeInDays,
		Price:              order.Price,
		Features:           pq.StringArray(append([]string{}, order.Features...)),
		OfferType:          order.OfferType,
		Status:             string(order.Status),
	}
}

func toProjections(records []orderRecord) []*projection.Projection[*domain.Order] {
	list := make([]*projection.Projection[*domain.Order], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list
}

func (r orderRecord) toProjection() *projection.Projection[*domain.Order] {
	order := &domain.Order{
		ID:                 r.ID,
		CustomerID:         r.CustomerID,
		BusinessID:         r.BusinessID,
		OfferID:            r.OfferID,
		OfferDetailID:      r.OfferDetailID,
		Title:              r.Title,
		Revisions:          r.Revisions,
		DeliveryTimeInDays: r.DeliveryTimeInDays,
		Price:              r.Price,
		Features:           append([]string{}, r.Features...),
		OfferType:          r.OfferType,
		Status:             domain.Status(r.Status),
	}
	return projection.New(order, r.CreatedAt, r.UpdatedAt)
}
