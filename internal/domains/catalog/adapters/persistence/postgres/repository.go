package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists offers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&offerRecord{}, &offerDetailRecord{})
	}
	return repo
}

type offerRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	OwnerID     int64     `gorm:"column:owner_id;index;not null"`
	Title       string    `gorm:"column:title"`
	Image       string    `gorm:"column:image"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at;index"`

	Details []offerDetailRecord `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
}

func (offerRecord) TableName() string { return "offers" }

type offerDetailRecord struct {
	ID                 int64           `gorm:"primaryKey;column:id"`
	OfferID            int64           `gorm:"column:offer_id;uniqueIndex:idx_offer_tier;not null"`
	Title              string          `gorm:"column:title"`
	Revisions          int             `gorm:"column:revisions"`
	DeliveryTimeInDays int             `gorm:"column:delivery_time_in_days"`
	Price              decimal.Decimal `gorm:"column:price;type:numeric(15,2)"`
	Features           pq.StringArray  `gorm:"column:features;type:text[]"`
	Tier               string          `gorm:"column:tier;type:varchar(16);uniqueIndex:idx_offer_tier"`
	CreatedAt          time.Time       `gorm:"column:created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at"`
}

func (offerDetailRecord) TableName() string { return "offer_details" }

// Save persists the aggregate in one transaction. The (offer, tier) unique
// index is the concurrency backstop for the three-tier rule.
func (r *Repository) Save(ctx context.Context, offer *domain.Offer) (*projection.Projection[*domain.Offer], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, errors.New("offer is nil")
	}
	record := toOfferRecord(offer)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if record.ID == 0 {
			if err := tx.Create(&record).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ports.ErrDuplicateTier
				}
				return err
			}
			return nil
		}
		result := tx.Model(&offerRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]any{
				"title":       record.Title,
				"image":       record.Image,
				"description": record.Description,
				"updated_at":  gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		for i := range record.Details {
			record.Details[i].OfferID = record.ID
			if err := saveDetailTx(tx, &record.Details[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches the aggregate with all its packages.
func (r *Repository) GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Offer], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record offerRecord
	if err := r.db.WithContext(ctx).Preload("Details").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Delete removes the offer. The FK constraint cascades to its details.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&offerRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List applies the filter in SQL. The any-package bounds use EXISTS subqueries
// so an offer qualifies as soon as one of its tiers does.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*projection.Projection[*domain.Offer], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&offerRecord{}).Preload("Details")
	if filter.CreatorID != nil {
		query = query.Where("owner_id = ?", *filter.CreatorID)
	}
	if filter.MinPrice != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM offer_details d WHERE d.offer_id = offers.id AND d.price <= ?)",
			*filter.MinPrice,
		)
	}
	if filter.MaxDeliveryTime != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM offer_details d WHERE d.offer_id = offers.id AND d.delivery_time_in_days <= ?)",
			*filter.MaxDeliveryTime,
		)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	query = query.Order(orderClause(filter.Ordering))
	var records []offerRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Offer], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

// Count reports the catalog size.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&offerRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetDetail fetches a single package row.
func (r *Repository) GetDetail(ctx context.Context, id int64) (*domain.OfferDetail, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record offerDetailRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrDetailNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// SaveDetail updates a package row and touches the owning offer. Tier and
// offer id columns are never written.
func (r *Repository) SaveDetail(ctx context.Context, detail *domain.OfferDetail) (*domain.OfferDetail, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, errors.New("detail is nil")
	}
	record := toDetailRecord(detail)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&offerDetailRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]any{
				"title":                 record.Title,
				"revisions":             record.Revisions,
				"delivery_time_in_days": record.DeliveryTimeInDays,
				"price":                 record.Price,
				"features":              record.Features,
				"updated_at":            gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrDetailNotFound
		}
		return touchOffer(tx, record.OfferID)
	})
	if err != nil {
		return nil, err
	}
	return r.GetDetail(ctx, record.ID)
}

// DeleteDetail removes a package row and touches the owning offer.
func (r *Repository) DeleteDetail(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record offerDetailRecord
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrDetailNotFound
			}
			return err
		}
		if err := tx.Delete(&offerDetailRecord{}, "id = ?", id).Error; err != nil {
			return err
		}
		return touchOffer(tx, record.OfferID)
	})
}

func saveDetailTx(tx *gorm.DB, record *offerDetailRecord) error {
	if record.ID == 0 {
		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrDuplicateTier
			}
			return err
		}
		return nil
	}
	result := tx.Model(&offerDetailRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"title":                 record.Title,
			"revisions":             record.Revisions,
			"delivery_time_in_days": record.DeliveryTimeInDays,
			"price":                 record.Price,
			"features":              record.Features,
			"updated_at":            gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrDetailNotFound
	}
	return nil
}

func touchOffer(tx *gorm.DB, offerID int64) error {
	return tx.Model(&offerRecord{}).
		Where("id = ?", offerID).
		Update("updated_at", gorm.Expr("NOW()")).Error
}

func orderClause(ordering ports.Ordering) string {
	const minPriceExpr = "(SELECT MIN(d.price) FROM offer_details d WHERE d.offer_id = offers.id)"
	switch ordering {
	case ports.OrderMinPriceAsc:
		return minPriceExpr + " ASC"
	case ports.OrderMinPriceDesc:
		return minPriceExpr + " DESC"
	case ports.OrderUpdatedAtDesc:
		return "updated_at DESC"
	default:
		return "updated_at ASC"
	}
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toOfferRecord(offer *domain.Offer) offerRecord {
	record := offerRecord{
		ID:          offer.ID,
		OwnerID:     offer.OwnerID,
		Title:       offer.Title,
		Image:       offer.Image,
		Description: offer.Description,
	}
	for i := range offer.Details {
		record.Details = append(record.Details, toDetailRecord(&offer.Details[i]))
	}
	return record
}

func toDetailRecord(detail *domain.OfferDetail) offerDetailRecord {
	return offerDetailRecord{
		ID:                 detail.ID,
		OfferID:            detail.OfferID,
		Title:              detail.Title,
		Revisions:          detail.Revisions,
		DeliveryTimeInDays: detail.DeliveryTimeInDays,
		Price:              detail.Price,
		Features:           pq.StringArray(append([]string{}, detail.Features...)),
		Tier:               string(detail.Tier),
	}
}

func (r offerRecord) toProjection() *projection.Projection[*domain.Offer] {
	offer := &domain.Offer{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Image:       r.Image,
		Description: r.Description,
	}
	for i := range r.Details {
		offer.Details = append(offer.Details, *r.Details[i].toDomain())
	}
	return projection.New(offer, r.CreatedAt, r.UpdatedAt)
}

func (r offerDetailRecord) toDomain() *domain.OfferDetail {
	return &domain.OfferDetail{
		ID:                 r.ID,
		OfferID:            r.OfferID,
		Title:              r.Title,
		Revisions:          r.Revisions,
		DeliveryTimeInDays: r.DeliveryTimeInDays,
		Price:              r.Price,
		Features:           append([]string{}, r.Features...),
		Tier:               domain.Tier(r.Tier),
	}
}
