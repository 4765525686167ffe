package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&accountRecord{},
		&profileRecord{},
		&sessionRecord{},
		&offerRecord{},
		&offerDetailRecord{},
		&offerIdempotencyRecord{},
		&orderRecord{},
		&reviewRecord{},
	)
}

// Account schema mirrors the identity Postgres adapter.
type accountRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Admin        bool      `gorm:"column:is_admin"`
	Staff        bool      `gorm:"column:is_staff"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (accountRecord) TableName() string { return "accounts" }

// Profile schema mirrors the identity Postgres adapter.
type profileRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	AccountID    int64     `gorm:"column:account_id;uniqueIndex;not null"`
	Kind         string    `gorm:"column:kind;type:varchar(16);index"`
	File         string    `gorm:"column:file"`
	Location     string    `gorm:"column:location"`
	Tel          string    `gorm:"column:tel"`
	Description  string    `gorm:"column:description"`
	WorkingHours string    `gorm:"column:working_hours"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`

	Account accountRecord `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

func (profileRecord) TableName() string { return "profiles" }

// Session schema mirrors the identity session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "auth_sessions" }

// Offer schema mirrors the catalog Postgres adapter.
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

// Offer detail schema mirrors the catalog Postgres adapter. The (offer, tier)
// unique index backs the three-tier rule.
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

// Idempotency key schema mirrors the catalog Postgres adapter.
type offerIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OfferID     int64     `gorm:"column:offer_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (offerIdempotencyRecord) TableName() string { return "offer_idempotency_keys" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID                 int64           `gorm:"primaryKey;column:id"`
	CustomerID         int64           `gorm:"column:customer_id;index;not null"`
	BusinessID         int64           `gorm:"column:business_id;index;not null"`
	OfferID            int64           `gorm:"column:offer_id"`
	OfferDetailID      int64           `gorm:"column:offer_detail_id"`
	Title              string          `gorm:"column:title"`
	Revisions          int             `gorm:"column:revisions"`
	DeliveryTimeInDays int             `gorm:"column:delivery_time_in_days"`
	Price              decimal.Decimal `gorm:"column:price;type:numeric(15,2)"`
	Features           pq.StringArray  `gorm:"column:features;type:text[]"`
	OfferType          string          `gorm:"column:offer_type;type:varchar(16)"`
	Status             string          `gorm:"column:status;type:varchar(16);index"`
	CreatedAt          time.Time       `gorm:"column:created_at;index"`
	UpdatedAt          time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Review schema mirrors the reviews Postgres adapter. The (reviewer, business)
// unique index backs the one-review-per-business rule.
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
