package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/identity/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists accounts and profiles in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&accountRecord{}, &profileRecord{})
	}
	return repo
}

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

// CreateWithProfile inserts the account and its profile in one transaction.
// The username unique index is the concurrency backstop for registration races.
func (r *Repository) CreateWithProfile(ctx context.Context, account *domain.Account, kind domain.ProfileKind) (*ports.ProfileView, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("account is nil")
	}
	if !domain.ValidKind(kind) {
		return nil, domain.ErrInvalidKind
	}
	accountRec := toAccountRecord(account)
	profileRec := profileRecord{Kind: string(kind)}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&accountRec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrUsernameTaken
			}
			return err
		}
		profileRec.AccountID = accountRec.ID
		if err := tx.Create(&profileRec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrProfileExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ports.ProfileView{
		Profile: profileRec.toDomain(),
		Account: accountRec.toDomain(),
	}, nil
}

// GetAccount fetches an account by identifier.
func (r *Repository) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record accountRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetAccountByUsername fetches an account by username.
func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record accountRecord
	if err := r.db.WithContext(ctx).First(&record, "username = ?", strings.TrimSpace(username)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// SaveAccount updates an existing account row.
func (r *Repository) SaveAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("account is nil")
	}
	record := toAccountRecord(account)
	result := r.db.WithContext(ctx).Model(&accountRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"first_name":    record.FirstName,
			"last_name":     record.LastName,
			"email":         record.Email,
			"password_hash": record.PasswordHash,
			"updated_at":    gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetAccount(ctx, record.ID)
}

// GetProfileByAccount fetches the profile owned by an account.
func (r *Repository) GetProfileByAccount(ctx context.Context, accountID int64) (*domain.Profile, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record profileRecord
	if err := r.db.WithContext(ctx).First(&record, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// SaveProfile updates a profile row. The kind column is never written.
func (r *Repository) SaveProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	result := r.db.WithContext(ctx).Model(&profileRecord{}).
		Where("account_id = ?", profile.AccountID).
		Updates(map[string]any{
			"file":          profile.File,
			"location":      profile.Location,
			"tel":           profile.Tel,
			"description":   profile.Description,
			"working_hours": profile.WorkingHours,
			"updated_at":    gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetProfileByAccount(ctx, profile.AccountID)
}

// ListProfiles returns all profiles of the given kind with their accounts.
func (r *Repository) ListProfiles(ctx context.Context, kind domain.ProfileKind) ([]*ports.ProfileView, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []profileRecord
	if err := r.db.WithContext(ctx).Preload("Account").
		Find(&records, "kind = ?", string(kind)).Error; err != nil {
		return nil, err
	}
	views := make([]*ports.ProfileView, 0, len(records))
	for i := range records {
		views = append(views, &ports.ProfileView{
			Profile: records[i].toDomain(),
			Account: records[i].Account.toDomain(),
		})
	}
	return views, nil
}

// CountProfiles counts profiles of the given kind.
func (r *Repository) CountProfiles(ctx context.Context, kind domain.ProfileKind) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&profileRecord{}).
		Where("kind = ?", string(kind)).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres identity repository not configured")
	}
	return nil
}

func toAccountRecord(account *domain.Account) accountRecord {
	return accountRecord{
		ID:           account.ID,
		Username:     account.Username,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Admin:        account.Admin,
		Staff:        account.Staff,
	}
}

func (r accountRecord) toDomain() *domain.Account {
	return &domain.Account{
		ID:           r.ID,
		Username:     r.Username,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Admin:        r.Admin,
		Staff:        r.Staff,
	}
}

func (r profileRecord) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:           r.ID,
		AccountID:    r.AccountID,
		Kind:         domain.ProfileKind(r.Kind),
		File:         r.File,
		Location:     r.Location,
		Tel:          r.Tel,
		Description:  r.Description,
		WorkingHours: r.WorkingHours,
	}
}
