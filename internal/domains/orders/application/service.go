package application

import (
	"context"

	"github.com/Simon-Kral/Coderr/internal/domains/orders/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/orders/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

// OrderProjection transports an order together with its persistence metadata.
type OrderProjection = projection.Projection[*domain.Order]

// Service orchestrates the order ledger use cases.
type Service struct {
	repo     ports.Repository
	catalog  ports.CatalogDirectory
	accounts ports.AccountDirectory
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, catalog ports.CatalogDirectory, accounts ports.AccountDirectory) *Service {
	return &Service{repo: repo, catalog: catalog, accounts: accounts}
}

// CreateOrder snapshots the referenced offer package into a new order. An
// unknown detail id surfaces as ports.ErrOfferDetailUnknown.
func (s *Service) CreateOrder(ctx context.Context, customerAccountID, offerDetailID int64) (*OrderProjection, error) {
	lookup, err := s.catalog.LookupPackage(ctx, offerDetailID)
	if err != nil {
		return nil, err
	}
	order, err := domain.NewOrder(customerAccountID, lookup.BusinessAccountID, lookup.Snapshot)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateStatus moves an order to any of the known states.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status domain.Status) (*OrderProjection, error) {
	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := current.Entity.UpdateStatus(status); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, current.Entity)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetByID loads a single order.
func (s *Service) GetByID(ctx context.Context, orderID int64) (*OrderProjection, error) {
	result, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// ListFor returns the orders visible to an account: all of them for admins,
// otherwise the union of customer-side and business-side orders.
func (s *Service) ListFor(ctx context.Context, accountID int64, admin bool) ([]*OrderProjection, error) {
	if admin {
		return s.repo.List(ctx)
	}
	return s.repo.ListFor(ctx, accountID)
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, orderID int64) error {
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return mapError(err)
	}
	return nil
}

// CountInProgress counts running orders on the business side of an account.
// An unknown account surfaces as ports.ErrAccountUnknown.
func (s *Service) CountInProgress(ctx context.Context, businessAccountID int64) (int64, error) {
	return s.countByStatus(ctx, businessAccountID, domain.StatusInProgress)
}

// CountCompleted counts finished orders on the business side of an account.
func (s *Service) CountCompleted(ctx context.Context, businessAccountID int64) (int64, error) {
	return s.countByStatus(ctx, businessAccountID, domain.StatusCompleted)
}

func (s *Service) countByStatus(ctx context.Context, businessAccountID int64, status domain.Status) (int64, error) {
	if err := s.accounts.AccountExists(ctx, businessAccountID); err != nil {
		return 0, err
	}
	return s.repo.CountByBusinessAndStatus(ctx, businessAccountID, status)
}
