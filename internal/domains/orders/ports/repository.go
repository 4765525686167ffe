package ports

import (
	"context"
	"errors"

	"github.com/Simon-Kral/Coderr/internal/domains/orders/domain"
	"github.com/Simon-Kral/Coderr/internal/shared/projection"
)

var ErrNotFound = errors.New("order not found")

// Repository abstracts order persistence.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error)
	GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Order], error)
	Delete(ctx context.Context, id int64) error

	// List returns every order, newest first.
	List(ctx context.Context) ([]*projection.Projection[*domain.Order], error)
	// ListFor returns orders where the account is the customer or the business
	// side, newest first.
	ListFor(ctx context.Context, accountID int64) ([]*projection.Projection[*domain.Order], error)
	CountByBusinessAndStatus(ctx context.Context, businessAccountID int64, status domain.Status) (int64, error)
}
