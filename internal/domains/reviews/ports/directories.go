package ports

import (
	"context"
	"errors"
)

var ErrNotBusinessAccount = errors.New("account is not a business profile")

// BusinessDirectory verifies the reviewed account exists and carries a
// business profile. Anything else surfaces as ErrNotBusinessAccount.
type BusinessDirectory interface {
	RequireBusinessAccount(ctx context.Context, accountID int64) error
}
