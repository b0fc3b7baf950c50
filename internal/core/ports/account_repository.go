package ports

import (
	"context"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

// AccountRepository defines the persistence interface for accounts.
//
// The Find* methods return (nil, nil) when no account matches: absence is a
// normal outcome, not an error. Errors are reserved for store failures.
// FindByUsername and FindByEmail match case-insensitively; FindByPhone
// expects a canonical E.164 string.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, id string, update domain.AccountUpdate) (*domain.Account, error)
}
