package ports

import (
	"context"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

// RegisterInput carries the caller-supplied fields for a new account.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Phone    string
	Nickname string
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token   string
	Account *domain.Account
}

// AccountService is the authentication and account-lifecycle facade.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)

	// Authenticate resolves an arbitrary identifier (username, email, or
	// phone) and verifies the password. It returns (nil, nil) on any
	// credential mismatch; errors are reserved for store failures.
	Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error)

	// Login authenticates and issues a bearer credential. When unique is
	// true, other live credentials of the account in the same client-type
	// scope are invalidated after issuance.
	Login(ctx context.Context, identifier, password, clientType string, unique bool) (*LoginResult, error)
	Logout(ctx context.Context, token string) error

	RequestVerify(ctx context.Context, username string) (token string, err error)
	Verify(ctx context.Context, token string) (*domain.Account, error)

	ChangePassword(ctx context.Context, account *domain.Account, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) (token string, err error)
	ResetPassword(ctx context.Context, token, newPassword string) error

	UpdateAccount(ctx context.Context, account *domain.Account, update domain.AccountUpdate) (*domain.Account, error)
}
