package ports

import (
	"context"
	"time"
)

// Credential is a live access-credential record: the association between a
// raw bearer token, the account it authenticates, and an optional client
// type used for uniqueness scoping.
type Credential struct {
	Token      string
	AccountID  string
	ClientType string
	CreatedAt  time.Time
}

// TokenStore persists access credentials. Tokens expire on their own after
// the store's configured lifetime; Get returns (nil, nil) for unknown or
// expired tokens.
type TokenStore interface {
	Put(ctx context.Context, cred Credential) error
	Get(ctx context.Context, token string) (*Credential, error)
	Delete(ctx context.Context, token string) error

	// DeleteOthers removes all live credentials of the account except keep.
	// With a non-empty clientType only credentials of that exact type are
	// removed; with an empty one, every other credential of the account is.
	DeleteOthers(ctx context.Context, accountID, clientType, keep string) error
}
