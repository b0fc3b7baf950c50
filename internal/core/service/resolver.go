package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/rdfz3d/campus-api/internal/core/domain"
	"github.com/rdfz3d/campus-api/internal/core/ports"
)

// DefaultPhoneRegion is the region applied to phone numbers supplied without
// a country prefix.
const DefaultPhoneRegion = "CN"

// resolveRule pairs a structural predicate with the lookup to run when it
// matches. Rules are evaluated in order; the first predicate that matches
// decides the lookup, even if it then finds nothing.
type resolveRule struct {
	matches func(identifier string) bool
	lookup  func(ctx context.Context, identifier string) (*domain.Account, error)
}

// IdentifierResolver routes an arbitrary identifier string (username, email,
// or phone number) to the unique matching account.
type IdentifierResolver struct {
	repo   ports.AccountRepository
	region string
	rules  []resolveRule
}

// NewIdentifierResolver builds a resolver over repo using region as the
// default phone region (DefaultPhoneRegion when empty).
func NewIdentifierResolver(repo ports.AccountRepository, region string) *IdentifierResolver {
	if region == "" {
		region = DefaultPhoneRegion
	}
	r := &IdentifierResolver{repo: repo, region: region}
	r.rules = []resolveRule{
		{
			// Email-shaped: anything containing "@".
			matches: func(s string) bool { return strings.Contains(s, "@") },
			lookup:  r.byEmail,
		},
		{
			// Signed phone number: "+" or "-" prefix.
			matches: func(s string) bool { return strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") },
			lookup:  r.byPhone,
		},
		{
			// Bare token: username first, then a phone-number reparse.
			matches: func(s string) bool { return true },
			lookup:  r.byUsernameThenPhone,
		},
	}
	return r
}

// Resolve returns the matching account or (nil, nil) when the identifier
// resolves to nothing. Malformed emails and unparseable phone numbers are a
// not-found outcome, never an error.
func (r *IdentifierResolver) Resolve(ctx context.Context, identifier string) (*domain.Account, error) {
	for _, rule := range r.rules {
		if rule.matches(identifier) {
			return rule.lookup(ctx, identifier)
		}
	}
	return nil, nil
}

// NormalizePhone canonicalizes raw to E.164 using the resolver's default
// region. ok is false when the string is not a parseable, valid number.
func (r *IdentifierResolver) NormalizePhone(raw string) (normalized string, ok bool) {
	num, err := phonenumbers.Parse(raw, r.region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}

func (r *IdentifierResolver) byEmail(ctx context.Context, identifier string) (*domain.Account, error) {
	addr, err := mail.ParseAddress(identifier)
	if err != nil {
		return nil, nil
	}
	return r.repo.FindByEmail(ctx, strings.ToLower(addr.Address))
}

func (r *IdentifierResolver) byPhone(ctx context.Context, identifier string) (*domain.Account, error) {
	phone, ok := r.NormalizePhone(identifier)
	if !ok {
		return nil, nil
	}
	return r.repo.FindByPhone(ctx, phone)
}

func (r *IdentifierResolver) byUsernameThenPhone(ctx context.Context, identifier string) (*domain.Account, error) {
	account, err := r.repo.FindByUsername(ctx, identifier)
	if err != nil || account != nil {
		return account, err
	}
	return r.byPhone(ctx, identifier)
}
