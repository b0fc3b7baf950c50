package service

import (
	"context"
	"testing"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

func seedResolverRepo() *stubAccountRepo {
	repo := newStubAccountRepo()
	repo.accounts["01H0000000000000000000000A"] = &domain.Account{
		ID:       "01H0000000000000000000000A",
		Username: "Alice",
		Email:    "alice@x.com",
		Phone:    "+8613800138000",
		IsActive: true,
	}
	repo.accounts["01H0000000000000000000000B"] = &domain.Account{
		ID:       "01H0000000000000000000000B",
		Username: "13800138001",
		IsActive: true,
	}
	return repo
}

func TestResolve_UsernameCaseInsensitive(t *testing.T) {
	r := NewIdentifierResolver(seedResolverRepo(), "CN")
	ctx := context.Background()

	for _, identifier := range []string{"Alice", "alice", "ALICE"} {
		account, err := r.Resolve(ctx, identifier)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", identifier, err)
		}
		if account == nil || account.ID != "01H0000000000000000000000A" {
			t.Fatalf("Resolve(%q): expected alice, got %+v", identifier, account)
		}
	}
}

func TestResolve_EmailShape(t *testing.T) {
	r := NewIdentifierResolver(seedResolverRepo(), "CN")
	ctx := context.Background()

	account, err := r.Resolve(ctx, "Alice@X.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if account == nil || account.Username != "Alice" {
		t.Fatalf("expected alice by email, got %+v", account)
	}

	// Anything containing "@" is routed to the email rule; a malformed email
	// is a clean miss, never an error, and never falls through to username.
	account, err = r.Resolve(ctx, "not@@valid@@either")
	if err != nil {
		t.Fatalf("malformed email must not error: %v", err)
	}
	if account != nil {
		t.Fatalf("malformed email should resolve to nothing, got %+v", account)
	}
}

func TestResolve_SignedPhone(t *testing.T) {
	r := NewIdentifierResolver(seedResolverRepo(), "CN")
	ctx := context.Background()

	account, err := r.Resolve(ctx, "+8613800138000")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if account == nil || account.Username != "Alice" {
		t.Fatalf("expected alice by phone, got %+v", account)
	}

	account, err = r.Resolve(ctx, "+notaphone")
	if err != nil {
		t.Fatalf("unparseable phone must not error: %v", err)
	}
	if account != nil {
		t.Fatalf("unparseable phone should resolve to nothing")
	}
}

func TestResolve_BareTokenPrefersUsername(t *testing.T) {
	r := NewIdentifierResolver(seedResolverRepo(), "CN")
	ctx := context.Background()

	// "13800138001" is both a plausible phone number and a registered
	// username; the username lookup wins.
	account, err := r.Resolve(ctx, "13800138001")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if account == nil || account.ID != "01H0000000000000000000000B" {
		t.Fatalf("expected username match to win, got %+v", account)
	}
}

func TestResolve_BareTokenFallsBackToPhone(t *testing.T) {
	r := NewIdentifierResolver(seedResolverRepo(), "CN")
	ctx := context.Background()

	// Not a username, but parses as a CN number matching alice's phone.
	account, err := r.Resolve(ctx, "13800138000")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if account == nil || account.Username != "Alice" {
		t.Fatalf("expected phone fallback to find alice, got %+v", account)
	}

	account, err = r.Resolve(ctx, "no_such_user")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if account != nil {
		t.Fatalf("expected miss, got %+v", account)
	}
}
