package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rdfz3d/campus-api/internal/core/domain"
	"github.com/rdfz3d/campus-api/internal/core/ports"
)

type fakeTokenStore struct {
	creds map[string]ports.Credential
}

func (s *fakeTokenStore) Put(_ context.Context, cred ports.Credential) error {
	s.creds[cred.Token] = cred
	return nil
}

func (s *fakeTokenStore) Get(_ context.Context, token string) (*ports.Credential, error) {
	cred, ok := s.creds[token]
	if !ok {
		return nil, nil
	}
	return &cred, nil
}

func (s *fakeTokenStore) Delete(_ context.Context, token string) error {
	delete(s.creds, token)
	return nil
}

func (s *fakeTokenStore) DeleteOthers(_ context.Context, _, _, _ string) error { return nil }

type fakeAccountRepo struct {
	accounts map[string]*domain.Account
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	return r.accounts[id], nil
}

func (r *fakeAccountRepo) FindByUsername(_ context.Context, _ string) (*domain.Account, error) {
	return nil, nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, _ string) (*domain.Account, error) {
	return nil, nil
}

func (r *fakeAccountRepo) FindByPhone(_ context.Context, _ string) (*domain.Account, error) {
	return nil, nil
}

func (r *fakeAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	return a, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, id string, _ domain.AccountUpdate) (*domain.Account, error) {
	return r.accounts[id], nil
}

func authFixture() (*fakeTokenStore, *fakeAccountRepo) {
	tokens := &fakeTokenStore{creds: map[string]ports.Credential{
		"good-token": {Token: "good-token", AccountID: "acc-1", CreatedAt: time.Now()},
		"orphan":     {Token: "orphan", AccountID: "acc-gone", CreatedAt: time.Now()},
		"inactive":   {Token: "inactive", AccountID: "acc-2", CreatedAt: time.Now()},
	}}
	accounts := &fakeAccountRepo{accounts: map[string]*domain.Account{
		"acc-1": {ID: "acc-1", Username: "alice", IsActive: true},
		"acc-2": {ID: "acc-2", Username: "bob", IsActive: false},
	}}
	return tokens, accounts
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	tokens, accounts := authFixture()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(tokens, accounts)(func(c echo.Context) error {
		called = true
		account, _ := c.Get(ContextAccount).(*domain.Account)
		if account == nil || account.Username != "alice" {
			t.Fatalf("account not set: %+v", account)
		}
		if c.Get(ContextToken) != "good-token" {
			t.Fatalf("token not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func expectUnauthorized(t *testing.T, header string) {
	t.Helper()
	e := echo.New()
	tokens, accounts := authFixture()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens, accounts)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	expectUnauthorized(t, "")
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	expectUnauthorized(t, "Token abc")
}

func TestAuthMiddleware_UnknownToken(t *testing.T) {
	expectUnauthorized(t, "Bearer not-a-token")
}

func TestAuthMiddleware_TokenForMissingAccount(t *testing.T) {
	expectUnauthorized(t, "Bearer orphan")
}

func TestAuthMiddleware_TokenForInactiveAccount(t *testing.T) {
	expectUnauthorized(t, "Bearer inactive")
}

func TestOptionalAuth_NoHeaderPassesThrough(t *testing.T) {
	e := echo.New()
	tokens, accounts := authFixture()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := OptionalAuth(tokens, accounts)(func(c echo.Context) error {
		called = true
		if c.Get(ContextAccount) != nil {
			t.Fatalf("no account expected")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestOptionalAuth_BadTokenStillRejected(t *testing.T) {
	e := echo.New()
	tokens, accounts := authFixture()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := OptionalAuth(tokens, accounts)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
