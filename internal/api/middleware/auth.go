package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rdfz3d/campus-api/internal/core/ports"
)

// Context keys set by the auth middleware.
const (
	ContextAccount = "account"
	ContextToken   = "token"
)

// Auth resolves the bearer token through the credential store, loads the
// account, and injects both into the request context. Unknown and expired
// tokens, and tokens pointing at inactive accounts, are rejected uniformly.
func Auth(tokens ports.TokenStore, accounts ports.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}

			cred, err := tokens.Get(c.Request().Context(), raw)
			if err != nil {
				return err
			}
			if cred == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			account, err := accounts.FindByID(c.Request().Context(), cred.AccountID)
			if err != nil {
				return err
			}
			if account == nil || !account.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextAccount, account)
			c.Set(ContextToken, raw)
			return next(c)
		}
	}
}

// OptionalAuth behaves like Auth but lets unauthenticated requests through
// with no account in context. A malformed or invalid token is still rejected.
func OptionalAuth(tokens ports.TokenStore, accounts ports.AccountRepository) echo.MiddlewareFunc {
	authed := Auth(tokens, accounts)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withAuth := authed(next)
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			return withAuth(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
