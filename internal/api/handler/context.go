package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rdfz3d/campus-api/internal/api/middleware"
	"github.com/rdfz3d/campus-api/internal/core/domain"
)

// currentAccount extracts the account injected by the Auth middleware.
// Its presence proves the middleware ran; a protected route reached without
// it is a wiring error and is rejected with 401 rather than a panic.
func currentAccount(c echo.Context) (*domain.Account, error) {
	account, _ := c.Get(middleware.ContextAccount).(*domain.Account)
	if account == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return account, nil
}

// optionalAccount returns the authenticated account, or nil when the route
// runs behind OptionalAuth and the request carried no credentials.
func optionalAccount(c echo.Context) *domain.Account {
	account, _ := c.Get(middleware.ContextAccount).(*domain.Account)
	return account
}
