package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

// RequireVerified rejects authenticated accounts that have not completed
// verification. Must run after Auth.
func RequireVerified() echo.MiddlewareFunc {
	return requireFlag(func(a *domain.Account) bool { return a.IsVerified })
}

// RequireSuperuser restricts a route to superusers. Must run after Auth.
func RequireSuperuser() echo.MiddlewareFunc {
	return requireFlag(func(a *domain.Account) bool { return a.IsSuperuser })
}

func requireFlag(allowed func(*domain.Account) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, _ := c.Get(ContextAccount).(*domain.Account)
			if account == nil || !allowed(account) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
