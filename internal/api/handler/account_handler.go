package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rdfz3d/campus-api/internal/core/domain"
	"github.com/rdfz3d/campus-api/internal/core/ports"
)

// AccountHandler exposes the authenticated account's self-service routes.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Me handles GET /auth/me.
func (h *AccountHandler) Me(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Update handles PATCH /auth/me. Absent fields are left unchanged; an empty
// string clears an optional field.
func (h *AccountHandler) Update(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.accounts.UpdateAccount(c.Request().Context(), account, domain.AccountUpdate{
		Email:    req.Email,
		Phone:    req.Phone,
		Nickname: req.Nickname,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// ChangePassword handles POST /auth/change-password.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), account, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
