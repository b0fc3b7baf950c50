package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rdfz3d/campus-api/internal/api/metrics"
	"github.com/rdfz3d/campus-api/internal/api/middleware"
	"github.com/rdfz3d/campus-api/internal/core/domain"
	"github.com/rdfz3d/campus-api/internal/core/ports"
)

// AuthHandler exposes registration, login, and the token workflows.
type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Nickname: req.Nickname,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerOutcome(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, account)
}

func registerOutcome(err error) string {
	var exists *domain.IdentifierExistsError
	if errors.As(err, &exists) {
		return "conflict"
	}
	var badUser *domain.InvalidUsernameError
	var badPass *domain.InvalidPasswordError
	var badMail *domain.InvalidEmailError
	var badPhone *domain.InvalidPhoneError
	if errors.As(err, &badUser) || errors.As(err, &badPass) ||
		errors.As(err, &badMail) || errors.As(err, &badPhone) {
		return "invalid"
	}
	return "error"
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.Login(c.Request().Context(), req.Identifier, req.Password, req.ClientType, req.Unique)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("bad_credentials").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: result.Token, Account: result.Account})
}

// Logout handles POST /auth/logout. Requires auth.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get(middleware.ContextToken).(string)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	if err := h.accounts.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RequestVerify handles POST /auth/request-verify-token.
//
// Always answers 202: whether the account exists, is inactive, or is already
// verified must not be observable from this endpoint. The token is delivered
// out-of-band via the service hook.
func (h *AuthHandler) RequestVerify(c echo.Context) error {
	var req requestVerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, _ = h.accounts.RequestVerify(c.Request().Context(), req.Username)
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "verification requested"})
}

// Verify handles POST /auth/verify.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Verify(c.Request().Context(), req.Token)
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues(verifyOutcome(err)).Inc()
		return err
	}

	metrics.VerificationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, account)
}

func verifyOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyVerified):
		return "already_verified"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	default:
		return "error"
	}
}

// ForgotPassword handles POST /auth/forgot-password.
//
// Always answers 202 for the same non-disclosure reason as RequestVerify.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, _ = h.accounts.ForgotPassword(c.Request().Context(), req.Email)
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "password reset requested"})
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
