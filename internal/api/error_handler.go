package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Field is
// set for uniqueness conflicts; Reason for validation failures.
type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Uniqueness conflicts name the colliding field.
	var identExists *domain.IdentifierExistsError
	if errors.As(err, &identExists) {
		return http.StatusConflict, errorResponse{Error: identExists.Error(), Field: identExists.Field}
	}
	var serverExists *domain.ServerExistsError
	if errors.As(err, &serverExists) {
		return http.StatusConflict, errorResponse{Error: serverExists.Error(), Field: serverExists.Field}
	}

	// Validation failures carry the rejection reason.
	var badUsername *domain.InvalidUsernameError
	if errors.As(err, &badUsername) {
		return http.StatusBadRequest, errorResponse{Error: "invalid username", Reason: badUsername.Reason}
	}
	var badPassword *domain.InvalidPasswordError
	if errors.As(err, &badPassword) {
		return http.StatusBadRequest, errorResponse{Error: "invalid password", Reason: badPassword.Reason}
	}
	var badEmail *domain.InvalidEmailError
	if errors.As(err, &badEmail) {
		return http.StatusBadRequest, errorResponse{Error: "invalid email", Reason: badEmail.Reason}
	}
	var badPhone *domain.InvalidPhoneError
	if errors.As(err, &badPhone) {
		return http.StatusBadRequest, errorResponse{Error: "invalid phone number", Reason: badPhone.Reason}
	}

	// Known sentinel errors → deterministic HTTP codes. Token failures are
	// deliberately low-information.
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusBadRequest, errorResponse{Error: "INVALID_TOKEN"}
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusBadRequest, errorResponse{Error: "ALREADY_VERIFIED"}
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusBadRequest, errorResponse{Error: "wrong password"}
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusBadRequest, errorResponse{Error: "account inactive"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrReporterUnauthorized):
		return http.StatusUnauthorized, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrReporterHostMismatch):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, errorResponse{Error: "account not found"}
	case errors.Is(err, domain.ErrServerNotFound):
		return http.StatusNotFound, errorResponse{Error: "game server not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
