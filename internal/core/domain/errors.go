package domain

import (
	"errors"
	"fmt"
)

var ErrAccountNotFound = errors.New("account not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountInactive = errors.New("account inactive")
var ErrAlreadyVerified = errors.New("account already verified")
var ErrInvalidToken = errors.New("invalid token")
var ErrWrongPassword = errors.New("wrong password")
var ErrForbidden = errors.New("access forbidden")
var ErrServerNotFound = errors.New("game server not found")
var ErrReporterUnauthorized = errors.New("reports must come from a game server client")
var ErrReporterHostMismatch = errors.New("reporter host mismatch")

// IdentifierExistsError names the first account identifier that failed a
// uniqueness check, in the fixed order username, email, phone.
type IdentifierExistsError struct {
	Field string
}

func (e *IdentifierExistsError) Error() string {
	return fmt.Sprintf("an account with this %s already exists", e.Field)
}

// InvalidUsernameError carries a human-readable reason a username was rejected.
type InvalidUsernameError struct {
	Reason string
}

func (e *InvalidUsernameError) Error() string {
	return "invalid username: " + e.Reason
}

// InvalidPasswordError carries a human-readable reason a password was rejected.
type InvalidPasswordError struct {
	Reason string
}

func (e *InvalidPasswordError) Error() string {
	return "invalid password: " + e.Reason
}

// InvalidEmailError carries a human-readable reason an email was rejected.
type InvalidEmailError struct {
	Reason string
}

func (e *InvalidEmailError) Error() string {
	return "invalid email: " + e.Reason
}

// InvalidPhoneError carries a human-readable reason a phone number was rejected.
type InvalidPhoneError struct {
	Reason string
}

func (e *InvalidPhoneError) Error() string {
	return "invalid phone number: " + e.Reason
}

// ServerExistsError names the game-server field that collided (name or address).
type ServerExistsError struct {
	Field string
}

func (e *ServerExistsError) Error() string {
	return fmt.Sprintf("a game server with this %s already exists", e.Field)
}
