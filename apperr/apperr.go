// Package apperr holds the error kinds shared by the credential service, the
// access guard, the store and the HTTP handlers, and maps them to the status
// codes and short messages clients see.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrDuplicateAccount    = errors.New("account already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNoToken             = errors.New("no token")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnknownSubject      = errors.New("token subject not found")
	ErrNotFound            = errors.New("not found")
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrOwnership           = errors.New("caller does not own the resource")
	ErrConfiguration       = errors.New("signing secret is not configured")
	ErrStoreUnavailable    = errors.New("document store unavailable")
)

// Refinements of ErrInvalidToken; both still match errors.Is(err, ErrInvalidToken).
var (
	ErrTokenExpired   = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)
)

// ValidationError is a missing or empty required field. Message is safe to
// return to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(msg string) error {
	return &ValidationError{Message: msg}
}

// Status maps err to an HTTP status code and the public message for it.
// Anything unrecognized is a 500 with a generic message.
func Status(err error) (int, string) {
	var v *ValidationError
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.As(err, &v):
		return http.StatusBadRequest, v.Message
	case errors.Is(err, ErrDuplicateAccount):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid Credentials"
	case errors.Is(err, ErrNoToken):
		return http.StatusUnauthorized, "Not authorized, no token"
	case errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized, "Not authorized, token failed (expired)"
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized, "Not authorized, token failed (invalid)"
	case errors.Is(err, ErrUnknownSubject):
		return http.StatusUnauthorized, "Not authorized, user not found"
	case errors.Is(err, ErrOwnership):
		return http.StatusUnauthorized, "Not authorized"
	case errors.Is(err, ErrMalformedIdentifier):
		return http.StatusNotFound, "Note not found (invalid ID format)"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "Note not found"
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError, "Server Configuration Error"
	default:
		return http.StatusInternalServerError, "Server Error"
	}
}
