package errors

import (
	"errors"
	"net/http"

	"github.com/uhwot/sacklite/pkg/gameversion"
	"github.com/uhwot/sacklite/pkg/npticket"
)

// APIError is an error that knows the HTTP status it should be answered with
type APIError interface {
	Error() string
	GetStatus() int
}

// apiError is the common body of the sacklite error types
type apiError struct {
	Code   string `json:"Code"`
	Status int    `json:"Status"`
	Title  string `json:"Title"`
}

func (e *apiError) Error() string  { return e.Title }
func (e *apiError) GetStatus() int { return e.Status }

// InternalServerError is returned when sacklite itself misbehaved
type InternalServerError struct {
	apiError
}

// NewInternalServerError creates a new InternalServerError
func NewInternalServerError() APIError {
	err := new(InternalServerError)
	err.Code = "ERROR"
	err.Title = "Something wrong happened."
	err.Status = http.StatusInternalServerError
	return err
}

// BadRequest is returned for malformed client input
type BadRequest struct {
	apiError
}

// NewBadRequest creates a new BadRequest
func NewBadRequest(message string) APIError {
	err := new(BadRequest)
	err.Code = "BAD_REQUEST"
	err.Title = message
	err.Status = http.StatusBadRequest
	return err
}

// Unauthorized is returned when credentials were well formed but not accepted
type Unauthorized struct {
	apiError
}

// NewUnauthorized creates a new Unauthorized
func NewUnauthorized(message string) APIError {
	err := new(Unauthorized)
	err.Code = "UNAUTHORIZED"
	err.Title = message
	err.Status = http.StatusUnauthorized
	return err
}

// Forbidden is returned for requests failing the digest or session checks
type Forbidden struct {
	apiError
}

// NewForbidden creates a new Forbidden
func NewForbidden(message string) APIError {
	err := new(Forbidden)
	err.Code = "FORBIDDEN"
	err.Title = message
	err.Status = http.StatusForbidden
	return err
}

// NotFound is returned when a requested resource does not exist
type NotFound struct {
	apiError
}

// NewNotFound creates a new NotFound
func NewNotFound(message string) APIError {
	err := new(NotFound)
	err.Code = "NOT_FOUND"
	err.Title = message
	err.Status = http.StatusNotFound
	return err
}

// FromLoginError maps a ticket decoding or verification failure to the error
// returned to the game. Client supplied garbage is a 400, a forged or stale
// ticket is a 401, anything else is ours.
func FromLoginError(err error) APIError {
	var verifyErr *npticket.VerifyError
	switch {
	case errors.Is(err, npticket.ErrMalformedTicket):
		return NewBadRequest("malformed ticket")
	case errors.Is(err, npticket.ErrUnsupportedPlatform):
		return NewBadRequest("unsupported platform")
	case errors.Is(err, gameversion.ErrUnknownTitle):
		return NewBadRequest("unsupported game")
	case errors.As(err, &verifyErr):
		return NewBadRequest("unreadable ticket signature")
	case errors.Is(err, npticket.ErrSignatureMismatch):
		return NewUnauthorized("ticket signature mismatch")
	case errors.Is(err, npticket.ErrTicketExpired):
		return NewUnauthorized("ticket expired")
	}
	return NewInternalServerError()
}
