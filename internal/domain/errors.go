package domain

import (
	"errors"
	"net/http"
)

// Error is a domain error carrying the HTTP status it renders with. Anything
// that is not a *Error is treated as an internal error at the API boundary.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewNotFound reports a missing entity or an empty authorization-filtered
// delete set.
func NewNotFound(message string) error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// NewBadRequest reports malformed input caught at the boundary.
func NewBadRequest(message string) error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// NewConflict reports a unique-constraint violation surfaced from the
// database.
func NewConflict(message string) error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// NewUnauthenticated reports a missing or invalid session.
func NewUnauthenticated(message string) error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// NewUnauthorized reports a role or ownership mismatch.
func NewUnauthorized(message string) error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// AsError unwraps err into a domain *Error when possible.
func AsError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a domain not-found error.
func IsNotFound(err error) bool {
	domainErr, ok := AsError(err)
	return ok && domainErr.Status == http.StatusNotFound
}
