package errs

import (
	"errors"
	"net/http"
)

// HTTPError is the JSON body written for every failed API request.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"error"`
	Status  int          `json:"-"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func newHTTPError(status int, message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
	}
}

// NewBadRequestError creates a 400 HTTPError with optional field errors.
func NewBadRequestError(message string, fields []FieldError) *HTTPError {
	e := newHTTPError(http.StatusBadRequest, message)
	e.Errors = fields
	return e
}

func NewUnauthorizedError(message string) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, message)
}

func NewForbiddenError(message string) *HTTPError {
	return newHTTPError(http.StatusForbidden, message)
}

func NewNotFoundError(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message)
}

func NewConflictError(message string) *HTTPError {
	return newHTTPError(http.StatusConflict, message)
}

// NewInternalServerError hides the cause; callers log it separately.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// FromError maps an error kind to its HTTP representation.
// Errors of unknown kind become a generic 500.
func FromError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return NewBadRequestError(validationErr.Message, validationErr.Fields)
	case errors.Is(err, ErrValidation):
		return NewBadRequestError(err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError(err.Error())
	case errors.Is(err, ErrPermissionDenied):
		return NewForbiddenError(err.Error())
	case errors.Is(err, ErrUnauthenticated):
		return NewUnauthorizedError(err.Error())
	case errors.Is(err, ErrDuplicateUsername):
		return NewConflictError(err.Error())
	default:
		return NewInternalServerError()
	}
}
