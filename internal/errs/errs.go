// Package errs defines the error kinds shared by the service layer and the
// transports, and the JSON error shape returned to API clients.
package errs

import (
	"errors"
	"strings"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrDuplicateUsername = errors.New("username already exists")
)

// FieldError represents a field-level validation error.
//
//	{ "field": "lat", "error": "must be a number" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError is a rejected request with a descriptive message and
// optional per-field details. errors.Is(err, ErrValidation) holds for it.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError.
func Invalid(message string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// NotFound wraps ErrNotFound with the name of the missing thing.
func NotFound(what string) error {
	return &kindError{kind: ErrNotFound, msg: what + " not found"}
}

// PermissionDenied wraps ErrPermissionDenied with a user-facing message.
func PermissionDenied(msg string) error {
	return &kindError{kind: ErrPermissionDenied, msg: msg}
}

// Unauthenticated wraps ErrUnauthenticated with a user-facing message.
func Unauthenticated(msg string) error {
	return &kindError{kind: ErrUnauthenticated, msg: msg}
}

// DuplicateUsername wraps ErrDuplicateUsername for the given name.
func DuplicateUsername(username string) error {
	return &kindError{kind: ErrDuplicateUsername, msg: "username " + username + " already exists"}
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
