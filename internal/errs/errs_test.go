package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", Invalid("lat and lng must be numbers"), http.StatusBadRequest, "BAD_REQUEST"},
		{"wrapped validation", fmt.Errorf("create: %w", Invalid("bad")), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NotFound("marker"), http.StatusNotFound, "NOT_FOUND"},
		{"permission", PermissionDenied("not yours"), http.StatusForbidden, "FORBIDDEN"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"duplicate", ErrDuplicateUsername, http.StatusConflict, "CONFLICT"},
		{"duplicate with name", DuplicateUsername("alice"), http.StatusConflict, "CONFLICT"},
		{"unauthenticated with message", Unauthenticated("log in first"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			if got.Status != tt.status {
				t.Errorf("status: got %d, want %d", got.Status, tt.status)
			}
			if got.Code != tt.code {
				t.Errorf("code: got %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestUnknownErrorMessageIsHidden(t *testing.T) {
	got := FromError(errors.New("secret connection string"))
	if got.Message != "Internal Server Error" {
		t.Errorf("expected generic message, got %q", got.Message)
	}
}

func TestValidationErrorKeepsFields(t *testing.T) {
	err := Invalid("Validation failed", FieldError{Field: "lat", Error: "must be at least -90"})
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected ValidationError to match ErrValidation")
	}
	got := FromError(err)
	if len(got.Errors) != 1 || got.Errors[0].Field != "lat" {
		t.Errorf("unexpected field errors: %+v", got.Errors)
	}
}
