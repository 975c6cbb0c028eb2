package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zhenghongliu48-sys/mymap/internal/errs"
)

func TestRegisterDuplicate(t *testing.T) {
	store := setupStore(t)
	svc := setupAuthService(t, store)
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err = svc.Register(ctx, "alice", "different")
	if !errors.Is(err, errs.ErrDuplicateUsername) {
		t.Fatalf("expected duplicate username, got %v", err)
	}

	user, err := store.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if user.ID != first.ID {
		t.Errorf("expected original user %d to remain, got %d", first.ID, user.ID)
	}

	if _, _, err := svc.Login(ctx, "alice", "different"); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Errorf("second registration must not change the password, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := setupAuthService(t, setupStore(t))
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "pw"); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected validation error for empty username, got %v", err)
	}
	if _, err := svc.Register(ctx, "alice", ""); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected validation error for empty password, got %v", err)
	}
	if _, err := svc.Register(ctx, "alice", strings.Repeat("a", 80)); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected validation error for overlong password, got %v", err)
	}
	if _, err := svc.Register(ctx, "alice", strings.Repeat("a", 72)); err != nil {
		t.Errorf("expected a 72 byte password to be accepted, got %v", err)
	}
}

func TestLoginLogout(t *testing.T) {
	svc := setupAuthService(t, setupStore(t))
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "pw"); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated for unknown user, got %v", err)
	}

	token, user, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	identity, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if identity.UserID != user.ID {
		t.Errorf("expected identity %d, got %d", user.ID, identity.UserID)
	}

	current, err := svc.CurrentUser(ctx, identity)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if current.Username != "alice" {
		t.Errorf("expected alice, got %s", current.Username)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := svc.Resolve(ctx, token); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Errorf("expected token to be revoked after logout, got %v", err)
	}
}
