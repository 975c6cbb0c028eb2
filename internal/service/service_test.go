package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/zhenghongliu48-sys/mymap/internal/auth"
	"github.com/zhenghongliu48-sys/mymap/internal/models"
	"github.com/zhenghongliu48-sys/mymap/internal/storage/sqlite"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func setupAuthService(t *testing.T, store *sqlite.SQLiteStore) *AuthService {
	t.Helper()

	return NewAuthService(
		auth.NewPasswordAuthenticator(store, 0),
		auth.NewSessionManager(store, "test-secret", time.Hour),
		store,
		discardLogger(),
	)
}

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

// patchOf hands an already parsed patch to MarkerService.Update.
type patchOf models.MarkerPatch

func (p patchOf) Patch() (models.MarkerPatch, error) {
	return models.MarkerPatch(p), nil
}

// badPatch fails the way an unreadable request body does.
type badPatch struct{ err error }

func (p badPatch) Patch() (models.MarkerPatch, error) {
	return models.MarkerPatch{}, p.err
}
