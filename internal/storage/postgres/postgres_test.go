package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/zhenghongliu48-sys/mymap/internal/models"
	"github.com/zhenghongliu48-sys/mymap/internal/storage"
)

// newTestStore connects to the database named by MYMAP_TEST_POSTGRES_DSN.
// The tests are skipped when it is unset.
func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("MYMAP_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MYMAP_TEST_POSTGRES_DSN not set")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := New(context.Background(), dsn, logger)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPostgresMarkers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m := &models.Marker{Name: "Cafe", Lat: 25.03, Lng: 121.56}
	if err := store.CreateMarker(ctx, m); err != nil {
		t.Fatalf("CreateMarker failed: %v", err)
	}
	t.Cleanup(func() { store.DeleteMarker(ctx, m.ID, nil) })

	got, err := store.GetMarker(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMarker failed: %v", err)
	}
	if got.Name != "Cafe" || got.Description != nil {
		t.Errorf("Unexpected marker: %+v", got)
	}

	updated, err := store.UpdateMarker(ctx, m.ID, func(m *models.Marker) error {
		m.Lat = 10
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateMarker failed: %v", err)
	}
	if updated.Lat != 10 || updated.Lng != 121.56 {
		t.Errorf("Unexpected update result: %+v", updated)
	}

	if err := store.DeleteMarker(ctx, m.ID, nil); err != nil {
		t.Fatalf("DeleteMarker failed: %v", err)
	}
	if _, err := store.GetMarker(ctx, m.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
