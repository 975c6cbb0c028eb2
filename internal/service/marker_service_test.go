package service

import (
	"context"
	"errors"
	"testing"

	"github.com/zhenghongliu48-sys/mymap/internal/errs"
	"github.com/zhenghongliu48-sys/mymap/internal/models"
)

func TestCreateThenGet(t *testing.T) {
	svc := NewMarkerService(setupStore(t), false, discardLogger())
	ctx := context.Background()

	inputs := []models.MarkerInput{
		{Name: "Cafe", Lat: 25.03, Lng: 121.56},
		{Name: "Pole", Description: strPtr("cold"), Lat: -90, Lng: 180},
		{Name: "Origin", Lat: 0, Lng: 0},
	}

	for _, in := range inputs {
		created, err := svc.Create(ctx, nil, in)
		if err != nil {
			t.Fatalf("Create(%+v) failed: %v", in, err)
		}

		got, err := svc.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get(%d) failed: %v", created.ID, err)
		}
		if got.Name != in.Name || got.Lat != in.Lat || got.Lng != in.Lng {
			t.Errorf("expected %+v, got %+v", in, got)
		}
		if (got.Description == nil) != (in.Description == nil) {
			t.Errorf("description mismatch: expected %v, got %v", in.Description, got.Description)
		}
		if got.OwnerID != nil {
			t.Errorf("expected no owner without auth, got %d", *got.OwnerID)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewMarkerService(setupStore(t), false, discardLogger())
	ctx := context.Background()

	tests := []struct {
		name string
		in   models.MarkerInput
	}{
		{"empty name", models.MarkerInput{Lat: 1, Lng: 1}},
		{"lat out of range", models.MarkerInput{Name: "x", Lat: 91, Lng: 1}},
		{"lng out of range", models.MarkerInput{Name: "x", Lat: 1, Lng: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, nil, tt.in)
			if !errors.Is(err, errs.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	markers, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(markers) != 0 {
		t.Errorf("expected rejected creates to leave no markers, got %d", len(markers))
	}
}

func TestListOrder(t *testing.T) {
	svc := NewMarkerService(setupStore(t), false, discardLogger())
	ctx := context.Background()

	for _, name := range []string{"b", "a", "c", "d"} {
		if _, err := svc.Create(ctx, nil, models.MarkerInput{Name: name, Lat: 1, Lng: 1}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	markers, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(markers) != 4 {
		t.Fatalf("expected 4 markers, got %d", len(markers))
	}
	for i := 1; i < len(markers); i++ {
		if markers[i-1].ID <= markers[i].ID {
			t.Errorf("markers not in descending id order: %d before %d", markers[i-1].ID, markers[i].ID)
		}
	}
}

func TestUpdatePartial(t *testing.T) {
	svc := NewMarkerService(setupStore(t), false, discardLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, nil, models.MarkerInput{Name: "Cafe", Description: strPtr("espresso"), Lat: 25.03, Lng: 121.56})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		name  string
		patch patchOf
		check func(t *testing.T, m *models.Marker)
	}{
		{
			name:  "name only",
			patch: patchOf{Name: strPtr("Cafe2")},
			check: func(t *testing.T, m *models.Marker) {
				if m.Name != "Cafe2" || m.Lat != 25.03 || m.Lng != 121.56 || *m.Description != "espresso" {
					t.Errorf("unexpected marker after name update: %+v", m)
				}
			},
		},
		{
			name:  "lat only",
			patch: patchOf{Lat: floatPtr(-10)},
			check: func(t *testing.T, m *models.Marker) {
				if m.Name != "Cafe2" || m.Lat != -10 || m.Lng != 121.56 {
					t.Errorf("unexpected marker after lat update: %+v", m)
				}
			},
		},
		{
			name:  "description only",
			patch: patchOf{Description: strPtr("tea")},
			check: func(t *testing.T, m *models.Marker) {
				if *m.Description != "tea" || m.Lat != -10 {
					t.Errorf("unexpected marker after description update: %+v", m)
				}
			},
		},
		{
			name:  "clear description",
			patch: patchOf{ClearDescription: true},
			check: func(t *testing.T, m *models.Marker) {
				if m.Description != nil || m.Name != "Cafe2" {
					t.Errorf("unexpected marker after clearing description: %+v", m)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.Update(ctx, nil, created.ID, tt.patch)
			if err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			tt.check(t, updated)

			stored, err := svc.Get(ctx, created.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			tt.check(t, stored)
		})
	}
}

func TestUpdateErrors(t *testing.T) {
	svc := NewMarkerService(setupStore(t), false, discardLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, nil, models.MarkerInput{Name: "Cafe", Lat: 1, Lng: 2})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Update(ctx, nil, 999, patchOf{Name: strPtr("x")}); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := svc.Update(ctx, nil, 999, badPatch{err: errs.Invalid("invalid JSON body")}); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found before body errors, got %v", err)
	}
	if _, err := svc.Update(ctx, nil, created.ID, badPatch{err: errs.Invalid("invalid JSON body")}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected body error for existing marker, got %v", err)
	}
	if _, err := svc.Update(ctx, nil, created.ID, patchOf{}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected validation error for empty patch, got %v", err)
	}
	if _, err := svc.Update(ctx, nil, created.ID, patchOf{Name: strPtr("")}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected validation error for empty name, got %v", err)
	}
	if _, err := svc.Update(ctx, nil, created.ID, patchOf{Lat: floatPtr(100)}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected validation error for lat out of range, got %v", err)
	}

	stored, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Name != "Cafe" || stored.Lat != 1 {
		t.Errorf("rejected updates must not change the marker, got %+v", stored)
	}
}

func TestDeleteThenGet(t *testing.T) {
	svc := NewMarkerService(setupStore(t), false, discardLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, nil, models.MarkerInput{Name: "Cafe", Lat: 1, Lng: 2})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, nil, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(ctx, nil, created.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestOwnership(t *testing.T) {
	store := setupStore(t)
	authSvc := setupAuthService(t, store)
	svc := NewMarkerService(store, true, discardLogger())
	ctx := context.Background()

	alice, err := authSvc.Register(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	bob, err := authSvc.Register(ctx, "bob", "pw")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	aliceID := &models.Identity{UserID: alice.ID, Username: alice.Username}
	bobID := &models.Identity{UserID: bob.ID, Username: bob.Username}

	if _, err := svc.Create(ctx, nil, models.MarkerInput{Name: "x", Lat: 1, Lng: 1}); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated create to fail, got %v", err)
	}

	marker, err := svc.Create(ctx, aliceID, models.MarkerInput{Name: "Cafe", Lat: 1, Lng: 2})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if marker.OwnerID == nil || *marker.OwnerID != alice.ID {
		t.Fatalf("expected marker owned by alice, got %v", marker.OwnerID)
	}
	if marker.OwnerName == nil || *marker.OwnerName != "alice" {
		t.Errorf("expected owner name alice, got %v", marker.OwnerName)
	}

	t.Run("non-owner update", func(t *testing.T) {
		_, err := svc.Update(ctx, bobID, marker.ID, patchOf{Name: strPtr("mine now")})
		if !errors.Is(err, errs.ErrPermissionDenied) {
			t.Errorf("expected permission denied, got %v", err)
		}
	})

	t.Run("non-owner update with unusable body", func(t *testing.T) {
		_, err := svc.Update(ctx, bobID, marker.ID, patchOf{})
		if !errors.Is(err, errs.ErrPermissionDenied) {
			t.Errorf("expected permission denied before empty patch, got %v", err)
		}
		_, err = svc.Update(ctx, bobID, marker.ID, badPatch{err: errs.Invalid("lat and lng must be numbers")})
		if !errors.Is(err, errs.ErrPermissionDenied) {
			t.Errorf("expected permission denied before body errors, got %v", err)
		}
	})

	t.Run("non-owner delete", func(t *testing.T) {
		if err := svc.Delete(ctx, bobID, marker.ID); !errors.Is(err, errs.ErrPermissionDenied) {
			t.Errorf("expected permission denied, got %v", err)
		}
	})

	t.Run("non-owner edit page", func(t *testing.T) {
		if _, err := svc.Editable(ctx, bobID, marker.ID); !errors.Is(err, errs.ErrPermissionDenied) {
			t.Errorf("expected permission denied, got %v", err)
		}
	})

	t.Run("missing marker is not found before ownership", func(t *testing.T) {
		if err := svc.Delete(ctx, bobID, 999); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("owner", func(t *testing.T) {
		if _, err := svc.Editable(ctx, aliceID, marker.ID); err != nil {
			t.Errorf("Editable failed: %v", err)
		}
		updated, err := svc.Update(ctx, aliceID, marker.ID, patchOf{Name: strPtr("Cafe2")})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Name != "Cafe2" {
			t.Errorf("expected Cafe2, got %s", updated.Name)
		}
		if err := svc.Delete(ctx, aliceID, marker.ID); err != nil {
			t.Errorf("Delete failed: %v", err)
		}
	})

	t.Run("unowned marker belongs to nobody", func(t *testing.T) {
		open := NewMarkerService(store, false, discardLogger())
		legacy, err := open.Create(ctx, nil, models.MarkerInput{Name: "legacy", Lat: 1, Lng: 1})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := svc.Delete(ctx, aliceID, legacy.ID); !errors.Is(err, errs.ErrPermissionDenied) {
			t.Errorf("expected permission denied, got %v", err)
		}
	})
}
