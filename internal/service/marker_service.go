package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zhenghongliu48-sys/mymap/internal/errs"
	"github.com/zhenghongliu48-sys/mymap/internal/models"
	"github.com/zhenghongliu48-sys/mymap/internal/storage"
	"github.com/zhenghongliu48-sys/mymap/internal/validation"
)

// PatchSource yields the changes for Update. It is consulted only after
// the marker is found and the caller is allowed to edit it, so a bad
// request body never hides a missing marker or a permission failure.
type PatchSource interface {
	Patch() (models.MarkerPatch, error)
}

// MarkerService implements marker CRUD on top of a MarkerStore.
//
// When authEnabled is set every mutation needs a caller, new markers are
// owned by that caller, and only the owner may change or delete a marker.
type MarkerService struct {
	store       storage.MarkerStore
	authEnabled bool
	logger      *slog.Logger
}

// NewMarkerService creates a new MarkerService with the given storage backend.
func NewMarkerService(store storage.MarkerStore, authEnabled bool, logger *slog.Logger) *MarkerService {
	return &MarkerService{
		store:       store,
		authEnabled: authEnabled,
		logger:      logger,
	}
}

// AuthEnabled reports whether ownership rules are enforced.
func (s *MarkerService) AuthEnabled() bool {
	return s.authEnabled
}

// List returns all markers, highest ID first.
func (s *MarkerService) List(ctx context.Context) ([]*models.Marker, error) {
	markers, err := s.store.ListMarkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list markers: %w", err)
	}
	return markers, nil
}

// Get returns a single marker.
func (s *MarkerService) Get(ctx context.Context, id int64) (*models.Marker, error) {
	marker, err := s.store.GetMarker(ctx, id)
	if err != nil {
		return nil, markerError(err)
	}
	return marker, nil
}

// Create validates and stores a new marker owned by caller.
func (s *MarkerService) Create(ctx context.Context, caller *models.Identity, in models.MarkerInput) (*models.Marker, error) {
	if err := s.requireCaller(caller); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	marker := &models.Marker{
		Name:        in.Name,
		Description: in.Description,
		Lat:         in.Lat,
		Lng:         in.Lng,
	}
	if s.authEnabled {
		ownerID := caller.UserID
		marker.OwnerID = &ownerID
	}

	if err := s.store.CreateMarker(ctx, marker); err != nil {
		return nil, fmt.Errorf("failed to create marker: %w", err)
	}

	s.logger.Info("Marker created", "marker_id", marker.ID, "name", marker.Name, "user_id", callerID(caller))
	return marker, nil
}

// Update applies the patch from src to the marker. Fields absent from the
// patch keep their stored values. Errors are reported in order: not found,
// permission denied, then problems with the patch itself.
func (s *MarkerService) Update(ctx context.Context, caller *models.Identity, id int64, src PatchSource) (*models.Marker, error) {
	if err := s.requireCaller(caller); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateMarker(ctx, id, func(m *models.Marker) error {
		if err := s.checkOwner(caller, m, "modify"); err != nil {
			return err
		}
		patch, err := src.Patch()
		if err != nil {
			return err
		}
		if patch.Empty() {
			return errs.Invalid(validation.MsgJSONBodyRequired)
		}
		patch.Apply(m)
		return validation.Struct(models.MarkerInput{
			Name:        m.Name,
			Description: m.Description,
			Lat:         m.Lat,
			Lng:         m.Lng,
		})
	})
	if err != nil {
		return nil, markerError(err)
	}

	s.logger.Info("Marker updated", "marker_id", id, "user_id", callerID(caller))
	return updated, nil
}

// Delete removes the marker. The same existence and ownership rules as
// Update apply.
func (s *MarkerService) Delete(ctx context.Context, caller *models.Identity, id int64) error {
	if err := s.requireCaller(caller); err != nil {
		return err
	}

	err := s.store.DeleteMarker(ctx, id, func(m *models.Marker) error {
		return s.checkOwner(caller, m, "delete")
	})
	if err != nil {
		return markerError(err)
	}

	s.logger.Info("Marker deleted", "marker_id", id, "user_id", callerID(caller))
	return nil
}

// Editable returns the marker if caller may edit it.
func (s *MarkerService) Editable(ctx context.Context, caller *models.Identity, id int64) (*models.Marker, error) {
	if err := s.requireCaller(caller); err != nil {
		return nil, err
	}

	marker, err := s.store.GetMarker(ctx, id)
	if err != nil {
		return nil, markerError(err)
	}
	if err := s.checkOwner(caller, marker, "edit"); err != nil {
		return nil, err
	}
	return marker, nil
}

func (s *MarkerService) requireCaller(caller *models.Identity) error {
	if s.authEnabled && caller == nil {
		return errs.Unauthenticated("login required")
	}
	return nil
}

func (s *MarkerService) checkOwner(caller *models.Identity, m *models.Marker, action string) error {
	if !s.authEnabled {
		return nil
	}
	if caller == nil || !m.OwnedBy(caller.UserID) {
		s.logger.Warn("Marker ownership check failed", "marker_id", m.ID, "action", action, "user_id", callerID(caller))
		return errs.PermissionDenied(fmt.Sprintf("you do not have permission to %s this marker", action))
	}
	return nil
}

// markerError converts storage errors into service error kinds.
func markerError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return errs.NotFound("marker")
	}
	return err
}

func callerID(caller *models.Identity) any {
	if caller == nil {
		return nil
	}
	return caller.UserID
}
