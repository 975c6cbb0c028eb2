package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/zhenghongliu48-sys/mymap/internal/errs"
	"github.com/zhenghongliu48-sys/mymap/internal/middleware"
	"github.com/zhenghongliu48-sys/mymap/internal/models"
	"github.com/zhenghongliu48-sys/mymap/internal/service"
	"github.com/zhenghongliu48-sys/mymap/internal/validation"
)

// MarkerResponse is the JSON shape of a marker.
type MarkerResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// OwnedMarkerResponse adds the owner fields shown when auth is enabled.
type OwnedMarkerResponse struct {
	MarkerResponse
	UserID *int64  `json:"user_id"`
	Owner  *string `json:"owner"`
}

// NewMarkerResponse picks the JSON shape for m.
func NewMarkerResponse(m *models.Marker, withOwner bool) any {
	base := MarkerResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Lat:         m.Lat,
		Lng:         m.Lng,
	}
	if !withOwner {
		return base
	}
	return OwnedMarkerResponse{MarkerResponse: base, UserID: m.OwnerID, Owner: m.OwnerName}
}

// MessageResponse is returned by operations without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// MarkerHandler serves the /api/markers REST endpoints.
type MarkerHandler struct {
	markers *service.MarkerService
	logger  *slog.Logger
}

// NewMarkerHandler creates a new handler
func NewMarkerHandler(markers *service.MarkerService, logger *slog.Logger) *MarkerHandler {
	return &MarkerHandler{
		markers: markers,
		logger:  logger,
	}
}

func (h *MarkerHandler) respond(w http.ResponseWriter, status int, m *models.Marker) {
	writeJSON(w, status, NewMarkerResponse(m, h.markers.AuthEnabled()))
}

// List handles GET /api/markers
func (h *MarkerHandler) List(w http.ResponseWriter, r *http.Request) {
	markers, err := h.markers.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	out := make([]any, 0, len(markers))
	for _, m := range markers {
		out = append(out, NewMarkerResponse(m, h.markers.AuthEnabled()))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/markers/{id}
func (h *MarkerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := markerID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	marker, err := h.markers.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.respond(w, http.StatusOK, marker)
}

// Create handles POST /api/markers
func (h *MarkerHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := validation.DecodeCreate(r)
	if err != nil {
		h.logger.Warn("invalid marker request", "error", err)
		writeError(w, r, h.logger, err)
		return
	}

	marker, err := h.markers.Create(r.Context(), middleware.GetIdentity(r.Context()), input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.respond(w, http.StatusCreated, marker)
}

// Update handles PUT /api/markers/{id}
func (h *MarkerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := markerID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	body := validation.DecodeUpdate(r)
	marker, err := h.markers.Update(r.Context(), middleware.GetIdentity(r.Context()), id, body)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			h.logger.Warn("invalid marker update", "id", id, "error", err)
		}
		writeError(w, r, h.logger, err)
		return
	}
	h.respond(w, http.StatusOK, marker)
}

// Delete handles DELETE /api/markers/{id}
func (h *MarkerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := markerID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.markers.Delete(r.Context(), middleware.GetIdentity(r.Context()), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "marker deleted"})
}
