package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/zhenghongliu48-sys/mymap/internal/errs"
	"github.com/zhenghongliu48-sys/mymap/internal/middleware"
	"github.com/zhenghongliu48-sys/mymap/internal/service"
	"github.com/zhenghongliu48-sys/mymap/internal/web"
)

// PageHandler serves the server-rendered marker pages.
type PageHandler struct {
	markers  *service.MarkerService
	pages    *web.Pages
	markdown *web.Markdown
	logger   *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(markers *service.MarkerService, pages *web.Pages, markdown *web.Markdown, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		markers:  markers,
		pages:    pages,
		markdown: markdown,
		logger:   logger,
	}
}

func (h *PageHandler) pageData(w http.ResponseWriter, r *http.Request, title string) web.PageData {
	return web.PageData{
		Title:       title,
		Flash:       web.PopFlash(w, r),
		User:        middleware.GetIdentity(r.Context()),
		AuthEnabled: h.markers.AuthEnabled(),
	}
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data web.PageData) {
	if err := h.pages.Render(w, name, data); err != nil {
		h.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *PageHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := errs.FromError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("page request failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, httpErr.Message, httpErr.Status)
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	markers, err := h.markers.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := h.pageData(w, r, "Markers")
	data.Markers = markers
	h.render(w, "list", data)
}

// Create handles GET /create
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.render(w, "create", h.pageData(w, r, "New marker"))
}

// View handles GET /marker/{id}
func (h *PageHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := markerID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	marker, err := h.markers.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := h.pageData(w, r, marker.Name)
	data.Marker = marker
	if marker.Description != nil {
		desc, err := h.markdown.Render(*marker.Description)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		data.Description = desc
	}
	h.render(w, "view", data)
}

// Edit handles GET /marker/{id}/edit
func (h *PageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := markerID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	marker, err := h.markers.Editable(r.Context(), middleware.GetIdentity(r.Context()), id)
	if errors.Is(err, errs.ErrPermissionDenied) {
		redirectWithFlash(w, r, "/", FlashNotMarkerOwner)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := h.pageData(w, r, "Edit "+marker.Name)
	data.Marker = marker
	h.render(w, "edit", data)
}
