// Package handler binds HTTP routes to the services: the REST marker API,
// the login/registration form routes, the server-rendered pages and the
// health check.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zhenghongliu48-sys/mymap/internal/errs"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates err into the JSON error envelope. Errors of
// unknown kind are logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	httpErr := errs.FromError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, httpErr.Status, httpErr)
}

// markerID reads the {id} path parameter. Non-numeric ids match no marker.
func markerID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NotFound("marker")
	}
	return id, nil
}
