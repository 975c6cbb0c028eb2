package rpc

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/zhenghongliu48-sys/mymap/internal/middleware"
	"github.com/zhenghongliu48-sys/mymap/internal/service"
)

const (
	MarkerServiceName = "mymap.v1.MarkerService"
	AuthServiceName   = "mymap.v1.AuthService"
)

// Fully-qualified procedure names.
const (
	ListMarkersProcedure    = "/" + MarkerServiceName + "/ListMarkers"
	GetMarkerProcedure      = "/" + MarkerServiceName + "/GetMarker"
	CreateMarkerProcedure   = "/" + MarkerServiceName + "/CreateMarker"
	UpdateMarkerProcedure   = "/" + MarkerServiceName + "/UpdateMarker"
	DeleteMarkerProcedure   = "/" + MarkerServiceName + "/DeleteMarker"
	RegisterProcedure       = "/" + AuthServiceName + "/Register"
	LoginProcedure          = "/" + AuthServiceName + "/Login"
	LogoutProcedure         = "/" + AuthServiceName + "/Logout"
	GetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

// Router is the subset of chi.Router used to mount procedures.
type Router interface {
	Handle(pattern string, h http.Handler)
}

// Config carries what Mount needs. Auth may be nil when authentication
// is disabled; the AuthService procedures are then not mounted.
type Config struct {
	Markers    *service.MarkerService
	Auth       *service.AuthService
	CookieName string
	Logger     *slog.Logger
}

// Mount registers every procedure on r.
func Mount(r Router, cfg Config) {
	logging := middleware.LoggingInterceptor(cfg.Logger)

	// Auth interceptors run first so the logging interceptor sees the caller.
	public := connect.WithInterceptors(logging)
	read, write := public, public
	if cfg.Auth != nil {
		read = connect.WithInterceptors(middleware.OptionalAuth(cfg.Auth, cfg.CookieName), logging)
		write = connect.WithInterceptors(middleware.RequireAuth(cfg.Auth, cfg.CookieName), logging)
	}

	markers := NewMarkerServer(cfg.Markers, cfg.Logger)
	r.Handle(ListMarkersProcedure, connect.NewUnaryHandler(ListMarkersProcedure, markers.ListMarkers, WithJSON(), read))
	r.Handle(GetMarkerProcedure, connect.NewUnaryHandler(GetMarkerProcedure, markers.GetMarker, WithJSON(), read))
	r.Handle(CreateMarkerProcedure, connect.NewUnaryHandler(CreateMarkerProcedure, markers.CreateMarker, WithJSON(), write))
	r.Handle(UpdateMarkerProcedure, connect.NewUnaryHandler(UpdateMarkerProcedure, markers.UpdateMarker, WithJSON(), write))
	r.Handle(DeleteMarkerProcedure, connect.NewUnaryHandler(DeleteMarkerProcedure, markers.DeleteMarker, WithJSON(), write))

	if cfg.Auth == nil {
		return
	}

	authServer := NewAuthServer(cfg.Auth, cfg.CookieName, cfg.Logger)
	r.Handle(RegisterProcedure, connect.NewUnaryHandler(RegisterProcedure, authServer.Register, WithJSON(), public))
	r.Handle(LoginProcedure, connect.NewUnaryHandler(LoginProcedure, authServer.Login, WithJSON(), public))
	r.Handle(LogoutProcedure, connect.NewUnaryHandler(LogoutProcedure, authServer.Logout, WithJSON(), write))
	r.Handle(GetCurrentUserProcedure, connect.NewUnaryHandler(GetCurrentUserProcedure, authServer.GetCurrentUser, WithJSON(), write))
}
