// Package router assembles the HTTP surface: middleware stack, REST API,
// form and page routes, health and metrics endpoints, and the Connect
// procedures.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zhenghongliu48-sys/mymap/internal/handler"
	"github.com/zhenghongliu48-sys/mymap/internal/middleware"
	"github.com/zhenghongliu48-sys/mymap/internal/rpc"
	"github.com/zhenghongliu48-sys/mymap/internal/service"
	"github.com/zhenghongliu48-sys/mymap/internal/web"
)

// Deps are the collaborators wired into the router.
type Deps struct {
	Logger   *slog.Logger
	DB       handler.Pinger
	Markers  *service.MarkerService
	Auth     *service.AuthService // nil when authentication is disabled
	Pages    *web.Pages
	Markdown *web.Markdown

	Metrics     *middleware.Metrics // nil when metrics are disabled
	MetricsPath string

	CORSAllowedOrigins []string
	Cookie             handler.CookieConfig
}

// New builds the application handler.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
			"Connect-Protocol-Version", "Connect-Timeout-Ms",
		},
		ExposedHeaders:   []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	health := handler.NewHealthHandler(d.DB, d.Logger)
	r.Get("/health", health.Check)
	if d.Metrics != nil {
		r.Method(http.MethodGet, d.MetricsPath, d.Metrics.Handler())
	}

	// Connect procedures resolve the caller in their own interceptors.
	r.Group(func(r chi.Router) {
		rpc.Mount(r, rpc.Config{
			Markers:    d.Markers,
			Auth:       d.Auth,
			CookieName: d.Cookie.Name,
			Logger:     d.Logger,
		})
	})

	r.Group(func(r chi.Router) {
		requireAPI := passthrough
		requirePage := passthrough
		if d.Auth != nil {
			r.Use(middleware.Authenticate(d.Auth, d.Cookie.Name, d.Logger))
			requireAPI = middleware.RequireAPIAuth
			requirePage = middleware.RequirePageAuth("/login")
		}

		markers := handler.NewMarkerHandler(d.Markers, d.Logger)
		r.Route("/api/markers", func(r chi.Router) {
			r.Get("/", markers.List)
			r.Get("/{id}", markers.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAPI)
				r.Post("/", markers.Create)
				r.Put("/{id}", markers.Update)
				r.Delete("/{id}", markers.Delete)
			})
		})

		pages := handler.NewPageHandler(d.Markers, d.Pages, d.Markdown, d.Logger)
		r.Get("/", pages.Index)
		r.Get("/marker/{id}", pages.View)
		r.Group(func(r chi.Router) {
			r.Use(requirePage)
			r.Get("/create", pages.Create)
			r.Get("/marker/{id}/edit", pages.Edit)
		})

		if d.Auth == nil {
			return
		}

		authHandler := handler.NewAuthHandler(d.Auth, d.Pages, d.Cookie, d.Logger)
		r.Get("/register", authHandler.RegisterPage)
		r.Post("/register", authHandler.Register)
		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)
		r.With(requirePage).Get("/logout", authHandler.Logout)
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
