package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/zhenghongliu48-sys/mymap/internal/errs"
	"github.com/zhenghongliu48-sys/mymap/internal/middleware"
	"github.com/zhenghongliu48-sys/mymap/internal/service"
	"github.com/zhenghongliu48-sys/mymap/internal/web"
)

// Flash messages shown after the form routes redirect.
const (
	FlashRegistered      = "Registration successful, please log in"
	FlashUsernameTaken   = "This username is already taken"
	FlashLoggedIn        = "Logged in successfully"
	FlashBadCredentials  = "Invalid username or password"
	FlashLoggedOut       = "Logged out"
	FlashNotMarkerOwner  = "You do not have permission to edit this marker"
	FlashSomethingFailed = "Something went wrong, please try again"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler serves the form-based register, login and logout routes.
type AuthHandler struct {
	auth   *service.AuthService
	pages  *web.Pages
	cookie CookieConfig
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, pages *web.Pages, cookie CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		pages:  pages,
		cookie: cookie,
		logger: logger,
	}
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, name, title string) {
	data := web.PageData{
		Title:       title,
		Flash:       web.PopFlash(w, r),
		User:        middleware.GetIdentity(r.Context()),
		AuthEnabled: true,
	}
	if err := h.pages.Render(w, name, data); err != nil {
		h.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, path, msg string) {
	if msg != "" {
		web.SetFlash(w, msg)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", "Register")
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "/register", FlashSomethingFailed)
		return
	}

	_, err := h.auth.Register(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	switch {
	case err == nil:
		redirectWithFlash(w, r, "/login", FlashRegistered)
	case errors.Is(err, errs.ErrDuplicateUsername):
		redirectWithFlash(w, r, "/register", FlashUsernameTaken)
	case errors.Is(err, errs.ErrValidation):
		redirectWithFlash(w, r, "/register", err.Error())
	default:
		h.logger.Error("registration failed", "error", err)
		redirectWithFlash(w, r, "/register", FlashSomethingFailed)
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", "Log in")
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "/login", FlashSomethingFailed)
		return
	}

	token, _, err := h.auth.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if !errors.Is(err, errs.ErrUnauthenticated) {
			h.logger.Error("login failed", "error", err)
			redirectWithFlash(w, r, "/login", FlashSomethingFailed)
			return
		}
		redirectWithFlash(w, r, "/login", FlashBadCredentials)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   h.auth.SessionTTL(),
		Expires:  time.Now().Add(time.Duration(h.auth.SessionTTL()) * time.Second),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	redirectWithFlash(w, r, "/", FlashLoggedIn)
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r, h.cookie.Name); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil && !errors.Is(err, errs.ErrUnauthenticated) {
			h.logger.Error("logout failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	redirectWithFlash(w, r, "/login", FlashLoggedOut)
}
