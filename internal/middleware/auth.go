package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/zhenghongliu48-sys/mymap/internal/errs"
	"github.com/zhenghongliu48-sys/mymap/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// IdentityKey is the context key for storing the authenticated caller.
const IdentityKey contextKey = "identity"

// IdentityResolver turns a session token into the caller's identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.Identity, error)
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity extracts the caller from the context.
// Returns nil if the request is anonymous.
func GetIdentity(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(IdentityKey).(*models.Identity)
	return identity
}

// GetUserID extracts the caller's user ID from the context.
// Returns 0 if the request is anonymous.
func GetUserID(ctx context.Context) int64 {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.UserID
	}
	return 0
}

// TokenFromHeader returns the session token from a "Bearer" Authorization
// header, falling back to the session cookie.
func TokenFromHeader(header http.Header, cookieName string) string {
	if authHeader := header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	r := http.Request{Header: header}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// TokenFromRequest returns the session token carried by r, or "".
func TokenFromRequest(r *http.Request, cookieName string) string {
	return TokenFromHeader(r.Header, cookieName)
}

// Authenticate resolves the session token once per request and stores the
// identity in the request context. Requests without a valid session
// continue anonymously; routes that need a caller add RequireAPIAuth or
// RequirePageAuth.
func Authenticate(resolver IdentityResolver, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, errs.ErrUnauthenticated) {
					logger.Error("Failed to resolve session", "error", err)
					writeError(w, errs.NewInternalServerError())
					return
				}
				logger.Debug("Ignoring invalid session token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAPIAuth rejects anonymous requests with a 401 JSON error.
func RequireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r.Context()) == nil {
			writeError(w, errs.NewUnauthorizedError("login required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePageAuth redirects anonymous requests to loginPath.
func RequirePageAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetIdentity(r.Context()) == nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, httpErr *errs.HTTPError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.Status)
	_ = json.NewEncoder(w).Encode(httpErr)
}

// RequireAuth returns an interceptor that validates the session token and
// requires authentication. It adds the caller's identity to the context.
func RequireAuth(resolver IdentityResolver, cookieName string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token := TokenFromHeader(req.Header(), cookieName)
			if token == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("authorization token required"))
			}

			identity, err := resolver.Resolve(ctx, token)
			if err != nil {
				if errors.Is(err, errs.ErrUnauthenticated) {
					return nil, connect.NewError(connect.CodeUnauthenticated, err)
				}
				return nil, connect.NewError(connect.CodeInternal, err)
			}

			return next(WithIdentity(ctx, identity), req)
		}
	}
}

// OptionalAuth returns an interceptor that resolves the session token if
// present, but allows requests without authentication.
func OptionalAuth(resolver IdentityResolver, cookieName string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token := TokenFromHeader(req.Header(), cookieName); token != "" {
				// Invalid tokens are ignored; the call proceeds anonymously.
				if identity, err := resolver.Resolve(ctx, token); err == nil {
					ctx = WithIdentity(ctx, identity)
				}
			}
			return next(ctx, req)
		}
	}
}
