package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zhenghongliu48-sys/mymap/internal/auth"
	"github.com/zhenghongliu48-sys/mymap/internal/errs"
	"github.com/zhenghongliu48-sys/mymap/internal/models"
	"github.com/zhenghongliu48-sys/mymap/internal/storage"
)

// AuthService implements registration, login and logout on top of an
// Authenticator and a SessionManager.
type AuthService struct {
	authenticator auth.Authenticator
	sessions      *auth.SessionManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, sessions *auth.SessionManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	s.logger.Info("Register request", "username", username)

	user, err := s.authenticator.Register(ctx, username, password)
	if err != nil {
		s.logger.Warn("Registration failed", "username", username, "error", err)
		switch {
		case errors.Is(err, auth.ErrUsernameExists):
			return nil, errs.DuplicateUsername(username)
		case errors.Is(err, auth.ErrMissingUsername):
			return nil, errs.Invalid(err.Error(), errs.FieldError{Field: "username", Error: "is required"})
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, errs.Invalid(err.Error(), errs.FieldError{Field: "password", Error: err.Error()})
		}
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login authenticates a user and starts a session. It returns the session
// token together with the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	s.logger.Info("Login request", "username", username)

	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("Login failed", "username", username)
			return "", nil, errs.Unauthenticated(auth.ErrInvalidCredentials.Error())
		}
		return "", nil, err
	}

	token, err := s.sessions.Start(ctx, user)
	if err != nil {
		s.logger.Error("Failed to start session", "user_id", user.ID, "error", err)
		return "", nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "username", user.Username)
	return token, user, nil
}

// Logout ends the session behind token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.End(ctx, token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return errs.Unauthenticated(err.Error())
		}
		return err
	}
	s.logger.Info("User logged out")
	return nil
}

// Resolve returns the identity behind a session token. Missing, invalid,
// expired and ended sessions all yield an ErrUnauthenticated kind.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	identity, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrMissingToken) || errors.Is(err, auth.ErrInvalidToken) {
			return nil, errs.Unauthenticated(err.Error())
		}
		return nil, err
	}
	return identity, nil
}

// CurrentUser returns the full record of the calling user.
func (s *AuthService) CurrentUser(ctx context.Context, caller *models.Identity) (*models.User, error) {
	if caller == nil {
		return nil, errs.Unauthenticated(auth.ErrMissingToken.Error())
	}

	user, err := s.users.GetUserByID(ctx, caller.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errs.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// SessionTTL is the lifetime of tokens issued by Login.
func (s *AuthService) SessionTTL() int {
	return int(s.sessions.TTL().Seconds())
}
