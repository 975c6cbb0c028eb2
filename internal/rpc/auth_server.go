package rpc

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/zhenghongliu48-sys/mymap/internal/middleware"
	"github.com/zhenghongliu48-sys/mymap/internal/service"
)

// AuthServer implements the mymap.v1.AuthService procedures.
type AuthServer struct {
	auth       *service.AuthService
	cookieName string
	logger     *slog.Logger
}

// NewAuthServer creates a new AuthServer.
func NewAuthServer(auth *service.AuthService, cookieName string, logger *slog.Logger) *AuthServer {
	return &AuthServer{auth: auth, cookieName: cookieName, logger: logger}
}

// Register creates a new user account.
func (s *AuthServer) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	user, err := s.auth.Register(ctx, req.Msg.Username, req.Msg.Password)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}
	return connect.NewResponse(&RegisterResponse{User: toUser(user)}), nil
}

// Login authenticates a user and returns a session token.
func (s *AuthServer) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	token, user, err := s.auth.Login(ctx, req.Msg.Username, req.Msg.Password)
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}
	return connect.NewResponse(&LoginResponse{User: toUser(user), Token: token}), nil
}

// Logout ends the caller's session so the token stops working.
func (s *AuthServer) Logout(ctx context.Context, req *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	token := middleware.TokenFromHeader(req.Header(), s.cookieName)
	if err := s.auth.Logout(ctx, token); err != nil {
		return nil, toConnectError(s.logger, err)
	}
	return connect.NewResponse(&LogoutResponse{}), nil
}

// GetCurrentUser returns the authenticated user's account.
func (s *AuthServer) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	user, err := s.auth.CurrentUser(ctx, middleware.GetIdentity(ctx))
	if err != nil {
		return nil, toConnectError(s.logger, err)
	}
	return connect.NewResponse(&GetCurrentUserResponse{User: toUser(user)}), nil
}
