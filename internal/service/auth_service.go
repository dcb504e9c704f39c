package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/shreyanshchaubey/ExpenseX/internal/auth"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
	"github.com/shreyanshchaubey/ExpenseX/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

var _ api.AuthServiceHandler = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, connectError(err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&api.LoginResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Logout is a no-op: tokens are stateless and discarded by the client.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	s.logger.Info("Logout request")
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		// Valid token for an account that no longer exists.
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	if err != nil {
		s.logger.Error("GetCurrentUser failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
