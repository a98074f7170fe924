package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kjkhy9/perfectplan/internal/auth"
	"github.com/kjkhy9/perfectplan/internal/models"
)

// AuthService wraps the identity provider: account creation and login-token
// issuance. Everything downstream only ever sees the opaque user ID.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Signup creates a new user account.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, &models.ValidationError{Reason: "username is required"}
	}

	user, err := s.authenticator.Register(ctx, username, password)
	if err != nil {
		slog.Warn("signup failed", "username", username, "error", err)
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login authenticates the user and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		slog.Warn("login failed", "username", username)
		return "", nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return "", nil, err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return token, user, nil
}
