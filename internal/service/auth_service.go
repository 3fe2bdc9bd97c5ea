package service

import (
	"context"
	"crypto/subtle"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	adminSecret string
	bcryptCost  int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:       users,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		adminSecret: cfg.Auth.AdminSecret,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// Register creates an account and issues a token. Self-escalation to admin
// requires the caller to present the shared admin secret; a mismatch must not
// leave an account behind.
func (s *AuthService) Register(ctx context.Context, username, email, password string, role domain.Role, adminSecret string) (*domain.User, string, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, "", apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}

	if role == domain.RoleAdmin {
		if s.adminSecret == "" || subtle.ConstantTimeCompare([]byte(adminSecret), []byte(s.adminSecret)) != 1 {
			return nil, "", apperrors.NewForbidden("invalid admin secret")
		}
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", apperrors.NewConflict("email already in use", nil)
	} else if !repository.IsNotFound(err) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, _, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates by email and password. The same message is returned for
// an unknown email and a wrong password to avoid user enumeration.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, "", err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewUnauthorized("invalid email or password")
	}

	token, _, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// AutoLogin re-validates a bearer token and loads the account behind it.
func (s *AuthService) AutoLogin(ctx context.Context, tokenStr string) (*domain.User, error) {
	claims, err := s.tokenMgr.ParseToken(tokenStr)
	if err != nil {
		if e, ok := err.(*apperrors.DomainError); ok && e.Code == "SERVER_FAULT" {
			return nil, e
		}
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
