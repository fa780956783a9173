package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Signup creates a new helpdesk account and issues its first token.
func (s *AuthService) Signup(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, string, time.Time, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, "", time.Time{}, errors.New("unknown role")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, errors.New("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates an account and issues a token carrying its role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// ChangePassword rotates the caller's password after verifying the old one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		return errors.New("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}
