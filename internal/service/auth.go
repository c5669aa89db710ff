package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/towtrack/backend/internal/domain"
	"github.com/towtrack/backend/internal/repo"
	"github.com/towtrack/backend/internal/token"
)

// AuthService implements email+password login. Identity lives in the users
// table; sessions are stateless bearer tokens.
type AuthService struct {
	users  repo.UserRepo
	tokens *token.Manager
}

// NewAuthService constructs an AuthService backed by the provided repo and
// token manager.
func NewAuthService(users repo.UserRepo, tokens *token.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies the credentials and returns the user plus a signed token.
// An unknown email and a wrong password both return
// domain.ErrInvalidCredentials so the two cases cannot be told apart.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrInvalidCredentials)
		}
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrInvalidCredentials)
	}

	signed, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return user, signed, nil
}
