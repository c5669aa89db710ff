package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/towtrack/backend/internal/domain"
	"github.com/towtrack/backend/internal/repo"
)

// minPasswordLen is the minimum accepted password length for new accounts.
const minPasswordLen = 8

// UserService implements admin-side account management. There is no
// self-service registration: admins create driver and admin accounts, and
// roles are never changeable through the API.
type UserService struct {
	users repo.UserRepo
}

// NewUserService constructs a UserService backed by the provided UserRepo.
func NewUserService(users repo.UserRepo) *UserService {
	return &UserService{users: users}
}

// Create validates, hashes the password, and persists a new account. Admin only.
func (s *UserService) Create(ctx context.Context, actor domain.Actor, user domain.User, password string) (domain.User, error) {
	if !actor.IsAdmin() {
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w", domain.ErrForbidden)
	}
	if err := validateNewUser(user, password); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Create: hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w", err)
	}
	return created, nil
}

// List returns accounts, optionally restricted to one role. Admin only.
func (s *UserService) List(ctx context.Context, actor domain.Actor, role *domain.Role) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("service.UserService.List: %w", domain.ErrForbidden)
	}
	users, err := s.users.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("service.UserService.List: %w", err)
	}
	return users, nil
}

// validateNewUser enforces field rules for account creation.
func validateNewUser(user domain.User, password string) error {
	email := strings.TrimSpace(user.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if strings.TrimSpace(user.FirstName) == "" {
		return fmt.Errorf("%w: first_name is required", domain.ErrValidation)
	}
	if !user.Role.Valid() {
		return fmt.Errorf("%w: role must be driver or admin", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	return nil
}
