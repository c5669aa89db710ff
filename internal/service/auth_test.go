package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/towtrack/backend/internal/domain"
	"github.com/towtrack/backend/internal/repo"
	"github.com/towtrack/backend/internal/service"
	"github.com/towtrack/backend/internal/token"
)

// mockUserRepo is a hand-written test double for repo.UserRepo.
type mockUserRepo struct {
	create     func(ctx context.Context, user domain.User) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	list       func(ctx context.Context, role *domain.Role) ([]domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) List(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	return m.list(ctx, role)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

func testTokenManager() *token.Manager {
	return token.NewManager("test-secret-test-secret", time.Hour)
}

// hashOf uses the minimum cost so the test suite stays fast.
func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login_OK(t *testing.T) {
	userID := uuid.New()
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, email string) (domain.User, error) {
			return domain.User{
				ID:           userID,
				Email:        email,
				FirstName:    "Dana",
				Role:         domain.RoleDriver,
				PasswordHash: hashOf(t, "hunter22!"),
			}, nil
		},
	}
	tokens := testTokenManager()
	svc := service.NewAuthService(users, tokens)

	user, signed, err := svc.Login(context.Background(), "dana@towtrack.test", "hunter22!")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	// the issued token must round-trip back to the same actor
	actor, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, actor.ID)
	assert.Equal(t, domain.RoleDriver, actor.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, email string) (domain.User, error) {
			return domain.User{ID: uuid.New(), Email: email, PasswordHash: hashOf(t, "correct-password")}, nil
		},
	}
	svc := service.NewAuthService(users, testTokenManager())

	_, _, err := svc.Login(context.Background(), "dana@towtrack.test", "wrong-password")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := service.NewAuthService(users, testTokenManager())

	// unknown email is indistinguishable from a wrong password
	_, _, err := svc.Login(context.Background(), "nobody@towtrack.test", "whatever")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestAuthService_Login_RepoError(t *testing.T) {
	repoErr := errors.New("db down")
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, repoErr
		},
	}
	svc := service.NewAuthService(users, testTokenManager())

	_, _, err := svc.Login(context.Background(), "dana@towtrack.test", "hunter22!")

	assert.ErrorIs(t, err, repoErr)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}
