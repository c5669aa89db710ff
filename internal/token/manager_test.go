package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towtrack/backend/internal/domain"
	"github.com/towtrack/backend/internal/token"
)

const testSecret = "test-secret-test-secret"

func TestManager_GenerateParse_RoundTrip(t *testing.T) {
	m := token.NewManager(testSecret, time.Hour)
	userID := uuid.New()

	signed, err := m.Generate(userID, domain.RoleAdmin)
	require.NoError(t, err)

	actor, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, actor.ID)
	assert.Equal(t, domain.RoleAdmin, actor.Role)
}

func TestManager_Parse_Expired(t *testing.T) {
	m := token.NewManager(testSecret, -time.Minute)

	signed, err := m.Generate(uuid.New(), domain.RoleDriver)
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestManager_Parse_WrongSecret(t *testing.T) {
	signed, err := token.NewManager("one-secret-one-secret", time.Hour).Generate(uuid.New(), domain.RoleDriver)
	require.NoError(t, err)

	_, err = token.NewManager("another-secret-entirely", time.Hour).Parse(signed)
	assert.Error(t, err)
}

func TestManager_Parse_Garbage(t *testing.T) {
	m := token.NewManager(testSecret, time.Hour)

	_, err := m.Parse("not.a.token")
	assert.Error(t, err)
}

// TestManager_Parse_RejectsUnsignedToken verifies tokens using alg "none"
// are rejected even with an otherwise plausible payload.
func TestManager_Parse_RejectsUnsignedToken(t *testing.T) {
	claims := &token.Claims{
		UserID: uuid.NewString(),
		Role:   string(domain.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = token.NewManager(testSecret, time.Hour).Parse(unsigned)
	assert.Error(t, err)
}

func TestManager_Parse_RejectsUnknownRole(t *testing.T) {
	claims := &token.Claims{
		UserID: uuid.NewString(),
		Role:   "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = token.NewManager(testSecret, time.Hour).Parse(signed)
	assert.Error(t, err)
}

func TestManager_Parse_RejectsBadUserID(t *testing.T) {
	claims := &token.Claims{
		UserID: "not-a-uuid",
		Role:   string(domain.RoleDriver),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = token.NewManager(testSecret, time.Hour).Parse(signed)
	assert.Error(t, err)
}
