// Package token issues and verifies the signed bearer tokens that carry a
// user's identity and role between requests.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/towtrack/backend/internal/domain"
)

// Manager signs and parses HS256 JWTs.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager constructs a Manager. The secret must be non-empty; token
// lifetime is ttl from issue time.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Claims is the token payload: just enough to reconstruct the acting user.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Generate returns a signed token for the given user.
func (m *Manager) Generate(userID uuid.UUID, role domain.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token.Manager.Generate: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of a token and returns the actor
// it identifies. Any failure — bad signature, expired, malformed claims —
// comes back as an error; callers map it to HTTP 401.
func (m *Manager) Parse(tokenStr string) (domain.Actor, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Actor{}, fmt.Errorf("token.Manager.Parse: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Actor{}, fmt.Errorf("token.Manager.Parse: %w", jwt.ErrTokenInvalidClaims)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("token.Manager.Parse: user_id: %w", err)
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Actor{}, fmt.Errorf("token.Manager.Parse: unknown role %q", claims.Role)
	}

	return domain.Actor{ID: userID, Role: role}, nil
}
