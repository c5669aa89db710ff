package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/towtrack/backend/internal/domain"
	"github.com/towtrack/backend/internal/token"
)

// actorKey is the context key under which the authenticated actor is stored.
// Unexported struct key so no other package can collide with it.
type actorKey struct{}

// WithActor returns a context carrying the actor. Exported for handler tests
// that need to exercise authorization without minting real tokens.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor placed in the context by NewAuthenticator.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// NewAuthenticator returns a middleware that requires a valid bearer token
// on every request it wraps. The actor identified by the token is stored in
// the request context; missing, malformed, and expired tokens all get a 401
// with the standard error envelope.
func NewAuthenticator(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || raw == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			actor, err := tokens.Parse(raw)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireAdmin returns a middleware that rejects non-admin actors with 403.
// Wire it inside a route group that is already behind NewAuthenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if !actor.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeAuthError writes the same JSON error envelope the handlers use, so
// clients see one error shape regardless of which layer rejected them.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	code := "unauthorized"
	if status == http.StatusForbidden {
		code = "forbidden"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
