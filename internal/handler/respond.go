package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/towtrack/backend/internal/domain"
	"github.com/towtrack/backend/internal/middleware"
)

// respondJSON writes v as the JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// decodeJSON decodes the request body into dst. Unknown keys are ignored:
// mutation payloads are explicit allow-list structs, so a key that is not
// in the struct simply has no effect.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

// actor extracts the authenticated actor installed by the auth middleware.
// Routes behind the authenticator always have one; the panic is a wiring
// bug, not a runtime condition.
func actor(r *http.Request) domain.Actor {
	a, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		panic("handler: route reached without authenticated actor")
	}
	return a
}

// pathUUID parses the {id} URL parameter of the current route.
func pathUUID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("malformed id in path")
	}
	return id, nil
}

// listResponse is the standard paged collection envelope.
type listResponse struct {
	Data       any        `json:"data"`
	Pagination pagination `json:"pagination"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
