package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/towtrack/backend/internal/domain"
)

// errorResponse is the standard error envelope returned by every endpoint.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a service error onto the HTTP response. Domain sentinels
// get their canonical status; anything else is a 500 with a generic body so
// internals never leak to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", publicMessage(err, domain.ErrValidation)))
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorBody("not_found", "resource not found"))
	case errors.Is(err, domain.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorBody("forbidden", publicMessage(err, domain.ErrForbidden)))
	case errors.Is(err, domain.ErrConflict):
		respondJSON(w, http.StatusConflict, errorBody("conflict", publicMessage(err, domain.ErrConflict)))
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorBody("unauthorized", "invalid credentials"))
	default:
		slog.ErrorContext(r.Context(), "internal error", "error", err, "path", r.URL.Path)
		respondJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// badRequest writes a 422 for requests rejected before reaching the service
// layer (malformed body, unparsable query or path parameter).
func badRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", message))
}

func errorBody(code, message string) errorResponse {
	return errorResponse{Error: errorDetail{Code: code, Message: message}}
}

// publicMessage extracts the human-readable tail of a wrapped sentinel error.
// Services wrap as "service.X.Op: validation error: distance_km must not be
// negative"; the part after the sentinel text is safe to show to clients.
// Falls back to the sentinel's own text when no detail was attached.
func publicMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}
