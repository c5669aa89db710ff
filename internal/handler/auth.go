package handler

import (
	"net/http"
	"strings"

	"github.com/towtrack/backend/internal/domain"
)

// loginRequest is the POST /auth/login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the bearer token and the account it identifies.
type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// handleLogin implements POST /auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		badRequest(w, "email and password are required")
		return
	}

	user, tok, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: tok, User: user})
}
