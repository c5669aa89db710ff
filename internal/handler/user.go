package handler

import (
	"net/http"

	"github.com/towtrack/backend/internal/domain"
)

// createUserRequest is the POST /users payload (admin only).
type createUserRequest struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	VehicleID string      `json:"vehicle_id"`
	Role      domain.Role `json:"role"`
}

// handleCreateUser implements POST /users (admin only).
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	user := domain.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		VehicleID: req.VehicleID,
		Role:      req.Role,
	}

	created, err := s.users.Create(r.Context(), actor(r), user, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// handleListUsers implements GET /users (admin only), with optional ?role=.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	var role *domain.Role
	if v := r.URL.Query().Get("role"); v != "" {
		ro := domain.Role(v)
		if !ro.Valid() {
			badRequest(w, "role must be driver or admin")
			return
		}
		role = &ro
	}

	users, err := s.users.List(r.Context(), actor(r), role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"data": users})
}
