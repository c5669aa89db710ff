package handler

import (
	"net/http"

	"github.com/towtrack/backend/internal/domain"
)

// clientRequest is the payload for POST /clients and PUT /clients/{id}.
// RatePerKm is a pointer so "not supplied" can fall back to the default rate.
type clientRequest struct {
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Phone     string              `json:"phone"`
	Address   string              `json:"address"`
	RatePerKm *domain.Money       `json:"rate_per_km"`
	Status    domain.ClientStatus `json:"status"`
	Notes     string              `json:"notes"`
}

// toDomain maps the request body onto a domain.Client, applying the default
// per-kilometre rate when none was supplied.
func (req clientRequest) toDomain() domain.Client {
	c := domain.Client{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		RatePerKm: domain.DefaultRatePerKm,
		Status:    req.Status,
		Notes:     req.Notes,
	}
	if req.RatePerKm != nil {
		c.RatePerKm = *req.RatePerKm
	}
	return c
}

// handleCreateClient implements POST /clients (admin only).
func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.clients.Create(r.Context(), actor(r), req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// handleListClients implements GET /clients. Admins may filter with
// ?status=; drivers always get active clients only.
func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	var status *domain.ClientStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.ClientStatus(v)
		if !st.Valid() {
			badRequest(w, "status must be active or inactive")
			return
		}
		status = &st
	}

	clients, err := s.clients.List(r.Context(), actor(r), status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"data": clients})
}

// handleGetClient implements GET /clients/{id}.
func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	client, err := s.clients.Get(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// handleUpdateClient implements PUT /clients/{id} (admin only).
func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	client := req.toDomain()
	client.ID = id

	updated, err := s.clients.Update(r.Context(), actor(r), client)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// handleDeleteClient implements DELETE /clients/{id} (admin only).
// Fails with 409 if any trip still references the client.
func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.clients.Delete(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
