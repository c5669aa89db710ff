package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/towtrack/backend/internal/domain"
	"github.com/towtrack/backend/internal/repo"
)

// ClientService implements business logic for billing clients. Mutations are
// admin-only; drivers may read active clients so the trip form can offer
// them and show the negotiated rate.
type ClientService struct {
	clients repo.ClientRepo
	txm     repo.TxManager
}

// NewClientService constructs a ClientService backed by the provided repos.
func NewClientService(clients repo.ClientRepo, txm repo.TxManager) *ClientService {
	return &ClientService{clients: clients, txm: txm}
}

// Create validates and persists a new client. Admin only.
func (s *ClientService) Create(ctx context.Context, actor domain.Actor, client domain.Client) (domain.Client, error) {
	if !actor.IsAdmin() {
		return domain.Client{}, fmt.Errorf("service.ClientService.Create: %w", domain.ErrForbidden)
	}
	if client.Status == "" {
		client.Status = domain.ClientActive
	}
	if err := validateClient(client); err != nil {
		return domain.Client{}, err
	}
	created, err := s.clients.Create(ctx, client)
	if err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.Create: %w", err)
	}
	return created, nil
}

// Get returns a single client. Drivers only see active clients; an inactive
// client is reported to them as not found.
func (s *ClientService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.Get: %w", err)
	}
	if !actor.IsAdmin() && client.Status != domain.ClientActive {
		return domain.Client{}, fmt.Errorf("service.ClientService.Get: %w", domain.ErrNotFound)
	}
	return client, nil
}

// List returns clients ordered by name. Admins may filter by status; for
// drivers the result is always restricted to active clients.
func (s *ClientService) List(ctx context.Context, actor domain.Actor, status *domain.ClientStatus) ([]domain.Client, error) {
	if !actor.IsAdmin() {
		active := domain.ClientActive
		status = &active
	}
	clients, err := s.clients.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("service.ClientService.List: %w", err)
	}
	return clients, nil
}

// Update validates and persists changes to an existing client. Admin only.
func (s *ClientService) Update(ctx context.Context, actor domain.Actor, client domain.Client) (domain.Client, error) {
	if !actor.IsAdmin() {
		return domain.Client{}, fmt.Errorf("service.ClientService.Update: %w", domain.ErrForbidden)
	}
	if err := validateClient(client); err != nil {
		return domain.Client{}, err
	}
	updated, err := s.clients.Update(ctx, client)
	if err != nil {
		return domain.Client{}, fmt.Errorf("service.ClientService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a client. Admin only. A client that is still referenced by
// any trip cannot be deleted: the check and the delete run in one
// transaction so a trip created concurrently cannot slip between them.
func (s *ClientService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("service.ClientService.Delete: %w", domain.ErrForbidden)
	}
	err := s.txm.WithTx(ctx, func(r repo.Repos) error {
		n, err := r.Trips.CountByClient(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: client has %d trips", domain.ErrConflict, n)
		}
		return r.Clients.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("service.ClientService.Delete: %w", err)
	}
	return nil
}

// validateClient enforces field rules common to Create and Update.
func validateClient(client domain.Client) error {
	if strings.TrimSpace(client.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if client.RatePerKm.Negative() {
		return fmt.Errorf("%w: rate_per_km must not be negative", domain.ErrValidation)
	}
	if !client.Status.Valid() {
		return fmt.Errorf("%w: status must be active or inactive", domain.ErrValidation)
	}
	return nil
}
