// Package service contains the business logic for the TowTrack API.
// Services validate inputs, enforce the trip lifecycle and access scoping
// rules, and orchestrate repo calls. No SQL lives here — services depend on
// repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/towtrack/backend/internal/domain"
	"github.com/towtrack/backend/internal/repo"
)

// TripService implements the trip lifecycle: creation and edits by the
// owning driver, automatic cost calculation, and admin review.
type TripService struct {
	trips repo.TripRepo
	txm   repo.TxManager
}

// NewTripService constructs a TripService. Reads go through trips directly;
// every mutation runs inside txm so the load-compute-store sequence is atomic.
func NewTripService(trips repo.TripRepo, txm repo.TxManager) *TripService {
	return &TripService{trips: trips, txm: txm}
}

// Create validates and persists a new trip owned by the acting driver.
// DriverID always comes from the actor, never from the payload. The initial
// status must be draft or submitted; an empty status defaults to draft.
// The cost is computed before the insert and stored with the trip.
func (s *TripService) Create(ctx context.Context, actor domain.Actor, trip domain.Trip) (domain.Trip, error) {
	trip.DriverID = actor.ID
	if trip.Status == "" {
		trip.Status = domain.StatusDraft
	}
	if !trip.Status.DriverEditable() {
		return domain.Trip{}, fmt.Errorf("%w: new trips must be draft or submitted", domain.ErrValidation)
	}
	if trip.TripAt.IsZero() {
		trip.TripAt = time.Now().UTC()
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	var created domain.Trip
	err := s.txm.WithTx(ctx, func(r repo.Repos) error {
		cost, err := resolveCost(ctx, r.Clients, trip)
		if err != nil {
			return err
		}
		trip.Cost = cost
		created, err = r.Trips.Create(ctx, trip)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// Get returns a single trip visible to the actor. A trip owned by another
// driver is reported as not found, not forbidden, so its existence is never
// confirmed to non-owners.
func (s *TripService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	if !trip.VisibleTo(actor) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", domain.ErrNotFound)
	}
	return trip, nil
}

// List returns one page of trips matching the filter as scoped to the actor:
// admins see everything the filter matches, drivers only ever their own
// trips regardless of what the filter asked for.
func (s *TripService) List(ctx context.Context, actor domain.Actor, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.List(ctx, f.ScopedTo(actor), p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	return trips, total, nil
}

// Update applies a partial update to a trip on behalf of the actor.
//
// The whole sequence — load, authorize, apply, recompute cost, store — runs
// in one transaction so a concurrent edit cannot be lost. Drivers may only
// touch their own trips while the status is draft or submitted, and may only
// move the status between those two states. Admins are unrestricted. The
// cost is recomputed whenever the patch touches the distance or the client
// link.
func (s *TripService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	var updated domain.Trip
	err := s.txm.WithTx(ctx, func(r repo.Repos) error {
		trip, err := r.Trips.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !trip.VisibleTo(actor) {
			return domain.ErrNotFound
		}
		if !actor.IsAdmin() && !trip.Status.DriverEditable() {
			return fmt.Errorf("%w: trip is %s and can no longer be edited", domain.ErrForbidden, trip.Status)
		}

		if patch.Status.Set {
			next := patch.Status.Value
			if !next.Valid() {
				return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, next)
			}
			if !actor.IsAdmin() && !domain.DriverCanSetStatus(trip.Status, next) {
				return fmt.Errorf("%w: drivers may only save as draft or submit", domain.ErrForbidden)
			}
			trip.Status = next
		}

		patch.Apply(&trip)
		if err := validateTrip(trip); err != nil {
			return err
		}
		if patch.TouchesBilling() {
			cost, err := resolveCost(ctx, r.Clients, trip)
			if err != nil {
				return err
			}
			trip.Cost = cost
		}

		updated, err = r.Trips.Update(ctx, trip)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Review applies an admin verdict to a submitted trip: approve or reject.
// Only submitted trips can be reviewed — reviewing any other status is a
// conflict. A rejection must carry a reason in adminNotes; an approval may
// carry notes but does not have to.
func (s *TripService) Review(ctx context.Context, actor domain.Actor, id uuid.UUID, action domain.ReviewAction, adminNotes string) (domain.Trip, error) {
	if !actor.IsAdmin() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Review: %w", domain.ErrForbidden)
	}
	next, ok := action.Status()
	if !ok {
		return domain.Trip{}, fmt.Errorf("service.TripService.Review: %w: action must be approve or reject", domain.ErrValidation)
	}
	if action == domain.ReviewReject && strings.TrimSpace(adminNotes) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Review: %w: a rejection reason is required", domain.ErrValidation)
	}

	var reviewed domain.Trip
	err := s.txm.WithTx(ctx, func(r repo.Repos) error {
		trip, err := r.Trips.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !trip.Status.Reviewable() {
			return fmt.Errorf("%w: trip is %s, only submitted trips can be reviewed", domain.ErrConflict, trip.Status)
		}
		trip.Status = next
		if adminNotes != "" {
			trip.AdminNotes = adminNotes
		}
		reviewed, err = r.Trips.Update(ctx, trip)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Review: %w", err)
	}
	return reviewed, nil
}

// resolveCost resolves the applicable per-kilometre rate for the trip and
// returns the computed cost, or nil when no rate is resolvable.
//
// Manual-client trips (no client link) carry no computed cost — the driver
// enters a cash amount instead. A missing client resolves to no cost rather
// than an error; the trips.client_id foreign key rejects the dangling link
// at the write itself, so this branch is logged as a should-not-happen. Any
// other lookup failure is returned so a transient fault cannot persist a
// client-linked trip without its cost.
func resolveCost(ctx context.Context, clients repo.ClientRepo, trip domain.Trip) (*domain.Money, error) {
	if trip.ClientID == nil {
		return nil, nil
	}
	client, err := clients.GetByID(ctx, *trip.ClientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "trip references missing client, leaving cost unset",
				"trip_id", trip.ID, "client_id", *trip.ClientID)
			return nil, nil
		}
		return nil, err
	}
	cost := domain.ComputeCost(trip.DistanceKm, client.RatePerKm)
	return &cost, nil
}

// validateTrip enforces field rules common to Create and Update.
//   - Vehicle, pickup, and dropoff must be non-empty.
//   - Distance and any money amounts must not be negative.
//   - Payment type must be one of the known values.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Vehicle) == "" {
		return fmt.Errorf("%w: vehicle is required", domain.ErrValidation)
	}
	if strings.TrimSpace(trip.Pickup) == "" {
		return fmt.Errorf("%w: pickup is required", domain.ErrValidation)
	}
	if strings.TrimSpace(trip.Dropoff) == "" {
		return fmt.Errorf("%w: dropoff is required", domain.ErrValidation)
	}
	if trip.DistanceKm.Negative() {
		return fmt.Errorf("%w: distance_km must not be negative", domain.ErrValidation)
	}
	if !trip.PaymentType.Valid() {
		return fmt.Errorf("%w: payment_type must be cash or invoice", domain.ErrValidation)
	}
	if trip.CashAmount != nil && trip.CashAmount.Negative() {
		return fmt.Errorf("%w: cash_amount must not be negative", domain.ErrValidation)
	}
	if trip.ExtraCost != nil && trip.ExtraCost.Negative() {
		return fmt.Errorf("%w: extra_cost must not be negative", domain.ErrValidation)
	}
	if trip.DurationMin != nil && *trip.DurationMin < 0 {
		return fmt.Errorf("%w: duration_min must not be negative", domain.ErrValidation)
	}
	return nil
}
