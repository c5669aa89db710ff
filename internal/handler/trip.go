package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/towtrack/backend/internal/domain"
)

// createTripRequest is the POST /trips payload: the caller-settable trip
// fields. The driver, cost, and timestamps are always server-assigned.
type createTripRequest struct {
	ClientID      *uuid.UUID         `json:"client_id"`
	ClientName    string             `json:"client_name"`
	Vehicle       string             `json:"vehicle"`
	Cargo         string             `json:"cargo"`
	LicensePlate  string             `json:"license_plate"`
	DistanceKm    domain.Kilometers  `json:"distance_km"`
	DurationMin   *int               `json:"duration_min"`
	Pickup        string             `json:"pickup"`
	Dropoff       string             `json:"dropoff"`
	OutOfTown     bool               `json:"out_of_town"`
	WinchUsed     bool               `json:"winch_used"`
	PaymentType   domain.PaymentType `json:"payment_type"`
	CashAmount    *domain.Money      `json:"cash_amount"`
	ExtraCost     *domain.Money      `json:"extra_cost"`
	ExtraCostNote string             `json:"extra_cost_note"`
	TripAt        *time.Time         `json:"trip_at"`
	Notes         string             `json:"notes"`
	Status        domain.TripStatus  `json:"status"`
}

// toDomain maps the request body onto a domain.Trip.
func (req createTripRequest) toDomain() domain.Trip {
	t := domain.Trip{
		ClientID:      req.ClientID,
		ClientName:    req.ClientName,
		Vehicle:       req.Vehicle,
		Cargo:         req.Cargo,
		LicensePlate:  req.LicensePlate,
		DistanceKm:    req.DistanceKm,
		DurationMin:   req.DurationMin,
		Pickup:        req.Pickup,
		Dropoff:       req.Dropoff,
		OutOfTown:     req.OutOfTown,
		WinchUsed:     req.WinchUsed,
		PaymentType:   req.PaymentType,
		CashAmount:    req.CashAmount,
		ExtraCost:     req.ExtraCost,
		ExtraCostNote: req.ExtraCostNote,
		Notes:         req.Notes,
		Status:        req.Status,
	}
	if req.TripAt != nil {
		t.TripAt = *req.TripAt
	}
	return t
}

// handleCreateTrip implements POST /trips.
func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), actor(r), req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// handleListOwnTrips implements GET /trips: the actor's own trips, for
// drivers and admins alike. Supports the same filters as /trips/all except
// driver_id, which is always the actor.
func (s *Server) handleListOwnTrips(w http.ResponseWriter, r *http.Request) {
	act := actor(r)

	filter, page, err := tripQuery(r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	filter.DriverID = &act.ID

	trips, total, err := s.trips.List(r.Context(), act, filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Data:       trips,
		Pagination: pagination{Page: page.Page, Limit: page.Limit, Total: total},
	})
}

// handleListAllTrips implements GET /trips/all (admin only): every trip,
// with all documented filters AND-combined.
func (s *Server) handleListAllTrips(w http.ResponseWriter, r *http.Request) {
	filter, page, err := tripQuery(r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	trips, total, err := s.trips.List(r.Context(), actor(r), filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Data:       trips,
		Pagination: pagination{Page: page.Page, Limit: page.Limit, Total: total},
	})
}

// handleGetTrip implements GET /trips/{id}.
func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	trip, err := s.trips.Get(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, trip)
}

// handleUpdateTrip implements PATCH /trips/{id}. The body is the explicit
// allow-list patch; any other keys are ignored.
func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var patch domain.TripPatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := s.trips.Update(r.Context(), actor(r), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// reviewRequest is the PATCH /trips/{id}/review payload.
type reviewRequest struct {
	Action     domain.ReviewAction `json:"action"`
	AdminNotes string              `json:"admin_notes"`
}

// handleReviewTrip implements PATCH /trips/{id}/review (admin only).
func (s *Server) handleReviewTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	reviewed, err := s.trips.Review(r.Context(), actor(r), id, req.Action, req.AdminNotes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, reviewed)
}

// tripQuery parses the trip list filter and pagination from query params.
// Dates accept "2006-01-02" or full RFC 3339; a date-only end_date covers
// the whole day. Distances are two-decimal kilometres.
func tripQuery(q url.Values) (domain.TripFilter, domain.PaginationParams, error) {
	var f domain.TripFilter

	if v := q.Get("driver_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, domain.PaginationParams{}, fmt.Errorf("malformed driver_id")
		}
		f.DriverID = &id
	}
	if v := q.Get("client_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, domain.PaginationParams{}, fmt.Errorf("malformed client_id")
		}
		f.ClientID = &id
	}
	if v := q.Get("status"); v != "" {
		st := domain.TripStatus(v)
		if !st.Valid() {
			return f, domain.PaginationParams{}, fmt.Errorf("unknown status %q", v)
		}
		f.Status = &st
	}
	if v := q.Get("start_date"); v != "" {
		t, _, err := parseDateOrTime(v)
		if err != nil {
			return f, domain.PaginationParams{}, fmt.Errorf("malformed start_date")
		}
		f.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, dateOnly, err := parseDateOrTime(v)
		if err != nil {
			return f, domain.PaginationParams{}, fmt.Errorf("malformed end_date")
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.EndDate = &t
	}
	if v := q.Get("min_distance"); v != "" {
		km, err := domain.ParseKilometers(v)
		if err != nil {
			return f, domain.PaginationParams{}, fmt.Errorf("malformed min_distance")
		}
		f.MinDistance = &km
	}
	if v := q.Get("max_distance"); v != "" {
		km, err := domain.ParseKilometers(v)
		if err != nil {
			return f, domain.PaginationParams{}, fmt.Errorf("malformed max_distance")
		}
		f.MaxDistance = &km
	}

	page, err := intParam(q, "page")
	if err != nil {
		return f, domain.PaginationParams{}, err
	}
	limit, err := intParam(q, "limit")
	if err != nil {
		return f, domain.PaginationParams{}, err
	}

	return f, domain.NewPaginationParams(page, limit), nil
}

// parseDateOrTime parses v as a bare date or an RFC 3339 timestamp, and
// reports which form it was.
func parseDateOrTime(v string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse("2006-01-02", v); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, v)
	return t, false, err
}

// intParam parses an optional positive integer query parameter.
func intParam(q url.Values, name string) (*int, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("malformed %s", name)
	}
	return &n, nil
}
