package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the review lifecycle state of a trip. The enumeration is
// closed: draft → submitted → {approved, rejected}, with draft and submitted
// mutually reachable so a driver can pull a submission back for edits.
type TripStatus string

const (
	StatusDraft     TripStatus = "draft"
	StatusSubmitted TripStatus = "submitted"
	StatusApproved  TripStatus = "approved"
	StatusRejected  TripStatus = "rejected"
)

// Valid reports whether s is one of the known trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// DriverEditable reports whether the owning driver may still mutate a trip
// in this status. Approved and rejected are terminal for the driver.
func (s TripStatus) DriverEditable() bool {
	return s == StatusDraft || s == StatusSubmitted
}

// Reviewable reports whether an admin review (approve/reject) may be applied.
// Only submitted trips can be reviewed; reviewing any other status is an
// invalid-state conflict, not a silent no-op.
func (s TripStatus) Reviewable() bool {
	return s == StatusSubmitted
}

// DriverCanSetStatus reports whether the owning driver may move a trip from
// one status to another. Drivers only ever toggle between draft and
// submitted; every transition touching approved or rejected belongs to admins.
func DriverCanSetStatus(from, to TripStatus) bool {
	return from.DriverEditable() && to.DriverEditable()
}

// ReviewAction is an admin's verdict on a submitted trip.
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

// Status returns the trip status this action transitions to.
func (a ReviewAction) Status() (TripStatus, bool) {
	switch a {
	case ReviewApprove:
		return StatusApproved, true
	case ReviewReject:
		return StatusRejected, true
	}
	return "", false
}

// PaymentType is how a trip is settled with the counterparty.
type PaymentType string

const (
	PaymentCash    PaymentType = "cash"
	PaymentInvoice PaymentType = "invoice"
)

// Valid reports whether p is one of the known payment types.
func (p PaymentType) Valid() bool {
	return p == PaymentCash || p == PaymentInvoice
}

// Trip is a single towing job record, the unit of billing and review.
//
// ClientID links a billing client; ClientName is the free-text manual
// override used when no client record exists — the two are alternatives,
// and only client-linked trips carry a computed Cost. Cost is nil whenever
// no rate is resolvable and is recomputed by the service layer on every
// edit that touches the distance or the client link; it is never set by
// the caller directly.
type Trip struct {
	ID            uuid.UUID   `json:"id"`
	DriverID      uuid.UUID   `json:"driver_id"`
	ClientID      *uuid.UUID  `json:"client_id,omitempty"`
	ClientName    string      `json:"client_name,omitempty"`
	Vehicle       string      `json:"vehicle"`
	Cargo         string      `json:"cargo,omitempty"`
	LicensePlate  string      `json:"license_plate,omitempty"`
	DistanceKm    Kilometers  `json:"distance_km"`
	DurationMin   *int        `json:"duration_min,omitempty"`
	Pickup        string      `json:"pickup"`
	Dropoff       string      `json:"dropoff"`
	OutOfTown     bool        `json:"out_of_town"`
	WinchUsed     bool        `json:"winch_used"`
	PaymentType   PaymentType `json:"payment_type"`
	CashAmount    *Money      `json:"cash_amount,omitempty"`
	ExtraCost     *Money      `json:"extra_cost,omitempty"`
	ExtraCostNote string      `json:"extra_cost_note,omitempty"`
	TripAt        time.Time   `json:"trip_at"`
	Notes         string      `json:"notes,omitempty"`
	AdminNotes    string      `json:"admin_notes,omitempty"`
	Cost          *Money      `json:"cost,omitempty"`
	Status        TripStatus  `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// VisibleTo reports whether the actor may read this trip at all.
// Drivers see only their own trips; callers translate false into ErrNotFound
// so non-owners cannot confirm a record exists.
func (t Trip) VisibleTo(actor Actor) bool {
	return actor.IsAdmin() || t.DriverID == actor.ID
}
