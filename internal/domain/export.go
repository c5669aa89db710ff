package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripReportRow is one line of the trip report export: a flat, denormalized
// view of a trip with the driver and client names already joined in, so the
// CSV/XLSX writers need no further lookups.
//
// ClientName carries the linked client's name when the trip has one, or the
// manual free-text client name otherwise.
type TripReportRow struct {
	TripID       uuid.UUID  `json:"trip_id"`
	TripAt       time.Time  `json:"trip_at"`
	DriverName   string     `json:"driver_name"`
	ClientName   string     `json:"client_name"`
	Vehicle      string     `json:"vehicle"`
	LicensePlate string     `json:"license_plate"`
	Pickup       string     `json:"pickup"`
	Dropoff      string     `json:"dropoff"`
	DistanceKm   Kilometers `json:"distance_km"`
	Cost         *Money     `json:"cost,omitempty"`
	CashAmount   *Money     `json:"cash_amount,omitempty"`
	ExtraCost    *Money     `json:"extra_cost,omitempty"`
	Status       TripStatus `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	AdminNotes   string     `json:"admin_notes,omitempty"`
}
