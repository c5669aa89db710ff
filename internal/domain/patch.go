package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Opt is a field of a partial-update payload. It distinguishes "absent"
// (Set == false) from "explicitly null" (Set == true, zero Value) — JSON
// alone cannot, and the distinction matters for nullable columns like the
// client link.
type Opt[T any] struct {
	Set   bool
	Value T
}

// UnmarshalJSON marks the field as present. A JSON null leaves Value at its
// zero value, which for pointer types means "clear this field".
func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// TripPatch is the explicit allow-list of trip fields a PATCH may touch.
// Anything not listed here — id, driver_id, cost, admin notes, timestamps —
// cannot be overwritten no matter what keys the payload carries. Status is
// included but constrained per actor by the status machine in the service.
type TripPatch struct {
	ClientID      Opt[*uuid.UUID]  `json:"client_id"`
	ClientName    Opt[string]      `json:"client_name"`
	Vehicle       Opt[string]      `json:"vehicle"`
	Cargo         Opt[string]      `json:"cargo"`
	LicensePlate  Opt[string]      `json:"license_plate"`
	DistanceKm    Opt[Kilometers]  `json:"distance_km"`
	DurationMin   Opt[*int]        `json:"duration_min"`
	Pickup        Opt[string]      `json:"pickup"`
	Dropoff       Opt[string]      `json:"dropoff"`
	OutOfTown     Opt[bool]        `json:"out_of_town"`
	WinchUsed     Opt[bool]        `json:"winch_used"`
	PaymentType   Opt[PaymentType] `json:"payment_type"`
	CashAmount    Opt[*Money]      `json:"cash_amount"`
	ExtraCost     Opt[*Money]      `json:"extra_cost"`
	ExtraCostNote Opt[string]      `json:"extra_cost_note"`
	TripAt        Opt[time.Time]   `json:"trip_at"`
	Notes         Opt[string]      `json:"notes"`
	Status        Opt[TripStatus]  `json:"status"`
}

// TouchesBilling reports whether applying the patch can change the resolved
// rate or the distance — the two inputs of the cost calculation. The service
// recomputes the cost whenever this is true, whether or not the caller asked.
func (p TripPatch) TouchesBilling() bool {
	return p.ClientID.Set || p.DistanceKm.Set
}

// Apply copies every present field except Status onto the trip. Status is
// deliberately left to the caller: which transitions are legal depends on
// who is asking.
func (p TripPatch) Apply(t *Trip) {
	if p.ClientID.Set {
		t.ClientID = p.ClientID.Value
	}
	if p.ClientName.Set {
		t.ClientName = p.ClientName.Value
	}
	if p.Vehicle.Set {
		t.Vehicle = p.Vehicle.Value
	}
	if p.Cargo.Set {
		t.Cargo = p.Cargo.Value
	}
	if p.LicensePlate.Set {
		t.LicensePlate = p.LicensePlate.Value
	}
	if p.DistanceKm.Set {
		t.DistanceKm = p.DistanceKm.Value
	}
	if p.DurationMin.Set {
		t.DurationMin = p.DurationMin.Value
	}
	if p.Pickup.Set {
		t.Pickup = p.Pickup.Value
	}
	if p.Dropoff.Set {
		t.Dropoff = p.Dropoff.Value
	}
	if p.OutOfTown.Set {
		t.OutOfTown = p.OutOfTown.Value
	}
	if p.WinchUsed.Set {
		t.WinchUsed = p.WinchUsed.Value
	}
	if p.PaymentType.Set {
		t.PaymentType = p.PaymentType.Value
	}
	if p.CashAmount.Set {
		t.CashAmount = p.CashAmount.Value
	}
	if p.ExtraCost.Set {
		t.ExtraCost = p.ExtraCost.Value
	}
	if p.ExtraCostNote.Set {
		t.ExtraCostNote = p.ExtraCostNote.Value
	}
	if p.TripAt.Set {
		t.TripAt = p.TripAt.Value
	}
	if p.Notes.Set {
		t.Notes = p.Notes.Value
	}
}
