package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClientStatus marks whether a client is available for new trips.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// Valid reports whether s is one of the known client statuses.
func (s ClientStatus) Valid() bool {
	return s == ClientActive || s == ClientInactive
}

// DefaultRatePerKm is the per-kilometre rate assigned to a new client when
// no rate is supplied: 1.50 per km.
const DefaultRatePerKm = Money(150)

// Client is a billing counterparty with a negotiated per-kilometre rate.
// A client that is referenced by at least one trip can never be deleted;
// the service layer enforces this before the database constraint fires.
type Client struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Address   string       `json:"address,omitempty"`
	RatePerKm Money        `json:"rate_per_km"`
	Status    ClientStatus `json:"status"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
