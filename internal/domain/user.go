// Package domain contains the core data types and business rules for the
// TowTrack API. This package has no dependencies on other internal packages
// and is imported by every other layer (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role determines a user's authorization scope everywhere in the system.
// It is a closed enumeration and is never changeable by self-service.
type Role string

const (
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleDriver || r == RoleAdmin
}

// User is an account that can act on the system: a driver who logs trips,
// or an admin who reviews them and manages clients.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	VehicleID    string    `json:"vehicle_id,omitempty"` // tow truck identifier, drivers only
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName returns "First Last" with either part optional.
func (u User) DisplayName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Actor is the authenticated identity attached to a request. It carries just
// enough to make every authorization decision: who is acting and as what role.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
