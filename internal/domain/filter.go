package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripFilter carries the optional list predicates from the HTTP layer down
// to the repo. Nil fields match everything; set fields are AND-combined.
type TripFilter struct {
	DriverID    *uuid.UUID
	ClientID    *uuid.UUID
	Status      *TripStatus
	StartDate   *time.Time // trips at or after this instant
	EndDate     *time.Time // trips at or before this instant
	MinDistance *Kilometers
	MaxDistance *Kilometers
}

// ScopedTo returns the filter as the actor is allowed to run it. For admins
// the filter passes through unchanged. For drivers the owner predicate is
// forcibly overwritten with the actor's own ID — a caller-supplied driver_id
// is ignored, never honored, so query parameters cannot widen visibility.
func (f TripFilter) ScopedTo(actor Actor) TripFilter {
	if actor.IsAdmin() {
		return f
	}
	id := actor.ID
	f.DriverID = &id
	return f
}

// PaginationParams carries page/limit values from the HTTP layer to the repo
// layer. Page is 1-indexed. Limit is capped at 200 by NewPaginationParams.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query
// params. Nil pointers fall back to page=1, limit=50. The limit is capped
// at 200 to prevent runaway queries.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 50}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 200 {
			p.Limit = 200
		}
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
