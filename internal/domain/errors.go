package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist — or exists but is not visible to the acting user.
// Handlers should map this to HTTP 404. A driver probing another driver's
// trip gets this error, never ErrForbidden, so record existence is not leaked.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. negative distance, missing rejection reason).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the actor is known and the record is visible,
// but the actor's role or the record's status forbids the mutation
// (e.g. a driver editing an approved trip). Handlers map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when the current state of the system blocks the
// request: deleting a client that still has trips, or reviewing a trip that
// is not currently submitted. Handlers map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidCredentials is returned by the auth service on a failed login.
// Handlers map this to HTTP 401 without distinguishing an unknown email
// from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")
