package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, unknown enum value).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the authenticated user is not allowed to act
// on the resource (e.g. a driver touching another driver's records).
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation violates the current lifecycle
// state — an invalid status transition, a second open protocol phase, or a
// billed record being modified without an admin override.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
