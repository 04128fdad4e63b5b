// Package repository defines sentinel error values shared across the
// individual repositories so that handlers can translate persistence
// failures into HTTP status codes without inspecting SQL errors.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own or participate in. Handlers translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of
// conflicting state, such as joining a circle that is already full.
// Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition is returned when a status change is requested on
// a mentorship request that is no longer PENDING. Terminal states are
// one-way; handlers report HTTP 422.
var ErrInvalidTransition = errors.New("invalid transition")
