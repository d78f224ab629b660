// Package repository defines errors that are reused across multiple
// repositories. Sentinel values allow handlers to distinguish failure
// scenarios: ErrForbidden maps to HTTP 403, ErrConflict to 409 and the
// per-entity not-found values to 404. SetsUnavailableError is the typed
// conflict raised when a booking loses the race for one or more sets.
package repository

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as deleting a set that still has active
// reservations or checking in a cancelled reservation.
var ErrConflict = errors.New("conflict")

// Not-found sentinels, one per entity.
var (
	ErrBeachNotFound       = errors.New("beach not found")
	ErrZoneNotFound        = errors.New("zone not found")
	ErrSetNotFound         = errors.New("set not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrClientNotFound      = errors.New("client not found")
	ErrEmailExists         = errors.New("email already exists")
)

// SetsUnavailableError reports which sets were already reserved for the
// requested date when a reservation write was attempted. The writer raises
// it inside the booking transaction, so callers that receive it are
// guaranteed that nothing was persisted.
type SetsUnavailableError struct {
	SetIDs []uint64
}

func (e *SetsUnavailableError) Error() string {
	return fmt.Sprintf("sets unavailable for this date: %v", e.SetIDs)
}
