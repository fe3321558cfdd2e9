package services

import (
	"errors"
	"fmt"

	"hotel-backoffice/models"
)

var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNoTransitionRule    = errors.New("no transition rule for status and origin")
	ErrInvalidInterval     = errors.New("invalid interval: check-out must be after check-in")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrRoomUnavailable     = errors.New("room not available for the requested stay")
	ErrRoomInactive        = errors.New("room is inactive")
	ErrCapacityExceeded    = errors.New("guest count exceeds room capacity")
	ErrInvalidGuests       = errors.New("invalid guest breakdown: at least one adult required")
	ErrStaleReservation    = errors.New("reservation changed since it was read")
	ErrInvalidOrigin       = errors.New("invalid reservation origin")
	ErrRoomTypeNotFound    = errors.New("room type not found")
	ErrRoomNameTaken       = errors.New("room name already exists")
	ErrRoomInUse           = errors.New("room has live reservations")
)

// TransitionError carries the rejected move. errors.Is(err, ErrInvalidTransition)
// holds for every TransitionError; ErrNoTransitionRule additionally when the
// status/origin pair has no rule at all.
type TransitionError struct {
	From    models.ReservationStatus
	To      models.ReservationStatus
	Origin  models.ReservationOrigin
	Allowed []models.ReservationStatus
	NoRule  bool
}

func (e *TransitionError) Error() string {
	if e.NoRule {
		return fmt.Sprintf("%s: %s (origin %s)", ErrNoTransitionRule, e.From, e.Origin)
	}
	return fmt.Sprintf("%s: %s -> %s (origin %s)", ErrInvalidTransition, e.From, e.To, e.Origin)
}

func (e *TransitionError) Is(target error) bool {
	if target == ErrInvalidTransition {
		return true
	}
	return e.NoRule && target == ErrNoTransitionRule
}

// ConflictError lists the reservations that block a requested stay.
type ConflictError struct {
	RoomID         uint
	ConflictingIDs []uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: room %d overlaps reservations %v", ErrRoomUnavailable, e.RoomID, e.ConflictingIDs)
}

func (e *ConflictError) Unwrap() error { return ErrRoomUnavailable }
