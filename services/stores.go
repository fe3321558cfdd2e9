package services

import (
	"context"
	"time"

	"hotel-backoffice/models"
)

// ReservationFilter narrows ListReservations. Zero values mean "any".
type ReservationFilter struct {
	Statuses   []models.ReservationStatus
	Origin     models.ReservationOrigin
	RoomID     uint
	CustomerID uint
	// Reference matches reference codes ignoring case and separators.
	Reference  string
	Page       int
	PerPage    int
}

const (
	defaultPerPage = 25
	maxPerPage     = 100
)

// Normalize clamps paging to sane values.
func (f ReservationFilter) Normalize() ReservationFilter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PerPage <= 0 || f.PerPage > maxPerPage {
		f.PerPage = defaultPerPage
	}
	return f
}

// ReservationStore is the persistence collaborator of the reservation engine.
type ReservationStore interface {
	List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, int64, error)
	ListByRoom(ctx context.Context, roomID uint) ([]models.Reservation, error)
	// ListOverlapping returns reservations whose stay intersects [from, to).
	ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Reservation, error)
	Get(ctx context.Context, id uint) (*models.Reservation, error)
	// Create persists res and fills ID and ReferenceCode. It returns a
	// *ConflictError if the room was taken between the caller's read and the insert.
	Create(ctx context.Context, res *models.Reservation) error
	// ApplyStatusChange commits the status fields of res only if the stored
	// status still equals previous; otherwise ErrStaleReservation.
	ApplyStatusChange(ctx context.Context, res *models.Reservation, previous models.ReservationStatus) error
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error)
	CustomerExists(ctx context.Context, id uint) (bool, error)
	LoadDirectory(ctx context.Context) (Directory, error)
}

// RoomStore is the room registry the engine reads from.
type RoomStore interface {
	Get(ctx context.Context, id uint) (*models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
}
