package services

import (
	"sort"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/utils"
)

// Directory is a read-only id -> display name projection passed into the
// board and list views. Callers load it once per request.
type Directory struct {
	Customers map[uint]string
	Rooms     map[uint]string
	Staff     map[uint]string
}

func (d Directory) CustomerName(id uint) string { return d.Customers[id] }
func (d Directory) RoomName(id uint) string     { return d.Rooms[id] }

func (d Directory) StaffName(id *uint) string {
	if id == nil {
		return ""
	}
	return d.Staff[*id]
}

// RoomSummary is one line of the front-desk room board.
type RoomSummary struct {
	RoomID        uint                 `json:"room_id"`
	Name          string               `json:"name"`
	Capacity      int                  `json:"capacity"`
	IsActive      bool                 `json:"is_active"`
	Status        models.RoomOccupancy `json:"status"`
	ReservationID *uint                `json:"reservation_id,omitempty"`
	CurrentGuest  string               `json:"current_guest,omitempty"`
	CheckOut      *time.Time           `json:"check_out,omitempty"`
}

// roomHolds returns the reservations of roomID that still hold the room.
func roomHolds(roomID uint, existing []models.Reservation) []models.Reservation {
	out := make([]models.Reservation, 0, len(existing))
	for _, r := range existing {
		if r.RoomID != roomID || !r.Status.BlocksRoom() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ConflictingReservations returns the room's blocking reservations overlapping
// [start, end). ErrInvalidInterval when end is not after start.
func ConflictingReservations(room models.Room, start, end time.Time, existing []models.Reservation) ([]models.Reservation, error) {
	if !end.After(start) {
		return nil, ErrInvalidInterval
	}
	var conflicts []models.Reservation
	for _, r := range roomHolds(room.ID, existing) {
		if utils.IntervalsOverlap(r.CheckIn, r.CheckOut, start, end) {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts, nil
}

// IsRoomAvailable reports whether no blocking reservation of room overlaps [start, end).
func IsRoomAvailable(room models.Room, start, end time.Time, existing []models.Reservation) (bool, error) {
	conflicts, err := ConflictingReservations(room, start, end, existing)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// CurrentOccupancy returns the blocking reservation whose stay contains asOf,
// or nil. With overlapping (double-booked) stays the earliest check-in wins.
func CurrentOccupancy(room models.Room, asOf time.Time, existing []models.Reservation) *models.Reservation {
	var current *models.Reservation
	for _, r := range roomHolds(room.ID, existing) {
		if r.CheckIn.After(asOf) || !asOf.Before(r.CheckOut) {
			continue
		}
		if current == nil || r.CheckIn.Before(current.CheckIn) {
			res := r
			current = &res
		}
	}
	return current
}

func RoomOccupancyAt(room models.Room, asOf time.Time, existing []models.Reservation) models.RoomOccupancy {
	if CurrentOccupancy(room, asOf, existing) != nil {
		return models.RoomOccupied
	}
	return models.RoomVacant
}

// BuildRoomBoard labels every room Occupied/Vacant as of asOf, sorted by name.
func BuildRoomBoard(rooms []models.Room, reservations []models.Reservation, dir Directory, asOf time.Time) []RoomSummary {
	board := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		line := RoomSummary{
			RoomID:   room.ID,
			Name:     room.Name,
			Capacity: room.Capacity,
			IsActive: room.IsActive,
			Status:   models.RoomVacant,
		}
		if cur := CurrentOccupancy(room, asOf, reservations); cur != nil {
			id := cur.ID
			out := cur.CheckOut
			line.Status = models.RoomOccupied
			line.ReservationID = &id
			line.CurrentGuest = dir.CustomerName(cur.CustomerID)
			line.CheckOut = &out
		}
		board = append(board, line)
	}
	sort.SliceStable(board, func(i, j int) bool { return board[i].Name < board[j].Name })
	return board
}

// Quote prices a stay at the room's flat nightly rate.
func Quote(room models.Room, checkIn, checkOut time.Time) (nights int, total float64) {
	nights = utils.NightsBetween(checkIn, checkOut)
	return nights, float64(nights) * room.PricePerNight
}
