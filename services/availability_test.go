package services

import (
	"testing"
	"time"

	"hotel-backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(id, roomID uint, in, out string, status models.ReservationStatus) models.Reservation {
	return models.Reservation{
		ID:       id,
		RoomID:   roomID,
		CheckIn:  date(in),
		CheckOut: date(out),
		Status:   status,
		Guests:   models.GuestBreakdown{Adults: 1},
	}
}

func TestConflictingReservations(t *testing.T) {
	room := models.Room{Model: gormModel(1), Name: "101"}
	existing := []models.Reservation{
		stay(1, 1, "2024-03-10", "2024-03-13", models.StatusAccepted),
		stay(2, 1, "2024-03-20", "2024-03-22", models.StatusCancelled),
		stay(3, 2, "2024-03-10", "2024-03-13", models.StatusAccepted),
		stay(4, 1, "2024-03-25", "2024-03-27", models.StatusExpired),
	}

	t.Run("overlap", func(t *testing.T) {
		got, err := ConflictingReservations(room, date("2024-03-12"), date("2024-03-15"), existing)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, uint(1), got[0].ID)
	})

	t.Run("back to back is free", func(t *testing.T) {
		ok, err := IsRoomAvailable(room, date("2024-03-13"), date("2024-03-15"), existing)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = IsRoomAvailable(room, date("2024-03-08"), date("2024-03-10"), existing)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("cancelled does not block", func(t *testing.T) {
		ok, err := IsRoomAvailable(room, date("2024-03-20"), date("2024-03-22"), existing)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired still blocks", func(t *testing.T) {
		ok, err := IsRoomAvailable(room, date("2024-03-26"), date("2024-03-28"), existing)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other rooms ignored", func(t *testing.T) {
		other := models.Room{Model: gormModel(9)}
		ok, err := IsRoomAvailable(other, date("2024-03-10"), date("2024-03-13"), existing)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("empty interval rejected", func(t *testing.T) {
		_, err := ConflictingReservations(room, date("2024-03-12"), date("2024-03-12"), existing)
		assert.ErrorIs(t, err, ErrInvalidInterval)
		_, err = IsRoomAvailable(room, date("2024-03-13"), date("2024-03-12"), existing)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})
}

func TestCurrentOccupancy(t *testing.T) {
	room := models.Room{Model: gormModel(1), Name: "101"}
	existing := []models.Reservation{
		stay(1, 1, "2024-03-10", "2024-03-13", models.StatusAccepted),
		stay(2, 1, "2024-03-09", "2024-03-12", models.StatusConfirmedPendingPayment),
		stay(3, 1, "2024-03-01", "2024-03-30", models.StatusCancelled),
	}

	cur := CurrentOccupancy(room, date("2024-03-11"), existing)
	require.NotNil(t, cur)
	assert.Equal(t, uint(2), cur.ID, "earliest check-in wins")

	assert.Nil(t, CurrentOccupancy(room, date("2024-03-13"), existing), "check-out instant is vacant")
	assert.Equal(t, models.RoomVacant, RoomOccupancyAt(room, date("2024-03-20"), existing))
	assert.Equal(t, models.RoomOccupied, RoomOccupancyAt(room, date("2024-03-10"), existing))
}

func TestBuildRoomBoard(t *testing.T) {
	rooms := []models.Room{
		{Model: gormModel(2), Name: "102", Capacity: 2, IsActive: true},
		{Model: gormModel(1), Name: "101", Capacity: 3, IsActive: true},
		{Model: gormModel(3), Name: "103", Capacity: 2, IsActive: false},
	}
	res := stay(5, 2, "2024-03-10", "2024-03-12", models.StatusAccepted)
	res.CustomerID = 40
	dir := Directory{Customers: map[uint]string{40: "Somchai"}}

	board := BuildRoomBoard(rooms, []models.Reservation{res}, dir, date("2024-03-11"))
	require.Len(t, board, 3)
	assert.Equal(t, []string{"101", "102", "103"}, []string{board[0].Name, board[1].Name, board[2].Name})

	assert.Equal(t, models.RoomVacant, board[0].Status)
	assert.Nil(t, board[0].ReservationID)

	assert.Equal(t, models.RoomOccupied, board[1].Status)
	require.NotNil(t, board[1].ReservationID)
	assert.Equal(t, uint(5), *board[1].ReservationID)
	assert.Equal(t, "Somchai", board[1].CurrentGuest)
	assert.Equal(t, date("2024-03-12"), *board[1].CheckOut)

	assert.False(t, board[2].IsActive)
}

func TestDirectoryMissingNames(t *testing.T) {
	var dir Directory
	assert.Equal(t, "", dir.CustomerName(1))
	assert.Equal(t, "", dir.StaffName(nil))
	id := uint(4)
	assert.Equal(t, "", dir.StaffName(&id))
}

func TestQuote(t *testing.T) {
	room := models.Room{PricePerNight: 1250}
	nights, total := Quote(room, date("2024-03-10"), date("2024-03-13"))
	assert.Equal(t, 3, nights)
	assert.InDelta(t, 3750.0, total, 0.001)

	nights, total = Quote(room, date("2024-03-13"), date("2024-03-10"))
	assert.Zero(t, nights)
	assert.Zero(t, total)
}

func TestIsRoomAvailableAroundAcceptedStay(t *testing.T) {
	room := models.Room{Model: gormModel(1), Name: "201", Capacity: 2, IsActive: true}
	existing := []models.Reservation{
		stay(1, 1, "2024-06-01", "2024-06-04", models.StatusAccepted),
	}

	tests := []struct {
		name      string
		in, out   string
		available bool
	}{
		{"starts on the check-out day", "2024-06-04", "2024-06-06", true},
		{"overlaps the last night", "2024-06-03", "2024-06-06", false},
		{"ends on the check-in day", "2024-05-29", "2024-06-01", true},
		{"covers the whole stay", "2024-05-31", "2024-06-05", false},
		{"inside the stay", "2024-06-02", "2024-06-03", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := IsRoomAvailable(room, date(tt.in), date(tt.out), existing)
			require.NoError(t, err)
			assert.Equal(t, tt.available, ok)
		})
	}
}
