package services

import (
	"math"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/utils"
)

// Statistics is the dashboard summary for a reporting window.
type Statistics struct {
	CheckIns         int `json:"check_ins"`
	CheckOuts        int `json:"check_outs"`
	TotalGuests      int `json:"total_guests"`
	BookedRoomNights int `json:"booked_room_nights"`
	OccupancyRate    int `json:"occupancy_rate"`
}

// IsDegenerateWindow reports windows the aggregator answers with zeroes.
func IsDegenerateWindow(roomCount int, windowStart, windowEnd time.Time) bool {
	return roomCount <= 0 || utils.DaysInclusive(windowStart, windowEnd) <= 0
}

// ComputeStatistics aggregates reservations over the closed calendar-date window
// [windowStart, windowEnd]. Cancelled and rejected reservations are ignored.
//
// OccupancyRate is not capped: a double-booked room pushes it past 100, which is
// left visible on purpose.
func ComputeStatistics(reservations []models.Reservation, roomCount int, windowStart, windowEnd time.Time) Statistics {
	if IsDegenerateWindow(roomCount, windowStart, windowEnd) {
		return Statistics{}
	}
	days := utils.DaysInclusive(windowStart, windowEnd)
	from := utils.DateUTC(windowStart)
	to := utils.DateUTC(windowEnd)
	// nights are counted against the half-open [from, to+1d)
	toExclusive := to.AddDate(0, 0, 1)

	var st Statistics
	for _, r := range reservations {
		if !r.Status.BlocksRoom() {
			continue
		}
		in := utils.DateUTC(r.CheckIn)
		out := utils.DateUTC(r.CheckOut)

		if !in.Before(from) && !in.After(to) {
			st.CheckIns++
			st.TotalGuests += r.Guests.Total()
			if !out.After(to) {
				st.CheckOuts++
			}
		}

		clipStart := in
		if clipStart.Before(from) {
			clipStart = from
		}
		clipEnd := out
		if clipEnd.After(toExclusive) {
			clipEnd = toExclusive
		}
		st.BookedRoomNights += utils.NightsBetween(clipStart, clipEnd)
	}

	capacity := float64(roomCount * days)
	st.OccupancyRate = int(math.Round(float64(st.BookedRoomNights) / capacity * 100))
	return st
}
