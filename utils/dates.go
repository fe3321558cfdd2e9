package utils

import "time"

const dateLayout = "2006-01-02"

// DateUTC truncates t to midnight of its UTC calendar date.
func DateUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// dayNumber is the count of days from 1970-01-01 to t's UTC calendar date.
// It works on year/month/day directly, so spans wider than time.Duration
// (about 292 years) are still counted exactly.
func dayNumber(t time.Time) int64 {
	u := t.UTC()
	y := int64(u.Year())
	m := int64(u.Month())
	d := int64(u.Day())
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// NightsBetween counts calendar nights between two instants using UTC dates only,
// so a stay never gains or loses a night because of the time of day or the zone
// the values were parsed in. Returns 0 when checkOut is not after checkIn.
func NightsBetween(checkIn, checkOut time.Time) int {
	if !checkOut.After(checkIn) {
		return 0
	}
	n := dayNumber(checkOut) - dayNumber(checkIn)
	if n < 0 {
		return 0
	}
	return int(n)
}

// DaysInclusive counts calendar days in the closed range [start, end].
func DaysInclusive(start, end time.Time) int {
	n := dayNumber(end) - dayNumber(start)
	if n < 0 {
		return 0
	}
	return int(n) + 1
}

// IntervalsOverlap reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// A stay ending at the instant another begins does not overlap it.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ParseStayDate accepts "2006-01-02" or RFC3339, like the booking forms send.
func ParseStayDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// FormatDate renders t as a UTC calendar date.
func FormatDate(t time.Time) string {
	return DateUTC(t).Format(dateLayout)
}
