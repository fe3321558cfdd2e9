package models

import (
	"fmt"
	"strings"
)

// ReservationStatus is the lifecycle state stored on a reservation.
type ReservationStatus string

const (
	StatusPending                 ReservationStatus = "Pending"
	StatusConfirmedPendingPayment ReservationStatus = "Confirmed_Pending_Payment"
	StatusAccepted                ReservationStatus = "Accepted"
	StatusRejected                ReservationStatus = "Rejected"
	StatusCancelled               ReservationStatus = "Cancelled"
	StatusExpired                 ReservationStatus = "Expired"
)

// AllReservationStatuses lists every canonical status in display order.
var AllReservationStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmedPendingPayment,
	StatusAccepted,
	StatusRejected,
	StatusCancelled,
	StatusExpired,
}

// StatusCategory groups statuses for filters and dashboard counters.
type StatusCategory string

const (
	CategoryPending   StatusCategory = "pending"
	CategoryConfirmed StatusCategory = "confirmed"
	CategoryCancelled StatusCategory = "cancelled"
)

var statusDescriptions = map[ReservationStatus]string{
	StatusPending:                 "Submitted from the mobile app or by staff; waiting for staff review.",
	StatusConfirmedPendingPayment: "Confirmed by staff; the guest still has to pay.",
	StatusAccepted:                "Payment verified by staff; the stay is guaranteed.",
	StatusRejected:                "Declined by staff before confirmation.",
	StatusCancelled:               "Cancelled by the guest or by staff.",
	StatusExpired:                 "Closed by the system after the pending window passed without payment.",
}

// ParseReservationStatus accepts canonical values only. Historical free-text
// values go through LegacyStatusFromText during migration instead.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(strings.TrimSpace(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid reservation status: %q", s)
	}
	return status, nil
}

func (s ReservationStatus) IsValid() bool {
	_, ok := statusDescriptions[s]
	return ok
}

func (s ReservationStatus) String() string {
	return string(s)
}

// Description is tooltip text naming who sets the status. Not used for enforcement.
func (s ReservationStatus) Description() string {
	return statusDescriptions[s]
}

func (s ReservationStatus) Category() StatusCategory {
	switch s {
	case StatusPending:
		return CategoryPending
	case StatusConfirmedPendingPayment, StatusAccepted:
		return CategoryConfirmed
	case StatusCancelled, StatusRejected, StatusExpired:
		return CategoryCancelled
	default:
		return ""
	}
}

// IsSettled reports statuses staff can no longer move out of.
func (s ReservationStatus) IsSettled() bool {
	switch s {
	case StatusAccepted, StatusCancelled, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// BlocksRoom reports whether a reservation in this status holds its room.
func (s ReservationStatus) BlocksRoom() bool {
	return s != StatusCancelled && s != StatusRejected
}

// StatusesInCategory returns the canonical statuses of a category.
func StatusesInCategory(c StatusCategory) []ReservationStatus {
	out := make([]ReservationStatus, 0, 3)
	for _, s := range AllReservationStatuses {
		if s.Category() == c {
			out = append(out, s)
		}
	}
	return out
}

func ParseStatusCategory(raw string) (StatusCategory, error) {
	c := StatusCategory(strings.ToLower(strings.TrimSpace(raw)))
	switch c {
	case CategoryPending, CategoryConfirmed, CategoryCancelled:
		return c, nil
	}
	return "", fmt.Errorf("invalid status category: %q", raw)
}

// LegacyStatusFromText maps inconsistently-cased historical values ("confirmed",
// "CANCELLED by guest", ...) onto a canonical status. Unrecognised text becomes
// Pending. Only the status migration calls this.
func LegacyStatusFromText(raw string) ReservationStatus {
	if s, err := ParseReservationStatus(raw); err == nil {
		return s
	}
	u := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(u, "CANCEL"):
		return StatusCancelled
	case strings.Contains(u, "REJECT"):
		return StatusRejected
	case strings.Contains(u, "EXPIR"):
		return StatusExpired
	case strings.Contains(u, "PAYMENT"):
		return StatusConfirmedPendingPayment
	case strings.Contains(u, "ACCEPT"):
		return StatusAccepted
	case strings.Contains(u, "CONFIRM"):
		return StatusConfirmedPendingPayment
	case strings.Contains(u, "PENDING"):
		return StatusPending
	default:
		return StatusPending
	}
}

// ReservationOrigin is the channel a reservation was created through.
type ReservationOrigin string

const (
	OriginStaffManual ReservationOrigin = "staff_manual"
	OriginMobile      ReservationOrigin = "mobile"
)

func ParseReservationOrigin(s string) (ReservationOrigin, error) {
	o := ReservationOrigin(strings.TrimSpace(s))
	if !o.IsValid() {
		return "", fmt.Errorf("invalid reservation origin: %q", s)
	}
	return o, nil
}

func (o ReservationOrigin) IsValid() bool {
	return o == OriginStaffManual || o == OriginMobile
}
