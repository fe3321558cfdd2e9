package services

import (
	"time"

	"hotel-backoffice/models"
)

// DefaultPendingExpiry is how long a Pending reservation may wait for payment.
const DefaultPendingExpiry = 48 * time.Hour

type transitionKey struct {
	status models.ReservationStatus
	origin models.ReservationOrigin
}

// transitionRules has an explicit entry for every non-settled status/origin pair.
// Pairs missing here are rejected rather than opened up.
var transitionRules = map[transitionKey][]models.ReservationStatus{
	{models.StatusPending, models.OriginStaffManual}: {
		models.StatusConfirmedPendingPayment,
		models.StatusAccepted,
		models.StatusCancelled,
	},
	{models.StatusConfirmedPendingPayment, models.OriginStaffManual}: {
		models.StatusPending,
		models.StatusAccepted,
		models.StatusCancelled,
	},
	{models.StatusPending, models.OriginMobile}: {
		models.StatusConfirmedPendingPayment,
		models.StatusRejected,
		models.StatusCancelled,
	},
	{models.StatusConfirmedPendingPayment, models.OriginMobile}: {
		models.StatusAccepted,
		models.StatusCancelled,
	},
}

// AllowedNextStatuses returns the statuses staff may move a reservation to.
// Settled statuses and unknown pairs yield an empty set. The result is a fresh
// slice in display order and never contains current.
func AllowedNextStatuses(current models.ReservationStatus, origin models.ReservationOrigin) []models.ReservationStatus {
	if current.IsSettled() {
		return []models.ReservationStatus{}
	}
	allowed, ok := transitionRules[transitionKey{current, origin}]
	if !ok {
		return []models.ReservationStatus{}
	}
	out := make([]models.ReservationStatus, len(allowed))
	copy(out, allowed)
	return out
}

func hasTransitionRule(current models.ReservationStatus, origin models.ReservationOrigin) bool {
	if current.IsSettled() {
		return true
	}
	_, ok := transitionRules[transitionKey{current, origin}]
	return ok
}

// ValidateTransition returns a *TransitionError when proposed is not allowed.
func ValidateTransition(current, proposed models.ReservationStatus, origin models.ReservationOrigin) error {
	allowed := AllowedNextStatuses(current, origin)
	for _, s := range allowed {
		if s == proposed {
			return nil
		}
	}
	return &TransitionError{
		From:    current,
		To:      proposed,
		Origin:  origin,
		Allowed: allowed,
		NoRule:  !hasTransitionRule(current, origin),
	}
}

// ApplyTransition moves res to status `to` and applies the bookkeeping that goes
// with it. Callers validate first; this never rejects.
func ApplyTransition(res *models.Reservation, to models.ReservationStatus, now time.Time, auditedBy *uint) {
	switch to {
	case models.StatusConfirmedPendingPayment:
		t := now
		res.ConfirmationTime = &t
		res.PaymentReceived = false
	case models.StatusAccepted:
		res.PaymentReceived = true
		if res.ConfirmationTime == nil {
			t := now
			res.ConfirmationTime = &t
		}
	default:
		res.ConfirmationTime = nil
	}
	res.Status = to
	if auditedBy != nil {
		id := *auditedBy
		res.AuditedBy = &id
	}
}

// CanExpire reports whether the system may close res as Expired: still Pending,
// unpaid, and created at least ttl before now.
func CanExpire(res models.Reservation, now time.Time, ttl time.Duration) bool {
	if res.Status != models.StatusPending || res.PaymentReceived {
		return false
	}
	if ttl <= 0 {
		ttl = DefaultPendingExpiry
	}
	return !now.Before(res.CreatedAt.Add(ttl))
}
