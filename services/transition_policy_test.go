package services

import (
	"errors"
	"testing"
	"time"

	"hotel-backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	staff  = models.OriginStaffManual
	mobile = models.OriginMobile
)

func TestAllowedNextStatuses(t *testing.T) {
	tests := []struct {
		name     string
		current  models.ReservationStatus
		origin   models.ReservationOrigin
		expected []models.ReservationStatus
	}{
		{"staff pending", models.StatusPending, staff, []models.ReservationStatus{
			models.StatusConfirmedPendingPayment, models.StatusAccepted, models.StatusCancelled}},
		{"staff confirmed", models.StatusConfirmedPendingPayment, staff, []models.ReservationStatus{
			models.StatusPending, models.StatusAccepted, models.StatusCancelled}},
		{"mobile pending", models.StatusPending, mobile, []models.ReservationStatus{
			models.StatusConfirmedPendingPayment, models.StatusRejected, models.StatusCancelled}},
		{"mobile confirmed", models.StatusConfirmedPendingPayment, mobile, []models.ReservationStatus{
			models.StatusAccepted, models.StatusCancelled}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllowedNextStatuses(tt.current, tt.origin)
			assert.Equal(t, tt.expected, got)
			assert.NotContains(t, got, tt.current)
		})
	}
}

func TestAllowedNextStatusesSettledIsEmpty(t *testing.T) {
	for _, s := range []models.ReservationStatus{
		models.StatusAccepted, models.StatusCancelled, models.StatusRejected, models.StatusExpired,
	} {
		for _, o := range []models.ReservationOrigin{staff, mobile} {
			got := AllowedNextStatuses(s, o)
			assert.NotNil(t, got)
			assert.Empty(t, got, "%s/%s", s, o)
		}
	}
}

func TestAllowedNextStatusesUnknownPairIsEmpty(t *testing.T) {
	assert.Empty(t, AllowedNextStatuses(models.StatusPending, models.ReservationOrigin("kiosk")))
	assert.Empty(t, AllowedNextStatuses(models.ReservationStatus("Archived"), staff))
}

func TestAllowedNextStatusesReturnsCopy(t *testing.T) {
	first := AllowedNextStatuses(models.StatusPending, staff)
	first[0] = models.StatusExpired
	assert.Equal(t, models.StatusConfirmedPendingPayment, AllowedNextStatuses(models.StatusPending, staff)[0])
}

func TestValidateTransition(t *testing.T) {
	require.NoError(t, ValidateTransition(models.StatusPending, models.StatusRejected, mobile))
	require.NoError(t, ValidateTransition(models.StatusConfirmedPendingPayment, models.StatusPending, staff))

	t.Run("mobile confirmed cannot go back to pending", func(t *testing.T) {
		err := ValidateTransition(models.StatusConfirmedPendingPayment, models.StatusPending, mobile)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidTransition))
		assert.False(t, errors.Is(err, ErrNoTransitionRule))

		var te *TransitionError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, []models.ReservationStatus{models.StatusAccepted, models.StatusCancelled}, te.Allowed)
	})

	t.Run("staff cannot reject", func(t *testing.T) {
		assert.ErrorIs(t, ValidateTransition(models.StatusPending, models.StatusRejected, staff), ErrInvalidTransition)
	})

	t.Run("settled is final", func(t *testing.T) {
		err := ValidateTransition(models.StatusAccepted, models.StatusCancelled, staff)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.NotErrorIs(t, err, ErrNoTransitionRule)
	})

	t.Run("self transition rejected", func(t *testing.T) {
		assert.ErrorIs(t, ValidateTransition(models.StatusPending, models.StatusPending, staff), ErrInvalidTransition)
	})

	t.Run("unknown origin has no rule", func(t *testing.T) {
		err := ValidateTransition(models.StatusPending, models.StatusCancelled, models.ReservationOrigin("kiosk"))
		assert.ErrorIs(t, err, ErrNoTransitionRule)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestApplyTransitionSideEffects(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	staffID := uint(7)

	t.Run("confirm stamps confirmation time", func(t *testing.T) {
		res := models.Reservation{Status: models.StatusPending, Origin: mobile}
		ApplyTransition(&res, models.StatusConfirmedPendingPayment, now, &staffID)
		assert.Equal(t, models.StatusConfirmedPendingPayment, res.Status)
		require.NotNil(t, res.ConfirmationTime)
		assert.Equal(t, now, *res.ConfirmationTime)
		assert.False(t, res.PaymentReceived)
		require.NotNil(t, res.AuditedBy)
		assert.Equal(t, staffID, *res.AuditedBy)
	})

	t.Run("accept marks payment and keeps first confirmation", func(t *testing.T) {
		earlier := now.Add(-time.Hour)
		res := models.Reservation{Status: models.StatusConfirmedPendingPayment, ConfirmationTime: &earlier}
		ApplyTransition(&res, models.StatusAccepted, now, nil)
		assert.True(t, res.PaymentReceived)
		assert.Equal(t, earlier, *res.ConfirmationTime)
		assert.Nil(t, res.AuditedBy)
	})

	t.Run("accept straight from pending stamps confirmation", func(t *testing.T) {
		res := models.Reservation{Status: models.StatusPending}
		ApplyTransition(&res, models.StatusAccepted, now, nil)
		require.NotNil(t, res.ConfirmationTime)
		assert.Equal(t, now, *res.ConfirmationTime)
	})

	t.Run("back to pending clears confirmation", func(t *testing.T) {
		res := models.Reservation{Status: models.StatusConfirmedPendingPayment, ConfirmationTime: &now}
		ApplyTransition(&res, models.StatusPending, now, &staffID)
		assert.Nil(t, res.ConfirmationTime)
	})

	t.Run("audited by is copied", func(t *testing.T) {
		id := uint(3)
		res := models.Reservation{Status: models.StatusPending}
		ApplyTransition(&res, models.StatusCancelled, now, &id)
		id = 99
		assert.Equal(t, uint(3), *res.AuditedBy)
	})
}

func TestCanExpire(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res := models.Reservation{Status: models.StatusPending, CreatedAt: created}

	assert.False(t, CanExpire(res, created.Add(47*time.Hour), DefaultPendingExpiry))
	assert.True(t, CanExpire(res, created.Add(48*time.Hour), DefaultPendingExpiry))
	assert.True(t, CanExpire(res, created.Add(48*time.Hour), 0), "zero ttl falls back to default")

	paid := res
	paid.PaymentReceived = true
	assert.False(t, CanExpire(paid, created.Add(72*time.Hour), DefaultPendingExpiry))

	confirmed := res
	confirmed.Status = models.StatusConfirmedPendingPayment
	assert.False(t, CanExpire(confirmed, created.Add(72*time.Hour), DefaultPendingExpiry))
}
