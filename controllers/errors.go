package controllers

import (
	"errors"
	"net/http"

	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondServiceError maps engine and store errors onto HTTP responses.
// Anything unrecognised is logged and reported as a 500.
func respondServiceError(c *gin.Context, log *logrus.Logger, err error) {
	var transErr *services.TransitionError
	var conflict *services.ConflictError

	switch {
	case errors.As(err, &transErr):
		code := "error.invalidTransition"
		if transErr.NoRule {
			code = "error.noTransitionRule"
		}
		utils.JSONErrorDetails(c, http.StatusUnprocessableEntity, code, err.Error(), gin.H{
			"from":    transErr.From,
			"to":      transErr.To,
			"origin":  transErr.Origin,
			"allowed": transErr.Allowed,
		})
	case errors.As(err, &conflict):
		utils.JSONErrorDetails(c, http.StatusConflict, "error.roomUnavailable", services.ErrRoomUnavailable.Error(), gin.H{
			"room_id":         conflict.RoomID,
			"conflicting_ids": conflict.ConflictingIDs,
		})
	case errors.Is(err, services.ErrReservationNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.reservationNotFound", err.Error())
	case errors.Is(err, services.ErrRoomNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.roomNotFound", err.Error())
	case errors.Is(err, services.ErrCustomerNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.customerNotFound", err.Error())
	case errors.Is(err, services.ErrRoomTypeNotFound):
		utils.JSONError(c, http.StatusBadRequest, "error.roomTypeNotFound", err.Error())
	case errors.Is(err, services.ErrAdminNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.staffNotFound", err.Error())
	case errors.Is(err, services.ErrStaleReservation):
		utils.JSONError(c, http.StatusConflict, "error.staleReservation", err.Error())
	case errors.Is(err, services.ErrRoomNameTaken), errors.Is(err, services.ErrUsernameTaken):
		utils.JSONError(c, http.StatusConflict, "error.duplicate", err.Error())
	case errors.Is(err, services.ErrRoomInUse):
		utils.JSONError(c, http.StatusConflict, "error.roomInUse", err.Error())
	case errors.Is(err, services.ErrInvalidInterval):
		utils.JSONError(c, http.StatusBadRequest, "error.invalidInterval", err.Error())
	case errors.Is(err, services.ErrInvalidGuests):
		utils.JSONError(c, http.StatusBadRequest, "error.invalidGuests", err.Error())
	case errors.Is(err, services.ErrInvalidOrigin):
		utils.JSONError(c, http.StatusBadRequest, "error.invalidOrigin", err.Error())
	case errors.Is(err, services.ErrRoomInactive):
		utils.JSONError(c, http.StatusUnprocessableEntity, "error.roomInactive", err.Error())
	case errors.Is(err, services.ErrCapacityExceeded):
		utils.JSONError(c, http.StatusUnprocessableEntity, "error.capacityExceeded", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "error.invalidCredentials", err.Error())
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("unhandled service error")
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal server error")
	}
}
