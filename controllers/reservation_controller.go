package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"hotel-backoffice/middleware"
	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ReservationController struct {
	Svc *services.ReservationService
	Log *logrus.Logger
}

func NewReservationController(svc *services.ReservationService, log *logrus.Logger) *ReservationController {
	return &ReservationController{Svc: svc, Log: log}
}

type statusInfo struct {
	Status      models.ReservationStatus `json:"status"`
	Description string                   `json:"description"`
	Category    models.StatusCategory    `json:"category"`
	Settled     bool                     `json:"settled"`
	BlocksRoom  bool                     `json:"blocks_room"`
}

// ListStatuses (GET /api/reservation-statuses)
func (ctrl *ReservationController) ListStatuses(c *gin.Context) {
	out := make([]statusInfo, 0, len(models.AllReservationStatuses))
	for _, s := range models.AllReservationStatuses {
		out = append(out, statusInfo{
			Status:      s,
			Description: s.Description(),
			Category:    s.Category(),
			Settled:     s.IsSettled(),
			BlocksRoom:  s.BlocksRoom(),
		})
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidId", "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func parseUintQuery(c *gin.Context, key string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidQuery", "invalid "+key)
		return 0, false
	}
	return uint(v), true
}

func intersectStatuses(a, b []models.ReservationStatus) []models.ReservationStatus {
	in := make(map[models.ReservationStatus]bool, len(b))
	for _, s := range b {
		in[s] = true
	}
	out := []models.ReservationStatus{}
	for _, s := range a {
		if in[s] {
			out = append(out, s)
		}
	}
	return out
}

// buildFilter reads status, category, origin, room_id, customer_id,
// reference, page and per_page.
func buildFilter(c *gin.Context) (services.ReservationFilter, bool) {
	var f services.ReservationFilter

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			s, err := models.ParseReservationStatus(strings.TrimSpace(part))
			if err != nil {
				utils.JSONError(c, http.StatusBadRequest, "error.invalidStatus", err.Error())
				return f, false
			}
			f.Statuses = append(f.Statuses, s)
		}
	}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		cat, err := models.ParseStatusCategory(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidCategory", err.Error())
			return f, false
		}
		inCat := models.StatusesInCategory(cat)
		if len(f.Statuses) > 0 {
			f.Statuses = intersectStatuses(f.Statuses, inCat)
		} else {
			f.Statuses = inCat
		}
		if len(f.Statuses) == 0 {
			// status and category disagree: nothing can match
			f.Statuses = []models.ReservationStatus{""}
		}
	}
	if raw := strings.TrimSpace(c.Query("origin")); raw != "" {
		o, err := models.ParseReservationOrigin(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidOrigin", err.Error())
			return f, false
		}
		f.Origin = o
	}

	var ok bool
	if f.RoomID, ok = parseUintQuery(c, "room_id"); !ok {
		return f, false
	}
	if f.CustomerID, ok = parseUintQuery(c, "customer_id"); !ok {
		return f, false
	}
	f.Reference = c.Query("reference")
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "25"))
	return f.Normalize(), true
}

// ListReservations (GET /api/reservations)
func (ctrl *ReservationController) ListReservations(c *gin.Context) {
	filter, ok := buildFilter(c)
	if !ok {
		return
	}
	views, total, err := ctrl.Svc.ListReservations(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONPage(c, http.StatusOK, views, filter.Page, filter.PerPage, total)
}

type createReservationRequest struct {
	CustomerID         uint                         `json:"customer_id" binding:"required"`
	RoomID             uint                         `json:"room_id" binding:"required"`
	CheckIn            string                       `json:"check_in" binding:"required"`
	CheckOut           string                       `json:"check_out" binding:"required"`
	Origin             string                       `json:"origin" binding:"required,reservation_origin"`
	Guests             *models.GuestBreakdown       `json:"guests"`
	PaymentReceived    bool                         `json:"payment_received"`
	Notes              string                       `json:"notes" binding:"max=2000"`
	AccompanyingGuests []services.AccompanyingGuest `json:"accompanying_guests" binding:"max=20"`
}

// CreateReservation (POST /api/reservations)
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	checkIn, err := utils.ParseStayDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", "invalid check_in")
		return
	}
	checkOut, err := utils.ParseStayDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", "invalid check_out")
		return
	}

	guests := models.GuestBreakdown{Adults: 1}
	if req.Guests != nil {
		guests = *req.Guests
	}

	res, err := ctrl.Svc.CreateReservation(c.Request.Context(), services.CreateReservationInput{
		CustomerID:         req.CustomerID,
		RoomID:             req.RoomID,
		CheckIn:            checkIn,
		CheckOut:           checkOut,
		Origin:             models.ReservationOrigin(req.Origin),
		Guests:             guests,
		PaymentReceived:    req.PaymentReceived,
		Notes:              req.Notes,
		AccompanyingGuests: req.AccompanyingGuests,
		CreatedBy:          middleware.StaffID(c),
	})
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, res)
}

// GetReservation (GET /api/reservations/:id)
func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := ctrl.Svc.GetReservation(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}

// GetTransitions (GET /api/reservations/:id/transitions)
func (ctrl *ReservationController) GetTransitions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	allowed, err := ctrl.Svc.AllowedTransitions(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"reservation_id": id, "allowed": allowed})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,reservation_status"`
}

// UpdateStatus (PATCH /api/reservations/:id/status)
func (ctrl *ReservationController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := ctrl.Svc.ChangeStatus(c.Request.Context(), id, models.ReservationStatus(req.Status), middleware.StaffID(c))
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// CheckAvailability (GET /api/availability?room_id=&check_in=&check_out=)
func (ctrl *ReservationController) CheckAvailability(c *gin.Context) {
	roomID, ok := parseUintQuery(c, "room_id")
	if !ok {
		return
	}
	if roomID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidQuery", "room_id is required")
		return
	}
	checkIn, err := utils.ParseStayDate(c.Query("check_in"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", "invalid check_in")
		return
	}
	checkOut, err := utils.ParseStayDate(c.Query("check_out"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", "invalid check_out")
		return
	}

	result, err := ctrl.Svc.CheckAvailability(c.Request.Context(), roomID, checkIn, checkOut)
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// GetStatistics (GET /api/statistics?from=&to=). Both default to today.
func (ctrl *ReservationController) GetStatistics(c *gin.Context) {
	today := utils.FormatDate(ctrl.Svc.Now())
	from, err := utils.ParseStayDate(c.DefaultQuery("from", today))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", "invalid from")
		return
	}
	to, err := utils.ParseStayDate(c.DefaultQuery("to", today))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", "invalid to")
		return
	}

	st, err := ctrl.Svc.Statistics(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"from":       utils.FormatDate(from),
		"to":         utils.FormatDate(to),
		"statistics": st,
	})
}

// GetRoomBoard (GET /api/rooms/board)
func (ctrl *ReservationController) GetRoomBoard(c *gin.Context) {
	board, err := ctrl.Svc.RoomBoard(c.Request.Context())
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, board)
}
