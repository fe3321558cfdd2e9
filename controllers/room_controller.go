package controllers

import (
	"net/http"
	"strings"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RoomController struct {
	Rooms     *services.RoomService
	RoomTypes *services.RoomTypeService
	Log       *logrus.Logger
}

func NewRoomController(rooms *services.RoomService, roomTypes *services.RoomTypeService, log *logrus.Logger) *RoomController {
	return &RoomController{Rooms: rooms, RoomTypes: roomTypes, Log: log}
}

// ----------------------------------------------------
// Rooms
// ----------------------------------------------------

// GetRooms (GET /api/rooms)
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.Rooms.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

type createRoomRequest struct {
	Name          string  `json:"name" binding:"required,max=50"`
	Floor         string  `json:"floor" binding:"max=10"`
	RoomTypeID    *uint   `json:"room_type_id"`
	Capacity      int     `json:"capacity" binding:"omitempty,min=1,max=20"`
	PricePerNight float64 `json:"price_per_night" binding:"gte=0"`
	IsActive      *bool   `json:"is_active"`
	Description   string  `json:"description"`
}

// CreateRoom (POST /api/rooms)
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "room name is required")
		return
	}

	room := models.Room{
		Name:          name,
		Floor:         strings.TrimSpace(req.Floor),
		RoomTypeID:    req.RoomTypeID,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
		IsActive:      true,
		Description:   req.Description,
	}
	// a zero id would insert FK 0
	if room.RoomTypeID != nil && *room.RoomTypeID == 0 {
		room.RoomTypeID = nil
	}
	if room.Capacity == 0 {
		room.Capacity = 2
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if err := ctrl.Rooms.Create(c.Request.Context(), &room); err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// updatableRoomFields is the allow-list for PATCH/PUT bodies.
var updatableRoomFields = map[string]string{
	"name":            "name",
	"floor":           "floor",
	"room_type_id":    "room_type_id",
	"capacity":        "capacity",
	"price_per_night": "price_per_night",
	"is_active":       "is_active",
	"description":     "description",
}

// UpdateRoom (PATCH|PUT /api/rooms/:id)
func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	fields := make(map[string]interface{}, len(body))
	for key, value := range body {
		column, allowed := updatableRoomFields[key]
		if !allowed {
			continue
		}
		if s, isString := value.(string); isString {
			value = strings.TrimSpace(s)
		}
		fields[column] = value
	}

	room, err := ctrl.Rooms.Update(c.Request.Context(), id, fields)
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DeleteRoom (DELETE /api/rooms/:id)
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Rooms.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// ----------------------------------------------------
// Room types
// ----------------------------------------------------

// GetRoomTypes (GET /api/room-types)
func (ctrl *RoomController) GetRoomTypes(c *gin.Context) {
	types, err := ctrl.RoomTypes.GetAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}

type createRoomTypeRequest struct {
	TypeName    string `json:"type_name" binding:"required,max=100"`
	Description string `json:"description"`
	MaxGuests   uint   `json:"max_guests" binding:"max=20"`
}

// CreateRoomType (POST /api/room-types)
func (ctrl *RoomController) CreateRoomType(c *gin.Context) {
	var req createRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	rt := models.RoomType{
		TypeName:    strings.TrimSpace(req.TypeName),
		Description: req.Description,
		MaxGuests:   req.MaxGuests,
	}
	if err := ctrl.RoomTypes.Create(c.Request.Context(), &rt); err != nil {
		respondServiceError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rt)
}
