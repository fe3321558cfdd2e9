package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel-backoffice/controllers"
	"hotel-backoffice/middleware"
	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/services/servicetest"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

type envelope struct {
	Status     string          `json:"status"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *servicetest.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, controllers.RegisterValidators())

	log, _ := test.NewNullLogger()
	store := servicetest.NewMemoryStore(func() time.Time { return now })
	store.AddRoom(models.Room{Model: gorm.Model{ID: 1}, Name: "101", Capacity: 2, PricePerNight: 1000, IsActive: true})
	store.AddRoom(models.Room{Model: gorm.Model{ID: 2}, Name: "102", Capacity: 2, PricePerNight: 1200, IsActive: true})
	store.AddCustomer(10, "Somchai Jaidee")
	store.AddStaff(7, "Front Desk")

	svc := services.NewReservationService(store, store.Rooms(), log, services.WithClock(services.FixedClock{T: now}))
	ctrl := controllers.NewReservationController(svc, log)

	r := gin.New()
	r.GET("/api/reservation-statuses", ctrl.ListStatuses)
	api := r.Group("/api", func(c *gin.Context) {
		c.Set(middleware.StaffIDKey, uint(7))
		c.Next()
	})
	api.GET("/reservations", ctrl.ListReservations)
	api.POST("/reservations", ctrl.CreateReservation)
	api.GET("/reservations/:id", ctrl.GetReservation)
	api.GET("/reservations/:id/transitions", ctrl.GetTransitions)
	api.PATCH("/reservations/:id/status", ctrl.UpdateStatus)
	api.GET("/availability", ctrl.CheckAvailability)
	api.GET("/statistics", ctrl.GetStatistics)
	api.GET("/rooms/board", ctrl.GetRoomBoard)
	return r, store
}

func do(r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func createBody(roomID uint, in, out, origin string) map[string]interface{} {
	return map[string]interface{}{
		"customer_id": 10,
		"room_id":     roomID,
		"check_in":    in,
		"check_out":   out,
		"origin":      origin,
		"guests":      map[string]int{"adults": 2},
	}
}

func TestCreateReservationEndpoint(t *testing.T) {
	r, store := setupRouter(t)

	w, env := do(r, http.MethodPost, "/api/reservations", createBody(1, "2024-03-20", "2024-03-22", "staff_manual"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, models.StatusConfirmedPendingPayment, res.Status)
	require.NotNil(t, res.AuditedBy)
	assert.Equal(t, uint(7), *res.AuditedBy)

	stored, ok := store.Reservation(res.ID)
	require.True(t, ok)
	assert.Equal(t, 2, stored.Guests.Adults)

	t.Run("overlap is a conflict", func(t *testing.T) {
		w, env := do(r, http.MethodPost, "/api/reservations", createBody(1, "2024-03-21", "2024-03-23", "mobile"))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "error.roomUnavailable", env.Error.Code)
	})

	t.Run("unknown origin fails validation", func(t *testing.T) {
		w, env := do(r, http.MethodPost, "/api/reservations", createBody(1, "2024-04-01", "2024-04-02", "kiosk"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.validation", env.Error.Code)
		assert.Contains(t, string(env.Error.Details), `"origin"`)
	})

	t.Run("bad dates", func(t *testing.T) {
		w, env := do(r, http.MethodPost, "/api/reservations", createBody(1, "20/03/2024", "2024-03-22", "mobile"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.invalidDate", env.Error.Code)

		w, env = do(r, http.MethodPost, "/api/reservations", createBody(1, "2024-04-05", "2024-04-05", "mobile"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.invalidInterval", env.Error.Code)
	})

	t.Run("too many guests", func(t *testing.T) {
		body := createBody(1, "2024-04-01", "2024-04-02", "mobile")
		body["guests"] = map[string]int{"adults": 2, "seniors": 1}
		w, env := do(r, http.MethodPost, "/api/reservations", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "error.capacityExceeded", env.Error.Code)
	})
}

func TestUpdateStatusEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := do(r, http.MethodPost, "/api/reservations", createBody(1, "2024-03-20", "2024-03-22", "mobile"))
	require.Equal(t, http.StatusCreated, w.Code)
	var res models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &res))
	path := fmt.Sprintf("/api/reservations/%d", res.ID)

	w, env = do(r, http.MethodGet, path+"/transitions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		fmt.Sprintf(`{"reservation_id":%d,"allowed":["Confirmed_Pending_Payment","Rejected","Cancelled"]}`, res.ID),
		string(env.Data))

	w, _ = do(r, http.MethodPatch, path+"/status", map[string]string{"status": "Confirmed_Pending_Payment"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("disallowed move", func(t *testing.T) {
		w, env := do(r, http.MethodPatch, path+"/status", map[string]string{"status": "Pending"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "error.invalidTransition", env.Error.Code)
		assert.Contains(t, string(env.Error.Details), "Accepted")
	})

	t.Run("non canonical status", func(t *testing.T) {
		w, env := do(r, http.MethodPatch, path+"/status", map[string]string{"status": "confirmed"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.validation", env.Error.Code)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		w, env := do(r, http.MethodPatch, "/api/reservations/999/status", map[string]string{"status": "Cancelled"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "error.reservationNotFound", env.Error.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w, _ := do(r, http.MethodGet, "/api/reservations/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListReservationsEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	for _, body := range []map[string]interface{}{
		createBody(1, "2024-03-20", "2024-03-22", "mobile"),
		createBody(2, "2024-03-20", "2024-03-22", "staff_manual"),
	} {
		w, _ := do(r, http.MethodPost, "/api/reservations", body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := do(r, http.MethodGet, "/api/reservations?category=confirmed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, env.Pagination.Total)

	var views []services.ReservationView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "102", views[0].RoomName)
	assert.Equal(t, "Somchai Jaidee", views[0].CustomerName)

	w, env = do(r, http.MethodGet, "/api/reservations?status=Pending,Accepted", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, env.Pagination.Total)

	w, env = do(r, http.MethodGet, "/api/reservations?status=Pending&category=confirmed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, env.Pagination.Total)

	w, env = do(r, http.MethodGet, "/api/reservations?status=pending", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error.invalidStatus", env.Error.Code)
}

func TestAvailabilityStatisticsAndBoard(t *testing.T) {
	r, _ := setupRouter(t)
	w, _ := do(r, http.MethodPost, "/api/reservations", createBody(1, "2024-03-10", "2024-03-12", "staff_manual"))
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := do(r, http.MethodGet, "/api/availability?room_id=1&check_in=2024-03-12&check_out=2024-03-14", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var avail services.AvailabilityResult
	require.NoError(t, json.Unmarshal(env.Data, &avail))
	assert.True(t, avail.Available)
	assert.Equal(t, 2, avail.Nights)

	w, env = do(r, http.MethodGet, "/api/availability?room_id=1&check_in=2024-03-14&check_out=2024-03-12", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error.invalidInterval", env.Error.Code)

	w, env = do(r, http.MethodGet, "/api/availability?room_id=9&check_in=2024-03-12&check_out=2024-03-14", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error.roomNotFound", env.Error.Code)

	w, env = do(r, http.MethodGet, "/api/statistics?from=2024-03-10&to=2024-03-11", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		From       string              `json:"from"`
		Statistics services.Statistics `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, "2024-03-10", stats.From)
	assert.Equal(t, 1, stats.Statistics.CheckIns)
	assert.Equal(t, 50, stats.Statistics.OccupancyRate)

	w, env = do(r, http.MethodGet, "/api/rooms/board", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board []services.RoomSummary
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.Len(t, board, 2)
	assert.Equal(t, models.RoomOccupied, board[0].Status)
	assert.Equal(t, models.RoomVacant, board[1].Status)
}

func TestListStatuses(t *testing.T) {
	r, _ := setupRouter(t)
	w, env := do(r, http.MethodGet, "/api/reservation-statuses", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out []struct {
		Status   string `json:"status"`
		Category string `json:"category"`
		Settled  bool   `json:"settled"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, len(models.AllReservationStatuses))
	assert.Equal(t, "Pending", out[0].Status)
	assert.False(t, out[0].Settled)
	assert.Equal(t, "cancelled", out[len(out)-1].Category)
}
