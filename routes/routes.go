package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"hotel-backoffice/controllers"
	"hotel-backoffice/middleware"
	"hotel-backoffice/models"
)

// Deps is everything the router needs; main builds it once.
type Deps struct {
	Reservations *controllers.ReservationController
	Rooms        *controllers.RoomController
	Customers    *controllers.CustomerController
	Admins       *controllers.AdminController
	Auth         *controllers.AuthController

	JWTSecret       []byte
	CorsOrigins     []string
	StatusRateLimit string
	Redis           *redis.Client // optional; rate limits fall back to memory
	Log             *logrus.Logger
}

// SetupRouter registers every route on a fresh engine.
func SetupRouter(d Deps) *gin.Engine {
	if err := controllers.RegisterValidators(); err != nil {
		d.Log.WithError(err).Fatal("failed to register request validators")
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(d.Log))

	origins := d.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/login", middleware.NewRateLimiter("10-1m", "login", d.Redis, d.Log), d.Auth.Login)
		api.GET("/reservation-statuses", d.Reservations.ListStatuses)

		staff := api.Group("", middleware.RequireStaff(d.JWTSecret))

		reservations := staff.Group("/reservations")
		{
			reservations.GET("", d.Reservations.ListReservations)
			reservations.POST("", d.Reservations.CreateReservation)
			reservations.GET("/:id", d.Reservations.GetReservation)
			reservations.GET("/:id/transitions", d.Reservations.GetTransitions)
			reservations.PATCH("/:id/status",
				middleware.NewRateLimiter(d.StatusRateLimit, "reservation_status", d.Redis, d.Log),
				d.Reservations.UpdateStatus)
		}

		staff.GET("/availability", d.Reservations.CheckAvailability)
		staff.GET("/statistics", d.Reservations.GetStatistics)

		rooms := staff.Group("/rooms")
		{
			rooms.GET("", d.Rooms.GetRooms)
			// must come before /:id
			rooms.GET("/board", d.Reservations.GetRoomBoard)
			rooms.POST("", d.Rooms.CreateRoom)
			rooms.PATCH("/:id", d.Rooms.UpdateRoom)
			rooms.PUT("/:id", d.Rooms.UpdateRoom)
			rooms.DELETE("/:id", d.Rooms.DeleteRoom)
		}

		roomTypes := staff.Group("/room-types")
		{
			roomTypes.GET("", d.Rooms.GetRoomTypes)
			roomTypes.POST("", d.Rooms.CreateRoomType)
		}

		customers := staff.Group("/customers")
		{
			customers.GET("", d.Customers.GetCustomers)
			customers.POST("", d.Customers.CreateCustomer)
		}

		admins := staff.Group("/admins", middleware.RequireRole(models.RoleAdmin))
		{
			admins.GET("", d.Admins.GetAdmins)
			admins.POST("", d.Admins.CreateAdmin)
			admins.DELETE("/:id", d.Admins.DeleteAdmin)
		}
	}

	return r
}
