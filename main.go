package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-backoffice/config"
	"hotel-backoffice/controllers"
	"hotel-backoffice/jobs"
	"hotel-backoffice/logger"
	"hotel-backoffice/routes"
	"hotel-backoffice/services"

	"github.com/gin-gonic/gin"
)

func main() {
	migrateStatuses := flag.Bool("migrate-statuses", false, "rewrite legacy reservation statuses to canonical values and exit")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel})

	if len(cfg.JWTSecret) < 32 && !*migrateStatuses {
		log.Fatal("JWT_SECRET must be set to at least 32 characters")
	}

	db, err := config.ConnectDatabase(log, cfg.SeedDefaultAdmin)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	log.Info("database connection established and migrations applied")

	reservationStore := services.NewGormReservationStore(db)

	if *migrateStatuses {
		n, err := reservationStore.MigrateLegacyStatuses(context.Background(), log)
		if err != nil {
			log.WithError(err).Fatal("status migration failed")
		}
		log.WithField("rows", n).Info("status migration finished")
		return
	}

	rdb, err := config.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("redis unavailable; statistics cache and shared rate limits disabled")
	}

	var statsCache services.StatsCache = services.NoopStatsCache{}
	if rdb != nil {
		statsCache = services.NewRedisStatsCache(rdb, cfg.StatsCacheTTL)
	}

	// Initialize services
	roomService := services.NewRoomService(db, statsCache, log)
	reservationService := services.NewReservationService(reservationStore, roomService, log,
		services.WithStatsCache(statsCache),
		services.WithPendingExpiry(cfg.PendingExpiry),
	)
	adminService := services.NewAdminService(db)

	// Background jobs
	c := jobs.NewCron(log)
	if err := jobs.InitCronJobs(c, cfg.ExpirySchedule, reservationService, log); err != nil {
		log.WithError(err).Fatal("failed to schedule pending expiry")
	}

	gin.SetMode(gin.ReleaseMode)
	router := routes.SetupRouter(routes.Deps{
		Reservations:    controllers.NewReservationController(reservationService, log),
		Rooms:           controllers.NewRoomController(roomService, services.NewRoomTypeService(db), log),
		Customers:       controllers.NewCustomerController(services.NewCustomerService(db), log),
		Admins:          controllers.NewAdminController(adminService, log),
		Auth:            controllers.NewAuthController(adminService, []byte(cfg.JWTSecret), cfg.JWTTTL, log),
		JWTSecret:       []byte(cfg.JWTSecret),
		CorsOrigins:     cfg.CorsOrigins,
		StatusRateLimit: cfg.StatusRateLimit,
		Redis:           rdb,
		Log:             log,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// wait for an in-flight expiry sweep
	cronDone := c.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	select {
	case <-cronDone.Done():
	case <-ctx.Done():
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("server stopped gracefully")
}
