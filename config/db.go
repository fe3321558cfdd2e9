package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SeedDatabase creates the first admin account and the default room types
// on an empty database.
func SeedDatabase(db *gorm.DB, log *logrus.Logger, seedAdmin bool) {
	if seedAdmin {
		var adminCount int64
		db.Model(&models.Admin{}).Count(&adminCount)
		if adminCount == 0 {
			password := utils.EnvOrDefault("DEFAULT_ADMIN_PASSWORD", "admin123")
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				log.WithError(err).Warn("failed to hash default admin password")
			} else {
				admin := models.Admin{
					FullName: "Admin User",
					Username: "admin@hotel.local",
					Password: string(hash),
					Role:     models.RoleAdmin,
					IsActive: true,
				}
				if err := db.Create(&admin).Error; err != nil {
					log.WithError(err).Warn("failed to create default admin")
				} else {
					log.Info("default admin seeded")
				}
			}
		}
	}

	var rtCount int64
	db.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{TypeName: "Standard", Description: "Standard Room", MaxGuests: 2},
			{TypeName: "Superior", Description: "Superior Room", MaxGuests: 3},
			{TypeName: "Deluxe", Description: "Deluxe Room", MaxGuests: 4},
			{TypeName: "Connecting", Description: "Connecting Room", MaxGuests: 5},
		}
		if err := db.Create(&roomTypes).Error; err != nil {
			log.WithError(err).Warn("failed to seed room types")
		} else {
			log.Info("room types seeded")
		}
	}
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	// stay dates are calendar dates in UTC
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "hotel_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

// ConnectDatabase opens MySQL, migrates the schema and seeds defaults.
func ConnectDatabase(log *logrus.Logger, seedAdmin bool) (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	newLogger := gormlogger.New(
		log,
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		log.WithError(err).Info("cannot get raw sql.DB")
	}

	// parent -> child order
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.RoomType{},
		&models.Customer{},
		&models.Room{},
		&models.Reservation{},
	); err != nil {
		return nil, err
	}

	SeedDatabase(db, log, seedAdmin)
	return db, nil
}
