package config

import (
	"log"
	"strings"
	"time"

	"hotel-backoffice/utils"

	"github.com/joho/godotenv"
)

// Config is everything main needs to wire the service.
type Config struct {
	Port             string
	RedisURL         string
	JWTSecret        string
	JWTTTL           time.Duration
	CorsOrigins      []string
	LogDir           string
	LogLevel         string
	PendingExpiry    time.Duration
	ExpirySchedule   string
	StatsCacheTTL    time.Duration
	StatusRateLimit  string
	SeedDefaultAdmin bool
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := utils.EnvOrDefault(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("warning: invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}

// parseCorsOrigins splits CORS_ORIGINS; empty means any origin.
func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Load reads an optional .env then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found; continuing with environment variables")
	}

	return Config{
		Port:             utils.EnvOrDefault("PORT", "8080"),
		RedisURL:         utils.EnvOrDefault("REDIS_URL", ""),
		JWTSecret:        utils.EnvOrDefault("JWT_SECRET", ""),
		JWTTTL:           durationOrDefault("JWT_TTL", 12*time.Hour),
		CorsOrigins:      parseCorsOrigins(utils.EnvOrDefault("CORS_ORIGINS", "")),
		LogDir:           utils.EnvOrDefault("LOG_DIR", "logs"),
		LogLevel:         utils.EnvOrDefault("LOG_LEVEL", "info"),
		PendingExpiry:    durationOrDefault("PENDING_EXPIRY", 48*time.Hour),
		ExpirySchedule:   utils.EnvOrDefault("EXPIRY_SCHEDULE", "@every 15m"),
		StatsCacheTTL:    durationOrDefault("STATS_CACHE_TTL", 5*time.Minute),
		StatusRateLimit:  utils.EnvOrDefault("STATUS_RATE_LIMIT", "30-1m"),
		SeedDefaultAdmin: strings.EqualFold(utils.EnvOrDefault("SEED_DEFAULT_ADMIN", "true"), "true"),
	}
}
