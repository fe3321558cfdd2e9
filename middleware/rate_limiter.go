package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// ParseCustomRate accepts "<limit>-<n><s|m|h>", e.g. "30-1m" or "5-10s".
func ParseCustomRate(rateStr string) (limiter.Rate, error) {
	parts := strings.Split(strings.TrimSpace(rateStr), "-")
	if len(parts) != 2 {
		return limiter.Rate{}, fmt.Errorf("invalid rate format: %s", rateStr)
	}

	limit, err := strconv.Atoi(parts[0])
	if err != nil || limit <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid limit: %s", parts[0])
	}

	durationStr := parts[1]
	if len(durationStr) < 2 {
		return limiter.Rate{}, fmt.Errorf("invalid period: %s", durationStr)
	}
	n, err := strconv.Atoi(durationStr[:len(durationStr)-1])
	if err != nil || n <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid period: %s", durationStr)
	}

	var unit time.Duration
	switch durationStr[len(durationStr)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	default:
		return limiter.Rate{}, fmt.Errorf("unsupported period: %s", durationStr)
	}

	return limiter.Rate{Period: time.Duration(n) * unit, Limit: int64(limit)}, nil
}

func newStore(rdb *redis.Client, routeID string, period time.Duration) (limiter.Store, error) {
	prefix := fmt.Sprintf("rate_limiter:%s", routeID)
	if rdb == nil {
		return memorystore.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: period,
		}), nil
	}
	return redisstore.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix:   prefix,
		MaxRetry: 3,
	})
}

// rateKey limits per staff account, falling back to client IP.
func rateKey(c *gin.Context) string {
	if id := StaffID(c); id != nil {
		return "staff:" + strconv.FormatUint(uint64(*id), 10)
	}
	return "ip:" + c.ClientIP()
}

// NewRateLimiter limits a route group. Redis backs the counters when rdb is set
// so limits hold across instances; otherwise counters are in-process.
func NewRateLimiter(rateStr, routeID string, rdb *redis.Client, log *logrus.Logger) gin.HandlerFunc {
	rate, err := ParseCustomRate(rateStr)
	if err != nil {
		log.WithError(err).WithField("route", routeID).Warn("rate limiter disabled")
		return func(c *gin.Context) { c.Next() }
	}

	store, err := newStore(rdb, routeID, rate.Period)
	if err != nil {
		log.WithError(err).WithField("route", routeID).Warn("rate limiter disabled")
		return func(c *gin.Context) { c.Next() }
	}

	return ginmiddleware.NewMiddleware(limiter.New(store, rate), ginmiddleware.WithKeyGetter(rateKey))
}
