package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomRate(t *testing.T) {
	tests := []struct {
		in     string
		limit  int64
		period time.Duration
		ok     bool
	}{
		{"30-1m", 30, time.Minute, true},
		{"5-10s", 5, 10 * time.Second, true},
		{" 100-2h ", 100, 2 * time.Hour, true},
		{"30", 0, 0, false},
		{"x-1m", 0, 0, false},
		{"0-1m", 0, 0, false},
		{"10-m", 0, 0, false},
		{"10-1d", 0, 0, false},
	}
	for _, tt := range tests {
		rate, err := ParseCustomRate(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.limit, rate.Limit, tt.in)
		assert.Equal(t, tt.period, rate.Period, tt.in)
	}
}

func TestRateLimiterMemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()

	r := gin.New()
	r.GET("/ping", NewRateLimiter("2-1m", "ping", nil, log), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "other clients keep their own budget")
}

func TestRateLimiterBadRateIsPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()

	r := gin.New()
	r.GET("/ping", NewRateLimiter("nonsense", "ping", nil, log), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "rate limiter disabled", hook.LastEntry().Message)
}
