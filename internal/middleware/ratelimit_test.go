package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newLimitedRouter(limiter *IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(limiter))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func doRequest(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitBurst(t *testing.T) {
	r := newLimitedRouter(NewIPRateLimiter(rate.Limit(1), 3))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.1"))
}

func TestRateLimitPerIP(t *testing.T) {
	r := newLimitedRouter(NewIPRateLimiter(rate.Limit(1), 1))

	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.2"))
}

func TestGetLimiterReusesBucket(t *testing.T) {
	rl := NewIPRateLimiter(rate.Limit(1), 5)

	first := rl.GetLimiter("10.0.0.1")
	second := rl.GetLimiter("10.0.0.1")
	assert.Same(t, first, second)
	assert.NotSame(t, first, rl.GetLimiter("10.0.0.2"))
}
