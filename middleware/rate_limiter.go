// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type RateLimiter struct {
	ips            map[string]*rate.Limiter
	mu             *sync.RWMutex
	defaultLimit   rate.Limit
	defaultBurst   int
	endpointLimits map[string]struct {
		limit rate.Limit
		burst int
	}
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:          make(map[string]*rate.Limiter),
		mu:           &sync.RWMutex{},
		defaultLimit: rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst: 20,
		endpointLimits: make(map[string]struct {
			limit rate.Limit
			burst int
		}),
	}

	// The bonus triggers kick off full batch passes; keep them slow.
	for _, path := range []string{
		"/api/admin/bonus/matching",
		"/api/admin/bonus/direct-sales",
		"/api/admin/bonus/infinity",
		"/api/admin/bonus/daily",
		"/api/admin/bonus/fortnightly",
	} {
		limiter.endpointLimits[path] = struct {
			limit rate.Limit
			burst int
		}{
			limit: rate.Every(10 * time.Second),
			burst: 2,
		}
	}

	return limiter
}

func (rl *RateLimiter) getLimiter(ip, path string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := ip + path
	if limiter, exists := rl.ips[key]; exists {
		return limiter
	}

	limit := rl.defaultLimit
	burst := rl.defaultBurst
	if endpointLimit, ok := rl.endpointLimits[path]; ok {
		limit = endpointLimit.limit
		burst = endpointLimit.burst
	}

	limiter := rate.NewLimiter(limit, burst)
	rl.ips[key] = limiter
	return limiter
}

// RateLimit returns the per-IP rate limiting middleware
func (rl *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			path := c.Request().URL.Path

			if !rl.getLimiter(ip, path).Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
			}
			return next(c)
		}
	}
}
