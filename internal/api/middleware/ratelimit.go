package middleware

import (
	"net/http"
	"sync"
	"time"

	"resumatch/internal/config"
	"resumatch/pkg/models"
	"resumatch/pkg/utils"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// clientLimiter tracks the token bucket for a single client address
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client rate limit to the analyze and enhance
// endpoints. Idle client buckets are dropped periodically.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
	stop    chan struct{}
}

// NewRateLimiter creates a rate limiter from the worker rate limit
// configured in requests per minute
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(float64(cfg.Workers.RateLimit) / 60.0),
		burst:   5,
		stop:    make(chan struct{}),
	}

	go rl.cleanupRoutine()

	return rl
}

// Middleware returns the echo middleware enforcing the limit
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:     "rate_limited",
					Message:   "Too many requests, slow down",
					RequestID: utils.GenerateRequestID(),
					Timestamp: time.Now(),
				})
			}
			return next(c)
		}
	}
}

// Stop terminates the cleanup routine
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

func (rl *RateLimiter) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, exists := rl.clients[client]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[client] = cl
	}
	cl.lastSeen = time.Now()

	return cl.limiter.Allow()
}

func (rl *RateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			rl.mu.Lock()
			for client, cl := range rl.clients {
				if cl.lastSeen.Before(cutoff) {
					delete(rl.clients, client)
				}
			}
			rl.mu.Unlock()
		}
	}
}
