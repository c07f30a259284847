package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/99minutos/posts-api/internal/api/metrics"
)

// Limiter decides whether one more request for key fits in the budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects clients, keyed by real IP, that exceed limiter's budget
// with 429. A limiter error lets the request through: an unavailable counter
// store must not take the API down with it.
func RateLimit(limiter Limiter, limit int, log zerolog.Logger) echo.MiddlewareFunc {
	limitHeader := strconv.Itoa(limit)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			ok, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("client", key).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			c.Response().Header().Set("X-RateLimit-Limit", limitHeader)
			if !ok {
				metrics.RateLimitRejectedTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

// MemoryLimiter is a per-process token bucket per key, used when no Redis
// is configured. Buckets idle for more than two windows are evicted.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idle    time.Duration
	swept   time.Time
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter allows limit requests per window with a burst of limit.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(float64(limit) / window.Seconds()),
		burst:   limit,
		idle:    2 * window,
		now:     time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.swept) > m.idle {
		for k, b := range m.buckets {
			if now.Sub(b.lastSeen) > m.idle {
				delete(m.buckets, k)
			}
		}
		m.swept = now
	}

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}
