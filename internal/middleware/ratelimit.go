package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/herspace-backend/internal/handler"
	"github.com/shinyyama/herspace-backend/internal/reqctx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterExpiry = time.Hour

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per session. Idle buckets are dropped
// by a background sweep until Stop is called.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	log     *zap.Logger
	stop    chan struct{}
	now     func() time.Time
}

func NewRateLimiter(perSecond float64, burst int, log *zap.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		log:     log,
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	go rl.cleanupLoop(5 * time.Minute)
	return rl
}

// Allow takes one token from key's bucket.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = rl.now()
	return b.limiter.Allow()
}

func (rl *RateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := reqctx.SessionID(c.Request().Context())
		if key == "" {
			key = c.RealIP()
		}
		if !rl.Allow(key) {
			rl.log.Warn("rate limit exceeded", zap.String("key", key), zap.String("path", c.Path()))
			return c.JSON(http.StatusTooManyRequests, handler.NewErrorResponse("rate_limited", "too many requests"))
		}
		return next(c)
	}
}

func (rl *RateLimiter) cleanupLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	removed := 0
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > limiterExpiry {
			delete(rl.buckets, key)
			removed++
		}
	}
	if removed > 0 {
		rl.log.Debug("rate limiter sweep", zap.Int("removed", removed), zap.Int("remaining", len(rl.buckets)))
	}
	return removed
}

func (rl *RateLimiter) Stop() {
	close(rl.stop)
}
