package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdle = 10 * time.Minute

// RateLimiter hands out one token bucket per key (client IP).
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewRateLimiter allows rps requests per second per key with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// NewPerHourLimiter allows n requests per hour per key, all of which may be
// spent at once.
func NewPerHourLimiter(n int) *RateLimiter {
	return NewRateLimiter(float64(n)/3600, n)
}

func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	e, ok := r.entries[key]
	if !ok {
		if len(r.entries) > 10000 {
			r.sweep(now)
		}
		e = &limiterEntry{lim: rate.NewLimiter(r.limit, r.burst)}
		r.entries[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

// sweep drops buckets idle for longer than limiterIdle. Caller holds mu.
func (r *RateLimiter) sweep(now time.Time) {
	for k, e := range r.entries {
		if now.Sub(e.seen) > limiterIdle {
			delete(r.entries, k)
		}
	}
}

// retryAfter is the whole number of seconds until one token is available.
func (r *RateLimiter) retryAfter() int {
	if r.limit <= 0 {
		return 60
	}
	s := int(time.Duration(float64(time.Second)/float64(r.limit)).Seconds() + 0.999)
	if s < 1 {
		s = 1
	}
	return s
}

// RateLimit returns a middleware that limits by client IP.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(limiter.retryAfter()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
