package http

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CodeRateLimited is returned when a client exceeds its AI request budget.
const CodeRateLimited = "rate_limited"

// RateLimiter caps requests per client IP within a fixed window. Expired
// windows are pruned lazily on the next call.
type RateLimiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	maxRequests int
	period      time.Duration
	lastPrune   time.Time
	now         func() time.Time
}

type window struct {
	start time.Time
	count int
}

// NewRateLimiter allows maxRequests per client within each period.
func NewRateLimiter(maxRequests int, period time.Duration) *RateLimiter {
	if period <= 0 {
		period = time.Minute
	}
	return &RateLimiter{
		windows:     make(map[string]*window),
		maxRequests: maxRequests,
		period:      period,
		now:         time.Now,
	}
}

// Allow counts one request from key. When the budget is spent it returns
// false and the wait until the window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastPrune) > rl.period {
		for k, w := range rl.windows {
			if now.Sub(w.start) >= rl.period {
				delete(rl.windows, k)
			}
		}
		rl.lastPrune = now
	}

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[key] = w
	}
	if w.count >= rl.maxRequests {
		return false, w.start.Add(rl.period).Sub(now)
	}
	w.count++
	return true, 0
}

// Middleware rejects requests over budget with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.Allow(c.ClientIP())
		if !allowed {
			seconds := int(retryAfter.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: fmt.Sprintf("too many AI requests, retry in %ds", seconds),
				Code:  CodeRateLimited,
			})
			return
		}
		c.Next()
	}
}
