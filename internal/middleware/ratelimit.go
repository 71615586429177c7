// Package middleware provides HTTP middleware for the canvas server.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// maxBuckets is the maximum number of tracked keys to prevent memory exhaustion.
const maxBuckets = 100_000

// KeyFunc extracts the rate-limit key from a request. An empty key bypasses
// the limiter.
type KeyFunc func(c *gin.Context) string

// ByClientIP keys buckets on the client address.
//
// c.ClientIP() is safe from X-Forwarded-For spoofing because
// SetTrustedProxies(nil) in the router disables proxy header trust.
func ByClientIP(c *gin.Context) string { return c.ClientIP() }

// BySession keys buckets on the :id path parameter, so one busy session
// cannot exhaust another's allowance.
func BySession(c *gin.Context) string { return c.Param("id") }

// RateLimiter implements a token bucket rate limiter per key.
type RateLimiter struct {
	buckets map[string]*bucket
	mu      sync.Mutex
	rate    float64
	burst   float64
	now     func() time.Time
}

type bucket struct {
	tokens   float64
	lastFill time.Time
}

// NewRateLimiter creates a RateLimiter with the given requests per second and burst size.
// It starts a background goroutine to evict stale buckets, which stops when ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst float64) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    ratePerSec,
		burst:   burst,
		now:     time.Now,
	}
	go rl.startCleanup(ctx)

	return rl
}

// startCleanup periodically evicts stale rate-limit buckets.
func (rl *RateLimiter) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	const maxAge = 10 * time.Minute

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, b := range rl.buckets {
				if now.Sub(b.lastFill) > maxAge {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Allow takes one token from key's bucket. The second result is false when
// the bucket table is full and key is new.
func (rl *RateLimiter) Allow(key string) (allowed, tracked bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	b, ok := rl.buckets[key]
	if !ok {
		if len(rl.buckets) >= maxBuckets {
			return false, false
		}

		b = &bucket{tokens: rl.burst, lastFill: now}
		rl.buckets[key] = b
	}

	b.tokens = min(rl.burst, b.tokens+now.Sub(b.lastFill).Seconds()*rl.rate)
	b.lastFill = now

	if b.tokens < 1 {
		return false, true
	}

	b.tokens--

	return true, true
}

// Handler returns Gin middleware that applies rate limiting per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return rl.KeyedHandler(ByClientIP, "rate limit exceeded")
}

// KeyedHandler returns Gin middleware that limits requests sharing a key,
// answering 429 with message once the bucket is empty.
func (rl *RateLimiter) KeyedHandler(key KeyFunc, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)
		if k == "" {
			c.Next()

			return
		}

		allowed, tracked := rl.Allow(k)
		if !tracked {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "too many clients")

			return
		}

		if !allowed {
			c.Header("Retry-After", "1")
			respondError(c, http.StatusTooManyRequests, "rate_limited", message)

			return
		}

		c.Next()
	}
}
