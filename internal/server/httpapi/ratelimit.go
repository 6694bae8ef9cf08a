package httpapi

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyedLimiter keeps one token bucket per key (client IP here).
type keyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newKeyedLimiter(perMinute, burst int) *keyedLimiter {
	return &keyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

func (kl *keyedLimiter) allow(key string) bool {
	kl.mu.Lock()
	limiter, ok := kl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(kl.limit, kl.burst)
		kl.limiters[key] = limiter
	}
	// Cap the map so a scan across many source addresses cannot grow it
	// without bound.
	if len(kl.limiters) > 10000 {
		kl.limiters = map[string]*rate.Limiter{key: limiter}
	}
	kl.mu.Unlock()

	return limiter.Allow()
}

// rateLimit bounds requests per client IP on the credential endpoints.
func rateLimit(kl *keyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !kl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
