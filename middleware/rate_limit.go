package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/docchat/docchat-be/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter applies a token-bucket limit per client IP: allow requests in
// any sliding window of per. Buckets for idle clients are evicted lazily.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	limit   rate.Limit
	burst   int
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(allow int, per time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Every(per / time.Duration(allow)),
		burst:   allow,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.DataResponse{
				Status:  false,
				Message: "Too many requests",
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, ok := rl.clients[key]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = bucket
	}
	bucket.lastSeen = now

	if len(rl.clients) > 1024 {
		for k, b := range rl.clients {
			if now.Sub(b.lastSeen) > time.Hour {
				delete(rl.clients, k)
			}
		}
	}
	return bucket.limiter.Allow()
}
