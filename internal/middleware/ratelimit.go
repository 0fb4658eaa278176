package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds one limiter per client IP.
type rateLimiterStore struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	perMin   int
	idleTTL  time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	if perMin <= 0 {
		perMin = 120
	}
	return &rateLimiterStore{
		limiters: make(map[string]*limiterEntry),
		perMin:   perMin,
		idleTTL:  10 * time.Minute,
	}
}

func (s *rateLimiterStore) getLimiter(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.limiters[ip]
	if !exists {
		burst := s.perMin / 4
		if burst < 1 {
			burst = 1
		}
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), burst)}
		s.limiters[ip] = e
	}
	e.lastSeen = now

	// drop idle clients once the map grows
	if len(s.limiters) > 10000 {
		for k, v := range s.limiters {
			if now.Sub(v.lastSeen) > s.idleTTL {
				delete(s.limiters, k)
			}
		}
	}
	return e.limiter
}

// RateLimitMiddleware limits requests per client IP to perMin per minute.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	store := newRateLimiterStore(perMin)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip, time.Now()).Allow() {
			zap.L().Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error_code": "rate_limited",
				"message":    "Too many requests.",
			})
			return
		}
		c.Next()
	}
}
