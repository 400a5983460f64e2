package middleware

import (
	"sync"
	"time"

	"medical-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// idleClientTTL is how long a client's limiter survives without requests.
const idleClientTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterStore struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
	lastGC  time.Time
}

func (s *limiterStore) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastGC) > idleClientTTL {
		for k, cl := range s.clients {
			if now.Sub(cl.lastSeen) > idleClientTTL {
				delete(s.clients, k)
			}
		}
		s.lastGC = now
	}

	cl, ok := s.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// RateLimit limits requests per client IP. If rps <= 0, rate limiting is disabled.
func RateLimit(rps float64, burst int, logger zerolog.Logger) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	store := &limiterStore{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(rps),
		burst:   burst,
		lastGC:  time.Now(),
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.get(ip, time.Now()).Allow() {
			logger.Warn().
				Str("request_id", GetRequestID(c)).
				Str("remote_ip", ip).
				Msg("rate limit exceeded")
			c.Header("Retry-After", "1")
			utils.TooManyRequests(c, "Too many requests. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}
