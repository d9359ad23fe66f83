package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/erensevin/recipe-api/config"
	"github.com/erensevin/recipe-api/models"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet holds one token bucket per identity.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
}

func (s *limiterSet) get(identity string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.limiters[identity]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[identity] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// evict drops identities not seen since cutoff.
func (s *limiterSet) evict(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(s.limiters, id)
		}
	}
}

func (s *limiterSet) evictLoop(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.evict(now.Add(-idle))
		}
	}
}

// RateLimit returns per-identity token-bucket rate limiting middleware. The
// identity is the authenticated username when Auth ran first, otherwise
// the client IP. Identities idle for an hour are evicted every 5 minutes
// until ctx is done.
func RateLimit(ctx context.Context, cfg config.RateLimitConfig) gin.HandlerFunc {
	set := &limiterSet{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
	}

	go set.evictLoop(ctx, 5*time.Minute, time.Hour)

	return func(c *gin.Context) {
		identity := c.GetString(AuthUserKey)
		if identity == "" {
			identity = c.ClientIP()
		}

		if !set.get(identity, time.Now()).Allow() {
			rateLimitRejects.Inc()
			_ = c.Error(models.NewScrapeError(models.ErrCodeRateLimited, "rate limit exceeded for "+identity, nil))
			c.Header("Retry-After", strconv.Itoa(1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.DetailResponse{
				Detail: "Rate limit exceeded, please slow down",
			})
			return
		}

		c.Next()
	}
}
