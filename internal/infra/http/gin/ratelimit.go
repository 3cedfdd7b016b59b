package ginserver

import (
	"net/http"
	"sync"
	"time"

	gin "github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipRateLimiter hands out one token-bucket limiter per client IP. Entries are
// evicted after being idle for the eviction window so the map does not grow
// unbounded under scanning traffic.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiterEntry
	limit    rate.Limit
	burst    int
	evictAge time.Duration
	lastScan time.Time
}

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPRateLimiter(perHour, burst int) *ipRateLimiter {
	if perHour <= 0 {
		perHour = 5
	}
	if burst <= 0 {
		burst = perHour
	}
	return &ipRateLimiter{
		limiters: make(map[string]*ipLimiterEntry),
		limit:    rate.Limit(float64(perHour) / time.Hour.Seconds()),
		burst:    burst,
		evictAge: 2 * time.Hour,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	l.evictStale(now)
	return entry.limiter.Allow()
}

func (l *ipRateLimiter) evictStale(now time.Time) {
	if now.Sub(l.lastScan) < l.evictAge {
		return
	}
	l.lastScan = now
	for ip, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.evictAge {
			delete(l.limiters, ip)
		}
	}
}

// NewPreviewLimiter throttles itinerary generation per client IP. Each IP
// gets perHour requests per hour with the given burst; exceeding it yields
// 429 without invoking the handler.
func NewPreviewLimiter(perHour, burst int) gin.HandlerFunc {
	limiter := newIPRateLimiter(perHour, burst)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Try again later.",
			})
			return
		}
		c.Next()
	}
}
