package middleware

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/doodlesbykumbi/voterlist/pkg/config"
)

// idleAfter is how long a client limiter is kept without requests
const idleAfter = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP
type RateLimiter struct {
	cfg   *config.Config
	clock clockwork.Clock
	limit rate.Limit
	burst int

	mu          sync.Mutex
	clients     map[string]*clientLimiter
	lastCleanup time.Time
}

// NewRateLimiter creates a limiter allowing cfg.RateLimitRequests per
// cfg.RateLimitWindow with bursts of cfg.RateLimitBurst. A nil clock means
// the real clock.
func NewRateLimiter(cfg *config.Config, clock clockwork.Clock) *RateLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RateLimiter{
		cfg:         cfg,
		clock:       clock,
		limit:       rate.Limit(float64(cfg.RateLimitRequests) / cfg.RateLimitWindow.Seconds()),
		burst:       cfg.RateLimitBurst,
		clients:     make(map[string]*clientLimiter),
		lastCleanup: clock.Now(),
	}
}

// reserve takes a token for key, returning how long to wait if none is
// available
func (rl *RateLimiter) reserve(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	if now.Sub(rl.lastCleanup) >= idleAfter {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) >= idleAfter {
				delete(rl.clients, k)
			}
		}
		rl.lastCleanup = now
	}

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now

	res := c.limiter.ReserveN(now, 1)
	if !res.OK() {
		return rl.cfg.RateLimitWindow
	}
	delay := res.DelayFrom(now)
	if delay > 0 {
		// Don't actually consume the reservation
		res.CancelAt(now)
	}
	return delay
}

// Clients returns the number of tracked clients
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Middleware rejects requests over the limit with 429 and Retry-After
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delay := rl.reserve(ClientIP(r, rl.cfg))
		if delay <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		retryAfter := int(math.Max(1, math.Ceil(delay.Seconds())))
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"code":    "rate_limited",
				"message": "too many requests",
			},
		})
	})
}
