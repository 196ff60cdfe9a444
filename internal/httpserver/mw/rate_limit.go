package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/utils"
)

// RateLimitConfig configures a token bucket per client IP.
type RateLimitConfig struct {
	Burst             int
	RefillPerIPPerMin int
	MaxEntries        int           // tracked IPs before an early sweep, 0 = unbounded
	SweepInterval     time.Duration // defaults to 1m
	IdleTTL           time.Duration // defaults to 15m
	TrustProxy        bool          // resolve IP from proxy headers when true
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	c.Burst = max(c.Burst, 1)
	c.RefillPerIPPerMin = max(c.RefillPerIPPerMin, 1)
	return c
}

// client is guarded by the limiter mutex.
type client struct {
	lim  *rate.Limiter
	seen time.Time
}

type limiter struct {
	cfg       RateLimitConfig
	every     rate.Limit
	now       func() time.Time
	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	cfg = cfg.withDefaults()
	return &limiter{
		cfg:       cfg,
		every:     rate.Limit(float64(cfg.RefillPerIPPerMin) / 60),
		now:       time.Now,
		clients:   make(map[string]*client),
		lastSweep: time.Now(),
	}
}

// allow takes one token for key. It returns the tokens left, or when
// refused, the whole seconds until the next token.
func (l *limiter) allow(key string, now time.Time) (ok bool, left int, wait int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	full := l.cfg.MaxEntries > 0 && len(l.clients) >= l.cfg.MaxEntries
	if full || now.Sub(l.lastSweep) >= l.cfg.SweepInterval {
		l.sweep(now)
	}

	c, found := l.clients[key]
	if !found {
		c = &client{lim: rate.NewLimiter(l.every, l.cfg.Burst)}
		l.clients[key] = c
	}
	c.seen = now

	if c.lim.AllowN(now, 1) {
		return true, int(c.lim.TokensAt(now)), 0
	}

	r := c.lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return false, 0, max(int(math.Ceil(delay.Seconds())), 1)
}

// sweep forgets clients idle for longer than IdleTTL. Caller holds mu.
func (l *limiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.seen) > l.cfg.IdleTTL {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// RateLimit rejects clients that drained their bucket with 429 and a
// Retry-After header.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return newLimiter(cfg).middleware
}

func (l *limiter) middleware(next http.Handler) http.Handler {
	limit := strconv.Itoa(l.cfg.Burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, left, wait := l.allow(utils.ClientIP(r, l.cfg.TrustProxy), l.now())

		h := w.Header()
		h.Set("X-RateLimit-Limit", limit)
		h.Set("X-RateLimit-Remaining", strconv.Itoa(left))
		if !ok {
			metrics.RateLimitedTotal.Inc()
			h.Set("Retry-After", strconv.Itoa(wait))
			writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}
