package httpmiddleware

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig configures the sliding window rate limiter.
type RateLimitConfig struct {
	// Max is the number of requests allowed per window.
	Max int
	// Window is the sliding window duration.
	Window time.Duration
	// KeyFunc extracts the rate limit key from a request. Defaults to the
	// client IP (X-Forwarded-For, then X-Real-IP, then RemoteAddr).
	KeyFunc func(*http.Request) string
}

// window tracks request counts in two adjacent windows; the previous
// window's count is weighted by its overlap with the sliding window.
type window struct {
	prevCount float64
	prevStart time.Time
	currCount float64
	currStart time.Time
}

type rateLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	entries map[string]*window
}

func (rl *rateLimiter) allow(key string, now time.Time) (remaining int, resetAt time.Time, allowed bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.entries[key]
	if !ok {
		e = &window{currStart: now}
		rl.entries[key] = e
	}

	if now.Sub(e.currStart) >= rl.cfg.Window {
		e.prevCount, e.prevStart = e.currCount, e.currStart
		e.currCount, e.currStart = 0, now.Truncate(rl.cfg.Window)
		if now.Sub(e.prevStart) >= 2*rl.cfg.Window {
			e.prevCount = 0
		}
	}

	overlap := 1.0 - now.Sub(e.currStart).Seconds()/rl.cfg.Window.Seconds()
	if overlap < 0 {
		overlap = 0
	}
	effective := e.prevCount*overlap + e.currCount
	resetAt = e.currStart.Add(rl.cfg.Window)

	if effective >= float64(rl.cfg.Max) {
		return 0, resetAt, false
	}

	e.currCount++
	remaining = int(float64(rl.cfg.Max) - effective - 1)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetAt, true
}

// RateLimit enforces a per-client sliding window limit. Rejected requests
// get a 429 with a JSON body; every response carries X-RateLimit-* headers.
// A background goroutine evicts idle entries until ctx is cancelled.
func RateLimit(ctx context.Context, cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	rl := &rateLimiter{cfg: cfg, entries: make(map[string]*window)}

	go func() {
		ticker := time.NewTicker(2 * cfg.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.mu.Lock()
				for key, e := range rl.entries {
					if now.Sub(e.currStart) >= 2*cfg.Window {
						delete(rl.entries, key)
					}
				}
				rl.mu.Unlock()
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, resetAt, allowed := rl.allow(cfg.KeyFunc(r), time.Now())

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !allowed {
				retryAfter := math.Ceil(time.Until(resetAt).Seconds())
				if retryAfter < 0 {
					retryAfter = 0
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"code":    429,
					"message": "rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
