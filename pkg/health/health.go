// Package health implements liveness and readiness probes. Checks run in
// background goroutines at a fixed interval and use consecutive-failure /
// consecutive-success thresholds so a single slow poll does not flap the
// probe state.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
)

// CheckFunc probes one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// GoroutineCountCheck reports unhealthy when the goroutine count exceeds
// threshold, which usually means a leak.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

const (
	failureThreshold = 3
	successThreshold = 1
)

// check holds one registered probe and its state. run is only ever called
// from the check's own goroutine; healthy and lastErr are the cross-goroutine
// surface read by the HTTP endpoints.
type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	fails int
	oks   int
}

func (c *check) run(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(checkCtx)
	c.lastErr.Store(&err)

	if err != nil {
		c.oks = 0
		if c.fails++; c.fails >= failureThreshold {
			c.healthy.Store(false)
		}
		return
	}
	c.fails = 0
	if c.oks++; c.oks >= successThreshold {
		c.healthy.Store(true)
	}
}

// Service manages the liveness and readiness checks of one process.
type Service struct {
	ready atomic.Bool

	mu        sync.Mutex
	liveness  []*check
	readiness []*check
	cancel    context.CancelFunc
}

// New creates a Service in the not-ready state. Call SetReady(true) once
// initialization is complete.
func New() *Service {
	return &Service{}
}

func newCheck(name string, timeout time.Duration, fn CheckFunc) *check {
	c := &check{name: name, timeout: timeout, fn: fn}
	c.healthy.Store(true) // assume healthy until proven otherwise
	return c
}

// AddLivenessCheck registers a probe that decides whether the process is
// alive at all (e.g. goroutine count).
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	s.liveness = append(s.liveness, newCheck(name, timeout, fn))
	s.mu.Unlock()
}

// AddReadinessCheck registers a probe that decides whether the service can
// take traffic (e.g. storage connectivity).
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	s.readiness = append(s.readiness, newCheck(name, timeout, fn))
	s.mu.Unlock()
}

// Start launches one goroutine per registered check, each polling at the
// given interval until Stop is called or ctx is cancelled.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	checks := append(append([]*check(nil), s.liveness...), s.readiness...)
	s.mu.Unlock()

	for _, c := range checks {
		go func(c *check) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			c.run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.run(ctx)
				}
			}
		}(c)
	}
}

// Stop cancels all check goroutines. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// SetReady flips the manual readiness gate. Graceful shutdown sets it to
// false before draining so load balancers stop sending traffic.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the /livez probe.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	checks := append([]*check(nil), s.liveness...)
	s.mu.Unlock()

	writeStatus(w, failures(checks))
}

// ReadyEndpoint serves the /readyz probe. It reports ready only when the
// manual gate is open and every readiness check passes.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	checks := append([]*check(nil), s.readiness...)
	s.mu.Unlock()

	fails := failures(checks)
	if !s.ready.Load() {
		fails["_readiness"] = "service is not ready"
	}
	writeStatus(w, fails)
}

func failures(checks []*check) map[string]string {
	fails := make(map[string]string)
	for _, c := range checks {
		if c.healthy.Load() {
			continue
		}
		if p := c.lastErr.Load(); p != nil && *p != nil {
			fails[c.name] = (*p).Error()
		} else {
			fails[c.name] = "check is unhealthy"
		}
	}
	return fails
}

func writeStatus(w http.ResponseWriter, fails map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	code := http.StatusOK
	if len(fails) > 0 {
		resp = statusResponse{Status: "unhealthy", Checks: fails}
		code = http.StatusServiceUnavailable
	}

	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
