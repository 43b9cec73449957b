// Package health runs dependency checks, once or on an interval.
//
// Checks use failure/success thresholds when run repeatedly: a check must
// fail failureThreshold times in a row before it is reported unhealthy, and
// succeed successThreshold times in a row to recover. A single Run with the
// default thresholds of 1 reports every failure immediately.
package health

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// CheckFunc is a health check function. It should return nil if the checked
// component is healthy, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// checkConfig holds the configuration and runtime state for a single check.
//
// run() is never called concurrently for the same check: Run waits for every
// check before returning and Watch calls Run sequentially. The counters are
// only touched by run(); healthy and lastErr are read by Status from any
// goroutine.
type checkConfig struct {
	name             string
	timeout          time.Duration
	check            CheckFunc
	failureThreshold int
	successThreshold int

	healthy  atomic.Bool
	lastErr  atomic.Pointer[error]
	lastTook atomic.Int64

	consecutiveFails int
	consecutiveOK    int
}

// run executes the check once and updates thresholds accordingly.
func (c *checkConfig) run(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := c.check(checkCtx)
	c.lastTook.Store(int64(time.Since(start)))
	c.lastErr.Store(&err)

	if err != nil {
		c.consecutiveOK = 0
		c.consecutiveFails++
		if c.consecutiveFails >= c.failureThreshold {
			c.healthy.Store(false)
		}
	} else {
		c.consecutiveFails = 0
		c.consecutiveOK++
		if c.consecutiveOK >= c.successThreshold {
			c.healthy.Store(true)
		}
	}
}

func (c *checkConfig) result() Result {
	r := Result{
		Name:     c.name,
		Healthy:  c.healthy.Load(),
		Duration: time.Duration(c.lastTook.Load()),
	}
	if p := c.lastErr.Load(); p != nil {
		r.Err = *p
	}
	return r
}

// Result is the state of one check.
type Result struct {
	Name     string
	Healthy  bool
	Err      error
	Duration time.Duration
}

// Report is the state of every check, sorted by name.
type Report struct {
	Results []Result
}

// OK reports whether every check is healthy.
func (r Report) OK() bool {
	for _, res := range r.Results {
		if !res.Healthy {
			return false
		}
	}
	return true
}

// Failures maps the name of every unhealthy check to its last error.
func (r Report) Failures() map[string]string {
	failures := make(map[string]string)
	for _, res := range r.Results {
		if res.Healthy {
			continue
		}
		if res.Err != nil {
			failures[res.Name] = res.Err.Error()
		} else {
			failures[res.Name] = "check is unhealthy"
		}
	}
	return failures
}

// Option configures a Health.
type Option func(*Health)

// WithThresholds sets the consecutive failure and success counts needed to
// flip a check's state. Values below 1 are treated as 1.
func WithThresholds(failure, success int) Option {
	return func(h *Health) {
		h.failureThreshold = max(failure, 1)
		h.successThreshold = max(success, 1)
	}
}

// Health manages a set of dependency checks.
type Health struct {
	failureThreshold int
	successThreshold int

	mu     sync.Mutex
	checks []*checkConfig
	runMu  sync.Mutex
}

// New creates a Health with no checks.
func New(opts ...Option) *Health {
	h := &Health{failureThreshold: 1, successThreshold: 1}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Add registers a check. Checks start healthy until they run.
func (h *Health) Add(name string, timeout time.Duration, check CheckFunc) {
	c := &checkConfig{
		name:             name,
		timeout:          timeout,
		check:            check,
		failureThreshold: h.failureThreshold,
		successThreshold: h.successThreshold,
	}
	c.healthy.Store(true)

	h.mu.Lock()
	h.checks = append(h.checks, c)
	h.mu.Unlock()
}

func (h *Health) snapshot() []*checkConfig {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*checkConfig(nil), h.checks...)
}

// Run executes every check concurrently, waits for all of them and returns
// the resulting report. A failing check does not cancel the others.
func (h *Health) Run(ctx context.Context) Report {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	var g errgroup.Group
	for _, c := range h.snapshot() {
		g.Go(func() error {
			c.run(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return h.Status()
}

// Watch calls Run immediately and then every interval until ctx is done,
// passing each report to fn.
func (h *Health) Watch(ctx context.Context, interval time.Duration, fn func(Report)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn(h.Run(ctx))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(h.Run(ctx))
		}
	}
}

// Status returns the current state without running any check.
func (h *Health) Status() Report {
	checks := h.snapshot()
	r := Report{Results: make([]Result, len(checks))}
	for i, c := range checks {
		r.Results[i] = c.result()
	}
	sort.Slice(r.Results, func(i, j int) bool { return r.Results[i].Name < r.Results[j].Name })
	return r
}
