package services

import (
	"log/slog"
	"sync"
	"time"
)

// ThrottleConfig holds the login throttling parameters.
type ThrottleConfig struct {
	MaxFailures   int
	Window        time.Duration
	BlockDuration time.Duration
}

// LoginThrottle is the process-local failed-attempt ledger. Each client IP is
// either open or blocked until some instant; an IP accumulating MaxFailures
// failed logins within the rolling window is blocked for BlockDuration from
// its most recent failure.
//
// The ledger is advisory: it lives in memory, is lost on restart, and is
// private to each worker process. Stale entries are pruned lazily on access
// and wholesale by the background janitor.
type LoginThrottle struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	blocked  map[string]time.Time
	config   ThrottleConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewLoginThrottle(config ThrottleConfig, logger *slog.Logger) *LoginThrottle {
	return &LoginThrottle{
		failures: make(map[string][]time.Time),
		blocked:  make(map[string]time.Time),
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// IsBlocked reports whether the IP is currently blocked. An expired block is
// removed and the IP proceeds normally; no failure is recorded either way.
func (t *LoginThrottle) IsBlocked(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	until, ok := t.blocked[ip]
	if !ok {
		return false
	}
	if t.now().Before(until) {
		return true
	}

	delete(t.blocked, ip)
	return false
}

// RecordFailure notes a failed credential check for the IP and reports
// whether this failure tripped the block, so the caller can emit a stronger
// warning on the transition.
func (t *LoginThrottle) RecordFailure(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	recent := pruneOlderThan(t.failures[ip], now.Add(-t.config.Window))
	recent = append(recent, now)
	t.failures[ip] = recent

	if len(recent) >= t.config.MaxFailures {
		t.blocked[ip] = now.Add(t.config.BlockDuration)
		t.logger.Warn("ip blocked after repeated failed logins",
			slog.String("ip_address", ip),
			slog.Int("failures", len(recent)),
			slog.Duration("block_duration", t.config.BlockDuration))
		return true
	}

	return false
}

// RecordSuccess clears the IP's failure history entirely, so a later single
// failure does not immediately re-block.
func (t *LoginThrottle) RecordSuccess(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.failures, ip)
}

// Prune drops expired blocks and failure timestamps that have aged out of the
// window. Called periodically so long-idle IPs do not accumulate forever.
func (t *LoginThrottle) Prune() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0

	for ip, until := range t.blocked {
		if !now.Before(until) {
			delete(t.blocked, ip)
			removed++
		}
	}

	cutoff := now.Add(-t.config.Window)
	for ip, stamps := range t.failures {
		recent := pruneOlderThan(stamps, cutoff)
		if len(recent) == 0 {
			delete(t.failures, ip)
			removed++
			continue
		}
		t.failures[ip] = recent
	}

	return removed
}

func pruneOlderThan(stamps []time.Time, cutoff time.Time) []time.Time {
	recent := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	return recent
}
