package background

import (
	"context"
	"log/slog"
	"time"
)

// ThrottlePruner removes stale throttle state and reports how many entries
// were dropped.
type ThrottlePruner interface {
	Prune() int
}

// ThrottleJanitor periodically prunes expired IP blocks and stale failure
// history so the in-memory throttle maps cannot grow without bound.
type ThrottleJanitor struct {
	throttle ThrottlePruner
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewThrottleJanitor creates a new throttle janitor
func NewThrottleJanitor(throttle ThrottlePruner, logger *slog.Logger, interval time.Duration) *ThrottleJanitor {
	return &ThrottleJanitor{
		throttle: throttle,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic prune task
func (tj *ThrottleJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(tj.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tj.runPrune()
		case <-tj.stopCh:
			tj.logger.Info("throttle janitor stopped")
			return
		case <-ctx.Done():
			tj.logger.Info("throttle janitor context cancelled")
			return
		}
	}
}

func (tj *ThrottleJanitor) runPrune() {
	removed := tj.throttle.Prune()
	if removed > 0 {
		tj.logger.Info("throttle state pruned", slog.Int("entries_removed", removed))
	}
}

// Stop signals the janitor to stop
func (tj *ThrottleJanitor) Stop() {
	close(tj.stopCh)
}
