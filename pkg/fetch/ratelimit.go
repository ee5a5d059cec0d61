package fetch

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RateLimiter enforces a minimum wall-clock gap between any two outbound
// requests, shared process-wide. Grants are strictly serialized: the mutex
// is held across the sleep-then-stamp section, so racing callers cannot
// observe gaps shorter than the configured delay.
type RateLimiter struct {
	mu       sync.Mutex
	last     time.Time     // time of the previous grant; zero before the first
	minDelay time.Duration
	log      *logrus.Logger
}

// NewRateLimiter creates a RateLimiter with the given minimum gap.
func NewRateLimiter(minDelay time.Duration, log *logrus.Logger) *RateLimiter {
	return &RateLimiter{minDelay: minDelay, log: log}
}

// Acquire blocks the calling worker until at least minDelay has elapsed
// since the last grant to any worker, records the new grant time, and
// returns. Safe for concurrent use; cannot fail, only delay.
func (rl *RateLimiter) Acquire() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.minDelay <= 0 {
		rl.last = time.Now()
		return
	}

	if !rl.last.IsZero() {
		elapsed := time.Since(rl.last)
		if elapsed < rl.minDelay {
			sleep := rl.minDelay - elapsed
			rl.log.WithFields(logrus.Fields{"sleep": sleep, "required_delay": rl.minDelay, "elapsed": elapsed}).
				Debug("Rate limit applying sleep")
			time.Sleep(sleep)
		}
	}
	rl.last = time.Now()
}
