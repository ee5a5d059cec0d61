package fetch

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// AccessGate composes the AccessPolicy with the RateLimiter: every request
// must pass the policy check and then wait for a politeness grant. The gate
// also owns the global in-flight semaphore capping concurrent requests.
type AccessGate struct {
	policy   AccessPolicy
	limiter  *RateLimiter
	inflight *semaphore.Weighted
	log      *logrus.Entry
}

// NewAccessGate creates an AccessGate.
func NewAccessGate(policy AccessPolicy, limiter *RateLimiter, maxInFlight int, log *logrus.Entry) *AccessGate {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	return &AccessGate{
		policy:   policy,
		limiter:  limiter,
		inflight: semaphore.NewWeighted(int64(maxInFlight)),
		log:      log,
	}
}

// MayFetch reports whether the URL may be requested. A policy denial
// returns false immediately without consuming a rate-limiter grant; the
// politeness delay is only spent on requests actually issued.
func (g *AccessGate) MayFetch(rawURL string) bool {
	if !g.policy.Allowed(rawURL) {
		g.log.WithField("url", rawURL).Warn("URL disallowed by access policy")
		return false
	}
	g.limiter.Acquire()
	return true
}

// AcquireSlot reserves one global in-flight request slot.
func (g *AccessGate) AcquireSlot(ctx context.Context) error {
	return g.inflight.Acquire(ctx, 1)
}

// ReleaseSlot returns a slot reserved with AcquireSlot.
func (g *AccessGate) ReleaseSlot() {
	g.inflight.Release(1)
}
