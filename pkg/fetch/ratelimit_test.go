package fetch

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestRateLimiter_FirstAcquireIsInstant(t *testing.T) {
	rl := NewRateLimiter(5*time.Second, newTestLogger())

	start := time.Now()
	rl.Acquire()
	elapsed := time.Since(start)

	if elapsed > 50*time.Millisecond {
		t.Errorf("first Acquire took %v, expected instant return", elapsed)
	}
}

func TestRateLimiter_EnforcesMinimumGap(t *testing.T) {
	const minDelay = 100 * time.Millisecond
	rl := NewRateLimiter(minDelay, newTestLogger())

	rl.Acquire()
	start := time.Now()
	rl.Acquire()
	elapsed := time.Since(start)

	if elapsed < minDelay-10*time.Millisecond {
		t.Errorf("second Acquire returned after %v, expected >= %v", elapsed, minDelay)
	}
	if elapsed > 300*time.Millisecond {
		t.Errorf("second Acquire took too long: %v, expected ~%v", elapsed, minDelay)
	}
}

// Racing workers must still observe the global minimum gap between any
// two consecutive grants.
func TestRateLimiter_ConcurrentGrantsKeepGap(t *testing.T) {
	const (
		minDelay = 20 * time.Millisecond
		workers  = 4
		grants   = 2 // per worker
	)
	rl := NewRateLimiter(minDelay, newTestLogger())

	var (
		mu    sync.Mutex
		times []time.Time
		wg    sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < grants; j++ {
				rl.Acquire()
				mu.Lock()
				times = append(times, time.Now())
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(times) != workers*grants {
		t.Fatalf("expected %d grants, got %d", workers*grants, len(times))
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		// 5ms slack for the gap between stamping and recording.
		if gap < minDelay-5*time.Millisecond {
			t.Errorf("grants %d and %d only %v apart, want >= %v", i-1, i, gap, minDelay)
		}
	}
}

func TestRateLimiter_ZeroDelayNeverSleeps(t *testing.T) {
	rl := NewRateLimiter(0, newTestLogger())

	start := time.Now()
	for i := 0; i < 100; i++ {
		rl.Acquire()
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("100 zero-delay acquires took %v, expected near-instant", elapsed)
	}
}
