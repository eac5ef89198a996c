package simulate

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// simClock is a manually advanced clock.Clock. Unlike clock.Mock it does not
// yield to the scheduler on every advance, which matters when a run moves
// the clock once per sample. Only Now, Since and Until follow simulated
// time; timers and tickers come from the embedded wall clock and are unused.
type simClock struct {
	clock.Clock

	mu  sync.RWMutex
	now time.Time
}

func newSimClock(start time.Time) *simClock {
	return &simClock{Clock: clock.New(), now: start}
}

func (c *simClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *simClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

func (c *simClock) Until(t time.Time) time.Duration {
	return t.Sub(c.Now())
}

// Add advances the clock by d.
func (c *simClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
