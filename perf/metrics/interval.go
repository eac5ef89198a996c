package metrics

import (
	"iter"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// IntervalPercentileCounter keeps one PercentileCounter per wall-clock
// interval in a fixed ring.
//
// The active slot is derived from the clock on every increment. When the
// interval changes, the writer rotates the ring under a mutex, replacing every
// slot it skipped (and the new active slot) with a fresh counter so that data
// from inactive intervals never reappears when the ring wraps.
//
// Reads (ToList, All, EstimatePercentile, ToCountersList) use the slot of the
// last write and never rotate. After a quiet period they keep reporting the
// last active interval until the next increment.
type IntervalPercentileCounter struct {
	// slots are replaced wholesale on rotation; readers load them atomically
	slots  []atomic.Pointer[PercentileCounter]
	limits []int64

	intervalMillis int64
	startInterval  int64

	lastInterval atomic.Int64 // relative to startInterval
	lastIndex    atomic.Int64
	total        atomic.Int64

	clock clock.Clock
	opts  options
	mu    sync.Mutex // guards rotation, and every call when strict
}

var _ IntervalCounter = (*IntervalPercentileCounter)(nil)

// NewIntervalPercentileCounter creates a ring of intervals counters, each
// covering one interval of wall-clock time.
//
// Parameters:
//   - interval: Length of one interval (e.g. time.Hour), at least 1ms
//   - intervals: Number of intervals to retain (ring size), at least 1
//   - unit: Time unit of the limits
//   - limits: Limits forwarded to every slot's PercentileCounter
//   - opts: WithClock, WithConsistency
//
// For a 12-hour window with hourly resolution, use interval=time.Hour and
// intervals=12.
func NewIntervalPercentileCounter(
	interval time.Duration,
	intervals int,
	unit time.Duration,
	limits []int64,
	opts ...Option,
) (*IntervalPercentileCounter, error) {
	if intervals < 1 {
		return nil, errorf(ErrInvalidIntervals, "got %d", intervals)
	}
	if interval < time.Millisecond {
		return nil, errorf(ErrInvalidInterval, "got %v", interval)
	}
	millis, err := normalizeLimits(unit, limits)
	if err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	ic := &IntervalPercentileCounter{
		slots:          make([]atomic.Pointer[PercentileCounter], intervals),
		limits:         millis,
		intervalMillis: interval.Milliseconds(),
		clock:          o.clock,
		opts:           o,
	}
	ic.startInterval = o.clock.Now().UnixMilli() / ic.intervalMillis
	for i := range ic.slots {
		ic.slots[i].Store(newPercentileCounter(millis, o))
	}
	return ic, nil
}

// currentInterval returns the number of whole intervals elapsed since
// construction.
func (ic *IntervalPercentileCounter) currentInterval() int64 {
	return ic.clock.Now().UnixMilli()/ic.intervalMillis - ic.startInterval
}

func (ic *IntervalPercentileCounter) slotOf(interval int64) int64 {
	n := int64(len(ic.slots))
	return (interval%n + n) % n
}

// rotate advances the ring to the current interval and returns its counter.
//
// The interval is checked without the lock first so the common case (no
// boundary crossed) costs two atomic loads. Under the lock it is checked
// again because a racing writer may already have rotated.
func (ic *IntervalPercentileCounter) rotate() *PercentileCounter {
	current := ic.currentInterval()
	if current <= ic.lastInterval.Load() {
		return ic.slots[ic.lastIndex.Load()].Load()
	}

	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.rotateLocked(current)
	return ic.slots[ic.lastIndex.Load()].Load()
}

// rotateLocked replaces every slot after the last active one up to and
// including the slot of current. At most one full turn of the ring is
// replaced. Clock regressions never move the ring backwards.
func (ic *IntervalPercentileCounter) rotateLocked(current int64) {
	last := ic.lastInterval.Load()
	if current <= last {
		return
	}

	steps := min(current-last, int64(len(ic.slots)))
	for interval := current - steps + 1; interval <= current; interval++ {
		ic.slots[ic.slotOf(interval)].Store(newPercentileCounter(ic.limits, ic.opts))
	}
	ic.lastIndex.Store(ic.slotOf(current))
	ic.lastInterval.Store(current)
}

// Increment records a sample of millis milliseconds in the current interval.
func (ic *IntervalPercentileCounter) Increment(millis int64) error {
	var slot *PercentileCounter
	if ic.opts.consistency == Strict {
		ic.mu.Lock()
		defer ic.mu.Unlock()
		ic.rotateLocked(ic.currentInterval())
		slot = ic.slots[ic.lastIndex.Load()].Load()
	} else {
		slot = ic.rotate()
	}

	if err := slot.Increment(millis); err != nil {
		return err
	}
	ic.total.Add(1)
	return nil
}

// IncrementSince records the time elapsed between start and now in the
// current interval.
func (ic *IntervalPercentileCounter) IncrementSince(start time.Time) error {
	millis, err := elapsedMillis(ic.clock, start)
	if err != nil {
		return err
	}
	return ic.Increment(millis)
}

// current returns the counter of the last active interval without rotating.
func (ic *IntervalPercentileCounter) current() *PercentileCounter {
	if ic.opts.consistency == Strict {
		ic.mu.Lock()
		defer ic.mu.Unlock()
	}
	return ic.slots[ic.lastIndex.Load()].Load()
}

// EstimatePercentile estimates p over the last active interval.
func (ic *IntervalPercentileCounter) EstimatePercentile(p float64) (int64, error) {
	return ic.current().EstimatePercentile(p)
}

// All iterates the cumulative buckets of the last active interval.
func (ic *IntervalPercentileCounter) All() iter.Seq[CumulativeBucket] {
	return ic.current().All()
}

// ToList returns the cumulative buckets of the last active interval.
func (ic *IntervalPercentileCounter) ToList() []CumulativeBucket {
	return ic.current().ToList()
}

// Current returns a read-only view of the last active interval.
func (ic *IntervalPercentileCounter) Current() Counter {
	return ReadOnly(ic.current())
}

// ToCountersList returns read-only views of all intervals ordered from the
// oldest to the last active one. Each view wraps the slot as it is now; a
// later rotation does not change what an existing view reports.
func (ic *IntervalPercentileCounter) ToCountersList() []Counter {
	if ic.opts.consistency == Strict {
		ic.mu.Lock()
		defer ic.mu.Unlock()
	}

	n := int64(len(ic.slots))
	last := ic.lastIndex.Load()
	views := make([]Counter, 0, n)
	for i := int64(1); i <= n; i++ {
		views = append(views, ReadOnly(ic.slots[(last+i)%n].Load()))
	}
	return views
}

// Limits returns a copy of the limits in milliseconds.
func (ic *IntervalPercentileCounter) Limits() []int64 {
	return slices.Clone(ic.limits)
}

// Total returns the number of samples recorded over the counter's lifetime.
// Rotation and Clear do not reset it.
func (ic *IntervalPercentileCounter) Total() int64 {
	return ic.total.Load()
}

// Intervals returns the ring size.
func (ic *IntervalPercentileCounter) Intervals() int {
	return len(ic.slots)
}

// Interval returns the length of one interval.
func (ic *IntervalPercentileCounter) Interval() time.Duration {
	return time.Duration(ic.intervalMillis) * time.Millisecond
}

// ActiveInterval returns the start of the last active interval, the one
// reads report on.
func (ic *IntervalPercentileCounter) ActiveInterval() time.Time {
	interval := ic.startInterval + ic.lastInterval.Load()
	return time.UnixMilli(interval * ic.intervalMillis)
}

// Clear replaces every slot with an empty counter. The active slot and the
// lifetime total are kept.
func (ic *IntervalPercentileCounter) Clear() error {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	for i := range ic.slots {
		ic.slots[i].Store(newPercentileCounter(ic.limits, ic.opts))
	}
	return nil
}
