package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
)

// HourlyCounter counts events in a fixed ring of time buckets.
//
// The window spans Hours hours split into buckets of Granularity minutes.
// Each call first catches the ring up with the clock: every bucket that
// falls out of the window is folded into the Max/Min watermarks and zeroed.
// The watermarks therefore only cover retired buckets, never the one still
// accumulating.
type HourlyCounter struct {
	hours        int
	granularity  int
	bucketMillis int64

	buckets []atomic.Int64

	// guarded by mu
	currentIndex int64
	max          int64
	min          int64

	clock  clock.Clock
	strict bool
	mu     sync.Mutex
}

// NewHourlyCounter creates a counter covering hours hours in buckets of
// granularity minutes. The granularity must evenly divide 60.
//
// For 24 hours at 5-minute resolution, use NewHourlyCounter(24, 5), which
// keeps 288 buckets.
func NewHourlyCounter(hours, granularity int, opts ...Option) (*HourlyCounter, error) {
	if hours < 1 {
		return nil, errorf(ErrInvalidHours, "got %d", hours)
	}
	if granularity < 1 || granularity > 60 || 60%granularity != 0 {
		return nil, errorf(ErrInvalidGranularity, "got %d", granularity)
	}

	o := buildOptions(opts)
	hc := newHourlyCounter(hours, granularity, o)
	hc.currentIndex = hc.absoluteIndex()
	return hc, nil
}

func newHourlyCounter(hours, granularity int, o options) *HourlyCounter {
	return &HourlyCounter{
		hours:        hours,
		granularity:  granularity,
		bucketMillis: int64(granularity) * 60 * 1000,
		buckets:      make([]atomic.Int64, hours*60/granularity),
		clock:        o.clock,
		strict:       o.consistency == Strict,
	}
}

// absoluteIndex returns the bucket index of the current time since the epoch.
func (hc *HourlyCounter) absoluteIndex() int64 {
	return hc.clock.Now().UnixMilli() / hc.bucketMillis
}

// physical maps a logical offset from the current bucket to a ring position.
func (hc *HourlyCounter) physical(offset int64) int {
	n := int64(len(hc.buckets))
	return int(((hc.currentIndex+offset)%n + n) % n)
}

// checkTime retires every bucket the clock has moved past. The caller must
// hold mu.
func (hc *HourlyCounter) checkTime() {
	target := hc.absoluteIndex()
	if target <= hc.currentIndex {
		return
	}

	// Beyond one full turn every bucket has already been zeroed, so the
	// remaining steps would each retire a zero.
	steps := target - hc.currentIndex
	n := int64(len(hc.buckets))
	for i := int64(0); i < min(steps, n); i++ {
		hc.currentIndex++
		hc.retire(hc.buckets[hc.physical(0)].Swap(0))
	}
	if steps > n {
		hc.retire(0)
		hc.currentIndex = target
	}
}

// retire folds a bucket's final value into the watermarks. Min starts unset
// at zero and is seeded by the first retired bucket.
func (hc *HourlyCounter) retire(value int64) {
	if value > hc.max {
		hc.max = value
	}
	if hc.min == 0 || value < hc.min {
		hc.min = value
	}
}

// Increment adds one to the current bucket.
func (hc *HourlyCounter) Increment() {
	hc.IncrementBy(1)
}

// IncrementBy adds count to the current bucket. Counts below 1 are ignored.
//
// With BestEffort consistency the add happens after the catch-up has
// released the lock; an add racing a bucket boundary may land in the bucket
// that was just retired.
func (hc *HourlyCounter) IncrementBy(count int64) {
	if count < 1 {
		return
	}

	hc.mu.Lock()
	hc.checkTime()
	bucket := &hc.buckets[hc.physical(0)]
	if hc.strict {
		bucket.Add(count)
		hc.mu.Unlock()
		return
	}
	hc.mu.Unlock()

	bucket.Add(count)
}

// Count returns the value of the current bucket after catching up with the
// clock.
func (hc *HourlyCounter) Count() int64 {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.checkTime()
	return hc.buckets[hc.physical(0)].Load()
}

// CountAt returns the bucket offset buckets before the current one, where 0
// is the current bucket and -(Len()-1) the oldest retained one. Offsets
// outside that range fail with ErrOffsetOutOfWindow.
//
// CountAt does not catch up with the clock; call Count or Data first to
// observe buckets retired by the passage of time.
func (hc *HourlyCounter) CountAt(offset int) (int64, error) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return hc.countAtLocked(int64(offset))
}

func (hc *HourlyCounter) countAtLocked(offset int64) (int64, error) {
	n := int64(len(hc.buckets))
	if offset > 0 || offset <= -n {
		return 0, errorf(ErrOffsetOutOfWindow, "offset %d, window is %d buckets", offset, n)
	}
	return hc.buckets[hc.physical(offset)].Load(), nil
}

// Data returns the whole window ordered from the oldest bucket to the
// current one, after catching up with the clock.
func (hc *HourlyCounter) Data() []int64 {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.checkTime()
	n := int64(len(hc.buckets))
	data := make([]int64, n)
	for i := int64(0); i < n; i++ {
		// offsets are always inside the window here
		data[i], _ = hc.countAtLocked(i - n + 1)
	}
	return data
}

// Max returns the largest value of any retired bucket.
func (hc *HourlyCounter) Max() int64 {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.checkTime()
	return hc.max
}

// Min returns the smallest value of any retired bucket, or 0 when no bucket
// has been retired yet.
func (hc *HourlyCounter) Min() int64 {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.checkTime()
	return hc.min
}

// CurrentIndex returns the absolute index of the current bucket
// (milliseconds since the epoch divided by the bucket length).
func (hc *HourlyCounter) CurrentIndex() int64 {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return hc.currentIndex
}

// Hours returns the window length in hours.
func (hc *HourlyCounter) Hours() int {
	return hc.hours
}

// Granularity returns the bucket length in minutes.
func (hc *HourlyCounter) Granularity() int {
	return hc.granularity
}

// Len returns the number of buckets in the window.
func (hc *HourlyCounter) Len() int {
	return len(hc.buckets)
}
