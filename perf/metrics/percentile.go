package metrics

import (
	"iter"
	"math"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// PercentileCounter accumulates latency samples into a fixed, sorted set of
// limit buckets.
//
// Key features:
// - Binary search over the limits on every increment
// - Lock-free atomic bucket counters (BestEffort) or mutex-serialized
// updates (Strict)
// - Snapshot-based iteration that never observes later increments
//
// The zero value is not usable; create counters with NewPercentileCounter.
type PercentileCounter struct {
	limits []int64 // milliseconds, strictly ascending
	counts []atomic.Int64
	total  atomic.Int64

	clock  clock.Clock
	strict bool
	mu     sync.Mutex // held by every mutation and snapshot when strict
}

var _ Counter = (*PercentileCounter)(nil)

// NewPercentileCounter creates a counter with the given limits expressed in
// unit. Limits may be passed in any order; they are converted to
// milliseconds once and sorted.
//
// Parameters:
//   - unit: Time unit of the limits (e.g. time.Millisecond, time.Second)
//   - limits: One or more non-negative, distinct upper bounds
//   - opts: WithClock, WithConsistency
func NewPercentileCounter(unit time.Duration, limits []int64, opts ...Option) (*PercentileCounter, error) {
	millis, err := normalizeLimits(unit, limits)
	if err != nil {
		return nil, err
	}
	return newPercentileCounter(millis, buildOptions(opts)), nil
}

// newPercentileCounter builds a counter over already normalized limits. The
// limit slice is shared, never written.
func newPercentileCounter(millis []int64, o options) *PercentileCounter {
	return &PercentileCounter{
		limits: millis,
		counts: make([]atomic.Int64, len(millis)),
		clock:  o.clock,
		strict: o.consistency == Strict,
	}
}

// normalizeLimits converts limits to sorted, distinct milliseconds.
func normalizeLimits(unit time.Duration, limits []int64) ([]int64, error) {
	if len(limits) == 0 {
		return nil, ErrNoLimits
	}
	if unit <= 0 {
		return nil, errorf(ErrInvalidLimit, "unit %v is not positive", unit)
	}

	millis := make([]int64, len(limits))
	for i, limit := range limits {
		if limit < 0 {
			return nil, errorf(ErrInvalidLimit, "negative limit %d", limit)
		}
		if limit > math.MaxInt64/int64(unit) {
			return nil, errorf(ErrInvalidLimit, "limit %d %v overflows", limit, unit)
		}
		millis[i] = limit * int64(unit) / int64(time.Millisecond)
	}

	slices.Sort(millis)
	for i := 1; i < len(millis); i++ {
		if millis[i] == millis[i-1] {
			return nil, errorf(ErrInvalidLimit, "duplicate limit %d ms", millis[i])
		}
	}
	return millis, nil
}

// Increment records a sample of millis milliseconds.
//
// The sample lands in the bucket of the smallest limit >= millis. The total
// is incremented even when the sample exceeds every limit.
func (pc *PercentileCounter) Increment(millis int64) error {
	idx := sort.Search(len(pc.limits), func(i int) bool {
		return pc.limits[i] >= millis
	})

	if pc.strict {
		pc.mu.Lock()
		defer pc.mu.Unlock()
	}

	// The total is bumped before the bucket so that a snapshot reading the
	// buckets first and the total last always sees sum(counts) <= total.
	pc.total.Add(1)
	if idx < len(pc.limits) {
		pc.counts[idx].Add(1)
	}
	return nil
}

// IncrementSince records the time elapsed between start and now.
func (pc *PercentileCounter) IncrementSince(start time.Time) error {
	millis, err := elapsedMillis(pc.clock, start)
	if err != nil {
		return err
	}
	return pc.Increment(millis)
}

// elapsedMillis returns clk.Since(start) in milliseconds. time.Time.Sub
// saturates instead of overflowing, so a saturated result is the only sign
// of an unrepresentable duration.
func elapsedMillis(clk clock.Clock, start time.Time) (int64, error) {
	d := clk.Since(start)
	if d == time.Duration(math.MaxInt64) || d == time.Duration(math.MinInt64) {
		return 0, errorf(ErrDurationOverflow, "since %s", start.Format(time.RFC3339Nano))
	}
	return d.Milliseconds(), nil
}

// snapshot copies the bucket counts and the total.
func (pc *PercentileCounter) snapshot() ([]int64, int64) {
	if pc.strict {
		pc.mu.Lock()
		defer pc.mu.Unlock()
	}

	counts := make([]int64, len(pc.counts))
	for i := range pc.counts {
		counts[i] = pc.counts[i].Load()
	}
	return counts, pc.total.Load()
}

// EstimatePercentile returns the first limit whose cumulative percentage
// reaches p. It returns Unbounded when p lies beyond every limit or when no
// samples have been recorded.
func (pc *PercentileCounter) EstimatePercentile(p float64) (int64, error) {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return 0, errorf(ErrPercentileRange, "got %v", p)
	}

	counts, total := pc.snapshot()
	return estimate(pc.limits, counts, total, p), nil
}

func estimate(limits, counts []int64, total int64, p float64) int64 {
	if total == 0 {
		return Unbounded
	}

	var cumulative int64
	for i, limit := range limits {
		cumulative += counts[i]
		percent := 100 * float64(cumulative) / float64(total)
		if percent >= p-percentileEpsilon {
			return limit
		}
	}
	return Unbounded
}

// All returns a sequence of cumulative buckets over a snapshot taken now.
// The sequence can be ranged over any number of times and always yields the
// same rows.
func (pc *PercentileCounter) All() iter.Seq[CumulativeBucket] {
	counts, total := pc.snapshot()
	return cumulativeSeq(pc.limits, counts, total)
}

func cumulativeSeq(limits, counts []int64, total int64) iter.Seq[CumulativeBucket] {
	return func(yield func(CumulativeBucket) bool) {
		var sum int64
		for i, limit := range limits {
			sum += counts[i]
			if !yield(CumulativeBucket{Sum: sum, Total: total, Limit: limit}) {
				return
			}
		}
	}
}

// ToList returns the cumulative buckets in ascending limit order.
func (pc *PercentileCounter) ToList() []CumulativeBucket {
	return slices.Collect(pc.All())
}

// Limits returns a copy of the limits in milliseconds.
func (pc *PercentileCounter) Limits() []int64 {
	return slices.Clone(pc.limits)
}

// Total returns the number of samples recorded since creation or the last Clear.
func (pc *PercentileCounter) Total() int64 {
	return pc.total.Load()
}

// Clear resets all counts and the total in place. Readers holding this
// counter observe the reset.
func (pc *PercentileCounter) Clear() error {
	if pc.strict {
		pc.mu.Lock()
		defer pc.mu.Unlock()
	}

	for i := range pc.counts {
		pc.counts[i].Store(0)
	}
	pc.total.Store(0)
	return nil
}
