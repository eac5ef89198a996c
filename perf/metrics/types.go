package metrics

import (
	"fmt"
	"iter"
	"math"
	"time"
)

// Unbounded is returned by EstimatePercentile when the requested percentile
// lies beyond the largest limit.
const Unbounded int64 = math.MaxInt64

// percentileEpsilon absorbs floating point error when comparing a bucket's
// cumulative percentage against the requested percentile.
const percentileEpsilon = 0.0001

// Counter classifies latency samples into limit buckets.
//
// Limits are inclusive upper bounds in milliseconds: a sample equal to a
// limit lands in that limit's bucket. Samples above every limit only count
// towards the total.
type Counter interface {
	// Increment records a sample of the given duration in milliseconds.
	Increment(millis int64) error

	// IncrementSince records the time elapsed since start.
	IncrementSince(start time.Time) error

	// EstimatePercentile returns the smallest limit covering at least p
	// percent of the samples, or Unbounded.
	EstimatePercentile(p float64) (int64, error)

	// ToList returns the cumulative buckets in ascending limit order.
	ToList() []CumulativeBucket

	// All returns a restartable sequence over a snapshot taken at call time.
	All() iter.Seq[CumulativeBucket]

	// Limits returns a copy of the limits in milliseconds.
	Limits() []int64

	// Total returns the number of recorded samples.
	Total() int64

	// Clear resets every count and the total, keeping the limits.
	Clear() error
}

// IntervalCounter is a Counter that rotates through a ring of per-interval
// counters as wall-clock time passes.
type IntervalCounter interface {
	Counter

	// ToCountersList returns read-only views of every interval, oldest first.
	ToCountersList() []Counter
}

// CumulativeBucket is one row of a percentile distribution: Sum samples out
// of Total were at most Limit milliseconds.
type CumulativeBucket struct {
	Sum   int64 `json:"sum"`
	Total int64 `json:"total"`
	Limit int64 `json:"limit"`
}

// Percentage returns Sum as a percentage of Total, or 0 for an empty counter.
func (b CumulativeBucket) Percentage() float64 {
	if b.Total == 0 {
		return 0
	}
	return 100 * float64(b.Sum) / float64(b.Total)
}

// String renders the bucket as "<sum> (<percentage>%) <= <limit> ms".
func (b CumulativeBucket) String() string {
	return fmt.Sprintf("%d (%.1f%%) <= %d ms", b.Sum, b.Percentage(), b.Limit)
}
