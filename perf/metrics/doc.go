// Package metrics provides low-overhead, time-windowed latency and event
// counters.
//
// Samples are classified into fixed millisecond limit buckets rather than
// stored, so memory is bounded by the number of limits and intervals and
// every operation runs in time proportional to those small fixed sizes.
//
// # Key Features
//
//   - PercentileCounter: bucketed latency distribution with percentile estimation
//   - IntervalPercentileCounter: a ring of percentile counters, one per interval
//   - HourlyCounter: a ring of plain counts with retired-bucket watermarks
//   - Injectable clock for deterministic tests (github.com/benbjohnson/clock)
//   - Configurable consistency: lock-free best effort or strict
//
// # Basic Usage
//
//	counter, err := metrics.NewPercentileCounter(time.Millisecond, []int64{10, 100, 1000})
//	if err != nil {
//	    return err
//	}
//
//	start := time.Now()
//	// ... handle request ...
//	_ = counter.IncrementSince(start)
//
//	p95, _ := counter.EstimatePercentile(95)
//	for bucket := range counter.All() {
//	    fmt.Println(bucket) // "2 (40.0%) <= 10 ms"
//	}
//
// # Intervals
//
// An IntervalPercentileCounter keeps the distribution of each of the last N
// intervals. Rotation happens only when a sample is recorded; reads never
// rotate, so reporting code cannot race writers over the ring:
//
//	hourly, _ := metrics.NewIntervalPercentileCounter(time.Hour, 12, time.Millisecond, []int64{10, 100, 1000})
//	_ = hourly.Increment(42)
//	for _, c := range hourly.ToCountersList() { // oldest first, read-only
//	    p99, _ := c.EstimatePercentile(99)
//	    fmt.Println(p99)
//	}
//
// # Thread Safety
//
// All types are safe for concurrent use. With BestEffort consistency (the
// default) bucket counts are atomics and only ring rotation takes a lock;
// readers may observe a total that is briefly ahead of its buckets. With
// Strict consistency every mutation and snapshot of an instance is
// serialized.
package metrics
