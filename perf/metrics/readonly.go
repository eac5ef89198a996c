package metrics

import (
	"iter"
	"time"
)

// readOnlyCounter forwards reads to the wrapped counter and rejects every
// mutation with ErrReadOnly.
type readOnlyCounter struct {
	c Counter
}

// ReadOnly returns a view of c that forwards reads and fails every mutating
// call with ErrReadOnly. Wrapping a view again returns the same view.
func ReadOnly(c Counter) Counter {
	if ro, ok := c.(readOnlyCounter); ok {
		return ro
	}
	return readOnlyCounter{c: c}
}

func (r readOnlyCounter) Increment(int64) error {
	return ErrReadOnly
}

func (r readOnlyCounter) IncrementSince(time.Time) error {
	return ErrReadOnly
}

func (r readOnlyCounter) Clear() error {
	return ErrReadOnly
}

func (r readOnlyCounter) EstimatePercentile(p float64) (int64, error) {
	return r.c.EstimatePercentile(p)
}

func (r readOnlyCounter) ToList() []CumulativeBucket {
	return r.c.ToList()
}

func (r readOnlyCounter) All() iter.Seq[CumulativeBucket] {
	return r.c.All()
}

func (r readOnlyCounter) Limits() []int64 {
	return r.c.Limits()
}

func (r readOnlyCounter) Total() int64 {
	return r.c.Total()
}
