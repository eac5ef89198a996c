package metrics

import (
	"github.com/benbjohnson/clock"
)

// Consistency selects how a counter synchronizes its increment path.
type Consistency int

const (
	// BestEffort keeps increments lock-free. Per-bucket counts are atomic, so
	// no increment is ever lost, but a concurrent reader may see a sample in
	// the total before it shows up in its bucket.
	BestEffort Consistency = iota

	// Strict serializes every mutation and snapshot of an instance under its
	// mutex, so snapshots are linearizable with respect to increments.
	Strict
)

// String returns the configuration name of the consistency level.
func (c Consistency) String() string {
	switch c {
	case BestEffort:
		return "best-effort"
	case Strict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseConsistency parses a consistency name as produced by String.
// An empty name selects BestEffort.
func ParseConsistency(name string) (Consistency, error) {
	switch name {
	case "", "best-effort":
		return BestEffort, nil
	case "strict":
		return Strict, nil
	default:
		return BestEffort, errorf(ErrInvalidConsistency, "%q", name)
	}
}

// Option configures a counter.
type Option func(*options)

type options struct {
	clock       clock.Clock
	consistency Consistency
}

// WithClock overrides the wall-clock time source. Tests pass a
// *clock.Mock to advance time deterministically.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithConsistency selects the consistency level (default BestEffort).
func WithConsistency(c Consistency) Option {
	return func(o *options) {
		o.consistency = c
	}
}

func buildOptions(opts []Option) options {
	o := options{
		clock:       clock.New(),
		consistency: BestEffort,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
