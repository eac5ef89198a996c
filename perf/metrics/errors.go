package metrics

import (
	"errors"
	"fmt"
)

var (
	// ErrNoLimits is returned when a percentile counter is built without limits.
	ErrNoLimits = errors.New("at least one limit is required")

	// ErrInvalidLimit is returned for negative, duplicate or overflowing limits.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrInvalidIntervals is returned when the ring size is not positive.
	ErrInvalidIntervals = errors.New("number of intervals must be positive")

	// ErrInvalidInterval is returned when an interval is shorter than a millisecond.
	ErrInvalidInterval = errors.New("interval must be at least one millisecond")

	// ErrInvalidGranularity is returned when the granularity does not divide an hour.
	ErrInvalidGranularity = errors.New("granularity must evenly divide 60 minutes")

	// ErrInvalidHours is returned when the hourly window is not positive.
	ErrInvalidHours = errors.New("hours must be positive")

	// ErrInvalidConsistency is returned for an unknown consistency name.
	ErrInvalidConsistency = errors.New("unknown consistency level")

	// ErrPercentileRange is returned for a percentile outside [0, 100].
	ErrPercentileRange = errors.New("percentile must be between 0 and 100")

	// ErrOffsetOutOfWindow is returned when a bucket lookup falls outside the
	// retained window.
	ErrOffsetOutOfWindow = errors.New("offset outside retained window")

	// ErrDurationOverflow is returned when a sample duration cannot be represented.
	ErrDurationOverflow = errors.New("duration overflows representable range")

	// ErrReadOnly is returned by every mutating call on a read-only view.
	ErrReadOnly = errors.New("counter is read-only")

	// ErrInvalidState is returned when an HourlyState cannot be restored.
	ErrInvalidState = errors.New("invalid hourly counter state")
)

func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
