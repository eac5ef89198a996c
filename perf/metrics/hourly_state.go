package metrics

// HourlyState is a flat, serializable copy of an HourlyCounter.
//
// Buckets holds the raw ring in physical order; CurrentIndex locates the
// current bucket within it. RestoreHourlyCounter rebuilds a counter with an
// identical internal state.
type HourlyState struct {
	// Buckets is the raw ring, len == Hours*60/Granularity
	Buckets []int64 `json:"buckets" yaml:"buckets"`

	// CurrentIndex is the absolute index of the current bucket
	CurrentIndex int64 `json:"currentIndex" yaml:"currentIndex"`

	// Granularity is the bucket length in minutes
	Granularity int `json:"granularity" yaml:"granularity"`

	// Hours is the window length
	Hours int `json:"hours" yaml:"hours"`

	// Max and Min are the watermarks over retired buckets
	Max int64 `json:"max" yaml:"max"`
	Min int64 `json:"min" yaml:"min"`
}

// Validate reports whether the state describes a valid counter.
func (s *HourlyState) Validate() error {
	if s.Hours < 1 {
		return errorf(ErrInvalidState, "hours %d is not positive", s.Hours)
	}
	if s.Granularity < 1 || s.Granularity > 60 || 60%s.Granularity != 0 {
		return errorf(ErrInvalidState, "granularity %d does not divide 60", s.Granularity)
	}
	if want := s.Hours * 60 / s.Granularity; len(s.Buckets) != want {
		return errorf(ErrInvalidState, "%d buckets, want %d", len(s.Buckets), want)
	}
	if s.CurrentIndex < 0 {
		return errorf(ErrInvalidState, "negative current index %d", s.CurrentIndex)
	}
	for i, v := range s.Buckets {
		if v < 0 {
			return errorf(ErrInvalidState, "bucket %d is negative", i)
		}
	}
	if s.Max < 0 || s.Min < 0 {
		return errorf(ErrInvalidState, "negative watermark")
	}
	return nil
}

// Snapshot returns the counter's raw state. It does not catch up with the
// clock, so a restored counter retires the same buckets the original would.
func (hc *HourlyCounter) Snapshot() HourlyState {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	buckets := make([]int64, len(hc.buckets))
	for i := range hc.buckets {
		buckets[i] = hc.buckets[i].Load()
	}
	return HourlyState{
		Buckets:      buckets,
		CurrentIndex: hc.currentIndex,
		Granularity:  hc.granularity,
		Hours:        hc.hours,
		Max:          hc.max,
		Min:          hc.min,
	}
}

// RestoreHourlyCounter rebuilds a counter from a snapshot.
func RestoreHourlyCounter(state HourlyState, opts ...Option) (*HourlyCounter, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	hc := newHourlyCounter(state.Hours, state.Granularity, buildOptions(opts))
	for i, v := range state.Buckets {
		hc.buckets[i].Store(v)
	}
	hc.currentIndex = state.CurrentIndex
	hc.max = state.Max
	hc.min = state.Min
	return hc, nil
}
